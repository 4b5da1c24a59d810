// Package store wraps all database access behind a small repository
// interface so handlers can be tested against fakes
package store

import (
	"context"
	"errors"

	"imagelens/image-api/model"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrUnavailable   = errors.New("store unavailable")
)

// Users is the capability set needed by registration, login and the
// session guard
type Users interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
	Insert(ctx context.Context, user *model.User) error
}

// Analyses is the capability set needed by the upload workflow and
// the retrieval endpoints
type Analyses interface {
	InsertAnalysis(ctx context.Context, a *model.Analysis) error
	AnalysisByID(ctx context.Context, id string) (*model.Analysis, error)
	ListByOwner(ctx context.Context, userID uint) ([]model.Analysis, error)
}

type Store interface {
	Users
	Analyses
}
