package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"imagelens/image-api/middleware"
	"imagelens/image-api/model"
	"imagelens/image-api/security"
	"imagelens/image-api/session"
	"imagelens/image-api/store"
	"imagelens/image-api/vision"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

// fakeStore is an in-memory store.Store with per-method error
// injection
type fakeStore struct {
	mu       sync.Mutex
	nextID   uint
	users    map[uint]*model.User
	analyses map[string]*model.Analysis
	order    []string

	insertUserErr     error
	insertAnalysisErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[uint]*model.User{},
		analyses: map[string]*model.Analysis{},
	}
}

func (f *fakeStore) FindByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) FindByID(_ context.Context, id uint) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) Insert(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertUserErr != nil {
		return f.insertUserErr
	}
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return store.ErrAlreadyExists
		}
	}
	f.nextID++
	user.ID = f.nextID
	c := *user
	f.users[user.ID] = &c
	return nil
}

func (f *fakeStore) InsertAnalysis(_ context.Context, a *model.Analysis) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertAnalysisErr != nil {
		return f.insertAnalysisErr
	}
	c := *a
	f.analyses[a.ID] = &c
	f.order = append(f.order, a.ID)
	return nil
}

func (f *fakeStore) AnalysisByID(_ context.Context, id string) (*model.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.analyses[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) ListByOwner(_ context.Context, userID uint) ([]model.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Analysis
	for _, id := range f.order {
		if f.analyses[id].UserID == userID {
			c := *f.analyses[id]
			c.ImageData = nil
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) analysisCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.analyses)
}

type fakeAnnotator struct {
	ann   *vision.Annotation
	err   error
	calls int
}

func (f *fakeAnnotator) Annotate(context.Context, []byte) (*vision.Annotation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.ann, nil
}

func catAnnotation() *vision.Annotation {
	return &vision.Annotation{
		Labels: []string{"cat", "animal", "pet"},
	}
}

func newTestAPI(t *testing.T, st store.Store, annot vision.Annotator) *API {
	t.Helper()

	gin.SetMode(gin.TestMode)
	viper.Set("upload.max_size", int64(16<<20))
	viper.Set("upload.allowed_extensions", []string{"png", "jpg", "jpeg", "gif"})
	viper.Set("session.remember_days", 30)

	router := gin.New()
	router.Use(
		middleware.NewRequestIDMiddleware(),
		sessions.Sessions(session.CookieName, memstore.NewStore([]byte("test-secret"))),
	)

	a := &API{
		Store:  st,
		Router: router,
		Argon:  security.New(),
		Vision: annot,
	}
	a.registerRoutes()

	return a
}

// addUser creates a user directly in the store with a real password
// hash so the login flow works end to end
func addUser(t *testing.T, a *API, username, email, password string) *model.User {
	t.Helper()

	hash, err := a.Argon.GenerateFromPassword(password)
	require.NoError(t, err)

	user := &model.User{Username: username, Email: email, PasswordHash: hash}
	require.NoError(t, a.Store.Insert(context.Background(), user))
	return user
}

func loginAs(t *testing.T, a *API, username, password string) []*http.Cookie {
	t.Helper()

	body, _ := json.Marshal(map[string]any{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if filename != "" || content != nil {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func doRequest(a *API, req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}
