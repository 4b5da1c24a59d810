package model

type Analysis struct {
	// Opaque random ID so the serve endpoint can't be enumerated
	ID     string `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"index;not null" json:"-"`

	// Raw uploaded bytes. Kept in the row so a record and its image
	// can never drift apart
	ImageData []byte `gorm:"not null" json:"-"`

	// Composed by the describe package, never empty once stored
	Description string `json:"description"`

	// Sniffed media type, used as the Content-Type when serving
	ContentType string `json:"content_type"`

	// Unix seconds. gorm fills it on insert when left zero, listings
	// order by rowid since seconds can tie
	CreatedAt int64 `gorm:"not null" json:"created_at"`
}
