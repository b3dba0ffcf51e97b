package models

// Comic and Chapter are the minimal content entities the progression engine
// needs as reference targets. Full content management lives elsewhere.
type Comic struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	Title      string `gorm:"not null" json:"title"`
	Slug       string `gorm:"uniqueIndex;not null" json:"slug"`
	Author     string `json:"author"`
	CoverURL   string `gorm:"type:text" json:"cover_url"`
	UploaderID string `gorm:"index;not null" json:"uploader_id"`

	Timestamps
}

type Chapter struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	ComicID string `gorm:"index;not null" json:"comic_id"`
	Number  int    `gorm:"not null" json:"number"`
	Title   string `json:"title"`

	Timestamps
}

// Comment on a chapter. Creating one is a progression touchpoint.
type Comment struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string `gorm:"index;not null" json:"user_id"`
	ChapterID string `gorm:"index;not null" json:"chapter_id"`
	Content   string `gorm:"type:text;not null" json:"content"`

	Timestamps
}

// Rating holds the current star value per (user, comic). The value may change
// any number of times; points are only ever earned for the first rating of a
// comic, which the activity ledger enforces.
type Rating struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID  string `gorm:"uniqueIndex:idx_user_comic_rating;not null" json:"user_id"`
	ComicID string `gorm:"uniqueIndex:idx_user_comic_rating;not null" json:"comic_id"`
	Value   int    `gorm:"not null" json:"value"` // 1-5

	Timestamps
}
