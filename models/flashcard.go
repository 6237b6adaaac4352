package models

import (
	"time"
)

// DefaultCategory is stamped on cards generated without a category.
const DefaultCategory = "General"

// Flashcard is a question/answer pair held by a study session.
type Flashcard struct {
	// Token identifies the card within the session. It is assigned when the
	// card enters a collection and never changes.
	Token    string `json:"-"`
	ID       *int64 `json:"id,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
	Saved    bool   `json:"-"`
}

// HasID reports whether the backend has assigned an identifier.
func (f Flashcard) HasID() bool {
	return f.ID != nil
}

// IDValue returns the backend identifier, or 0 for unsaved cards.
func (f Flashcard) IDValue() int64 {
	if f.ID == nil {
		return 0
	}
	return *f.ID
}

// MarkSaved records a successful save. The id is only ever set here.
func (f *Flashcard) MarkSaved(id int64) {
	f.ID = &id
	f.Saved = true
}

// FlashcardRecord is the persisted row used by the reference backend
type FlashcardRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	Category  string    `gorm:"size:100;default:General;index" json:"category"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (FlashcardRecord) TableName() string {
	return "flashcards"
}
