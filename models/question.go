package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuestionSingleMCQ   = "SINGLE_MCQ"
	QuestionMultiMCQ    = "MULTI_MCQ"
	QuestionNumerical   = "NUMERICAL"
	QuestionDescriptive = "DESCRIPTIVE"
)

type Question struct {
	ID     string  `json:"id" gorm:"primaryKey;size:36"`
	QuizID string  `json:"quiz_id" gorm:"not null;size:36;index"`
	Type   string  `json:"type" gorm:"not null"`
	Text   string  `json:"text" gorm:"not null"`
	Marks  float64 `json:"marks" gorm:"not null"`
	Order  int     `json:"order" gorm:"not null;default:0"`

	// NUMERICAL questions
	CorrectAnswer *float64 `json:"correct_answer,omitempty"`
	Tolerance     *float64 `json:"tolerance,omitempty"`

	// DESCRIPTIVE questions
	Keywords  datatypes.JSON `json:"keywords,omitempty"` // []string
	Threshold *float64       `json:"threshold,omitempty"`

	ImageURL  *string        `json:"image_url,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Options []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

func ValidQuestionType(t string) bool {
	switch t {
	case QuestionSingleMCQ, QuestionMultiMCQ, QuestionNumerical, QuestionDescriptive:
		return true
	}
	return false
}

func IsMCQ(t string) bool {
	return t == QuestionSingleMCQ || t == QuestionMultiMCQ
}

// KeywordList decodes the stored keyword array. A missing or malformed column
// decodes to an empty list rather than an error.
func (q *Question) KeywordList() []string {
	if len(q.Keywords) == 0 {
		return nil
	}
	var keywords []string
	if err := json.Unmarshal(q.Keywords, &keywords); err != nil {
		return nil
	}
	return keywords
}

// CorrectOptionIDs returns the ids of the options flagged correct. Options must
// be preloaded.
func (q *Question) CorrectOptionIDs() []string {
	var ids []string
	for _, opt := range q.Options {
		if opt.IsCorrect {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}
