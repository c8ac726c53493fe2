package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Answer is one graded response inside a submitted attempt. Rows are written
// once during submission and never mutated afterwards.
type Answer struct {
	ID              string         `json:"id" gorm:"primaryKey;size:36"`
	AttemptID       string         `json:"attempt_id" gorm:"not null;size:36;uniqueIndex:idx_answer_attempt_question"`
	QuestionID      string         `json:"question_id" gorm:"not null;size:36;uniqueIndex:idx_answer_attempt_question"`
	SelectedOptions datatypes.JSON `json:"selected_options"` // []string of option ids
	TextAnswer      string         `json:"text_answer"`
	IsCorrect       bool           `json:"is_correct" gorm:"not null;default:false"`
	Score           float64        `json:"score" gorm:"not null;default:0"`
	// Recorded for DESCRIPTIVE answers even when the score is zero, for review.
	KeywordMatchPercentage *float64  `json:"keyword_match_percentage,omitempty"`
	CreatedAt              time.Time `json:"created_at"`

	// Relationships
	Question Question `json:"question,omitempty"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (a *Answer) SelectedOptionIDs() []string {
	if len(a.SelectedOptions) == 0 {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(a.SelectedOptions, &ids); err != nil {
		return nil
	}
	return ids
}
