package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AttemptInProgress = "IN_PROGRESS"
	AttemptSubmitted  = "SUBMITTED"
)

type QuizAttempt struct {
	ID          string         `json:"id" gorm:"primaryKey;size:36"`
	QuizID      string         `json:"quiz_id" gorm:"not null;size:36;uniqueIndex:idx_attempt_quiz_user"`
	UserID      uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_attempt_quiz_user"`
	Status      string         `json:"status" gorm:"not null;default:'IN_PROGRESS'"` // IN_PROGRESS, SUBMITTED
	Score       *float64       `json:"score"`
	SubmittedAt *time.Time     `json:"submitted_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Quiz    Quiz     `json:"quiz,omitempty"`
	User    User     `json:"user,omitempty"`
	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE"`
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
