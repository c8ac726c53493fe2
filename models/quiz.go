package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Quiz struct {
	ID           string         `json:"id" gorm:"primaryKey;size:36"`
	Title        string         `json:"title" gorm:"not null"`
	Description  string         `json:"description"`
	TimeLimit    int            `json:"time_limit" gorm:"not null"` // minutes
	MaxMarks     *float64       `json:"max_marks"`
	ScheduledFor *time.Time     `json:"scheduled_for"`
	IsActive     bool           `json:"is_active" gorm:"not null;default:false"`
	CourseID     uint           `json:"course_id" gorm:"not null"`
	UserID       uint           `json:"user_id" gorm:"not null"` // creating teacher's user id
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Course    Course        `json:"course,omitempty"`
	Questions []Question    `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	Attempts  []QuizAttempt `json:"attempts,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// OpenAt reports whether the quiz accepts new attempts at the given time.
// A scheduled quiz is only open inside its [scheduledFor, scheduledFor+timeLimit)
// window; an unscheduled quiz is open whenever it is active.
func (q *Quiz) OpenAt(now time.Time) bool {
	if q.ScheduledFor != nil {
		end := q.ScheduledFor.Add(time.Duration(q.TimeLimit) * time.Minute)
		return !now.Before(*q.ScheduledFor) && now.Before(end)
	}
	return q.IsActive
}
