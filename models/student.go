package models

import (
	"time"

	"gorm.io/gorm"
)

type Student struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	UserID           uint           `json:"user_id" gorm:"uniqueIndex;not null"`
	FirstName        string         `json:"first_name" gorm:"not null"`
	LastName         string         `json:"last_name" gorm:"not null"`
	EnrollmentNumber string         `json:"enrollment_number" gorm:"uniqueIndex;not null"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	User        User         `json:"user,omitempty"`
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:StudentID"`
}
