package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	EnrollmentPending  = "PENDING"
	EnrollmentAccepted = "ACCEPTED"
	EnrollmentRejected = "REJECTED"
)

type Enrollment struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	StudentID uint           `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollment_student_course"`
	CourseID  uint           `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_student_course"`
	Status    string         `json:"status" gorm:"not null;default:'PENDING'"` // PENDING, ACCEPTED, REJECTED
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Student Student `json:"student,omitempty"`
	Course  Course  `json:"course,omitempty"`
}

func ValidEnrollmentStatus(status string) bool {
	switch status {
	case EnrollmentPending, EnrollmentAccepted, EnrollmentRejected:
		return true
	}
	return false
}
