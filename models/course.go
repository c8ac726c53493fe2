package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	CourseCode  string         `json:"course_code" gorm:"uniqueIndex;not null"`
	Description string         `json:"description"`
	TeacherID   uint           `json:"teacher_id" gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Teacher     Teacher      `json:"teacher,omitempty"`
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:CourseID"`
	Quizzes     []Quiz       `json:"quizzes,omitempty" gorm:"foreignKey:CourseID"`
}
