package models

import (
	"time"

	"gorm.io/gorm"
)

// Subject is the exam-side counterpart of a Course: score sheets and CO
// mappings hang off its code for accreditation reporting.
type Subject struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Code      string         `json:"code" gorm:"uniqueIndex;not null"`
	Name      string         `json:"name" gorm:"not null"`
	TeacherID uint           `json:"teacher_id" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Teacher Teacher `json:"teacher,omitempty"`
	Sheets  []Sheet `json:"sheets,omitempty" gorm:"foreignKey:SubjectCode;references:Code"`
}
