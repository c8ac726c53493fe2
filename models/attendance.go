package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	AttendancePresent = "P"
	AttendanceAbsent  = "A"
)

// AttendanceSession is one sitting of a course opened by its teacher. Only one
// session per course may be active at a time.
type AttendanceSession struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Code      string         `json:"code" gorm:"uniqueIndex;not null"`
	CourseID  uint           `json:"course_id" gorm:"not null;index"`
	TeacherID uint           `json:"teacher_id" gorm:"not null"`
	Date      time.Time      `json:"date" gorm:"not null"`
	Duration  int            `json:"duration" gorm:"not null"` // minutes
	IsActive  bool           `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Course  Course             `json:"course,omitempty"`
	Records []AttendanceRecord `json:"records,omitempty" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

type AttendanceRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID uint      `json:"session_id" gorm:"not null;uniqueIndex:idx_attendance_session_student"`
	StudentID uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_attendance_session_student"`
	Status    string    `json:"status" gorm:"not null;default:'P'"` // P, A
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Student Student `json:"student,omitempty"`
}
