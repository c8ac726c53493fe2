package services

import (
	"errors"
	"fmt"

	"campuslms/models"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	db *gorm.DB
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{db: db}
}

type ApplyEnrollmentRequest struct {
	CourseID uint `json:"course_id" binding:"required"`
}

type UpdateEnrollmentRequest struct {
	Status string `json:"status" binding:"required"`
}

// Apply files a PENDING enrollment for the calling student. The (student,
// course) unique index rejects duplicate applications.
func (s *EnrollmentService) Apply(userID uint, req *ApplyEnrollmentRequest) (*models.Enrollment, error) {
	var student models.Student
	if err := s.db.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, fmt.Errorf("%w: student profile", ErrNotFound)
	}

	var course models.Course
	if err := s.db.First(&course, req.CourseID).Error; err != nil {
		return nil, fmt.Errorf("%w: course %d", ErrNotFound, req.CourseID)
	}

	enrollment := models.Enrollment{
		StudentID: student.ID,
		CourseID:  req.CourseID,
		Status:    models.EnrollmentPending,
	}
	if err := s.db.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: already enrolled or applied for this course", ErrInvalidState)
		}
		return nil, err
	}
	enrollment.Course = course
	return &enrollment, nil
}

// UpdateStatus lets the course's teacher accept or reject an application.
func (s *EnrollmentService) UpdateStatus(enrollmentID uint, userID uint, req *UpdateEnrollmentRequest) (*models.Enrollment, error) {
	if !models.ValidEnrollmentStatus(req.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, req.Status)
	}

	var teacher models.Teacher
	if err := s.db.Where("user_id = ?", userID).First(&teacher).Error; err != nil {
		return nil, fmt.Errorf("%w: teacher profile", ErrNotFound)
	}

	var enrollment models.Enrollment
	err := s.db.Preload("Course").Preload("Student").First(&enrollment, enrollmentID).Error
	if err != nil {
		return nil, fmt.Errorf("%w: enrollment %d", ErrNotFound, enrollmentID)
	}
	if enrollment.Course.TeacherID != teacher.ID {
		return nil, fmt.Errorf("%w: enrollment belongs to another teacher's course", ErrForbidden)
	}

	enrollment.Status = req.Status
	if err := s.db.Save(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// GetStudentEnrollments lists the calling student's applications.
func (s *EnrollmentService) GetStudentEnrollments(userID uint) ([]models.Enrollment, error) {
	var student models.Student
	if err := s.db.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, fmt.Errorf("%w: student profile", ErrNotFound)
	}
	var enrollments []models.Enrollment
	err := s.db.Where("student_id = ?", student.ID).Preload("Course").Find(&enrollments).Error
	return enrollments, err
}

// GetCourseEnrollments lists applications for a course the caller teaches.
func (s *EnrollmentService) GetCourseEnrollments(courseID uint, userID uint) ([]models.Enrollment, error) {
	var teacher models.Teacher
	if err := s.db.Where("user_id = ?", userID).First(&teacher).Error; err != nil {
		return nil, fmt.Errorf("%w: teacher profile", ErrNotFound)
	}
	var course models.Course
	if err := s.db.First(&course, courseID).Error; err != nil {
		return nil, fmt.Errorf("%w: course %d", ErrNotFound, courseID)
	}
	if course.TeacherID != teacher.ID {
		return nil, fmt.Errorf("%w: course %d belongs to another teacher", ErrForbidden, courseID)
	}

	var enrollments []models.Enrollment
	err := s.db.Where("course_id = ?", courseID).Preload("Student").Find(&enrollments).Error
	return enrollments, err
}
