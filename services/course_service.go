package services

import (
	"fmt"

	"campuslms/models"

	"gorm.io/gorm"
)

type CourseService struct {
	db *gorm.DB
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db}
}

type CreateCourseRequest struct {
	Name        string `json:"name" binding:"required"`
	CourseCode  string `json:"course_code" binding:"required"`
	Description string `json:"description"`
}

type UpdateCourseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *CourseService) CreateCourse(userID uint, req *CreateCourseRequest) (*models.Course, error) {
	var teacher models.Teacher
	if err := s.db.Where("user_id = ?", userID).First(&teacher).Error; err != nil {
		return nil, fmt.Errorf("%w: teacher profile", ErrNotFound)
	}

	course := models.Course{
		Name:        req.Name,
		CourseCode:  req.CourseCode,
		Description: req.Description,
		TeacherID:   teacher.ID,
	}
	if err := s.db.Create(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CourseService) GetCourses() ([]models.Course, error) {
	var courses []models.Course
	err := s.db.Preload("Teacher").Order("course_code").Find(&courses).Error
	return courses, err
}

func (s *CourseService) GetCourse(courseID uint) (*models.Course, error) {
	var course models.Course
	err := s.db.Preload("Teacher").Preload("Quizzes").First(&course, courseID).Error
	if err != nil {
		return nil, fmt.Errorf("%w: course %d", ErrNotFound, courseID)
	}
	return &course, nil
}

func (s *CourseService) UpdateCourse(courseID uint, userID uint, req *UpdateCourseRequest) (*models.Course, error) {
	course, err := s.ownedCourse(courseID, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		course.Name = req.Name
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if err := s.db.Save(course).Error; err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(courseID uint, userID uint) error {
	if _, err := s.ownedCourse(courseID, userID); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Course{}, courseID).Error
	})
}

func (s *CourseService) ownedCourse(courseID uint, userID uint) (*models.Course, error) {
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
	return &course, nil
}
