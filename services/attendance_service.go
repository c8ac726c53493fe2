package services

import (
	"errors"
	"fmt"
	"time"

	"campuslms/models"

	"gorm.io/gorm"
)

type AttendanceService struct {
	db *gorm.DB
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{db: db}
}

type OpenSessionRequest struct {
	CourseID uint      `json:"course_id" binding:"required"`
	Date     time.Time `json:"date" binding:"required"`
	Duration int       `json:"duration" binding:"required,min=1"` // minutes
}

// OpenSession starts an attendance sitting for a course. Only one active
// session per course is allowed at a time.
func (s *AttendanceService) OpenSession(userID uint, req *OpenSessionRequest) (*models.AttendanceSession, error) {
	var teacher models.Teacher
	if err := s.db.Where("user_id = ?", userID).First(&teacher).Error; err != nil {
		return nil, fmt.Errorf("%w: teacher profile", ErrNotFound)
	}

	var course models.Course
	if err := s.db.First(&course, req.CourseID).Error; err != nil {
		return nil, fmt.Errorf("%w: course %d", ErrNotFound, req.CourseID)
	}
	if course.TeacherID != teacher.ID {
		return nil, fmt.Errorf("%w: course %d belongs to another teacher", ErrForbidden, req.CourseID)
	}

	var active models.AttendanceSession
	if err := s.db.Where("course_id = ? AND is_active = ?", req.CourseID, true).First(&active).Error; err == nil {
		return nil, fmt.Errorf("%w: an active session already exists for this course", ErrInvalidState)
	}

	session := models.AttendanceSession{
		Code:      fmt.Sprintf("ATT-%d", time.Now().UnixMilli()),
		CourseID:  req.CourseID,
		TeacherID: teacher.ID,
		Date:      req.Date,
		Duration:  req.Duration,
		IsActive:  true,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// ToggleSession opens or closes a session.
func (s *AttendanceService) ToggleSession(sessionID uint, isActive bool) (*models.AttendanceSession, error) {
	var session models.AttendanceSession
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, fmt.Errorf("%w: attendance session %d", ErrNotFound, sessionID)
	}
	session.IsActive = isActive
	if err := s.db.Save(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// MarkPresent records the calling student in an active session. The (session,
// student) unique index makes marking idempotent-safe under retries.
func (s *AttendanceService) MarkPresent(sessionID uint, userID uint) (*models.AttendanceRecord, error) {
	var session models.AttendanceSession
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, fmt.Errorf("%w: attendance session %d", ErrNotFound, sessionID)
	}
	if !session.IsActive {
		return nil, fmt.Errorf("%w: session is closed", ErrInvalidState)
	}

	var student models.Student
	if err := s.db.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, fmt.Errorf("%w: student profile", ErrNotFound)
	}

	var enrollment models.Enrollment
	err := s.db.Where("student_id = ? AND course_id = ? AND status = ?",
		student.ID, session.CourseID, models.EnrollmentAccepted).First(&enrollment).Error
	if err != nil {
		return nil, fmt.Errorf("%w: not enrolled in this course", ErrForbidden)
	}

	record := models.AttendanceRecord{
		SessionID: sessionID,
		StudentID: student.ID,
		Status:    models.AttendancePresent,
	}
	if err := s.db.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: attendance already marked", ErrInvalidState)
		}
		return nil, err
	}
	return &record, nil
}

// GetCourseSessions lists a course's attendance sessions with their records.
func (s *AttendanceService) GetCourseSessions(courseID uint) ([]models.AttendanceSession, error) {
	var sessions []models.AttendanceSession
	err := s.db.Where("course_id = ?", courseID).
		Preload("Records").
		Preload("Records.Student").
		Order("date").
		Find(&sessions).Error
	return sessions, err
}

// MonthlySummaryRow is one student's line of a monthly attendance register:
// presence per day of month plus the percentage over held sessions.
type MonthlySummaryRow struct {
	EnrollmentNumber string         `json:"enrollment_number"`
	Name             string         `json:"name"`
	Days             map[int]string `json:"days"` // day of month -> P/A
	Percentage       float64        `json:"percentage"`
}

// MonthlySummary is the attendance register of one course for one month.
type MonthlySummary struct {
	CourseID    uint                `json:"course_id"`
	Month       time.Month          `json:"month"`
	Year        int                 `json:"year"`
	SessionDays []int               `json:"session_days"`
	Rows        []MonthlySummaryRow `json:"rows"`
}

// GetMonthlySummary builds the per-day register for all accepted students of
// a course. Days without a record in a held session count as absent; a month
// with no sessions yields zero percentages.
func (s *AttendanceService) GetMonthlySummary(courseID uint, year int, month time.Month) (*MonthlySummary, error) {
	var course models.Course
	if err := s.db.First(&course, courseID).Error; err != nil {
		return nil, fmt.Errorf("%w: course %d", ErrNotFound, courseID)
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var sessions []models.AttendanceSession
	err := s.db.Where("course_id = ? AND date >= ? AND date < ?", courseID, start, end).
		Preload("Records").
		Order("date").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	var enrollments []models.Enrollment
	err = s.db.Where("course_id = ? AND status = ?", courseID, models.EnrollmentAccepted).
		Preload("Student").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{CourseID: courseID, Month: month, Year: year}
	presentDays := make(map[uint]map[int]bool) // student id -> day -> present
	for _, session := range sessions {
		day := session.Date.Day()
		summary.SessionDays = append(summary.SessionDays, day)
		for _, record := range session.Records {
			if record.Status != models.AttendancePresent {
				continue
			}
			if presentDays[record.StudentID] == nil {
				presentDays[record.StudentID] = make(map[int]bool)
			}
			presentDays[record.StudentID][day] = true
		}
	}

	for _, enrollment := range enrollments {
		row := MonthlySummaryRow{
			EnrollmentNumber: enrollment.Student.EnrollmentNumber,
			Name:             enrollment.Student.FirstName + " " + enrollment.Student.LastName,
			Days:             make(map[int]string),
		}
		present := 0
		for _, day := range summary.SessionDays {
			if presentDays[enrollment.StudentID][day] {
				row.Days[day] = models.AttendancePresent
				present++
			} else {
				row.Days[day] = models.AttendanceAbsent
			}
		}
		if len(summary.SessionDays) > 0 {
			row.Percentage = float64(present) / float64(len(summary.SessionDays)) * 100
		}
		summary.Rows = append(summary.Rows, row)
	}
	return summary, nil
}
