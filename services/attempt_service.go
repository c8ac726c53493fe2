package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"campuslms/grading"
	"campuslms/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubmissionNotifier receives submission events for live monitoring. May be
// nil when no monitor is attached.
type SubmissionNotifier interface {
	NotifySubmission(quizID string, attempt *models.QuizAttempt)
}

type AttemptService struct {
	db       *gorm.DB
	notifier SubmissionNotifier
}

func NewAttemptService(db *gorm.DB, notifier SubmissionNotifier) *AttemptService {
	return &AttemptService{db: db, notifier: notifier}
}

type SubmitAttemptRequest struct {
	AttemptID string               `json:"attempt_id" binding:"required"`
	Answers   []grading.Submission `json:"answers"`
}

// QuizStats summarises a student's standing across enrolled quizzes.
type QuizStats struct {
	Upcoming  int `json:"upcoming"`
	Completed int `json:"completed"`
	Missed    int `json:"missed"`
}

// StartAttempt opens an IN_PROGRESS attempt for the student. The quiz must be
// open (active, or inside its schedule window) and the student must not have
// attempted it before. The (quiz, user) unique index is the real guard
// against concurrent starts; the prechecks only shape the error message.
func (s *AttemptService) StartAttempt(quizID string, userID uint) (*models.QuizAttempt, error) {
	var quiz models.Quiz
	if err := s.db.First(&quiz, "id = ?", quizID).Error; err != nil {
		return nil, fmt.Errorf("%w: quiz %s", ErrNotFound, quizID)
	}

	if !quiz.OpenAt(time.Now()) {
		return nil, fmt.Errorf("%w: quiz is not open for attempts", ErrInvalidState)
	}

	if err := s.requireEnrollment(quiz.CourseID, userID); err != nil {
		return nil, err
	}

	var existing models.QuizAttempt
	if err := s.db.Where("quiz_id = ? AND user_id = ?", quizID, userID).First(&existing).Error; err == nil {
		if existing.Status == models.AttemptSubmitted {
			return nil, fmt.Errorf("%w: quiz already attempted", ErrInvalidState)
		}
		// An open attempt survives a page reload; hand it back.
		return &existing, nil
	}

	attempt := models.QuizAttempt{
		QuizID: quizID,
		UserID: userID,
		Status: models.AttemptInProgress,
	}
	if err := s.db.Create(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: attempt already exists", ErrInvalidState)
		}
		return nil, err
	}
	return &attempt, nil
}

// SubmitAttempt grades every answer and finalises the attempt in a single
// transaction: either all answer rows plus the status transition commit, or
// none do. Answers referencing questions outside the attempt's quiz are
// skipped, not fatal.
func (s *AttemptService) SubmitAttempt(userID uint, req *SubmitAttemptRequest) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := s.db.Where("id = ? AND user_id = ?", req.AttemptID, userID).
		Preload("Quiz").
		Preload("Quiz.Questions").
		Preload("Quiz.Questions.Options").
		First(&attempt).Error
	if err != nil {
		return nil, fmt.Errorf("%w: attempt %s", ErrNotFound, req.AttemptID)
	}
	if attempt.Status != models.AttemptInProgress {
		return nil, fmt.Errorf("%w: attempt already submitted", ErrInvalidState)
	}

	questions := make(map[string]*models.Question, len(attempt.Quiz.Questions))
	for i := range attempt.Quiz.Questions {
		questions[attempt.Quiz.Questions[i].ID] = &attempt.Quiz.Questions[i]
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		total := 0.0
		for _, sub := range req.Answers {
			question, ok := questions[sub.QuestionID]
			if !ok {
				log.Printf("Skipping answer for question %s: not part of quiz %s", sub.QuestionID, attempt.QuizID)
				continue
			}

			result := grading.Grade(question, sub)

			selected, err := json.Marshal(sub.SelectedOptions)
			if err != nil {
				return err
			}
			answer := models.Answer{
				AttemptID:              attempt.ID,
				QuestionID:             question.ID,
				SelectedOptions:        datatypes.JSON(selected),
				TextAnswer:             sub.TextAnswer,
				IsCorrect:              result.IsCorrect,
				Score:                  result.Score,
				KeywordMatchPercentage: result.KeywordMatchPercentage,
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
			total += result.Score
		}

		now := time.Now()
		attempt.Status = models.AttemptSubmitted
		attempt.SubmittedAt = &now
		attempt.Score = &total
		return tx.Model(&models.QuizAttempt{}).Where("id = ?", attempt.ID).Updates(map[string]interface{}{
			"status":       attempt.Status,
			"submitted_at": attempt.SubmittedAt,
			"score":        attempt.Score,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifySubmission(attempt.QuizID, &attempt)
	}
	return &attempt, nil
}

// GetAttempt returns one of the caller's attempts with its graded answers.
func (s *AttemptService) GetAttempt(attemptID string, userID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := s.db.Where("id = ? AND user_id = ?", attemptID, userID).
		Preload("Quiz").
		Preload("Answers").
		Preload("Answers.Question").
		First(&attempt).Error
	if err != nil {
		return nil, fmt.Errorf("%w: attempt %s", ErrNotFound, attemptID)
	}
	return &attempt, nil
}

// GetAvailableQuizzes lists open quizzes of courses the student has an
// accepted enrollment in, excluding ones already submitted.
func (s *AttemptService) GetAvailableQuizzes(userID uint) ([]models.Quiz, error) {
	courseIDs, err := s.enrolledCourseIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(courseIDs) == 0 {
		return []models.Quiz{}, nil
	}

	var quizzes []models.Quiz
	err = s.db.Where("course_id IN ?", courseIDs).
		Where("id NOT IN (?)", s.db.Model(&models.QuizAttempt{}).
			Select("quiz_id").
			Where("user_id = ? AND status = ?", userID, models.AttemptSubmitted)).
		Preload("Course").
		Find(&quizzes).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	open := make([]models.Quiz, 0, len(quizzes))
	for _, quiz := range quizzes {
		if quiz.OpenAt(now) {
			open = append(open, quiz)
		}
	}
	return open, nil
}

// GetStats buckets the student's enrolled quizzes into completed, missed and
// upcoming. A scheduled quiz whose window has passed without a submission
// counts as missed, as does an inactive unscheduled one.
func (s *AttemptService) GetStats(userID uint) (*QuizStats, error) {
	courseIDs, err := s.enrolledCourseIDs(userID)
	if err != nil {
		return nil, err
	}

	stats := &QuizStats{}
	if len(courseIDs) == 0 {
		return stats, nil
	}

	var quizzes []models.Quiz
	if err := s.db.Where("course_id IN ?", courseIDs).Find(&quizzes).Error; err != nil {
		return nil, err
	}

	var submittedIDs []string
	err = s.db.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND status = ?", userID, models.AttemptSubmitted).
		Pluck("quiz_id", &submittedIDs).Error
	if err != nil {
		return nil, err
	}
	submitted := make(map[string]bool, len(submittedIDs))
	for _, id := range submittedIDs {
		submitted[id] = true
	}

	now := time.Now()
	for _, quiz := range quizzes {
		switch {
		case submitted[quiz.ID]:
			stats.Completed++
		case quiz.ScheduledFor != nil:
			end := quiz.ScheduledFor.Add(time.Duration(quiz.TimeLimit) * time.Minute)
			if now.After(end) {
				stats.Missed++
			} else {
				stats.Upcoming++
			}
		case !quiz.IsActive:
			stats.Missed++
		default:
			stats.Upcoming++
		}
	}
	return stats, nil
}

// AttemptHistory holds a student's submitted attempts together with the
// scheduled quizzes whose window closed without one.
type AttemptHistory struct {
	Attempts      []models.QuizAttempt `json:"attempts"`
	MissedQuizzes []models.Quiz        `json:"missed_quizzes"`
}

func (s *AttemptService) GetHistory(userID uint) (*AttemptHistory, error) {
	history := &AttemptHistory{Attempts: []models.QuizAttempt{}, MissedQuizzes: []models.Quiz{}}

	err := s.db.Where("user_id = ? AND status = ?", userID, models.AttemptSubmitted).
		Preload("Quiz").
		Preload("Quiz.Course").
		Order("submitted_at DESC").
		Find(&history.Attempts).Error
	if err != nil {
		return nil, err
	}

	courseIDs, err := s.enrolledCourseIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(courseIDs) == 0 {
		return history, nil
	}

	now := time.Now()
	var scheduled []models.Quiz
	err = s.db.Where("course_id IN ? AND scheduled_for < ?", courseIDs, now).
		Preload("Course").
		Find(&scheduled).Error
	if err != nil {
		return nil, err
	}

	var attemptedIDs []string
	if err := s.db.Model(&models.QuizAttempt{}).Where("user_id = ?", userID).Pluck("quiz_id", &attemptedIDs).Error; err != nil {
		return nil, err
	}
	attempted := make(map[string]bool, len(attemptedIDs))
	for _, id := range attemptedIDs {
		attempted[id] = true
	}

	for _, quiz := range scheduled {
		end := quiz.ScheduledFor.Add(time.Duration(quiz.TimeLimit) * time.Minute)
		if now.After(end) && !attempted[quiz.ID] {
			history.MissedQuizzes = append(history.MissedQuizzes, quiz)
		}
	}
	return history, nil
}

// GetQuizForStudent returns an open quiz with its questions for taking.
// Correct-answer data is stripped before it leaves the service.
func (s *AttemptService) GetQuizForStudent(quizID string, userID uint) (*models.Quiz, error) {
	var submitted models.QuizAttempt
	err := s.db.Where("quiz_id = ? AND user_id = ? AND status = ?", quizID, userID, models.AttemptSubmitted).
		First(&submitted).Error
	if err == nil {
		return nil, fmt.Errorf("%w: quiz already attempted", ErrInvalidState)
	}

	var quiz models.Quiz
	err = s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.\"order\"")
		}).
		Preload("Questions.Options").
		Preload("Course").
		First(&quiz, "id = ?", quizID).Error
	if err != nil {
		return nil, fmt.Errorf("%w: quiz %s", ErrNotFound, quizID)
	}
	if !quiz.OpenAt(time.Now()) {
		return nil, fmt.Errorf("%w: quiz %s is not open", ErrNotFound, quizID)
	}
	if err := s.requireEnrollment(quiz.CourseID, userID); err != nil {
		return nil, err
	}

	// Never leak grading data to the taker.
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		q.CorrectAnswer = nil
		q.Tolerance = nil
		q.Keywords = nil
		q.Threshold = nil
		for j := range q.Options {
			q.Options[j].IsCorrect = false
		}
	}
	return &quiz, nil
}

func (s *AttemptService) requireEnrollment(courseID uint, userID uint) error {
	var student models.Student
	if err := s.db.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return fmt.Errorf("%w: student profile", ErrNotFound)
	}
	var enrollment models.Enrollment
	err := s.db.Where("student_id = ? AND course_id = ? AND status = ?",
		student.ID, courseID, models.EnrollmentAccepted).First(&enrollment).Error
	if err != nil {
		return fmt.Errorf("%w: not enrolled in this course", ErrForbidden)
	}
	return nil
}

func (s *AttemptService) enrolledCourseIDs(userID uint) ([]uint, error) {
	var student models.Student
	if err := s.db.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, fmt.Errorf("%w: student profile", ErrNotFound)
	}
	var courseIDs []uint
	err := s.db.Model(&models.Enrollment{}).
		Where("student_id = ? AND status = ?", student.ID, models.EnrollmentAccepted).
		Pluck("course_id", &courseIDs).Error
	return courseIDs, err
}
