package services

import (
	"encoding/json"
	"fmt"
	"time"

	"campuslms/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

type CreateQuizRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	TimeLimit    int        `json:"time_limit" binding:"required,min=1"`
	MaxMarks     *float64   `json:"max_marks"`
	ScheduledFor *time.Time `json:"scheduled_for"`
	CourseID     uint       `json:"course_id" binding:"required"`
}

type UpdateQuizRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	TimeLimit    int        `json:"time_limit"`
	MaxMarks     *float64   `json:"max_marks"`
	ScheduledFor *time.Time `json:"scheduled_for"`
}

type OptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionRequest struct {
	Type          string          `json:"type" binding:"required"`
	Text          string          `json:"text" binding:"required"`
	Marks         float64         `json:"marks" binding:"required,gt=0"`
	Order         int             `json:"order"`
	Options       []OptionRequest `json:"options"`
	CorrectAnswer *float64        `json:"correct_answer"`
	Tolerance     *float64        `json:"tolerance"`
	Keywords      []string        `json:"keywords"`
	Threshold     *float64        `json:"threshold"`
	ImageURL      *string         `json:"image_url"`
}

// CreateQuiz creates an inactive quiz owned by the calling teacher. Questions
// are added separately.
func (s *QuizService) CreateQuiz(userID uint, req *CreateQuizRequest) (*models.Quiz, error) {
	var teacher models.Teacher
	if err := s.db.Where("user_id = ?", userID).First(&teacher).Error; err != nil {
		return nil, fmt.Errorf("%w: teacher profile", ErrNotFound)
	}

	var course models.Course
	if err := s.db.First(&course, req.CourseID).Error; err != nil {
		return nil, fmt.Errorf("%w: course %d", ErrNotFound, req.CourseID)
	}

	quiz := models.Quiz{
		Title:        req.Title,
		Description:  req.Description,
		TimeLimit:    req.TimeLimit,
		MaxMarks:     req.MaxMarks,
		ScheduledFor: req.ScheduledFor,
		IsActive:     false,
		CourseID:     req.CourseID,
		UserID:       userID,
	}
	if err := s.db.Create(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// AddQuestion validates the type-specific fields and creates the question with
// its options in one transaction.
func (s *QuizService) AddQuestion(quizID string, userID uint, req *QuestionRequest) (*models.Question, error) {
	quiz, err := s.ownedQuiz(quizID, userID)
	if err != nil {
		return nil, err
	}

	if err := validateQuestion(req); err != nil {
		return nil, err
	}

	question := models.Question{
		QuizID:        quiz.ID,
		Type:          req.Type,
		Text:          req.Text,
		Marks:         req.Marks,
		Order:         req.Order,
		CorrectAnswer: req.CorrectAnswer,
		Tolerance:     req.Tolerance,
		Threshold:     req.Threshold,
		ImageURL:      req.ImageURL,
	}
	if req.Type == models.QuestionDescriptive {
		raw, err := json.Marshal(req.Keywords)
		if err != nil {
			return nil, err
		}
		question.Keywords = datatypes.JSON(raw)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		if !models.IsMCQ(req.Type) {
			return nil
		}
		for _, optReq := range req.Options {
			option := models.Option{
				QuestionID: question.ID,
				Text:       optReq.Text,
				IsCorrect:  optReq.IsCorrect,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
			question.Options = append(question.Options, option)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// UpdateQuestion replaces the question definition. For MCQ types the option
// set is replaced wholesale inside the same transaction.
func (s *QuizService) UpdateQuestion(quizID, questionID string, userID uint, req *QuestionRequest) (*models.Question, error) {
	if _, err := s.ownedQuiz(quizID, userID); err != nil {
		return nil, err
	}
	if err := validateQuestion(req); err != nil {
		return nil, err
	}

	var question models.Question
	if err := s.db.Where("id = ? AND quiz_id = ?", questionID, quizID).First(&question).Error; err != nil {
		return nil, fmt.Errorf("%w: question %s", ErrNotFound, questionID)
	}

	question.Type = req.Type
	question.Text = req.Text
	question.Marks = req.Marks
	question.Order = req.Order
	question.CorrectAnswer = req.CorrectAnswer
	question.Tolerance = req.Tolerance
	question.Threshold = req.Threshold
	if req.ImageURL != nil {
		question.ImageURL = req.ImageURL
	}
	question.Keywords = nil
	if req.Type == models.QuestionDescriptive {
		raw, err := json.Marshal(req.Keywords)
		if err != nil {
			return nil, err
		}
		question.Keywords = datatypes.JSON(raw)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&question).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		question.Options = nil
		if !models.IsMCQ(req.Type) {
			return nil
		}
		for _, optReq := range req.Options {
			option := models.Option{
				QuestionID: question.ID,
				Text:       optReq.Text,
				IsCorrect:  optReq.IsCorrect,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
			question.Options = append(question.Options, option)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// DeleteQuestion removes a question together with its options and any answers
// referencing it, in one transaction.
func (s *QuizService) DeleteQuestion(quizID, questionID string, userID uint) error {
	if _, err := s.ownedQuiz(quizID, userID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND quiz_id = ?", questionID, quizID).Delete(&models.Question{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: question %s", ErrNotFound, questionID)
		}
		if err := tx.Where("question_id = ?", questionID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		return tx.Where("question_id = ?", questionID).Delete(&models.Answer{}).Error
	})
}

func (s *QuizService) UpdateQuiz(quizID string, userID uint, req *UpdateQuizRequest) (*models.Quiz, error) {
	quiz, err := s.ownedQuiz(quizID, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		quiz.Title = req.Title
	}
	if req.Description != "" {
		quiz.Description = req.Description
	}
	if req.TimeLimit > 0 {
		quiz.TimeLimit = req.TimeLimit
	}
	if req.MaxMarks != nil {
		quiz.MaxMarks = req.MaxMarks
	}
	if req.ScheduledFor != nil {
		quiz.ScheduledFor = req.ScheduledFor
	}

	if err := s.db.Save(quiz).Error; err != nil {
		return nil, err
	}
	return quiz, nil
}

// DeleteQuiz removes the quiz and cascades to its questions, options,
// attempts and answers in one transaction.
func (s *QuizService) DeleteQuiz(quizID string, userID uint) error {
	if _, err := s.ownedQuiz(quizID, userID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var questionIDs []string
		if err := tx.Model(&models.Question{}).Where("quiz_id = ?", quizID).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.Option{}).Error; err != nil {
				return err
			}
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.QuizAttempt{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Quiz{}, "id = ?", quizID).Error
	})
}

// ToggleStatus flips the quiz between active and inactive.
func (s *QuizService) ToggleStatus(quizID string, userID uint) (*models.Quiz, error) {
	quiz, err := s.ownedQuiz(quizID, userID)
	if err != nil {
		return nil, err
	}
	quiz.IsActive = !quiz.IsActive
	if err := s.db.Save(quiz).Error; err != nil {
		return nil, err
	}
	return quiz, nil
}

// GetTeacherQuizzes lists quizzes created by the calling teacher, questions
// and options included.
func (s *QuizService) GetTeacherQuizzes(userID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.Where("user_id = ?", userID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.\"order\"")
		}).
		Preload("Questions.Options").
		Preload("Course").
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

func (s *QuizService) GetTeacherQuiz(quizID string, userID uint) (*models.Quiz, error) {
	if _, err := s.ownedQuiz(quizID, userID); err != nil {
		return nil, err
	}
	var quiz models.Quiz
	err := s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.\"order\"")
		}).
		Preload("Questions.Options").
		Preload("Course").
		First(&quiz, "id = ?", quizID).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// GetQuizAttempts returns all attempts on a quiz with their graded answers,
// for the owning teacher's review.
func (s *QuizService) GetQuizAttempts(quizID string, userID uint) ([]models.QuizAttempt, error) {
	if _, err := s.ownedQuiz(quizID, userID); err != nil {
		return nil, err
	}
	var attempts []models.QuizAttempt
	err := s.db.Where("quiz_id = ?", quizID).
		Preload("User").
		Preload("Answers").
		Preload("Answers.Question").
		Find(&attempts).Error
	return attempts, err
}

// ownedQuiz loads a quiz and checks the caller created it.
func (s *QuizService) ownedQuiz(quizID string, userID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := s.db.First(&quiz, "id = ?", quizID).Error; err != nil {
		return nil, fmt.Errorf("%w: quiz %s", ErrNotFound, quizID)
	}
	if quiz.UserID != userID {
		return nil, fmt.Errorf("%w: quiz %s belongs to another teacher", ErrForbidden, quizID)
	}
	return &quiz, nil
}

// validateQuestion rejects type/field mismatches before anything is written.
func validateQuestion(req *QuestionRequest) error {
	if !models.ValidQuestionType(req.Type) {
		return fmt.Errorf("%w: unknown question type %q", ErrValidation, req.Type)
	}

	switch req.Type {
	case models.QuestionSingleMCQ, models.QuestionMultiMCQ:
		if len(req.Options) < 2 {
			return fmt.Errorf("%w: MCQ questions need at least two options", ErrValidation)
		}
		correct := 0
		for _, opt := range req.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if req.Type == models.QuestionSingleMCQ && correct != 1 {
			return fmt.Errorf("%w: single-choice questions need exactly one correct option", ErrValidation)
		}
		if req.Type == models.QuestionMultiMCQ && correct == 0 {
			return fmt.Errorf("%w: multi-choice questions need at least one correct option", ErrValidation)
		}
	case models.QuestionNumerical:
		if req.CorrectAnswer == nil {
			return fmt.Errorf("%w: numerical questions need a correct answer", ErrValidation)
		}
		if req.Tolerance != nil && *req.Tolerance < 0 {
			return fmt.Errorf("%w: tolerance must not be negative", ErrValidation)
		}
	case models.QuestionDescriptive:
		if req.Threshold != nil && (*req.Threshold < 0 || *req.Threshold > 100) {
			return fmt.Errorf("%w: threshold must be between 0 and 100", ErrValidation)
		}
	}
	return nil
}
