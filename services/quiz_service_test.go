package services

import (
	"testing"

	"campuslms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type quizFixture struct {
	db      *gorm.DB
	service *QuizService
	teacher *models.User
	course  *models.Course
}

func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()
	db := newTestDB(t)
	teacherUser, teacher := createTeacher(t, db, "teacher@example.com")
	course := createCourse(t, db, teacher, "CS301")
	return &quizFixture{db: db, service: NewQuizService(db), teacher: teacherUser, course: course}
}

func (f *quizFixture) createQuiz(t *testing.T) *models.Quiz {
	t.Helper()
	quiz, err := f.service.CreateQuiz(f.teacher.ID, &CreateQuizRequest{
		Title: "Quiz", TimeLimit: 30, CourseID: f.course.ID,
	})
	require.NoError(t, err)
	return quiz
}

func TestCreateQuizStartsInactive(t *testing.T) {
	f := newQuizFixture(t)

	quiz := f.createQuiz(t)
	assert.False(t, quiz.IsActive)
	assert.NotEmpty(t, quiz.ID)
	assert.Equal(t, f.teacher.ID, quiz.UserID)
}

func TestCreateQuizUnknownCourse(t *testing.T) {
	f := newQuizFixture(t)

	_, err := f.service.CreateQuiz(f.teacher.ID, &CreateQuizRequest{Title: "Quiz", TimeLimit: 30, CourseID: 999})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateQuizRequiresTeacherProfile(t *testing.T) {
	f := newQuizFixture(t)
	studentUser, _ := createStudent(t, f.db, "student@example.com", "0101")

	_, err := f.service.CreateQuiz(studentUser.ID, &CreateQuizRequest{Title: "Quiz", TimeLimit: 30, CourseID: f.course.ID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddQuestionValidation(t *testing.T) {
	f := newQuizFixture(t)
	quiz := f.createQuiz(t)

	threshold := 150.0
	negTolerance := -0.5
	answer := 3.0

	tests := []struct {
		name string
		req  QuestionRequest
	}{
		{"unknown type", QuestionRequest{Type: "ESSAY", Text: "?", Marks: 1}},
		{"mcq needs two options", QuestionRequest{
			Type: models.QuestionSingleMCQ, Text: "?", Marks: 1,
			Options: []OptionRequest{{Text: "A", IsCorrect: true}},
		}},
		{"single mcq needs one correct", QuestionRequest{
			Type: models.QuestionSingleMCQ, Text: "?", Marks: 1,
			Options: []OptionRequest{{Text: "A", IsCorrect: true}, {Text: "B", IsCorrect: true}},
		}},
		{"multi mcq needs a correct option", QuestionRequest{
			Type: models.QuestionMultiMCQ, Text: "?", Marks: 1,
			Options: []OptionRequest{{Text: "A"}, {Text: "B"}},
		}},
		{"numerical needs an answer", QuestionRequest{Type: models.QuestionNumerical, Text: "?", Marks: 1}},
		{"negative tolerance", QuestionRequest{
			Type: models.QuestionNumerical, Text: "?", Marks: 1,
			CorrectAnswer: &answer, Tolerance: &negTolerance,
		}},
		{"threshold out of range", QuestionRequest{
			Type: models.QuestionDescriptive, Text: "?", Marks: 1, Threshold: &threshold,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.AddQuestion(quiz.ID, f.teacher.ID, &tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAddQuestionStoresOptionsAndKeywords(t *testing.T) {
	f := newQuizFixture(t)
	quiz := f.createQuiz(t)

	mcq, err := f.service.AddQuestion(quiz.ID, f.teacher.ID, &QuestionRequest{
		Type: models.QuestionMultiMCQ, Text: "pick", Marks: 4,
		Options: []OptionRequest{
			{Text: "A", IsCorrect: true},
			{Text: "B"},
			{Text: "C", IsCorrect: true},
		},
	})
	require.NoError(t, err)
	assert.Len(t, mcq.Options, 3)
	assert.Len(t, mcq.CorrectOptionIDs(), 2)

	threshold := 50.0
	descriptive, err := f.service.AddQuestion(quiz.ID, f.teacher.ID, &QuestionRequest{
		Type: models.QuestionDescriptive, Text: "explain", Marks: 6,
		Keywords: []string{"alpha", "beta"}, Threshold: &threshold,
	})
	require.NoError(t, err)

	var reloaded models.Question
	require.NoError(t, f.db.First(&reloaded, "id = ?", descriptive.ID).Error)
	assert.Equal(t, []string{"alpha", "beta"}, reloaded.KeywordList())
}

func TestUpdateQuestionReplacesOptions(t *testing.T) {
	f := newQuizFixture(t)
	quiz := f.createQuiz(t)

	question, err := f.service.AddQuestion(quiz.ID, f.teacher.ID, &QuestionRequest{
		Type: models.QuestionSingleMCQ, Text: "pick", Marks: 2,
		Options: []OptionRequest{{Text: "A", IsCorrect: true}, {Text: "B"}},
	})
	require.NoError(t, err)

	updated, err := f.service.UpdateQuestion(quiz.ID, question.ID, f.teacher.ID, &QuestionRequest{
		Type: models.QuestionSingleMCQ, Text: "pick again", Marks: 3,
		Options: []OptionRequest{{Text: "X"}, {Text: "Y", IsCorrect: true}, {Text: "Z"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3.0, updated.Marks)
	assert.Len(t, updated.Options, 3)

	var optionCount int64
	require.NoError(t, f.db.Model(&models.Option{}).Where("question_id = ?", question.ID).Count(&optionCount).Error)
	assert.EqualValues(t, 3, optionCount)
}

func TestQuizOwnership(t *testing.T) {
	f := newQuizFixture(t)
	quiz := f.createQuiz(t)
	otherUser, _ := createTeacher(t, f.db, "other@example.com")

	_, err := f.service.UpdateQuiz(quiz.ID, otherUser.ID, &UpdateQuizRequest{Title: "hijack"})
	assert.ErrorIs(t, err, ErrForbidden)

	err = f.service.DeleteQuiz(quiz.ID, otherUser.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.service.GetTeacherQuiz(quiz.ID, otherUser.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestToggleStatus(t *testing.T) {
	f := newQuizFixture(t)
	quiz := f.createQuiz(t)

	toggled, err := f.service.ToggleStatus(quiz.ID, f.teacher.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)

	toggled, err = f.service.ToggleStatus(quiz.ID, f.teacher.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)
}

func TestDeleteQuizCascades(t *testing.T) {
	f := newQuizFixture(t)
	quiz := f.createQuiz(t)

	question, err := f.service.AddQuestion(quiz.ID, f.teacher.ID, &QuestionRequest{
		Type: models.QuestionSingleMCQ, Text: "pick", Marks: 2,
		Options: []OptionRequest{{Text: "A", IsCorrect: true}, {Text: "B"}},
	})
	require.NoError(t, err)

	attempt := models.QuizAttempt{QuizID: quiz.ID, UserID: 42, Status: models.AttemptSubmitted}
	require.NoError(t, f.db.Create(&attempt).Error)
	answer := models.Answer{AttemptID: attempt.ID, QuestionID: question.ID, Score: 2}
	require.NoError(t, f.db.Create(&answer).Error)

	require.NoError(t, f.service.DeleteQuiz(quiz.ID, f.teacher.ID))

	for _, check := range []struct {
		name  string
		model interface{}
	}{
		{"quizzes", &models.Quiz{}},
		{"questions", &models.Question{}},
		{"options", &models.Option{}},
		{"attempts", &models.QuizAttempt{}},
		{"answers", &models.Answer{}},
	} {
		var count int64
		require.NoError(t, f.db.Model(check.model).Count(&count).Error)
		assert.Zero(t, count, check.name)
	}
}

func TestDeleteQuestionRemovesAnswers(t *testing.T) {
	f := newQuizFixture(t)
	quiz := f.createQuiz(t)

	question, err := f.service.AddQuestion(quiz.ID, f.teacher.ID, &QuestionRequest{
		Type: models.QuestionSingleMCQ, Text: "pick", Marks: 2,
		Options: []OptionRequest{{Text: "A", IsCorrect: true}, {Text: "B"}},
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteQuestion(quiz.ID, question.ID, f.teacher.ID))

	err = f.service.DeleteQuestion(quiz.ID, question.ID, f.teacher.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
