package grading

import (
	"testing"

	"campuslms/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func floatPtr(v float64) *float64 { return &v }

func mcqQuestion(qType string, marks float64, correctIDs ...string) *models.Question {
	q := &models.Question{ID: "q1", Type: qType, Marks: marks}
	correct := make(map[string]bool)
	for _, id := range correctIDs {
		correct[id] = true
	}
	for _, id := range []string{"A", "B", "C", "D"} {
		q.Options = append(q.Options, models.Option{ID: id, IsCorrect: correct[id]})
	}
	return q
}

func TestGradeSingleMCQ(t *testing.T) {
	q := mcqQuestion(models.QuestionSingleMCQ, 2, "B")

	result := Grade(q, Submission{SelectedOptions: []string{"B"}})
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 2.0, result.Score)

	result = Grade(q, Submission{SelectedOptions: []string{"A"}})
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0.0, result.Score)
}

func TestGradeMultiMCQSetEquality(t *testing.T) {
	q := mcqQuestion(models.QuestionMultiMCQ, 4, "A", "C")

	tests := []struct {
		name     string
		selected []string
		correct  bool
	}{
		{"exact set", []string{"A", "C"}, true},
		{"order independent", []string{"C", "A"}, true},
		{"subset", []string{"A"}, false},
		{"superset", []string{"A", "C", "D"}, false},
		{"wrong set", []string{"B", "D"}, false},
		{"nothing selected", nil, false},
		{"duplicate selections collapse", []string{"A", "A", "C"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Grade(q, Submission{SelectedOptions: tt.selected})
			assert.Equal(t, tt.correct, result.IsCorrect)
			if tt.correct {
				assert.Equal(t, 4.0, result.Score)
			} else {
				assert.Equal(t, 0.0, result.Score)
			}
		})
	}
}

func TestGradeNumericalTolerance(t *testing.T) {
	q := &models.Question{
		ID:            "q1",
		Type:          models.QuestionNumerical,
		Marks:         3,
		CorrectAnswer: floatPtr(10.0),
		Tolerance:     floatPtr(0.5),
	}

	tests := []struct {
		answer  string
		correct bool
	}{
		{"10", true},
		{"10.4", true},
		{"10.5", true}, // boundary is inclusive
		{"9.5", true},
		{"10.6", false},
		{"  10.2  ", true}, // surrounding whitespace ignored
		{"not a number", false},
		{"", false},
	}
	for _, tt := range tests {
		result := Grade(q, Submission{TextAnswer: tt.answer})
		assert.Equal(t, tt.correct, result.IsCorrect, "answer %q", tt.answer)
		if tt.correct {
			assert.Equal(t, 3.0, result.Score, "answer %q", tt.answer)
		} else {
			assert.Equal(t, 0.0, result.Score, "answer %q", tt.answer)
		}
	}
}

func TestGradeNumericalUnparseableComparesAsZero(t *testing.T) {
	q := &models.Question{
		ID:            "q1",
		Type:          models.QuestionNumerical,
		Marks:         1,
		CorrectAnswer: floatPtr(0.2),
		Tolerance:     floatPtr(0.5),
	}

	// Garbage parses as 0, which is within tolerance of 0.2.
	result := Grade(q, Submission{TextAnswer: "garbage"})
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 1.0, result.Score)
}

func descriptiveQuestion(marks, threshold float64, keywords string) *models.Question {
	return &models.Question{
		ID:        "q1",
		Type:      models.QuestionDescriptive,
		Marks:     marks,
		Keywords:  datatypes.JSON(keywords),
		Threshold: floatPtr(threshold),
	}
}

func TestGradeDescriptiveProportionalCredit(t *testing.T) {
	q := descriptiveQuestion(6, 50, `["gradient","descent","learning rate"]`)

	// Two of three keywords: above threshold, proportional marks.
	result := Grade(q, Submission{TextAnswer: "Gradient DESCENT updates the weights"})
	assert.InDelta(t, 66.67, *result.KeywordMatchPercentage, 0.01)
	assert.InDelta(t, 4.0, result.Score, 0.01)
}

func TestGradeDescriptiveBelowThresholdScoresZero(t *testing.T) {
	q := descriptiveQuestion(6, 50, `["gradient","descent","learning rate"]`)

	// One of three keywords: percentage recorded, no credit.
	result := Grade(q, Submission{TextAnswer: "you adjust the learning rate"})
	assert.InDelta(t, 33.33, *result.KeywordMatchPercentage, 0.01)
	assert.Equal(t, 0.0, result.Score)
}

func TestGradeDescriptiveNoKeywords(t *testing.T) {
	q := descriptiveQuestion(6, 50, ``)

	result := Grade(q, Submission{TextAnswer: "anything at all"})
	assert.NotNil(t, result.KeywordMatchPercentage)
	assert.Equal(t, 0.0, *result.KeywordMatchPercentage)
	assert.Equal(t, 0.0, result.Score)
}

func TestGradeDescriptiveZeroThresholdAlwaysCredits(t *testing.T) {
	q := descriptiveQuestion(4, 0, `["alpha","beta"]`)

	result := Grade(q, Submission{TextAnswer: "only alpha here"})
	assert.InDelta(t, 50.0, *result.KeywordMatchPercentage, 0.01)
	assert.InDelta(t, 2.0, result.Score, 0.01)
}

func TestGradeUnknownTypeScoresZero(t *testing.T) {
	q := &models.Question{ID: "q1", Type: "ESSAY", Marks: 5}

	result := Grade(q, Submission{TextAnswer: "whatever"})
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0.0, result.Score)
	assert.Nil(t, result.KeywordMatchPercentage)
}
