// Package grading scores a single submitted answer against its question
// definition. It is pure: no database access, no clock, no side effects
// beyond a warning log for malformed questions.
package grading

import (
	"log"
	"strconv"
	"strings"

	"campuslms/models"
)

// Submission is one student response to one question, as it arrives from the
// client: selected option ids for MCQ types, free text otherwise.
type Submission struct {
	QuestionID      string   `json:"question_id" binding:"required"`
	SelectedOptions []string `json:"selected_options"`
	TextAnswer      string   `json:"text_answer"`
}

// Result is the outcome of grading one submission.
type Result struct {
	IsCorrect bool
	Score     float64
	// Set for DESCRIPTIVE questions only, even when the score is zero.
	KeywordMatchPercentage *float64
}

// Grade scores a submission against its question. MCQ questions need their
// Options preloaded. An unknown question type yields a zero-score result and
// a warning rather than an error, so one malformed question can never sink a
// whole submission.
func Grade(q *models.Question, sub Submission) Result {
	switch q.Type {
	case models.QuestionSingleMCQ, models.QuestionMultiMCQ:
		return gradeMCQ(q, sub.SelectedOptions)
	case models.QuestionNumerical:
		return gradeNumerical(q, sub.TextAnswer)
	case models.QuestionDescriptive:
		return gradeDescriptive(q, sub.TextAnswer)
	default:
		log.Printf("Unknown question type %q for question %s, scoring 0", q.Type, q.ID)
		return Result{}
	}
}

// gradeMCQ awards full marks on exact set equality between the selected and
// correct option ids, zero otherwise. No partial credit for multi-select.
func gradeMCQ(q *models.Question, selected []string) Result {
	correct := make(map[string]bool)
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct[opt.ID] = true
		}
	}

	chosen := make(map[string]bool)
	for _, id := range selected {
		chosen[id] = true
	}

	isCorrect := len(chosen) == len(correct)
	if isCorrect {
		for id := range chosen {
			if !correct[id] {
				isCorrect = false
				break
			}
		}
	}

	score := 0.0
	if isCorrect {
		score = q.Marks
	}
	return Result{IsCorrect: isCorrect, Score: score}
}

// gradeNumerical compares the parsed answer against the correct value within
// the configured tolerance (inclusive). Unparseable input is compared as 0.
func gradeNumerical(q *models.Question, text string) Result {
	submitted, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		submitted = 0
	}

	var correct, tolerance float64
	if q.CorrectAnswer != nil {
		correct = *q.CorrectAnswer
	}
	if q.Tolerance != nil {
		tolerance = *q.Tolerance
	}

	diff := submitted - correct
	if diff < 0 {
		diff = -diff
	}

	isCorrect := diff <= tolerance
	score := 0.0
	if isCorrect {
		score = q.Marks
	}
	return Result{IsCorrect: isCorrect, Score: score}
}

// gradeDescriptive counts configured keywords appearing as case-insensitive
// substrings of the answer. Proportional credit is awarded only once the
// match percentage reaches the question's threshold; below it the score is
// zero. The match percentage is recorded either way.
func gradeDescriptive(q *models.Question, text string) Result {
	keywords := q.KeywordList()

	matchPct := 0.0
	if len(keywords) > 0 {
		lower := strings.ToLower(text)
		matched := 0
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				matched++
			}
		}
		matchPct = float64(matched) / float64(len(keywords)) * 100
	}

	var threshold float64
	if q.Threshold != nil {
		threshold = *q.Threshold
	}

	score := 0.0
	if matchPct >= threshold {
		score = q.Marks * (matchPct / 100)
	}
	return Result{Score: score, KeywordMatchPercentage: &matchPct}
}
