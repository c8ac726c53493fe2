package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// COMapping assigns each exam sub-question slot of a subject to one of the
// five course-outcome buckets. The quiz/assignment composite maps to a list
// of COs and is split evenly across them during aggregation.
type COMapping struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	SubjectCode string `json:"subject_code" gorm:"uniqueIndex;not null"`

	MST1Q1 string `json:"mst1_q1" gorm:"column:mst1_q1;not null"`
	MST1Q2 string `json:"mst1_q2" gorm:"column:mst1_q2;not null"`
	MST1Q3 string `json:"mst1_q3" gorm:"column:mst1_q3;not null"`
	MST2Q1 string `json:"mst2_q1" gorm:"column:mst2_q1;not null"`
	MST2Q2 string `json:"mst2_q2" gorm:"column:mst2_q2;not null"`
	MST2Q3 string `json:"mst2_q3" gorm:"column:mst2_q3;not null"`

	QuizAssignment datatypes.JSON `json:"quiz_assignment"` // []string of CO names

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *COMapping) QuizCOs() []string {
	if len(m.QuizAssignment) == 0 {
		return nil
	}
	var cos []string
	if err := json.Unmarshal(m.QuizAssignment, &cos); err != nil {
		return nil
	}
	return cos
}
