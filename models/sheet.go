package models

import "time"

// Sheet holds one student's raw exam marks for a subject: three sub-questions
// per mid-semester test, a quiz/assignment composite, and five end-semester
// sub-questions. The enrollment number plus subject code form the key.
type Sheet struct {
	EnrollmentNo string `json:"enrollment_no" gorm:"primaryKey;column:enrollment_no"`
	SubjectCode  string `json:"subject_code" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"not null"`

	MST1Q1 float64 `json:"mst1_q1" gorm:"column:mst1_q1"`
	MST1Q2 float64 `json:"mst1_q2" gorm:"column:mst1_q2"`
	MST1Q3 float64 `json:"mst1_q3" gorm:"column:mst1_q3"`
	MST2Q1 float64 `json:"mst2_q1" gorm:"column:mst2_q1"`
	MST2Q2 float64 `json:"mst2_q2" gorm:"column:mst2_q2"`
	MST2Q3 float64 `json:"mst2_q3" gorm:"column:mst2_q3"`

	QuizAssignment float64 `json:"quiz_assignment"`

	EndSemQ1 float64 `json:"endsem_q1" gorm:"column:endsem_q1"`
	EndSemQ2 float64 `json:"endsem_q2" gorm:"column:endsem_q2"`
	EndSemQ3 float64 `json:"endsem_q3" gorm:"column:endsem_q3"`
	EndSemQ4 float64 `json:"endsem_q4" gorm:"column:endsem_q4"`
	EndSemQ5 float64 `json:"endsem_q5" gorm:"column:endsem_q5"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Sheet) MST1Total() float64 {
	return s.MST1Q1 + s.MST1Q2 + s.MST1Q3
}

func (s *Sheet) MST2Total() float64 {
	return s.MST2Q1 + s.MST2Q2 + s.MST2Q3
}

func (s *Sheet) MSTBest() float64 {
	if t1, t2 := s.MST1Total(), s.MST2Total(); t1 > t2 {
		return t1
	}
	return s.MST2Total()
}

func (s *Sheet) EndSemTotal() float64 {
	return s.EndSemQ1 + s.EndSemQ2 + s.EndSemQ3 + s.EndSemQ4 + s.EndSemQ5
}
