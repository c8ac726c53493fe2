// Package attainment turns persisted exam score sheets into course-outcome
// attainment tables. It is a stateless transform over already-loaded rows;
// loading, caching and export formatting live in the report service.
package attainment

import "campuslms/models"

// NumCOs is the number of course-outcome buckets every subject is mapped into.
const NumCOs = 5

// CONames lists the bucket names in display order.
var CONames = [NumCOs]string{"CO1", "CO2", "CO3", "CO4", "CO5"}

// Attainment level cutoffs, checked high to low.
const (
	levelThreePct = 70
	levelTwoPct   = 60
	levelOnePct   = 50
)

// CIE/SEE blend weights for the final report. Fixed domain policy.
const (
	cieWeight = 0.30
	seeWeight = 0.70
)

// COVector holds one value per course-outcome bucket, indexed in CONames order.
type COVector [NumCOs]float64

func (v *COVector) add(co string, marks float64) {
	if i := coIndex(co); i >= 0 {
		v[i] += marks
	}
}

func coIndex(co string) int {
	for i, name := range CONames {
		if name == co {
			return i
		}
	}
	return -1
}

// Level maps a percentage of students at or above target to the 0-3
// attainment scale.
func Level(percentage float64) int {
	switch {
	case percentage >= levelThreePct:
		return 3
	case percentage >= levelTwoPct:
		return 2
	case percentage >= levelOnePct:
		return 1
	default:
		return 0
	}
}

// BucketSummary is the per-CO bottom block of an attainment table.
type BucketSummary struct {
	CO                  string  `json:"co"`
	Total               float64 `json:"total"`
	Average             float64 `json:"average"` // target mark for the CO
	StudentsAboveTarget int     `json:"students_above_target"`
	Percentage          float64 `json:"percentage"`
	Level               int     `json:"level"`
}

// StudentRow is one student's line in an attainment table: the raw slot marks
// in display order plus the per-CO totals they map into.
type StudentRow struct {
	EnrollmentNo string    `json:"enrollment_no"`
	Name         string    `json:"name"`
	Marks        []float64 `json:"marks"`
	COTotals     COVector  `json:"co_totals"`
}

// Report is a full attainment table for one exam component of one subject.
type Report struct {
	SubjectCode  string                `json:"subject_code"`
	Component    string                `json:"component"` // MST1, MST2, ENDSEM, QUIZ
	SlotHeaders  []string              `json:"slot_headers"`
	StudentCount int                   `json:"student_count"`
	Rows         []StudentRow          `json:"rows"`
	Buckets      [NumCOs]BucketSummary `json:"buckets"`
}

// slot pairs a raw mark with the CO bucket it belongs to.
type slot struct {
	co    string
	marks float64
}

// build assembles a Report from per-student slot lists. The target mark for a
// CO is the class average of that CO's total; a student counts toward
// attainment when their own CO total meets it. An empty class yields zeroed
// buckets rather than a division by zero.
func build(subjectCode, component string, headers []string, sheets []models.Sheet, slotsFor func(*models.Sheet) []slot) *Report {
	report := &Report{
		SubjectCode:  subjectCode,
		Component:    component,
		SlotHeaders:  headers,
		StudentCount: len(sheets),
		Rows:         make([]StudentRow, 0, len(sheets)),
	}

	var grand COVector
	for i := range sheets {
		sheet := &sheets[i]
		row := StudentRow{EnrollmentNo: sheet.EnrollmentNo, Name: sheet.Name}
		for _, s := range slotsFor(sheet) {
			row.Marks = append(row.Marks, s.marks)
			row.COTotals.add(s.co, s.marks)
		}
		for j, total := range row.COTotals {
			grand[j] += total
		}
		report.Rows = append(report.Rows, row)
	}

	for i := range report.Buckets {
		report.Buckets[i].CO = CONames[i]
		report.Buckets[i].Total = grand[i]
	}
	if len(sheets) == 0 {
		return report
	}

	n := float64(len(sheets))
	for i := range report.Buckets {
		b := &report.Buckets[i]
		b.Average = b.Total / n
		for _, row := range report.Rows {
			if row.COTotals[i] >= b.Average {
				b.StudentsAboveTarget++
			}
		}
		b.Percentage = float64(b.StudentsAboveTarget) / n * 100
		b.Level = Level(b.Percentage)
	}
	return report
}

// MST1Report aggregates the first mid-semester test using the subject's slot
// to CO assignments.
func MST1Report(m *models.COMapping, sheets []models.Sheet) *Report {
	headers := []string{"Q1-" + m.MST1Q1, "Q2-" + m.MST1Q2, "Q3-" + m.MST1Q3}
	return build(m.SubjectCode, "MST1", headers, sheets, func(s *models.Sheet) []slot {
		return []slot{
			{m.MST1Q1, s.MST1Q1},
			{m.MST1Q2, s.MST1Q2},
			{m.MST1Q3, s.MST1Q3},
		}
	})
}

// MST2Report aggregates the second mid-semester test.
func MST2Report(m *models.COMapping, sheets []models.Sheet) *Report {
	headers := []string{"Q1-" + m.MST2Q1, "Q2-" + m.MST2Q2, "Q3-" + m.MST2Q3}
	return build(m.SubjectCode, "MST2", headers, sheets, func(s *models.Sheet) []slot {
		return []slot{
			{m.MST2Q1, s.MST2Q1},
			{m.MST2Q2, s.MST2Q2},
			{m.MST2Q3, s.MST2Q3},
		}
	})
}

// EndSemReport aggregates the end-semester exam, whose five sub-questions map
// directly onto CO1..CO5.
func EndSemReport(subjectCode string, sheets []models.Sheet) *Report {
	headers := []string{"CO1", "CO2", "CO3", "CO4", "CO5"}
	return build(subjectCode, "ENDSEM", headers, sheets, func(s *models.Sheet) []slot {
		return []slot{
			{"CO1", s.EndSemQ1},
			{"CO2", s.EndSemQ2},
			{"CO3", s.EndSemQ3},
			{"CO4", s.EndSemQ4},
			{"CO5", s.EndSemQ5},
		}
	})
}

// QuizReport aggregates the quiz/assignment composite. Each student's
// composite mark is split evenly across every CO the composite is mapped to.
func QuizReport(m *models.COMapping, sheets []models.Sheet) *Report {
	quizCOs := m.QuizCOs()
	return build(m.SubjectCode, "QUIZ", []string{"Quiz/Assignment"}, sheets, func(s *models.Sheet) []slot {
		slots := []slot{}
		if len(quizCOs) == 0 {
			return slots
		}
		perCO := s.QuizAssignment / float64(len(quizCOs))
		for _, co := range quizCOs {
			slots = append(slots, slot{co, perCO})
		}
		return slots
	})
}

// FinalRow is one CO line of the combined CIE/SEE attainment report. All
// values are class averages; CIE carries the 30% weight and SEE the 70%.
type FinalRow struct {
	CO     string  `json:"co"`
	MST1   float64 `json:"mst1"`
	MST2   float64 `json:"mst2"`
	Quiz   float64 `json:"quiz"`
	CIE    float64 `json:"cie"`
	EndSem float64 `json:"end_sem"`
	Final  float64 `json:"final"`
}

// FinalReport is the overall direct CO attainment table for a subject.
type FinalReport struct {
	SubjectCode  string           `json:"subject_code"`
	StudentCount int              `json:"student_count"`
	Rows         [NumCOs]FinalRow `json:"rows"`
}

// Final blends the internal components (MST1, MST2, quiz composite) at 30%
// with the end-semester exam at 70%, per CO.
func Final(m *models.COMapping, sheets []models.Sheet) *FinalReport {
	report := &FinalReport{SubjectCode: m.SubjectCode, StudentCount: len(sheets)}

	var mst1, mst2, quiz, endSem COVector
	quizCOs := m.QuizCOs()
	for i := range sheets {
		s := &sheets[i]
		mst1.add(m.MST1Q1, s.MST1Q1)
		mst1.add(m.MST1Q2, s.MST1Q2)
		mst1.add(m.MST1Q3, s.MST1Q3)
		mst2.add(m.MST2Q1, s.MST2Q1)
		mst2.add(m.MST2Q2, s.MST2Q2)
		mst2.add(m.MST2Q3, s.MST2Q3)
		if len(quizCOs) > 0 {
			perCO := s.QuizAssignment / float64(len(quizCOs))
			for _, co := range quizCOs {
				quiz.add(co, perCO)
			}
		}
		endSem[0] += s.EndSemQ1
		endSem[1] += s.EndSemQ2
		endSem[2] += s.EndSemQ3
		endSem[3] += s.EndSemQ4
		endSem[4] += s.EndSemQ5
	}

	for i := range report.Rows {
		report.Rows[i].CO = CONames[i]
	}
	if len(sheets) == 0 {
		return report
	}

	n := float64(len(sheets))
	for i := range report.Rows {
		row := &report.Rows[i]
		row.MST1 = mst1[i] / n
		row.MST2 = mst2[i] / n
		row.Quiz = quiz[i] / n
		row.CIE = (mst1[i] + mst2[i] + quiz[i]) / n * cieWeight
		row.EndSem = endSem[i] / n
		row.Final = row.CIE + endSem[i]/n*seeWeight
	}
	return report
}
