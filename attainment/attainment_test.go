package attainment

import (
	"testing"

	"campuslms/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestLevelCutoffs(t *testing.T) {
	tests := []struct {
		percentage float64
		level      int
	}{
		{100, 3},
		{70, 3},
		{69.9, 2},
		{60, 2},
		{59.9, 1},
		{50, 1},
		{49.9, 0},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, Level(tt.percentage), "percentage %v", tt.percentage)
	}
}

func TestMST1ReportTargetsAndLevels(t *testing.T) {
	mapping := &models.COMapping{
		SubjectCode: "CS301",
		MST1Q1:      "CO1", MST1Q2: "CO1", MST1Q3: "CO2",
	}
	sheets := []models.Sheet{
		{EnrollmentNo: "0101", Name: "Asha", MST1Q1: 5, MST1Q2: 3, MST1Q3: 4},
		{EnrollmentNo: "0102", Name: "Bilal", MST1Q1: 4, MST1Q2: 2, MST1Q3: 6},
	}

	report := MST1Report(mapping, sheets)

	assert.Equal(t, "CS301", report.SubjectCode)
	assert.Equal(t, "MST1", report.Component)
	assert.Equal(t, []string{"Q1-CO1", "Q2-CO1", "Q3-CO2"}, report.SlotHeaders)
	assert.Equal(t, 2, report.StudentCount)

	// Per-student CO totals: Asha CO1=8 CO2=4, Bilal CO1=6 CO2=6.
	assert.Equal(t, 8.0, report.Rows[0].COTotals[0])
	assert.Equal(t, 4.0, report.Rows[0].COTotals[1])
	assert.Equal(t, 6.0, report.Rows[1].COTotals[0])
	assert.Equal(t, 6.0, report.Rows[1].COTotals[1])

	// CO1: total 14, target (class average) 7, only Asha meets it.
	co1 := report.Buckets[0]
	assert.Equal(t, 14.0, co1.Total)
	assert.Equal(t, 7.0, co1.Average)
	assert.Equal(t, 1, co1.StudentsAboveTarget)
	assert.Equal(t, 50.0, co1.Percentage)
	assert.Equal(t, 1, co1.Level)

	// CO2: total 10, target 5, only Bilal meets it.
	co2 := report.Buckets[1]
	assert.Equal(t, 10.0, co2.Total)
	assert.Equal(t, 5.0, co2.Average)
	assert.Equal(t, 1, co2.StudentsAboveTarget)
	assert.Equal(t, 50.0, co2.Percentage)
	assert.Equal(t, 1, co2.Level)

	// Unmapped COs stay zeroed at level 0.
	assert.Equal(t, 0.0, report.Buckets[2].Total)
	assert.Equal(t, 0, report.Buckets[2].Level)
}

func TestEmptyClassYieldsZeroedBuckets(t *testing.T) {
	mapping := &models.COMapping{
		SubjectCode: "CS301",
		MST1Q1:      "CO1", MST1Q2: "CO2", MST1Q3: "CO3",
	}

	report := MST1Report(mapping, nil)

	assert.Equal(t, 0, report.StudentCount)
	assert.Empty(t, report.Rows)
	for i, b := range report.Buckets {
		assert.Equal(t, CONames[i], b.CO)
		assert.Equal(t, 0.0, b.Total)
		assert.Equal(t, 0.0, b.Average)
		assert.Equal(t, 0.0, b.Percentage)
		assert.Equal(t, 0, b.Level)
	}
}

func TestEndSemReportMapsDirectly(t *testing.T) {
	sheets := []models.Sheet{
		{EnrollmentNo: "0101", Name: "Asha", EndSemQ1: 10, EndSemQ2: 8, EndSemQ3: 6, EndSemQ4: 4, EndSemQ5: 2},
	}

	report := EndSemReport("CS301", sheets)

	assert.Equal(t, "ENDSEM", report.Component)
	assert.Equal(t, COVector{10, 8, 6, 4, 2}, report.Rows[0].COTotals)
	for i, want := range []float64{10, 8, 6, 4, 2} {
		assert.Equal(t, want, report.Buckets[i].Total)
	}
}

func TestQuizReportSplitsEvenlyAcrossMappedCOs(t *testing.T) {
	mapping := &models.COMapping{
		SubjectCode:    "CS301",
		QuizAssignment: datatypes.JSON(`["CO1","CO3"]`),
	}
	sheets := []models.Sheet{
		{EnrollmentNo: "0101", Name: "Asha", QuizAssignment: 10},
	}

	report := QuizReport(mapping, sheets)

	assert.Equal(t, "QUIZ", report.Component)
	assert.Equal(t, 5.0, report.Rows[0].COTotals[0])
	assert.Equal(t, 0.0, report.Rows[0].COTotals[1])
	assert.Equal(t, 5.0, report.Rows[0].COTotals[2])
}

func TestQuizReportWithoutMappingScoresNothing(t *testing.T) {
	mapping := &models.COMapping{SubjectCode: "CS301"}
	sheets := []models.Sheet{
		{EnrollmentNo: "0101", Name: "Asha", QuizAssignment: 10},
	}

	report := QuizReport(mapping, sheets)
	assert.Equal(t, COVector{}, report.Rows[0].COTotals)
	assert.Equal(t, 0.0, report.Buckets[0].Total)
}

func TestFinalBlendsInternalAndEndSem(t *testing.T) {
	mapping := &models.COMapping{
		SubjectCode: "CS301",
		MST1Q1:      "CO1", MST1Q2: "CO1", MST1Q3: "CO1",
		MST2Q1: "CO1", MST2Q2: "CO1", MST2Q3: "CO1",
		QuizAssignment: datatypes.JSON(`["CO1"]`),
	}
	sheets := []models.Sheet{
		{
			EnrollmentNo: "0101", Name: "Asha",
			MST1Q1: 5, MST1Q2: 3, MST1Q3: 2,
			MST2Q1: 6, MST2Q2: 2, MST2Q3: 2,
			QuizAssignment: 10,
			EndSemQ1:       20,
		},
	}

	report := Final(mapping, sheets)

	co1 := report.Rows[0]
	assert.Equal(t, "CO1", co1.CO)
	assert.Equal(t, 10.0, co1.MST1)
	assert.Equal(t, 10.0, co1.MST2)
	assert.Equal(t, 10.0, co1.Quiz)
	assert.InDelta(t, 9.0, co1.CIE, 1e-9) // (10+10+10) * 0.30
	assert.Equal(t, 20.0, co1.EndSem)
	assert.InDelta(t, 23.0, co1.Final, 1e-9) // 9 + 20*0.70

	// Nothing mapped to CO2.
	co2 := report.Rows[1]
	assert.Equal(t, 0.0, co2.CIE)
	assert.Equal(t, 0.0, co2.Final)
}

func TestFinalEmptyClass(t *testing.T) {
	mapping := &models.COMapping{SubjectCode: "CS301", MST1Q1: "CO1", MST1Q2: "CO1", MST1Q3: "CO1"}

	report := Final(mapping, nil)
	assert.Equal(t, 0, report.StudentCount)
	for i, row := range report.Rows {
		assert.Equal(t, CONames[i], row.CO)
		assert.Equal(t, 0.0, row.Final)
	}
}
