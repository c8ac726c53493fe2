package services

import (
	"testing"

	"campuslms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type reportFixture struct {
	db      *gorm.DB
	service *ReportService
	teacher *models.User
}

// newReportFixture seeds a subject with a CO mapping and two score sheets.
// Redis is nil: caching is a best-effort layer the reports work without.
func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	db := newTestDB(t)
	teacherUser, _ := createTeacher(t, db, "teacher@example.com")

	f := &reportFixture{db: db, service: NewReportService(db, nil), teacher: teacherUser}

	_, err := f.service.CreateSubject(teacherUser.ID, &SubjectRequest{Code: "CS301", Name: "Databases"})
	require.NoError(t, err)

	_, err = f.service.UpsertCOMapping(&COMappingRequest{
		SubjectCode:    "CS301",
		MST1:           [3]string{"CO1", "CO1", "CO2"},
		MST2:           [3]string{"CO3", "CO3", "CO4"},
		QuizAssignment: []string{"CO1", "CO3"},
	})
	require.NoError(t, err)

	for _, sheet := range []SheetRequest{
		{EnrollmentNo: "0101", Name: "Asha", SubjectCode: "CS301",
			MST1: [3]float64{5, 3, 4}, MST2: [3]float64{4, 4, 5},
			QuizAssignment: 10, EndSem: [5]float64{12, 10, 8, 6, 4}},
		{EnrollmentNo: "0102", Name: "Bilal", SubjectCode: "CS301",
			MST1: [3]float64{4, 2, 6}, MST2: [3]float64{3, 3, 4},
			QuizAssignment: 6, EndSem: [5]float64{10, 8, 6, 4, 2}},
	} {
		_, err := f.service.UpsertSheet(&sheet)
		require.NoError(t, err)
	}
	return f
}

func TestUpsertCOMappingRejectsUnknownBucket(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.service.UpsertCOMapping(&COMappingRequest{
		SubjectCode:    "CS301",
		MST1:           [3]string{"CO1", "CO9", "CO2"},
		MST2:           [3]string{"CO3", "CO3", "CO4"},
		QuizAssignment: []string{"CO1"},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpsertCOMappingReplacesExisting(t *testing.T) {
	f := newReportFixture(t)

	mapping, err := f.service.UpsertCOMapping(&COMappingRequest{
		SubjectCode:    "CS301",
		MST1:           [3]string{"CO2", "CO2", "CO2"},
		MST2:           [3]string{"CO3", "CO3", "CO4"},
		QuizAssignment: []string{"CO5"},
	})
	require.NoError(t, err)
	assert.Equal(t, "CO2", mapping.MST1Q1)
	assert.Equal(t, []string{"CO5"}, mapping.QuizCOs())

	var count int64
	require.NoError(t, f.db.Model(&models.COMapping{}).Where("subject_code = ?", "CS301").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertSheetUnknownSubject(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.service.UpsertSheet(&SheetRequest{EnrollmentNo: "0101", Name: "Asha", SubjectCode: "NOPE"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertSheetUpdatesInPlace(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.service.UpsertSheet(&SheetRequest{
		EnrollmentNo: "0101", Name: "Asha", SubjectCode: "CS301",
		MST1: [3]float64{7, 7, 7},
	})
	require.NoError(t, err)

	sheets, err := f.service.GetSheets("CS301")
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, 7.0, sheets[0].MST1Q1)
}

func TestMSTAttainment(t *testing.T) {
	f := newReportFixture(t)

	report, err := f.service.MSTAttainment("CS301", 1)
	require.NoError(t, err)

	assert.Equal(t, "MST1", report.Component)
	assert.Equal(t, 2, report.StudentCount)
	// CO1 totals: Asha 8, Bilal 6 -> class average 7, one student at target.
	assert.Equal(t, 7.0, report.Buckets[0].Average)
	assert.Equal(t, 1, report.Buckets[0].StudentsAboveTarget)
	assert.Equal(t, 50.0, report.Buckets[0].Percentage)
	assert.Equal(t, 1, report.Buckets[0].Level)
}

func TestMSTAttainmentRejectsBadIndex(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.service.MSTAttainment("CS301", 3)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAttainmentWithoutMapping(t *testing.T) {
	db := newTestDB(t)
	service := NewReportService(db, nil)

	_, err := service.MSTAttainment("CS999", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttainmentWithoutSheets(t *testing.T) {
	db := newTestDB(t)
	teacherUser, _ := createTeacher(t, db, "teacher@example.com")
	service := NewReportService(db, nil)

	_, err := service.CreateSubject(teacherUser.ID, &SubjectRequest{Code: "CS302", Name: "Networks"})
	require.NoError(t, err)
	_, err = service.UpsertCOMapping(&COMappingRequest{
		SubjectCode:    "CS302",
		MST1:           [3]string{"CO1", "CO1", "CO2"},
		MST2:           [3]string{"CO3", "CO3", "CO4"},
		QuizAssignment: []string{"CO1"},
	})
	require.NoError(t, err)

	_, err = service.MSTAttainment("CS302", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuizAttainmentFansOut(t *testing.T) {
	f := newReportFixture(t)

	report, err := f.service.QuizAttainment("CS301")
	require.NoError(t, err)

	// Asha's composite 10 splits 5/5 across CO1 and CO3.
	assert.Equal(t, 5.0, report.Rows[0].COTotals[0])
	assert.Equal(t, 5.0, report.Rows[0].COTotals[2])
	assert.Equal(t, 0.0, report.Rows[0].COTotals[1])
}

func TestFinalAttainmentBlend(t *testing.T) {
	f := newReportFixture(t)

	report, err := f.service.FinalAttainment("CS301")
	require.NoError(t, err)

	// CO1 internals per student: MST1 8 and 6, quiz shares 5 and 3, nothing
	// from MST2. EndSem Q1 carries 12 and 10.
	co1 := report.Rows[0]
	assert.Equal(t, 7.0, co1.MST1)    // (8+6)/2
	assert.Equal(t, 4.0, co1.Quiz)    // (5+3)/2
	assert.Equal(t, 11.0, co1.EndSem) // (12+10)/2
	assert.InDelta(t, (14.0+8.0)/2*0.30, co1.CIE, 1e-9)
	assert.InDelta(t, co1.CIE+11.0*0.70, co1.Final, 1e-9)
}
