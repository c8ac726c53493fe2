package services

import (
	"fmt"
	"strconv"

	"campuslms/attainment"
	"campuslms/models"
)

// CSV table builders for the download endpoints. Only the numeric layout is
// produced here; workbook styling belongs to whatever opens the file.

// AttainmentCSV renders an attainment report as rows: header, one line per
// student, then the target/above-target/percentage/level block.
func AttainmentCSV(report *attainment.Report) [][]string {
	header := append([]string{"Enrollment Number", "Name"}, report.SlotHeaders...)
	for _, co := range attainment.CONames {
		header = append(header, "Total "+co)
	}
	records := [][]string{header}

	for _, row := range report.Rows {
		record := []string{row.EnrollmentNo, row.Name}
		for _, marks := range row.Marks {
			record = append(record, formatMarks(marks))
		}
		for _, total := range row.COTotals {
			record = append(record, formatMarks(total))
		}
		records = append(records, record)
	}

	pad := len(report.SlotHeaders)
	records = append(records,
		summaryRecord("Average (Target Marks)", pad, report, func(b attainment.BucketSummary) string {
			return formatMarks(b.Average)
		}),
		summaryRecord("Students >= Target Marks", pad, report, func(b attainment.BucketSummary) string {
			return strconv.Itoa(b.StudentsAboveTarget)
		}),
		summaryRecord("Percentage", pad, report, func(b attainment.BucketSummary) string {
			return formatMarks(b.Percentage) + "%"
		}),
		summaryRecord("CO Level", pad, report, func(b attainment.BucketSummary) string {
			return strconv.Itoa(b.Level)
		}),
	)
	return records
}

func summaryRecord(label string, pad int, report *attainment.Report, value func(attainment.BucketSummary) string) []string {
	record := []string{label, ""}
	for i := 0; i < pad; i++ {
		record = append(record, "")
	}
	for _, bucket := range report.Buckets {
		record = append(record, value(bucket))
	}
	return record
}

// FinalAttainmentCSV renders the combined CIE/SEE table, one line per CO.
func FinalAttainmentCSV(report *attainment.FinalReport) [][]string {
	records := [][]string{
		{"CO", "MST-1", "MST-2", "Assignment/Quiz", "CIE (30%)", "End Sem (70%)", "Final"},
	}
	for _, row := range report.Rows {
		records = append(records, []string{
			row.CO,
			formatMarks(row.MST1),
			formatMarks(row.MST2),
			formatMarks(row.Quiz),
			formatMarks(row.CIE),
			formatMarks(row.EndSem),
			formatMarks(row.Final),
		})
	}
	return records
}

// SheetsCSV renders the raw mark sheet with the derived MST totals, best of
// the two MSTs and end-semester total per student.
func SheetsCSV(sheets []models.Sheet) [][]string {
	records := [][]string{{
		"Enrollment Number", "Name", "Subject Code",
		"MST1_Q1", "MST1_Q2", "MST1_Q3", "MST1_Total",
		"MST2_Q1", "MST2_Q2", "MST2_Q3", "MST2_Total",
		"MST_Best", "Quiz/Assignment",
		"EndSem_Q1", "EndSem_Q2", "EndSem_Q3", "EndSem_Q4", "EndSem_Q5", "EndSem_Total",
	}}
	for i := range sheets {
		s := &sheets[i]
		records = append(records, []string{
			s.EnrollmentNo, s.Name, s.SubjectCode,
			formatMarks(s.MST1Q1), formatMarks(s.MST1Q2), formatMarks(s.MST1Q3), formatMarks(s.MST1Total()),
			formatMarks(s.MST2Q1), formatMarks(s.MST2Q2), formatMarks(s.MST2Q3), formatMarks(s.MST2Total()),
			formatMarks(s.MSTBest()), formatMarks(s.QuizAssignment),
			formatMarks(s.EndSemQ1), formatMarks(s.EndSemQ2), formatMarks(s.EndSemQ3),
			formatMarks(s.EndSemQ4), formatMarks(s.EndSemQ5), formatMarks(s.EndSemTotal()),
		})
	}
	return records
}

// AttendanceCSV renders a monthly register: one column per held session day
// plus the percentage.
func AttendanceCSV(summary *MonthlySummary) [][]string {
	header := []string{"Enrollment Number", "Name"}
	for _, day := range summary.SessionDays {
		header = append(header, strconv.Itoa(day))
	}
	header = append(header, "Percentage")
	records := [][]string{header}

	for _, row := range summary.Rows {
		record := []string{row.EnrollmentNumber, row.Name}
		for _, day := range summary.SessionDays {
			record = append(record, row.Days[day])
		}
		record = append(record, formatMarks(row.Percentage)+"%")
		records = append(records, record)
	}
	return records
}

func formatMarks(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
