package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"campuslms/attainment"
	"campuslms/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// reportCacheTTL bounds how stale a cached attainment table can get. Reports
// are recomputed from persisted rows on demand, so staleness only delays a
// refresh, never corrupts anything.
const reportCacheTTL = 10 * time.Minute

type ReportService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewReportService(db *gorm.DB, redis *redis.Client) *ReportService {
	return &ReportService{db: db, redis: redis}
}

type SubjectRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// CreateSubject registers the exam-side subject record sheets hang off.
func (s *ReportService) CreateSubject(userID uint, req *SubjectRequest) (*models.Subject, error) {
	var teacher models.Teacher
	if err := s.db.Where("user_id = ?", userID).First(&teacher).Error; err != nil {
		return nil, fmt.Errorf("%w: teacher profile", ErrNotFound)
	}
	subject := models.Subject{Code: req.Code, Name: req.Name, TeacherID: teacher.ID}
	if err := s.db.Create(&subject).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (s *ReportService) GetSubjects() ([]models.Subject, error) {
	var subjects []models.Subject
	err := s.db.Preload("Teacher").Order("code").Find(&subjects).Error
	return subjects, err
}

type COMappingRequest struct {
	SubjectCode    string    `json:"subject_code" binding:"required"`
	MST1           [3]string `json:"mst1" binding:"required"`
	MST2           [3]string `json:"mst2" binding:"required"`
	QuizAssignment []string  `json:"quiz_assignment" binding:"required,min=1"`
}

type SheetRequest struct {
	EnrollmentNo   string     `json:"enrollment_no" binding:"required"`
	Name           string     `json:"name" binding:"required"`
	SubjectCode    string     `json:"subject_code" binding:"required"`
	MST1           [3]float64 `json:"mst1"`
	MST2           [3]float64 `json:"mst2"`
	QuizAssignment float64    `json:"quiz_assignment"`
	EndSem         [5]float64 `json:"end_sem"`
}

// UpsertCOMapping creates or replaces the slot-to-CO assignment for a subject
// and drops any cached reports built from the old mapping.
func (s *ReportService) UpsertCOMapping(req *COMappingRequest) (*models.COMapping, error) {
	for _, co := range append(append(req.MST1[:], req.MST2[:]...), req.QuizAssignment...) {
		if !validCO(co) {
			return nil, fmt.Errorf("%w: unknown CO bucket %q", ErrValidation, co)
		}
	}

	quizCOs, err := json.Marshal(req.QuizAssignment)
	if err != nil {
		return nil, err
	}

	var mapping models.COMapping
	err = s.db.Where("subject_code = ?", req.SubjectCode).First(&mapping).Error
	if err != nil {
		mapping = models.COMapping{SubjectCode: req.SubjectCode}
	}
	mapping.MST1Q1, mapping.MST1Q2, mapping.MST1Q3 = req.MST1[0], req.MST1[1], req.MST1[2]
	mapping.MST2Q1, mapping.MST2Q2, mapping.MST2Q3 = req.MST2[0], req.MST2[1], req.MST2[2]
	mapping.QuizAssignment = datatypes.JSON(quizCOs)

	if err := s.db.Save(&mapping).Error; err != nil {
		return nil, err
	}
	s.invalidateReports(req.SubjectCode)
	return &mapping, nil
}

// UpsertSheet writes one student's marks row and invalidates cached reports
// for the subject.
func (s *ReportService) UpsertSheet(req *SheetRequest) (*models.Sheet, error) {
	var subject models.Subject
	if err := s.db.Where("code = ?", req.SubjectCode).First(&subject).Error; err != nil {
		return nil, fmt.Errorf("%w: subject %s", ErrNotFound, req.SubjectCode)
	}

	sheet := models.Sheet{
		EnrollmentNo:   req.EnrollmentNo,
		SubjectCode:    req.SubjectCode,
		Name:           req.Name,
		MST1Q1:         req.MST1[0],
		MST1Q2:         req.MST1[1],
		MST1Q3:         req.MST1[2],
		MST2Q1:         req.MST2[0],
		MST2Q2:         req.MST2[1],
		MST2Q3:         req.MST2[2],
		QuizAssignment: req.QuizAssignment,
		EndSemQ1:       req.EndSem[0],
		EndSemQ2:       req.EndSem[1],
		EndSemQ3:       req.EndSem[2],
		EndSemQ4:       req.EndSem[3],
		EndSemQ5:       req.EndSem[4],
	}
	if err := s.db.Save(&sheet).Error; err != nil {
		return nil, err
	}
	s.invalidateReports(req.SubjectCode)
	return &sheet, nil
}

func (s *ReportService) GetSheets(subjectCode string) ([]models.Sheet, error) {
	var sheets []models.Sheet
	err := s.db.Where("subject_code = ?", subjectCode).Order("enrollment_no").Find(&sheets).Error
	return sheets, err
}

// MSTAttainment computes the attainment table for MST1 or MST2.
func (s *ReportService) MSTAttainment(subjectCode string, mst int) (*attainment.Report, error) {
	if mst != 1 && mst != 2 {
		return nil, fmt.Errorf("%w: mst must be 1 or 2", ErrValidation)
	}

	cacheKey := "report:mst" + strconv.Itoa(mst) + ":" + subjectCode
	if cached := s.cachedReport(cacheKey); cached != nil {
		return cached, nil
	}

	mapping, sheets, err := s.loadSubjectData(subjectCode)
	if err != nil {
		return nil, err
	}

	var report *attainment.Report
	if mst == 1 {
		report = attainment.MST1Report(mapping, sheets)
	} else {
		report = attainment.MST2Report(mapping, sheets)
	}
	s.cacheReport(cacheKey, report)
	return report, nil
}

// EndSemAttainment computes the end-semester attainment table.
func (s *ReportService) EndSemAttainment(subjectCode string) (*attainment.Report, error) {
	cacheKey := "report:endsem:" + subjectCode
	if cached := s.cachedReport(cacheKey); cached != nil {
		return cached, nil
	}

	sheets, err := s.requireSheets(subjectCode)
	if err != nil {
		return nil, err
	}

	report := attainment.EndSemReport(subjectCode, sheets)
	s.cacheReport(cacheKey, report)
	return report, nil
}

// QuizAttainment computes the quiz/assignment composite attainment table.
func (s *ReportService) QuizAttainment(subjectCode string) (*attainment.Report, error) {
	cacheKey := "report:quiz:" + subjectCode
	if cached := s.cachedReport(cacheKey); cached != nil {
		return cached, nil
	}

	mapping, sheets, err := s.loadSubjectData(subjectCode)
	if err != nil {
		return nil, err
	}

	report := attainment.QuizReport(mapping, sheets)
	s.cacheReport(cacheKey, report)
	return report, nil
}

// FinalAttainment computes the combined CIE/SEE direct attainment table.
func (s *ReportService) FinalAttainment(subjectCode string) (*attainment.FinalReport, error) {
	mapping, sheets, err := s.loadSubjectData(subjectCode)
	if err != nil {
		return nil, err
	}
	return attainment.Final(mapping, sheets), nil
}

func (s *ReportService) loadSubjectData(subjectCode string) (*models.COMapping, []models.Sheet, error) {
	var mapping models.COMapping
	if err := s.db.Where("subject_code = ?", subjectCode).First(&mapping).Error; err != nil {
		return nil, nil, fmt.Errorf("%w: CO mapping for subject %s", ErrNotFound, subjectCode)
	}
	sheets, err := s.requireSheets(subjectCode)
	if err != nil {
		return nil, nil, err
	}
	return &mapping, sheets, nil
}

func (s *ReportService) requireSheets(subjectCode string) ([]models.Sheet, error) {
	sheets, err := s.GetSheets(subjectCode)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no score sheets for subject %s", ErrNotFound, subjectCode)
	}
	return sheets, nil
}

func (s *ReportService) cachedReport(key string) *attainment.Report {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(context.Background(), key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis error getting %s: %v", key, err)
		}
		return nil
	}
	var report attainment.Report
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		log.Printf("Failed to unmarshal cached report %s: %v", key, err)
		return nil
	}
	return &report
}

func (s *ReportService) cacheReport(key string, report *attainment.Report) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.redis.Set(context.Background(), key, data, reportCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache report %s: %v", key, err)
	}
}

func (s *ReportService) invalidateReports(subjectCode string) {
	if s.redis == nil {
		return
	}
	keys := []string{
		"report:mst1:" + subjectCode,
		"report:mst2:" + subjectCode,
		"report:endsem:" + subjectCode,
		"report:quiz:" + subjectCode,
	}
	if err := s.redis.Del(context.Background(), keys...).Err(); err != nil {
		log.Printf("Failed to invalidate reports for %s: %v", subjectCode, err)
	}
}

func validCO(co string) bool {
	for _, name := range attainment.CONames {
		if co == name {
			return true
		}
	}
	return false
}
