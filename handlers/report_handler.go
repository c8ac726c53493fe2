package handlers

import (
	"net/http"

	"campuslms/attainment"
	"campuslms/services"

	"github.com/gin-gonic/gin"
)

// ReportHandler covers subjects, mark sheets, CO mappings and attainment reports.
type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) CreateSubject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject, err := h.reportService.CreateSubject(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

func (h *ReportHandler) GetSubjects(c *gin.Context) {
	subjects, err := h.reportService.GetSubjects()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}

func (h *ReportHandler) UpsertCOMapping(c *gin.Context) {
	var req services.COMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mapping, err := h.reportService.UpsertCOMapping(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapping)
}

func (h *ReportHandler) UpsertSheet(c *gin.Context) {
	var req services.SheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sheet, err := h.reportService.UpsertSheet(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sheet)
}

func (h *ReportHandler) GetSheets(c *gin.Context) {
	sheets, err := h.reportService.GetSheets(c.Param("subjectCode"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sheets)
}

func (h *ReportHandler) SheetsCSV(c *gin.Context) {
	subjectCode := c.Param("subjectCode")
	sheets, err := h.reportService.GetSheets(subjectCode)
	if err != nil {
		respondError(c, err)
		return
	}

	writeCSV(c, "sheets_"+subjectCode+".csv", services.SheetsCSV(sheets))
}

func (h *ReportHandler) MST1Attainment(c *gin.Context) {
	h.attainmentJSON(c, func(code string) (*attainment.Report, error) {
		return h.reportService.MSTAttainment(code, 1)
	})
}

func (h *ReportHandler) MST2Attainment(c *gin.Context) {
	h.attainmentJSON(c, func(code string) (*attainment.Report, error) {
		return h.reportService.MSTAttainment(code, 2)
	})
}

func (h *ReportHandler) EndSemAttainment(c *gin.Context) {
	h.attainmentJSON(c, h.reportService.EndSemAttainment)
}

func (h *ReportHandler) QuizAttainment(c *gin.Context) {
	h.attainmentJSON(c, h.reportService.QuizAttainment)
}

func (h *ReportHandler) MST1AttainmentCSV(c *gin.Context) {
	h.attainmentCSV(c, func(code string) (*attainment.Report, error) {
		return h.reportService.MSTAttainment(code, 1)
	})
}

func (h *ReportHandler) MST2AttainmentCSV(c *gin.Context) {
	h.attainmentCSV(c, func(code string) (*attainment.Report, error) {
		return h.reportService.MSTAttainment(code, 2)
	})
}

func (h *ReportHandler) EndSemAttainmentCSV(c *gin.Context) {
	h.attainmentCSV(c, h.reportService.EndSemAttainment)
}

func (h *ReportHandler) QuizAttainmentCSV(c *gin.Context) {
	h.attainmentCSV(c, h.reportService.QuizAttainment)
}

func (h *ReportHandler) FinalAttainment(c *gin.Context) {
	report, err := h.reportService.FinalAttainment(c.Param("subjectCode"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) FinalAttainmentCSV(c *gin.Context) {
	subjectCode := c.Param("subjectCode")
	report, err := h.reportService.FinalAttainment(subjectCode)
	if err != nil {
		respondError(c, err)
		return
	}

	writeCSV(c, "final_attainment_"+subjectCode+".csv", services.FinalAttainmentCSV(report))
}

func (h *ReportHandler) attainmentJSON(c *gin.Context, load func(string) (*attainment.Report, error)) {
	report, err := load(c.Param("subjectCode"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) attainmentCSV(c *gin.Context, load func(string) (*attainment.Report, error)) {
	report, err := load(c.Param("subjectCode"))
	if err != nil {
		respondError(c, err)
		return
	}

	writeCSV(c, report.Component+"_"+report.SubjectCode+".csv", services.AttainmentCSV(report))
}
