package routes

import (
	"net/http"

	"campuslms/handlers"
	"campuslms/middleware"
	"campuslms/models"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Course      *handlers.CourseHandler
	Enrollment  *handlers.EnrollmentHandler
	Attendance  *handlers.AttendanceHandler
	Quiz        *handlers.QuizHandler
	StudentQuiz *handlers.StudentQuizHandler
	Report      *handlers.ReportHandler
	WS          *handlers.WSHandler
}

func Setup(router *gin.Engine, h *Handlers, jwtSecret string) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret))
	{
		protected.GET("/auth/profile", h.Auth.Profile)
		protected.GET("/courses", h.Course.GetCourses)
		protected.GET("/courses/:id", h.Course.GetCourse)
	}

	teacher := protected.Group("")
	teacher.Use(middleware.RequireRole(models.RoleTeacher, models.RoleAdmin))
	{
		teacher.POST("/courses", h.Course.CreateCourse)
		teacher.PUT("/courses/:id", h.Course.UpdateCourse)
		teacher.DELETE("/courses/:id", h.Course.DeleteCourse)
		teacher.GET("/courses/:id/enrollments", h.Enrollment.CourseEnrollments)
		teacher.PUT("/enrollments/:id", h.Enrollment.UpdateStatus)

		teacher.POST("/attendance/sessions", h.Attendance.OpenSession)
		teacher.PUT("/attendance/sessions/:id", h.Attendance.ToggleSession)
		teacher.GET("/courses/:id/attendance/sessions", h.Attendance.CourseSessions)
		teacher.GET("/courses/:id/attendance/summary", h.Attendance.MonthlySummary)
		teacher.GET("/courses/:id/attendance/summary.csv", h.Attendance.MonthlySummaryCSV)

		teacher.POST("/quizzes", h.Quiz.CreateQuiz)
		teacher.GET("/quizzes", h.Quiz.GetQuizzes)
		teacher.GET("/quizzes/:id", h.Quiz.GetQuiz)
		teacher.PUT("/quizzes/:id", h.Quiz.UpdateQuiz)
		teacher.DELETE("/quizzes/:id", h.Quiz.DeleteQuiz)
		teacher.PUT("/quizzes/:id/status", h.Quiz.ToggleStatus)
		teacher.POST("/quizzes/:id/questions", h.Quiz.AddQuestion)
		teacher.PUT("/quizzes/:id/questions/:questionId", h.Quiz.UpdateQuestion)
		teacher.DELETE("/quizzes/:id/questions/:questionId", h.Quiz.DeleteQuestion)
		teacher.GET("/quizzes/:id/attempts", h.Quiz.GetAttempts)
		teacher.GET("/ws/quizzes/:id", h.WS.MonitorQuiz)

		teacher.POST("/subjects", h.Report.CreateSubject)
		teacher.GET("/subjects", h.Report.GetSubjects)
		teacher.PUT("/subjects/:subjectCode/mapping", h.Report.UpsertCOMapping)
		teacher.PUT("/subjects/:subjectCode/sheets", h.Report.UpsertSheet)
		teacher.GET("/subjects/:subjectCode/sheets", h.Report.GetSheets)
		teacher.GET("/subjects/:subjectCode/sheets.csv", h.Report.SheetsCSV)
		teacher.GET("/subjects/:subjectCode/attainment/mst1", h.Report.MST1Attainment)
		teacher.GET("/subjects/:subjectCode/attainment/mst2", h.Report.MST2Attainment)
		teacher.GET("/subjects/:subjectCode/attainment/endsem", h.Report.EndSemAttainment)
		teacher.GET("/subjects/:subjectCode/attainment/quiz", h.Report.QuizAttainment)
		teacher.GET("/subjects/:subjectCode/attainment/final", h.Report.FinalAttainment)
		teacher.GET("/subjects/:subjectCode/attainment/mst1.csv", h.Report.MST1AttainmentCSV)
		teacher.GET("/subjects/:subjectCode/attainment/mst2.csv", h.Report.MST2AttainmentCSV)
		teacher.GET("/subjects/:subjectCode/attainment/endsem.csv", h.Report.EndSemAttainmentCSV)
		teacher.GET("/subjects/:subjectCode/attainment/quiz.csv", h.Report.QuizAttainmentCSV)
		teacher.GET("/subjects/:subjectCode/attainment/final.csv", h.Report.FinalAttainmentCSV)
	}

	student := protected.Group("/student")
	student.Use(middleware.RequireRole(models.RoleStudent))
	{
		student.POST("/enrollments", h.Enrollment.Apply)
		student.GET("/enrollments", h.Enrollment.MyEnrollments)
		student.POST("/attendance/sessions/:id/mark", h.Attendance.MarkPresent)

		student.GET("/quizzes", h.StudentQuiz.AvailableQuizzes)
		student.GET("/quizzes/:id", h.StudentQuiz.GetQuiz)
		student.POST("/quizzes/:id/attempts", h.StudentQuiz.StartAttempt)
		student.POST("/attempts/submit", h.StudentQuiz.SubmitAttempt)
		student.GET("/attempts/:id", h.StudentQuiz.GetAttempt)
		student.GET("/stats", h.StudentQuiz.Stats)
		student.GET("/history", h.StudentQuiz.History)
	}
}
