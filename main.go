package main

import (
	"log"

	"campuslms/config"
	"campuslms/handlers"
	"campuslms/middleware"
	"campuslms/models"
	"campuslms/routes"
	"campuslms/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Teacher{},
		&models.Admin{},
		&models.Course{},
		&models.Enrollment{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.QuizAttempt{},
		&models.Answer{},
		&models.AttendanceSession{},
		&models.AttendanceRecord{},
		&models.Subject{},
		&models.Sheet{},
		&models.COMapping{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	redisClient := config.InitRedis(cfg)

	hub := services.NewHub()
	go hub.Run()

	authService := services.NewAuthService(db, cfg.JWTSecret)
	courseService := services.NewCourseService(db)
	enrollmentService := services.NewEnrollmentService(db)
	attendanceService := services.NewAttendanceService(db)
	quizService := services.NewQuizService(db)
	attemptService := services.NewAttemptService(db, hub)
	reportService := services.NewReportService(db, redisClient)

	h := &routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Course:      handlers.NewCourseHandler(courseService),
		Enrollment:  handlers.NewEnrollmentHandler(enrollmentService),
		Attendance:  handlers.NewAttendanceHandler(attendanceService),
		Quiz:        handlers.NewQuizHandler(quizService),
		StudentQuiz: handlers.NewStudentQuizHandler(attemptService),
		Report:      handlers.NewReportHandler(reportService),
		WS:          handlers.NewWSHandler(hub, quizService),
	}

	router := gin.Default()
	router.Use(middleware.CORS())
	routes.Setup(router, h, cfg.JWTSecret)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
