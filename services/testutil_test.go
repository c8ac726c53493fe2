package services

import (
	"fmt"
	"testing"

	"campuslms/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. TranslateError keeps
// unique-constraint detection identical to the postgres setup.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

func createTeacher(t *testing.T, db *gorm.DB, email string) (*models.User, *models.Teacher) {
	t.Helper()

	user := models.User{FirstName: "Tina", LastName: "Teacher", Email: email, Password: "x", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&user).Error)
	teacher := models.Teacher{UserID: user.ID, FirstName: user.FirstName, LastName: user.LastName}
	require.NoError(t, db.Create(&teacher).Error)
	return &user, &teacher
}

func createStudent(t *testing.T, db *gorm.DB, email, enrollmentNo string) (*models.User, *models.Student) {
	t.Helper()

	user := models.User{FirstName: "Sam", LastName: "Student", Email: email, Password: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&user).Error)
	student := models.Student{UserID: user.ID, FirstName: user.FirstName, LastName: user.LastName, EnrollmentNumber: enrollmentNo}
	require.NoError(t, db.Create(&student).Error)
	return &user, &student
}

func createCourse(t *testing.T, db *gorm.DB, teacher *models.Teacher, code string) *models.Course {
	t.Helper()

	course := models.Course{Name: "Course " + code, CourseCode: code, TeacherID: teacher.ID}
	require.NoError(t, db.Create(&course).Error)
	return &course
}

func enrollAccepted(t *testing.T, db *gorm.DB, student *models.Student, course *models.Course) {
	t.Helper()

	enrollment := models.Enrollment{StudentID: student.ID, CourseID: course.ID, Status: models.EnrollmentAccepted}
	require.NoError(t, db.Create(&enrollment).Error)
}
