package services

import (
	"fmt"
	"testing"

	"openlearn/config"
	"openlearn/database"
	"openlearn/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB swaps the global database for a fresh in-memory SQLite
// instance. A single connection keeps the in-memory database alive for
// the duration of the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	if config.AppConfig == nil {
		config.AppConfig = &config.Config{
			Port:               "3000",
			JWTKey:             "testSecret",
			SaltRound:          4,
			CertificateBaseURL: "https://certificates.openlearn.org",
			RefundWindowDays:   30,
		}
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()

	user := models.User{
		Name:     "Test " + role,
		Email:    fmt.Sprintf("%s-%d@example.com", role, nextSeq()),
		Password: "hashed",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestCourse(t *testing.T, db *gorm.DB, instructorID uint, status string, lessonDurations ...int) *models.Course {
	t.Helper()

	course := models.Course{
		Title:        fmt.Sprintf("Course %d", nextSeq()),
		Description:  "A test course",
		InstructorID: instructorID,
		Category:     "Programming",
		Level:        "Beginner",
		Price:        49.99,
		Status:       status,
	}
	for i, minutes := range lessonDurations {
		course.Lessons = append(course.Lessons, models.Lesson{
			Title:    fmt.Sprintf("Lesson %d", i+1),
			Duration: minutes,
			Position: i + 1,
		})
	}
	course.Duration = lessonDurationHours(course.Lessons)
	require.NoError(t, db.Create(&course).Error)
	return &course
}

var seq int

func nextSeq() int {
	seq++
	return seq
}
