package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"openlearn/config"
	"openlearn/database"
	"openlearn/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Namespace for deterministic certificate numbers.
var certificateNamespace = uuid.MustParse("8b6f1d52-04c9-4f3e-9a76-3e2c5d8b1a40")

// EnrollInput carries the payment outcome supplied by the payment layer.
type EnrollInput struct {
	PaymentID  string
	AmountPaid float64
}

// Enroll creates an enrollment for the given student and published
// course. Free courses are treated as paid in full.
func Enroll(userID, courseID uint, input EnrollInput) (*models.Enrollment, error) {
	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, ErrNotFound
	}
	if course.Status != models.CourseStatusPublished {
		return nil, ErrCourseUnavailable
	}

	var existing models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err == nil {
		return nil, ErrDuplicateEnrollment
	}

	paymentStatus := models.PaymentPending
	if input.AmountPaid > 0 || course.Price == 0 {
		paymentStatus = models.PaymentCompleted
	}

	enrollment := models.Enrollment{
		UserID:        userID,
		CourseID:      courseID,
		EnrolledAt:    time.Now(),
		Status:        models.EnrollmentActive,
		PaymentStatus: paymentStatus,
		PaymentID:     input.PaymentID,
		AmountPaid:    input.AmountPaid,
		Currency:      course.Currency,
	}

	if err := db.Create(&enrollment).Error; err != nil {
		// The unique index wins the race when two requests enroll
		// the same pair concurrently.
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			return nil, ErrDuplicateEnrollment
		}
		return nil, err
	}

	refreshStudentsCount(courseID)

	return &enrollment, nil
}

// RecordLessonCompletion marks a lesson complete at most once per
// enrollment. Repeat calls for the same lesson still accrue time and
// touch the last-accessed fields, then progress is recomputed.
func RecordLessonCompletion(enrollmentID, lessonID uint, timeSpent int) (*models.Enrollment, error) {
	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		return nil, ErrNotFound
	}

	var lesson models.Lesson
	if err := db.Where("id = ? AND course_id = ?", lessonID, enrollment.CourseID).First(&lesson).Error; err != nil {
		return nil, ErrNotFound
	}

	var existing models.LessonCompletion
	err := db.Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		completion := models.LessonCompletion{
			EnrollmentID: enrollmentID,
			LessonID:     lessonID,
			CompletedAt:  time.Now(),
			TimeSpent:    timeSpent,
		}
		if err := db.Create(&completion).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	now := time.Now()
	enrollment.LastAccessedLesson = lessonID
	enrollment.LastAccessedAt = &now
	enrollment.TotalTimeSpent += timeSpent

	if err := updateProgress(db, &enrollment); err != nil {
		return nil, err
	}

	return &enrollment, nil
}

// TouchLesson updates the last-accessed fields without marking the
// lesson complete.
func TouchLesson(enrollmentID, lessonID uint) (*models.Enrollment, error) {
	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		return nil, ErrNotFound
	}

	var lesson models.Lesson
	if err := db.Where("id = ? AND course_id = ?", lessonID, enrollment.CourseID).First(&lesson).Error; err != nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	enrollment.LastAccessedLesson = lesson.ID
	enrollment.LastAccessedAt = &now

	if err := db.Save(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// updateProgress recomputes overall progress from the completion set
// and applies the active -> completed transition exactly once. With no
// lessons on the course the stored progress is left untouched.
func updateProgress(db *gorm.DB, enrollment *models.Enrollment) error {
	var totalLessons int64
	if err := db.Model(&models.Lesson{}).Where("course_id = ?", enrollment.CourseID).Count(&totalLessons).Error; err != nil {
		return err
	}

	if totalLessons > 0 {
		// Completions for lessons that were since replaced stay on
		// record but no longer count toward progress.
		var completedLessons int64
		err := db.Model(&models.LessonCompletion{}).
			Joins("JOIN lessons ON lessons.id = lesson_completions.lesson_id AND lessons.deleted_at IS NULL").
			Where("lesson_completions.enrollment_id = ? AND lessons.course_id = ?", enrollment.ID, enrollment.CourseID).
			Count(&completedLessons).Error
		if err != nil {
			return err
		}

		progress := int(math.Round(float64(completedLessons) / float64(totalLessons) * 100))
		if progress > 100 {
			progress = 100
		}
		enrollment.OverallProgress = progress

		if enrollment.OverallProgress >= 100 && enrollment.Status == models.EnrollmentActive {
			now := time.Now()
			enrollment.Status = models.EnrollmentCompleted
			enrollment.CompletedAt = &now
		}
	}

	if err := db.Save(enrollment).Error; err != nil {
		return err
	}

	if enrollment.Status == models.EnrollmentCompleted {
		refreshStudentsCount(enrollment.CourseID)
	}
	return nil
}

// CertificateResult is returned to the delivery layer.
type CertificateResult struct {
	CertificateURL string    `json:"certificate_url"`
	IssuedAt       time.Time `json:"issued_at"`
}

// IssueCertificate issues the completion certificate exactly once per
// enrollment. The certificate number is derived deterministically from
// the enrollment id, so a retry after a lost response regenerates the
// same URL.
func IssueCertificate(enrollmentID uint) (*CertificateResult, error) {
	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		return nil, ErrNotFound
	}

	if enrollment.Status != models.EnrollmentCompleted {
		return nil, ErrNotCompleted
	}
	if enrollment.CertificateIssued {
		return nil, ErrAlreadyIssued
	}

	number := uuid.NewSHA1(certificateNamespace, []byte(fmt.Sprintf("enrollment:%d", enrollment.ID))).String()
	now := time.Now()

	enrollment.CertificateIssued = true
	enrollment.CertificateIssuedAt = &now
	enrollment.CertificateNumber = number
	enrollment.CertificateURL = fmt.Sprintf("%s/%s", config.AppConfig.CertificateBaseURL, number)

	if err := db.Save(&enrollment).Error; err != nil {
		return nil, err
	}

	return &CertificateResult{
		CertificateURL: enrollment.CertificateURL,
		IssuedAt:       now,
	}, nil
}

// Refund drops the enrollment and marks its payment refunded. Outside
// the refund window only admins may refund.
func Refund(enrollmentID uint, actorRole string, reason string) error {
	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		return ErrNotFound
	}

	if enrollment.PaymentStatus != models.PaymentCompleted {
		return ErrNothingToRefund
	}

	window := time.Duration(config.AppConfig.RefundWindowDays) * 24 * time.Hour
	if actorRole != models.RoleAdmin && time.Now().After(enrollment.EnrolledAt.Add(window)) {
		return ErrRefundWindowExpired
	}

	enrollment.Status = models.EnrollmentDropped
	enrollment.PaymentStatus = models.PaymentRefunded
	if reason == "" {
		reason = "Refund processed"
	}
	enrollment.Notes = reason

	if err := db.Save(&enrollment).Error; err != nil {
		return err
	}

	refreshStudentsCount(enrollment.CourseID)
	return nil
}

// refreshStudentsCount keeps the derived count best-effort. A failure
// here never rolls back the enrollment mutation that triggered it; the
// count is reconciled on the next write or by the nightly job.
func refreshStudentsCount(courseID uint) {
	if _, err := RecomputeStudentsCount(courseID); err != nil {
		log.Printf("Failed to refresh students count for course %d: %v", courseID, err)
	}
}
