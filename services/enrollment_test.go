package services

import (
	"fmt"
	"testing"
	"time"

	"openlearn/config"
	"openlearn/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollCreatesActiveEnrollment(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30, 30)

	enrollment, err := Enroll(student.ID, course.ID, EnrollInput{PaymentID: "pi_123", AmountPaid: 49.99})
	require.NoError(t, err)

	assert.Equal(t, models.EnrollmentActive, enrollment.Status)
	assert.Equal(t, models.PaymentCompleted, enrollment.PaymentStatus)
	assert.Equal(t, 0, enrollment.OverallProgress)
	assert.Equal(t, "pi_123", enrollment.PaymentID)
}

func TestEnrollFreeCourse(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)
	require.NoError(t, db.Model(course).Update("price", 0).Error)

	enrollment, err := Enroll(student.ID, course.ID, EnrollInput{})
	require.NoError(t, err)

	assert.Equal(t, models.EnrollmentActive, enrollment.Status)
	assert.Equal(t, models.PaymentCompleted, enrollment.PaymentStatus)
	assert.Equal(t, 0, enrollment.OverallProgress)
}

func TestEnrollPaidCourseWithoutPayment(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	enrollment, err := Enroll(student.ID, course.ID, EnrollInput{})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentPending, enrollment.PaymentStatus)
}

func TestEnrollDuplicateRejected(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	_, err := Enroll(student.ID, course.ID, EnrollInput{AmountPaid: 49.99})
	require.NoError(t, err)

	_, err = Enroll(student.ID, course.ID, EnrollInput{AmountPaid: 49.99})
	assert.ErrorIs(t, err, ErrDuplicateEnrollment)
}

func TestEnrollUnpublishedCourse(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	draft := createTestCourse(t, db, instructor.ID, models.CourseStatusDraft, 30)

	_, err := Enroll(student.ID, draft.ID, EnrollInput{})
	assert.ErrorIs(t, err, ErrCourseUnavailable)
}

func TestStudentsCountCountsActiveOnly(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	first := createTestUser(t, db, models.RoleStudent)
	second := createTestUser(t, db, models.RoleStudent)

	enrollment, err := Enroll(first.ID, course.ID, EnrollInput{AmountPaid: 49.99})
	require.NoError(t, err)
	_, err = Enroll(second.ID, course.ID, EnrollInput{AmountPaid: 49.99})
	require.NoError(t, err)

	var reloaded models.Course
	require.NoError(t, db.First(&reloaded, course.ID).Error)
	assert.Equal(t, int64(2), reloaded.StudentsCount)

	require.NoError(t, Refund(enrollment.ID, models.RoleStudent, "changed my mind"))

	require.NoError(t, db.First(&reloaded, course.ID).Error)
	assert.Equal(t, int64(1), reloaded.StudentsCount)
}

func TestProgressFormula(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30, 30, 30)

	enrollment, err := Enroll(student.ID, course.ID, EnrollInput{AmountPaid: 49.99})
	require.NoError(t, err)

	var lessons []models.Lesson
	require.NoError(t, db.Where("course_id = ?", course.ID).Order("position").Find(&lessons).Error)
	require.Len(t, lessons, 3)

	updated, err := RecordLessonCompletion(enrollment.ID, lessons[0].ID, 25)
	require.NoError(t, err)
	assert.Equal(t, 33, updated.OverallProgress)
	assert.Equal(t, models.EnrollmentActive, updated.Status)

	updated, err = RecordLessonCompletion(enrollment.ID, lessons[1].ID, 28)
	require.NoError(t, err)
	assert.Equal(t, 67, updated.OverallProgress)

	updated, err = RecordLessonCompletion(enrollment.ID, lessons[2].ID, 31)
	require.NoError(t, err)
	assert.Equal(t, 100, updated.OverallProgress)
	assert.Equal(t, models.EnrollmentCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, 84, updated.TotalTimeSpent)
}

func TestLessonCompletionIdempotent(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30, 30)

	enrollment, err := Enroll(student.ID, course.ID, EnrollInput{AmountPaid: 49.99})
	require.NoError(t, err)

	var lesson models.Lesson
	require.NoError(t, db.Where("course_id = ? AND position = ?", course.ID, 1).First(&lesson).Error)

	first, err := RecordLessonCompletion(enrollment.ID, lesson.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, 50, first.OverallProgress)

	// A repeat completion still accrues time but adds no completion row
	// and leaves progress unchanged.
	second, err := RecordLessonCompletion(enrollment.ID, lesson.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 50, second.OverallProgress)
	assert.Equal(t, 30, second.TotalTimeSpent)

	var completions int64
	require.NoError(t, db.Model(&models.LessonCompletion{}).Where("enrollment_id = ?", enrollment.ID).Count(&completions).Error)
	assert.Equal(t, int64(1), completions)
}

func TestCompletedStatusNeverReverts(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	enrollment, err := Enroll(student.ID, course.ID, EnrollInput{AmountPaid: 49.99})
	require.NoError(t, err)

	var lesson models.Lesson
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&lesson).Error)

	completed, err := RecordLessonCompletion(enrollment.ID, lesson.ID, 30)
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentCompleted, completed.Status)
	firstCompletedAt := *completed.CompletedAt

	again, err := RecordLessonCompletion(enrollment.ID, lesson.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentCompleted, again.Status)
	require.NotNil(t, again.CompletedAt)
	assert.WithinDuration(t, firstCompletedAt, *again.CompletedAt, time.Second)
}

func TestProgressSurvivesLessonReplacement(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30, 30, 30)

	enrollment, err := Enroll(student.ID, course.ID, EnrollInput{AmountPaid: 49.99})
	require.NoError(t, err)

	var lessons []models.Lesson
	require.NoError(t, db.Where("course_id = ?", course.ID).Order("position").Find(&lessons).Error)
	_, err = RecordLessonCompletion(enrollment.ID, lessons[0].ID, 30)
	require.NoError(t, err)
	updated, err := RecordLessonCompletion(enrollment.ID, lessons[1].ID, 30)
	require.NoError(t, err)
	require.Equal(t, 67, updated.OverallProgress)

	// The instructor swaps the curriculum down to a single lesson.
	// Completions of the replaced lessons stop counting.
	_, err = UpdateCourse(course.ID, instructor.ID, models.RoleTeacher, CourseInput{
		Lessons: []LessonInput{
			{Title: "Condensed edition", Duration: 60, Position: 1},
		},
	})
	require.NoError(t, err)

	var replacement models.Lesson
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&replacement).Error)

	finished, err := RecordLessonCompletion(enrollment.ID, replacement.ID, 60)
	require.NoError(t, err)
	assert.Equal(t, 100, finished.OverallProgress)
	assert.LessOrEqual(t, finished.OverallProgress, 100)
	assert.Equal(t, models.EnrollmentCompleted, finished.Status)
	require.NotNil(t, finished.CompletedAt)
}

func TestTouchLessonUnknownLesson(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)
	other := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	enrollment, err := Enroll(student.ID, course.ID, EnrollInput{AmountPaid: 49.99})
	require.NoError(t, err)

	var foreign models.Lesson
	require.NoError(t, db.Where("course_id = ?", other.ID).First(&foreign).Error)

	_, err = TouchLesson(enrollment.ID, foreign.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var own models.Lesson
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&own).Error)

	touched, err := TouchLesson(enrollment.ID, own.ID)
	require.NoError(t, err)
	assert.Equal(t, own.ID, touched.LastAccessedLesson)
}

func TestRecordLessonCompletionUnknownLesson(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)
	other := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	enrollment, err := Enroll(student.ID, course.ID, EnrollInput{AmountPaid: 49.99})
	require.NoError(t, err)

	// A lesson belonging to a different course is not accepted.
	var foreign models.Lesson
	require.NoError(t, db.Where("course_id = ?", other.ID).First(&foreign).Error)

	_, err = RecordLessonCompletion(enrollment.ID, foreign.ID, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueCertificate(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	enrollment, err := Enroll(student.ID, course.ID, EnrollInput{AmountPaid: 49.99})
	require.NoError(t, err)

	_, err = IssueCertificate(enrollment.ID)
	assert.ErrorIs(t, err, ErrNotCompleted)

	var lesson models.Lesson
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&lesson).Error)
	_, err = RecordLessonCompletion(enrollment.ID, lesson.ID, 30)
	require.NoError(t, err)

	result, err := IssueCertificate(enrollment.ID)
	require.NoError(t, err)

	expectedNumber := uuid.NewSHA1(certificateNamespace, []byte(fmt.Sprintf("enrollment:%d", enrollment.ID))).String()
	assert.Equal(t, config.AppConfig.CertificateBaseURL+"/"+expectedNumber, result.CertificateURL)

	_, err = IssueCertificate(enrollment.ID)
	assert.ErrorIs(t, err, ErrAlreadyIssued)
}

func TestRefundInsideWindow(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	enrollment, err := Enroll(student.ID, course.ID, EnrollInput{AmountPaid: 49.99})
	require.NoError(t, err)

	enrolledAt := time.Now().Add(-29 * 24 * time.Hour)
	require.NoError(t, db.Model(enrollment).Update("enrolled_at", enrolledAt).Error)

	require.NoError(t, Refund(enrollment.ID, models.RoleStudent, "not what I expected"))

	var reloaded models.Enrollment
	require.NoError(t, db.First(&reloaded, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentDropped, reloaded.Status)
	assert.Equal(t, models.PaymentRefunded, reloaded.PaymentStatus)
	assert.Equal(t, "not what I expected", reloaded.Notes)
}

func TestRefundOutsideWindow(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	enrollment, err := Enroll(student.ID, course.ID, EnrollInput{AmountPaid: 49.99})
	require.NoError(t, err)

	enrolledAt := time.Now().Add(-31 * 24 * time.Hour)
	require.NoError(t, db.Model(enrollment).Update("enrolled_at", enrolledAt).Error)

	err = Refund(enrollment.ID, models.RoleStudent, "")
	assert.ErrorIs(t, err, ErrRefundWindowExpired)

	// Admins may refund past the window.
	require.NoError(t, Refund(enrollment.ID, models.RoleAdmin, "goodwill refund"))

	var reloaded models.Enrollment
	require.NoError(t, db.First(&reloaded, enrollment.ID).Error)
	assert.Equal(t, models.PaymentRefunded, reloaded.PaymentStatus)
}

func TestRefundWithoutCompletedPayment(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	enrollment, err := Enroll(student.ID, course.ID, EnrollInput{})
	require.NoError(t, err)
	require.Equal(t, models.PaymentPending, enrollment.PaymentStatus)

	err = Refund(enrollment.ID, models.RoleStudent, "")
	assert.ErrorIs(t, err, ErrNothingToRefund)
}
