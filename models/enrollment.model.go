package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentDropped   = "dropped"
	EnrollmentSuspended = "suspended"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Enrollment links one student to one course. The composite unique
// index serializes concurrent enrollment attempts at the store level.
type Enrollment struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"uniqueIndex:idx_student_course;not null"`
	CourseID uint   `json:"course_id" gorm:"uniqueIndex:idx_student_course;not null"`
	User     User   `json:"-" gorm:"foreignKey:UserID"`
	Course   Course `json:"-" gorm:"foreignKey:CourseID"`

	EnrolledAt time.Time `json:"enrolled_at"`
	Status     string    `json:"status" gorm:"index;default:'active'"` // active, completed, dropped, suspended

	OverallProgress    int        `json:"overall_progress" gorm:"default:0"` // 0..100, derived
	LastAccessedLesson uint       `json:"last_accessed_lesson"`
	LastAccessedAt     *time.Time `json:"last_accessed_at"`
	TotalTimeSpent     int        `json:"total_time_spent" gorm:"default:0"` // minutes
	CompletedAt        *time.Time `json:"completed_at"`

	CertificateIssued   bool       `json:"certificate_issued" gorm:"default:false"`
	CertificateIssuedAt *time.Time `json:"certificate_issued_at"`
	CertificateURL      string     `json:"certificate_url" gorm:"default:''"`
	CertificateNumber   string     `json:"certificate_number" gorm:"default:''"`

	PaymentStatus string  `json:"payment_status" gorm:"default:'pending'"` // pending, completed, failed, refunded
	PaymentID     string  `json:"payment_id" gorm:"default:''"`
	AmountPaid    float64 `json:"amount_paid" gorm:"default:0"`
	Currency      string  `json:"currency" gorm:"default:'USD'"`
	Notes         string  `json:"notes" gorm:"default:''"`
}

// LessonCompletion records a single lesson marked complete within an
// enrollment. Rows are only ever added, never removed.
type LessonCompletion struct {
	gorm.Model
	EnrollmentID uint      `json:"enrollment_id" gorm:"uniqueIndex:idx_enrollment_lesson;not null"`
	LessonID     uint      `json:"lesson_id" gorm:"uniqueIndex:idx_enrollment_lesson;not null"`
	CompletedAt  time.Time `json:"completed_at"`
	TimeSpent    int       `json:"time_spent" gorm:"default:0"` // minutes
}
