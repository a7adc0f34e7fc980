package services

import "errors"

// Domain errors returned by the service layer. Controllers match on
// these with errors.Is and map them to HTTP statuses.
var (
	ErrNotFound            = errors.New("entity not found")
	ErrForbidden           = errors.New("access denied")
	ErrDuplicateEnrollment = errors.New("already enrolled in this course")
	ErrDuplicateReview     = errors.New("course already reviewed")
	ErrCourseUnavailable   = errors.New("course is not published")
	ErrNotCompleted        = errors.New("course not completed")
	ErrAlreadyIssued       = errors.New("certificate already issued")
	ErrNothingToRefund     = errors.New("no completed payment to refund")
	ErrRefundWindowExpired = errors.New("refund window has expired")
	ErrCourseHasStudents   = errors.New("course has enrollments")
	ErrValidation          = errors.New("validation failed")
)
