package services

import (
	"openlearn/database"
	"openlearn/models"
)

// RecomputeStudentsCount rebuilds a course's active-student count.
// Only enrollments currently in active status are counted; completed
// and dropped ones are not. This mirrors the "currently learning"
// metric the product exposes.
func RecomputeStudentsCount(courseID uint) (int64, error) {
	db := database.Database.Db

	var count int64
	err := db.Model(&models.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, models.EnrollmentActive).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	err = db.Model(&models.Course{}).Where("id = ?", courseID).
		Update("students_count", count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
