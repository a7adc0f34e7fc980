package controllers

import (
	"openlearn/database"
	"openlearn/middleware"
	"openlearn/models"
	"openlearn/services"
	"openlearn/utils"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse enrolls the calling student. Paid courses are expected
// to arrive here only after payment confirmation supplied the payment
// fields; free courses enroll directly.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedEnrollment").(*struct {
		CourseID   uint    `json:"course_id"`
		PaymentID  string  `json:"payment_id"`
		AmountPaid float64 `json:"amount_paid"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	enrollment, err := services.Enroll(userID, reqData.CourseID, services.EnrollInput{
		PaymentID:  reqData.PaymentID,
		AmountPaid: reqData.AmountPaid,
	})
	if err != nil {
		return serviceError(c, err)
	}

	var course models.Course
	if err := database.Database.Db.Where("id = ?", enrollment.CourseID).First(&course).Error; err == nil {
		go utils.SendEnrollmentConfirmation(user.Name, user.Email, course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully!", enrollment)
}

// GetEnrollments lists the caller's own enrollments with an optional
// status filter.
func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	status := c.Query("status")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Enrollment{}).Where("user_id = ?", userID)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var enrollments []models.Enrollment
	if err := db.Preload("Course").Preload("Course.Instructor").
		Order("enrolled_at desc").Offset(offset).Limit(limit).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"pagination": fiber.Map{
			"current": page,
			"pages":   (total + int64(limit) - 1) / int64(limit),
			"total":   total,
		},
	})
}

// GetEnrollment returns one enrollment to its owner, the course
// instructor or an admin.
func GetEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("userRole").(string)
	enrollmentID := c.Locals("enrollmentID").(uint)

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Preload("Course").Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.UserID != userID && role != models.RoleAdmin && enrollment.Course.InstructorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!", enrollment)
}

// UpdateProgress records lesson progress on the caller's enrollment.
// completed=false only touches the last-accessed fields.
func UpdateProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	enrollmentID := c.Locals("enrollmentID").(uint)

	reqData, ok := c.Locals("validatedProgress").(*struct {
		LessonID  uint `json:"lesson_id"`
		TimeSpent int  `json:"time_spent"`
		Completed bool `json:"completed"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var owned models.Enrollment
	if err := database.Database.Db.Where("id = ?", enrollmentID).First(&owned).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}
	if owned.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	var enrollment *models.Enrollment
	var err error
	if reqData.Completed {
		enrollment, err = services.RecordLessonCompletion(enrollmentID, reqData.LessonID, reqData.TimeSpent)
	} else {
		enrollment, err = services.TouchLesson(enrollmentID, reqData.LessonID)
	}
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", enrollment)
}

// IssueCertificate issues the completion certificate for the caller's
// enrollment and emails the link.
func IssueCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	enrollmentID := c.Locals("enrollmentID").(uint)

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Preload("Course").Preload("User").Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}
	if enrollment.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	result, err := services.IssueCertificate(enrollmentID)
	if err != nil {
		return serviceError(c, err)
	}

	go utils.SendCertificateEmail(enrollment.User.Name, enrollment.User.Email, enrollment.Course.Title, result.CertificateURL)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate issued successfully!", result)
}

// GetCourseStudents returns the enrollment roster of a course to its
// instructor or an admin.
func GetCourseStudents(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("userRole").(string)
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if course.InstructorID != userID && role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	var enrollments []models.Enrollment
	if err := db.Preload("User").Where("course_id = ?", courseID).Order("enrolled_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course students!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Students fetched successfully!", enrollments)
}
