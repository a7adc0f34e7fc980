package controllers

import (
	"errors"

	"openlearn/database"
	"openlearn/middleware"
	"openlearn/models"
	"openlearn/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// serviceError maps domain errors onto the response envelope.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not found!", nil)
	case errors.Is(err, services.ErrForbidden):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	case errors.Is(err, services.ErrDuplicateEnrollment):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in this course!", nil)
	case errors.Is(err, services.ErrDuplicateReview):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already reviewed this course!", nil)
	case errors.Is(err, services.ErrAlreadyIssued):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already issued!", nil)
	case errors.Is(err, services.ErrCourseUnavailable):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course not found or not available!", nil)
	case errors.Is(err, services.ErrNotCompleted):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course must be completed first!", nil)
	case errors.Is(err, services.ErrNothingToRefund):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No payment to refund!", nil)
	case errors.Is(err, services.ErrRefundWindowExpired):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Refund period has expired!", nil)
	case errors.Is(err, services.ErrCourseHasStudents):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot delete course with enrollments. Archive it instead.", nil)
	case errors.Is(err, services.ErrValidation):
		return middleware.ValidationErrorResponse(c, map[string]string{"error": err.Error()})
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}

// GetAllCourses lists published courses. Anonymous callers get the
// plain catalog; authenticated callers get their enrollment overlay.
func GetAllCourses(c *fiber.Ctx) error {
	filter, ok := c.Locals("validatedCatalogFilter").(*services.CatalogFilter)
	if !ok {
		filter = &services.CatalogFilter{}
	}

	if viewerID, ok := c.Locals("userId").(uint); ok {
		filter.ViewerID = viewerID
	}

	result, err := services.ListCourses(*filter)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", result)
}

// GetCourseDetails returns one course with lessons, recent reviews and
// the viewer's enrollment state.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	var course models.Course
	if err := db.Preload("Instructor").Preload("Lessons", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position asc")
	}).Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reviews, _, err := services.ListCourseReviews(courseID, 1, 10)
	if err != nil {
		return serviceError(c, err)
	}

	enrolled := false
	progress := 0
	enrollmentStatus := ""
	if viewerID, ok := c.Locals("userId").(uint); ok {
		var enrollment models.Enrollment
		if err := db.Where("user_id = ? AND course_id = ?", viewerID, courseID).First(&enrollment).Error; err == nil {
			enrolled = true
			progress = enrollment.OverallProgress
			enrollmentStatus = enrollment.Status
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":            course,
		"reviews":           reviews,
		"enrolled":          enrolled,
		"progress":          progress,
		"enrollment_status": enrollmentStatus,
	})
}

// CreateCourse creates a draft course owned by the calling teacher.
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	input, ok := c.Locals("validatedCourse").(*services.CourseInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := services.CreateCourse(userID, *input)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func UpdateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("userRole").(string)
	courseID := c.Locals("courseID").(uint)

	input, ok := c.Locals("validatedCourse").(*services.CourseInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := services.UpdateCourse(courseID, userID, role, *input)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

func PublishCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("userRole").(string)
	courseID := c.Locals("courseID").(uint)

	reqData := new(struct {
		Publish bool `json:"publish"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	course, err := services.SetPublishStatus(courseID, userID, role, reqData.Publish)
	if err != nil {
		return serviceError(c, err)
	}

	message := "Course unpublished successfully!"
	if reqData.Publish {
		message = "Course published successfully!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, course)
}

func ArchiveCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("userRole").(string)
	courseID := c.Locals("courseID").(uint)

	course, err := services.ArchiveCourse(courseID, userID, role)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course archived successfully!", course)
}

func DeleteCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("userRole").(string)
	courseID := c.Locals("courseID").(uint)

	if err := services.DeleteCourse(courseID, userID, role); err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// GetInstructorCourses lists a teacher's published courses.
func GetInstructorCourses(c *fiber.Ctx) error {
	instructorID, err := c.ParamsInt("instructorId")
	if err != nil || instructorID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid instructor ID!", nil)
	}

	var courses []models.Course
	err = database.Database.Db.
		Where("instructor_id = ? AND status = ? AND is_deleted = ?", instructorID, models.CourseStatusPublished, false).
		Order("created_at desc").
		Find(&courses).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch instructor courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// GetCategories returns published-course counts per category.
func GetCategories(c *fiber.Ctx) error {
	categories, err := services.ListCategories()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch categories!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Categories fetched successfully!", categories)
}
