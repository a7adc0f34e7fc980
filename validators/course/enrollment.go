package courseValidator

import (
	"openlearn/middleware"

	"github.com/gofiber/fiber/v2"
)

// EnrollmentID validates the :id path parameter for enrollment routes.
func EnrollmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		enrollmentID, err := c.ParamsInt("id")
		if err != nil || enrollmentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}

		c.Locals("enrollmentID", uint(enrollmentID))
		return c.Next()
	}
}

// Enroll validates the enrollment creation body.
func Enroll() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID   uint    `json:"course_id"`
			PaymentID  string  `json:"payment_id"`
			AmountPaid float64 `json:"amount_paid"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.CourseID == 0 {
			errors["course_id"] = "Course ID is required!"
		}
		if reqData.AmountPaid < 0 {
			errors["amount_paid"] = "Amount must be a positive number!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEnrollment", reqData)
		return c.Next()
	}
}

// Progress validates the lesson progress body.
func Progress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			LessonID  uint `json:"lesson_id"`
			TimeSpent int  `json:"time_spent"`
			Completed bool `json:"completed"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.LessonID == 0 {
			errors["lesson_id"] = "Lesson ID is required!"
		}
		if reqData.TimeSpent < 0 {
			errors["time_spent"] = "Time spent must be a positive number!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}

// Review validates the review create/update body.
func Review() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Rating  int    `json:"rating"`
			Title   string `json:"title"`
			Comment string `json:"comment"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Rating < 1 || reqData.Rating > 5 {
			errors["rating"] = "Rating must be between 1 and 5!"
		}
		if len(reqData.Title) == 0 || len(reqData.Title) > 100 {
			errors["title"] = "Title is required and cannot exceed 100 characters!"
		}
		if len(reqData.Comment) == 0 || len(reqData.Comment) > 1000 {
			errors["comment"] = "Comment is required and cannot exceed 1000 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}
