package paymentValidator

import (
	"strings"

	"openlearn/middleware"

	"github.com/gofiber/fiber/v2"
)

var supportedCurrencies = []string{"usd", "eur", "gbp", "inr"}

// CreateIntent validates the payment intent creation body.
func CreateIntent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID uint   `json:"course_id"`
			Currency string `json:"currency"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.CourseID == 0 {
			errors["course_id"] = "Course ID is required!"
		}
		if reqData.Currency != "" {
			reqData.Currency = strings.ToLower(reqData.Currency)
			supported := false
			for _, cur := range supportedCurrencies {
				if cur == reqData.Currency {
					supported = true
					break
				}
			}
			if !supported {
				errors["currency"] = "Unsupported currency!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedIntent", reqData)
		return c.Next()
	}
}

// ConfirmEnrollment validates the enrollment confirmation body.
func ConfirmEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			PaymentIntentID string `json:"payment_intent_id"`
			CourseID        uint   `json:"course_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.PaymentIntentID == "" {
			errors["payment_intent_id"] = "Payment intent ID is required!"
		}
		if reqData.CourseID == 0 {
			errors["course_id"] = "Course ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedConfirm", reqData)
		return c.Next()
	}
}

// Refund validates the refund request body.
func Refund() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			EnrollmentID uint   `json:"enrollment_id"`
			Reason       string `json:"reason"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.EnrollmentID == 0 {
			errors["enrollment_id"] = "Enrollment ID is required!"
		}
		if len(reqData.Reason) > 500 {
			errors["reason"] = "Reason cannot exceed 500 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRefund", reqData)
		return c.Next()
	}
}
