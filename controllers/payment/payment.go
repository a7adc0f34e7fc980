package paymentController

import (
	"errors"
	"fmt"
	"log"
	"time"

	"openlearn/config"
	"openlearn/database"
	"openlearn/middleware"
	"openlearn/models"
	"openlearn/services"
	"openlearn/utils"

	"github.com/gofiber/fiber/v2"
)

// PaymentController holds the injected payment gateway client.
type PaymentController struct {
	Gateway utils.PaymentGateway
}

func NewPaymentController(gateway utils.PaymentGateway) *PaymentController {
	return &PaymentController{Gateway: gateway}
}

func paymentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not found!", nil)
	case errors.Is(err, services.ErrDuplicateEnrollment):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in this course!", nil)
	case errors.Is(err, services.ErrCourseUnavailable):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course not found or not available!", nil)
	case errors.Is(err, services.ErrNothingToRefund):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No payment to refund!", nil)
	case errors.Is(err, services.ErrRefundWindowExpired):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Refund period has expired (30 days)!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}

// CreateIntent creates a provider payment intent for a course purchase.
func (pc *PaymentController) CreateIntent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedIntent").(*struct {
		CourseID uint   `json:"course_id"`
		Currency string `json:"currency"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ? AND status = ?", reqData.CourseID, false, models.CourseStatusPublished).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not available!", nil)
	}

	var existing models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, reqData.CourseID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in this course!", nil)
	}

	currency := reqData.Currency
	if currency == "" {
		currency = course.Currency
	}

	intent, err := pc.Gateway.CreateIntent(course.Price, currency, map[string]string{
		"course_id":   fmt.Sprintf("%d", course.ID),
		"user_id":     fmt.Sprintf("%d", userID),
		"course_name": course.Title,
	})
	if err != nil {
		log.Printf("Create payment intent error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create payment intent!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment intent created!", fiber.Map{
		"client_secret": intent.ClientSecret,
		"amount":        course.Price,
		"currency":      currency,
		"course": fiber.Map{
			"id":        course.ID,
			"title":     course.Title,
			"thumbnail": course.Thumbnail,
		},
	})
}

// ConfirmEnrollment verifies the provider payment and creates the
// enrollment with the confirmed payment fields.
func (pc *PaymentController) ConfirmEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedConfirm").(*struct {
		PaymentIntentID string `json:"payment_intent_id"`
		CourseID        uint   `json:"course_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	intent, err := pc.Gateway.RetrieveIntent(reqData.PaymentIntentID)
	if err != nil {
		log.Printf("Retrieve payment intent error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify payment!", nil)
	}

	if intent.Status != "succeeded" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment not completed!", nil)
	}

	enrollment, err := services.Enroll(userID, reqData.CourseID, services.EnrollInput{
		PaymentID:  intent.ID,
		AmountPaid: float64(intent.Amount) / 100,
	})
	if err != nil {
		return paymentError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment confirmed successfully!", enrollment)
}

// GetPaymentHistory lists the caller's completed payments.
func (pc *PaymentController) GetPaymentHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Enrollment{}).
		Where("user_id = ? AND payment_status = ?", userID, models.PaymentCompleted)

	var total int64
	db.Count(&total)

	var payments []models.Enrollment
	if err := db.Preload("Course").Order("enrolled_at desc").Offset(offset).Limit(limit).Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payment history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment history fetched successfully!", fiber.Map{
		"payments": payments,
		"pagination": fiber.Map{
			"current": page,
			"pages":   (total + int64(limit) - 1) / int64(limit),
			"total":   total,
		},
	})
}

// RefundEnrollment refunds a paid enrollment through the provider and
// drops it. Only the owner (inside the window) or an admin may refund.
func (pc *PaymentController) RefundEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("userRole").(string)

	reqData, ok := c.Locals("validatedRefund").(*struct {
		EnrollmentID uint   `json:"enrollment_id"`
		Reason       string `json:"reason"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("id = ?", reqData.EnrollmentID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}
	if enrollment.UserID != userID && role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	if enrollment.PaymentStatus != models.PaymentCompleted {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No payment to refund!", nil)
	}

	window := time.Duration(config.AppConfig.RefundWindowDays) * 24 * time.Hour
	if role != models.RoleAdmin && time.Now().After(enrollment.EnrolledAt.Add(window)) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Refund period has expired (30 days)!", nil)
	}

	// Execute the provider refund first for paid enrollments; the
	// local state change follows only on success.
	if enrollment.PaymentID != "" {
		if err := pc.Gateway.RefundIntent(enrollment.PaymentID, "requested_by_customer"); err != nil {
			log.Printf("Provider refund error: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process refund with payment provider!", nil)
		}
	}

	if err := services.Refund(reqData.EnrollmentID, role, reqData.Reason); err != nil {
		return paymentError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Refund processed successfully!", nil)
}
