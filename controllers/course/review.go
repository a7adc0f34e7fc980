package controllers

import (
	"openlearn/middleware"
	"openlearn/services"

	"github.com/gofiber/fiber/v2"
)

// CreateReview submits the caller's review for a course.
func CreateReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	reqData, ok := c.Locals("validatedReview").(*struct {
		Rating  int    `json:"rating"`
		Title   string `json:"title"`
		Comment string `json:"comment"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	review, err := services.CreateReview(userID, courseID, services.ReviewInput{
		Rating:  reqData.Rating,
		Title:   reqData.Title,
		Comment: reqData.Comment,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review submitted successfully!", review)
}

// UpdateReview edits the caller's own review.
func UpdateReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reviewID, err := c.ParamsInt("reviewId")
	if err != nil || reviewID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid review ID!", nil)
	}

	reqData, ok := c.Locals("validatedReview").(*struct {
		Rating  int    `json:"rating"`
		Title   string `json:"title"`
		Comment string `json:"comment"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	review, err := services.UpdateReview(uint(reviewID), userID, services.ReviewInput{
		Rating:  reqData.Rating,
		Title:   reqData.Title,
		Comment: reqData.Comment,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated successfully!", review)
}

// DeleteReview removes the caller's review (admins may remove any).
func DeleteReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("userRole").(string)

	reviewID, err := c.ParamsInt("reviewId")
	if err != nil || reviewID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid review ID!", nil)
	}

	if err := services.DeleteReview(uint(reviewID), userID, role); err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review deleted successfully!", nil)
}

// GetCourseReviews lists visible reviews for a course.
func GetCourseReviews(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	reviews, pagination, err := services.ListCourseReviews(courseID, page, limit)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully!", fiber.Map{
		"reviews":    reviews,
		"pagination": pagination,
	})
}
