package recommendationController

import (
	"errors"
	"log"

	"openlearn/database"
	"openlearn/middleware"
	"openlearn/models"
	"openlearn/services"

	"github.com/gofiber/fiber/v2"
)

// RecommendationController holds the injected recommendation client.
type RecommendationController struct {
	Client services.Recommender
}

func NewRecommendationController(client services.Recommender) *RecommendationController {
	return &RecommendationController{Client: client}
}

// GetRecommendations asks the external scorer first and falls back to
// the catalog pipeline when it is unavailable.
func (rc *RecommendationController) GetRecommendations(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var completedCourses []models.Course
	db.Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ? AND enrollments.status = ?", userID, models.EnrollmentCompleted).
		Find(&completedCourses)

	completedCategories := make([]string, 0, len(completedCourses))
	for _, course := range completedCourses {
		completedCategories = append(completedCategories, course.Category)
	}

	if rc.Client != nil {
		query := services.RecommendationQuery(user, completedCategories)
		scored, err := rc.Client.Recommend(query, 8)
		if err == nil {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Personalized recommendations generated successfully!", fiber.Map{
				"recommendations": scored,
				"type":            "ml_based",
			})
		}
		log.Printf("Recommender unavailable, using catalog fallback: %v", err)
	}

	recommendations, err := services.RecommendFromCatalog(userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch recommendations!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recommendations generated successfully!", fiber.Map{
		"recommendations": recommendations,
		"type":            "catalog_based",
	})
}

// GetSimilarCourses lists courses similar to the given one.
func (rc *RecommendationController) GetSimilarCourses(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("courseId")
	if err != nil || courseID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	similar, err := services.SimilarCourses(uint(courseID), c.QueryInt("limit", 6))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch similar courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Similar courses fetched successfully!", similar)
}
