package recommendationRoutes

import (
	recommendationControllers "openlearn/controllers/recommendation"
	"openlearn/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupRecommendationRoutes(app *fiber.App, rc *recommendationControllers.RecommendationController) {
	recommendGroup := app.Group("/recommendation")

	recommendGroup.Get("/courses", middleware.JWTMiddleware, rc.GetRecommendations)
	recommendGroup.Get("/similar/:courseId", rc.GetSimilarCourses)
}
