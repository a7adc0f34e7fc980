package predictionRoutes

import (
	predictionControllers "openlearn/controllers/prediction"
	"openlearn/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupPredictionRoutes(app *fiber.App, pc *predictionControllers.PredictionController) {
	predictionGroup := app.Group("/prediction")

	predictionGroup.Post("/", middleware.JWTMiddleware, pc.Predict)
	predictionGroup.Get("/history", middleware.JWTMiddleware, pc.GetHistory)
}
