package main

import (
	"log"

	"openlearn/config"
	paymentControllers "openlearn/controllers/payment"
	predictionControllers "openlearn/controllers/prediction"
	recommendationControllers "openlearn/controllers/recommendation"
	"openlearn/database"
	authRoutes "openlearn/routers/authRoutes"
	courseRoutes "openlearn/routers/courseRoutes"
	paymentRoutes "openlearn/routers/paymentRoutes"
	predictionRoutes "openlearn/routers/predictionRoutes"
	recommendationRoutes "openlearn/routers/recommendationRoutes"
	"openlearn/services"
	"openlearn/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	gateway := utils.NewRestGateway()
	recommender := services.NewHTTPRecommender(config.AppConfig.RecommenderURL)

	paymentController := paymentControllers.NewPaymentController(gateway)
	recommendationController := recommendationControllers.NewRecommendationController(recommender)
	predictionController := predictionControllers.NewPredictionController(recommender)

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app, paymentController)
	recommendationRoutes.SetupRecommendationRoutes(app, recommendationController)
	predictionRoutes.SetupPredictionRoutes(app, predictionController)

	utils.InitializeStatsScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
