package authRoutes

import (
	authControllers "openlearn/controllers/auth"
	"openlearn/middleware"
	authValidators "openlearn/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/profile", middleware.JWTMiddleware, authControllers.GetProfile)
	authGroup.Put("/profile", middleware.JWTMiddleware, authControllers.UpdateProfile)
	authGroup.Delete("/account", middleware.JWTMiddleware, authControllers.DeactivateAccount)
}
