package paymentRoutes

import (
	paymentControllers "openlearn/controllers/payment"
	"openlearn/middleware"
	paymentValidators "openlearn/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App, pc *paymentControllers.PaymentController) {
	paymentGroup := app.Group("/payment")

	paymentGroup.Post("/intent", middleware.JWTMiddleware, paymentValidators.CreateIntent(), pc.CreateIntent)
	paymentGroup.Post("/confirm", middleware.JWTMiddleware, paymentValidators.ConfirmEnrollment(), pc.ConfirmEnrollment)
	paymentGroup.Get("/history", middleware.JWTMiddleware, pc.GetPaymentHistory)
	paymentGroup.Post("/refund", middleware.JWTMiddleware, paymentValidators.Refund(), pc.RefundEnrollment)
}
