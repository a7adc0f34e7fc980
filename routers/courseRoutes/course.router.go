package courseRoutes

import (
	controllers "openlearn/controllers/course"
	"openlearn/middleware"
	"openlearn/models"
	validators "openlearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the public catalog, course management,
// enrollment and review routes.
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog is public; a token (when present) annotates enrollment state.
	courseGroup.Get("/list", middleware.OptionalJWTMiddleware, validators.CatalogFilter(), controllers.GetAllCourses)
	courseGroup.Get("/categories", controllers.GetCategories)
	courseGroup.Get("/instructor/:instructorId", controllers.GetInstructorCourses)
	courseGroup.Get("/:id", middleware.OptionalJWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Course management (instructors and admins)
	courseGroup.Post("/create", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTeacher, models.RoleAdmin), validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTeacher, models.RoleAdmin), validators.CourseID(), validators.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Post("/:id/publish", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTeacher, models.RoleAdmin), validators.CourseID(), controllers.PublishCourse)
	courseGroup.Post("/:id/archive", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTeacher, models.RoleAdmin), validators.CourseID(), controllers.ArchiveCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTeacher, models.RoleAdmin), validators.CourseID(), controllers.DeleteCourse)
	courseGroup.Get("/:id/students", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseStudents)

	// Reviews
	courseGroup.Get("/:id/reviews", validators.CourseID(), controllers.GetCourseReviews)
	courseGroup.Post("/:id/review", middleware.JWTMiddleware, validators.CourseID(), validators.Review(), controllers.CreateReview)

	reviewGroup := app.Group("/review")
	reviewGroup.Put("/:reviewId", middleware.JWTMiddleware, validators.Review(), controllers.UpdateReview)
	reviewGroup.Delete("/:reviewId", middleware.JWTMiddleware, controllers.DeleteReview)

	// Enrollment and progress
	enrollGroup := app.Group("/enrollment")
	enrollGroup.Post("/", middleware.JWTMiddleware, validators.Enroll(), controllers.EnrollInCourse)
	enrollGroup.Get("/list", middleware.JWTMiddleware, controllers.GetEnrollments)
	enrollGroup.Get("/:id", middleware.JWTMiddleware, validators.EnrollmentID(), controllers.GetEnrollment)
	enrollGroup.Post("/:id/progress", middleware.JWTMiddleware, validators.EnrollmentID(), validators.Progress(), controllers.UpdateProgress)
	enrollGroup.Post("/:id/certificate", middleware.JWTMiddleware, validators.EnrollmentID(), controllers.IssueCertificate)
}
