package courseValidator

import (
	"encoding/json"
	"strings"

	"openlearn/middleware"
	"openlearn/models"
	"openlearn/services"

	"github.com/gofiber/fiber/v2"
)

func isOneOf(value string, allowed []string) bool {
	for _, v := range allowed {
		if v == value {
			return true
		}
	}
	return false
}

// CourseID validates the :id path parameter and stores it in Locals.
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := c.ParamsInt("id")
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", uint(courseID))
		return c.Next()
	}
}

// CatalogFilter validates the catalog listing query parameters.
func CatalogFilter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		level := strings.TrimSpace(c.Query("level"))
		if level != "" && !isOneOf(level, models.CourseLevels) {
			errors["level"] = "Level must be Beginner, Intermediate or Advanced!"
		}

		sort := strings.TrimSpace(c.Query("sort"))
		if sort != "" && !isOneOf(sort, []string{"newest", "oldest", "rating", "price-low", "price-high", "popular"}) {
			errors["sort"] = "Invalid sort key!"
		}

		page := c.QueryInt("page", 1)
		if page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}

		limit := c.QueryInt("limit", 12)
		if limit < 1 || limit > 50 {
			errors["limit"] = "Limit must be between 1 and 50!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCatalogFilter", &services.CatalogFilter{
			Category: strings.TrimSpace(c.Query("category")),
			Level:    level,
			Search:   strings.TrimSpace(c.Query("search")),
			Sort:     sort,
			Page:     page,
			Limit:    limit,
		})
		return c.Next()
	}
}

type courseBody struct {
	Title            string                 `json:"title"`
	Description      string                 `json:"description"`
	ShortDescription string                 `json:"short_description"`
	Category         string                 `json:"category"`
	Level            string                 `json:"level"`
	Price            float64                `json:"price"`
	Currency         string                 `json:"currency"`
	Thumbnail        string                 `json:"thumbnail"`
	Language         string                 `json:"language"`
	Tags             []string               `json:"tags"`
	Lessons          []services.LessonInput `json:"lessons"`
}

func validateCourseBody(reqData *courseBody, requireAll bool) map[string]string {
	errors := make(map[string]string)

	title := strings.TrimSpace(reqData.Title)
	if requireAll || title != "" {
		if len(title) < 5 || len(title) > 200 {
			errors["title"] = "Title must be between 5 and 200 characters!"
		}
	}

	description := strings.TrimSpace(reqData.Description)
	if requireAll || description != "" {
		if len(description) < 20 || len(description) > 2000 {
			errors["description"] = "Description must be between 20 and 2000 characters!"
		}
	}

	if requireAll || reqData.Category != "" {
		if !isOneOf(reqData.Category, models.CourseCategories) {
			errors["category"] = "Invalid category!"
		}
	}

	if requireAll || reqData.Level != "" {
		if !isOneOf(reqData.Level, models.CourseLevels) {
			errors["level"] = "Level must be Beginner, Intermediate or Advanced!"
		}
	}

	if reqData.Price < 0 {
		errors["price"] = "Price cannot be negative!"
	}

	if reqData.Currency != "" && !isOneOf(reqData.Currency, []string{"USD", "EUR", "GBP", "INR"}) {
		errors["currency"] = "Invalid currency!"
	}

	for _, lesson := range reqData.Lessons {
		if strings.TrimSpace(lesson.Title) == "" {
			errors["lessons"] = "Every lesson needs a title!"
			break
		}
		if lesson.Duration < 1 {
			errors["lessons"] = "Lesson duration must be at least 1 minute!"
			break
		}
	}

	return errors
}

func toCourseInput(reqData *courseBody) *services.CourseInput {
	var tags []byte
	if reqData.Tags != nil {
		lowered := make([]string, len(reqData.Tags))
		for i, tag := range reqData.Tags {
			lowered[i] = strings.ToLower(strings.TrimSpace(tag))
		}
		tags, _ = json.Marshal(lowered)
	}

	return &services.CourseInput{
		Title:            strings.TrimSpace(reqData.Title),
		Description:      strings.TrimSpace(reqData.Description),
		ShortDescription: strings.TrimSpace(reqData.ShortDescription),
		Category:         reqData.Category,
		Level:            reqData.Level,
		Price:            reqData.Price,
		Currency:         reqData.Currency,
		Thumbnail:        reqData.Thumbnail,
		Language:         reqData.Language,
		Tags:             tags,
		Lessons:          reqData.Lessons,
	}
}

// CreateCourse validates the full course creation body.
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(courseBody)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validateCourseBody(reqData, true); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", toCourseInput(reqData))
		return c.Next()
	}
}

// UpdateCourse validates a partial course update body.
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(courseBody)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validateCourseBody(reqData, false); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", toCourseInput(reqData))
		return c.Next()
	}
}
