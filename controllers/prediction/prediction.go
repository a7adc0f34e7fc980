package predictionController

import (
	"encoding/json"
	"log"
	"time"

	"openlearn/database"
	"openlearn/middleware"
	"openlearn/models"
	"openlearn/services"

	"github.com/gofiber/fiber/v2"
)

// PredictionController audit-logs inference calls to the injected
// recommendation client.
type PredictionController struct {
	Client services.Recommender
}

func NewPredictionController(client services.Recommender) *PredictionController {
	return &PredictionController{Client: client}
}

// Predict runs a scored query and records the request/response as an
// opaque Prediction audit row, including failures.
func (pc *PredictionController) Predict(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Query string `json:"query"`
		TopK  int    `json:"top_k"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Query == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Query is required!", nil)
	}
	if reqData.TopK < 1 || reqData.TopK > 20 {
		reqData.TopK = 5
	}

	db := database.Database.Db

	inputJSON, _ := json.Marshal(reqData)
	prediction := models.Prediction{
		UserID:    userID,
		ModelType: "course_recommender",
		Input:     inputJSON,
		Status:    "pending",
	}

	start := time.Now()
	results, err := pc.Client.Recommend(reqData.Query, reqData.TopK)
	prediction.ProcessingTime = time.Since(start).Milliseconds()

	if err != nil {
		prediction.Status = "failed"
		prediction.ErrorMessage = err.Error()
		if dbErr := db.Create(&prediction).Error; dbErr != nil {
			log.Printf("Failed to record prediction: %v", dbErr)
		}
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Prediction service unavailable!", nil)
	}

	resultJSON, _ := json.Marshal(results)
	prediction.Status = "completed"
	prediction.Result = resultJSON
	if len(results) > 0 {
		prediction.Confidence = results[0].Score
	}

	if err := db.Create(&prediction).Error; err != nil {
		log.Printf("Failed to record prediction: %v", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Prediction completed successfully!", fiber.Map{
		"prediction_id":   prediction.ID,
		"results":         results,
		"processing_time": prediction.ProcessingTime,
	})
}

// GetHistory lists the caller's past predictions, newest first.
func (pc *PredictionController) GetHistory(c *fiber.Ctx) error {
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

	db := database.Database.Db.Model(&models.Prediction{}).Where("user_id = ?", userID)

	var total int64
	db.Count(&total)

	var predictions []models.Prediction
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&predictions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch predictions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Predictions fetched successfully!", fiber.Map{
		"predictions": predictions,
		"pagination": fiber.Map{
			"current": page,
			"pages":   (total + int64(limit) - 1) / int64(limit),
			"total":   total,
		},
	})
}
