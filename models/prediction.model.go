package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Prediction is an audit record of a single ML inference request.
type Prediction struct {
	gorm.Model
	UserID         uint           `json:"user_id" gorm:"index;not null"`
	ModelType      string         `json:"model_type" gorm:"default:'course_recommender'"`
	Input          datatypes.JSON `json:"input"`
	Result         datatypes.JSON `json:"result"`
	Confidence     float64        `json:"confidence" gorm:"default:0"`
	ProcessingTime int64          `json:"processing_time" gorm:"default:0"` // milliseconds
	Status         string         `json:"status" gorm:"default:'completed'"` // pending, completed, failed
	ErrorMessage   string         `json:"error_message" gorm:"default:''"`
}
