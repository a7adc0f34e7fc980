package services

import (
	"math"

	"openlearn/database"
	"openlearn/models"
)

// RatingStats is the derived rating aggregate stored on a course.
type RatingStats struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// RecomputeRating rebuilds a course's rating aggregate from its visible
// reviews. With no reviews both fields go to zero.
func RecomputeRating(courseID uint) (*RatingStats, error) {
	db := database.Database.Db

	type row struct {
		Average float64
		Count   int64
	}
	var r row
	err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("course_id = ? AND is_hidden = ? AND deleted_at IS NULL", courseID, false).
		Scan(&r).Error
	if err != nil {
		return nil, err
	}

	stats := RatingStats{
		Average: math.Round(r.Average*10) / 10,
		Count:   r.Count,
	}
	if stats.Count == 0 {
		stats.Average = 0
	}

	err = db.Model(&models.Course{}).Where("id = ?", courseID).
		Updates(map[string]interface{}{
			"rating_average": stats.Average,
			"rating_count":   stats.Count,
		}).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
