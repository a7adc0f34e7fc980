package utils

import (
	"log"

	"openlearn/database"
	"openlearn/models"
	"openlearn/services"

	"github.com/robfig/cron/v3"
)

// InitializeStatsScheduler sets up the nightly reconciliation job. A
// recompute that failed after an enrollment or review write is picked
// up here, so derived stats never stay stale for more than a day.
func InitializeStatsScheduler() {
	log.Println("[STATS-SCHEDULER] Initializing stats scheduler...")

	c := cron.New()

	// Run daily at 3 AM
	c.AddFunc("0 3 * * *", func() {
		log.Println("[STATS-SCHEDULER] Running nightly stats reconciliation...")
		ReconcileCourseStats()
	})

	c.Start()
	log.Println("[STATS-SCHEDULER] Stats scheduler started - runs daily at 3 AM")
}

// ReconcileCourseStats recomputes the rating aggregate and active
// student count for every non-deleted course.
func ReconcileCourseStats() {
	db := database.Database.Db

	var courseIDs []uint
	if err := db.Model(&models.Course{}).Where("is_deleted = ?", false).Pluck("id", &courseIDs).Error; err != nil {
		log.Printf("[STATS-SCHEDULER] Error fetching courses: %v", err)
		return
	}

	for _, id := range courseIDs {
		if _, err := services.RecomputeRating(id); err != nil {
			log.Printf("[STATS-SCHEDULER] Rating recompute failed for course %d: %v", id, err)
		}
		if _, err := services.RecomputeStudentsCount(id); err != nil {
			log.Printf("[STATS-SCHEDULER] Students count recompute failed for course %d: %v", id, err)
		}
	}

	log.Printf("[STATS-SCHEDULER] Reconciled stats for %d courses", len(courseIDs))
}
