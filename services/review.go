package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"openlearn/database"
	"openlearn/models"

	"gorm.io/gorm"
)

// ReviewInput carries the writable review fields.
type ReviewInput struct {
	Rating  int
	Title   string
	Comment string
}

func (in ReviewInput) validate() error {
	if in.Rating < 1 || in.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(in.Comment) == "" {
		return fmt.Errorf("%w: comment is required", ErrValidation)
	}
	return nil
}

// CreateReview stores one student's review of a course and refreshes
// the course rating aggregate. At most one review per pair.
func CreateReview(userID, courseID uint, input ReviewInput) (*models.Review, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, ErrNotFound
	}

	var existing models.Review
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err == nil {
		return nil, ErrDuplicateReview
	}

	review := models.Review{
		UserID:   userID,
		CourseID: courseID,
		Rating:   input.Rating,
		Title:    input.Title,
		Comment:  input.Comment,
	}

	if err := db.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	refreshRating(courseID)
	return &review, nil
}

// UpdateReview modifies the author's own review and refreshes the
// course rating aggregate.
func UpdateReview(reviewID, userID uint, input ReviewInput) (*models.Review, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	db := database.Database.Db

	var review models.Review
	if err := db.Where("id = ?", reviewID).First(&review).Error; err != nil {
		return nil, ErrNotFound
	}
	if review.UserID != userID {
		return nil, ErrForbidden
	}

	review.Rating = input.Rating
	review.Title = input.Title
	review.Comment = input.Comment

	if err := db.Save(&review).Error; err != nil {
		return nil, err
	}

	refreshRating(review.CourseID)
	return &review, nil
}

// DeleteReview removes a review (author or admin) and refreshes the
// course rating aggregate. The row is removed for real so the
// per-pair unique index frees up and the student may review again.
func DeleteReview(reviewID, actorID uint, actorRole string) error {
	db := database.Database.Db

	var review models.Review
	if err := db.Where("id = ?", reviewID).First(&review).Error; err != nil {
		return ErrNotFound
	}
	if review.UserID != actorID && actorRole != models.RoleAdmin {
		return ErrForbidden
	}

	if err := db.Unscoped().Delete(&review).Error; err != nil {
		return err
	}

	refreshRating(review.CourseID)
	return nil
}

// ListCourseReviews returns visible reviews for a course, newest
// first, with the reviewer preloaded.
func ListCourseReviews(courseID uint, page, limit int) ([]models.Review, *Pagination, error) {
	db := database.Database.Db

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := db.Model(&models.Review{}).Where("course_id = ? AND is_hidden = ?", courseID, false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var reviews []models.Review
	if err := query.Preload("User").Order("created_at desc").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
		return nil, nil, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return reviews, &Pagination{
		Current: page,
		Pages:   pages,
		Total:   total,
		HasNext: page < pages,
		HasPrev: page > 1,
	}, nil
}

// refreshRating keeps the aggregate best-effort; a failure never rolls
// back the review write and is reconciled on the next one.
func refreshRating(courseID uint) {
	if _, err := RecomputeRating(courseID); err != nil {
		log.Printf("Failed to refresh rating for course %d: %v", courseID, err)
	}
}
