package services

import (
	"fmt"
	"math"
	"time"

	"openlearn/database"
	"openlearn/models"

	"gorm.io/gorm"
)

// LessonInput is one lesson supplied on course create/update.
type LessonInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	Duration    int    `json:"duration"` // minutes
	Position    int    `json:"position"`
	IsPreview   bool   `json:"is_preview"`
}

// CourseInput carries the mutable course fields.
type CourseInput struct {
	Title            string
	Description      string
	ShortDescription string
	Category         string
	Level            string
	Price            float64
	Currency         string
	Thumbnail        string
	Language         string
	Tags             []byte // JSON array
	Lessons          []LessonInput
}

func validLessons(lessons []LessonInput) error {
	seen := make(map[int]bool, len(lessons))
	for _, lesson := range lessons {
		if lesson.Duration < 1 {
			return fmt.Errorf("%w: lesson duration must be at least 1 minute", ErrValidation)
		}
		if seen[lesson.Position] {
			return fmt.Errorf("%w: duplicate lesson position %d", ErrValidation, lesson.Position)
		}
		seen[lesson.Position] = true
	}
	return nil
}

// lessonDurationHours sums lesson minutes into hours rounded to one
// decimal place.
func lessonDurationHours(lessons []models.Lesson) float64 {
	total := 0
	for _, lesson := range lessons {
		total += lesson.Duration
	}
	return math.Round(float64(total)/60*10) / 10
}

// CreateCourse persists a new course owned by the instructor, with its
// lessons and the derived duration.
func CreateCourse(instructorID uint, input CourseInput) (*models.Course, error) {
	if err := validLessons(input.Lessons); err != nil {
		return nil, err
	}

	db := database.Database.Db

	course := models.Course{
		Title:            input.Title,
		Description:      input.Description,
		ShortDescription: input.ShortDescription,
		InstructorID:     instructorID,
		Category:         input.Category,
		Level:            input.Level,
		Price:            input.Price,
		Currency:         input.Currency,
		Thumbnail:        input.Thumbnail,
		Language:         input.Language,
		Tags:             input.Tags,
		Status:           models.CourseStatusDraft,
	}
	if course.Currency == "" {
		course.Currency = "USD"
	}
	if course.Language == "" {
		course.Language = "English"
	}

	for _, l := range input.Lessons {
		course.Lessons = append(course.Lessons, models.Lesson{
			Title:       l.Title,
			Description: l.Description,
			VideoURL:    l.VideoURL,
			Duration:    l.Duration,
			Position:    l.Position,
			IsPreview:   l.IsPreview,
		})
	}
	course.Duration = lessonDurationHours(course.Lessons)

	if err := db.Create(&course).Error; err != nil {
		return nil, err
	}

	return &course, nil
}

// loadOwnedCourse fetches the course and enforces the ownership rule:
// only the instructor or an admin may mutate it.
func loadOwnedCourse(courseID, actorID uint, actorRole string) (*models.Course, error) {
	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, ErrNotFound
	}
	if course.InstructorID != actorID && actorRole != models.RoleAdmin {
		return nil, ErrForbidden
	}
	return &course, nil
}

// UpdateCourse applies the supplied fields and, when lessons are
// given, replaces the lesson set and recomputes the derived duration.
func UpdateCourse(courseID, actorID uint, actorRole string, input CourseInput) (*models.Course, error) {
	course, err := loadOwnedCourse(courseID, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	if err := validLessons(input.Lessons); err != nil {
		return nil, err
	}

	db := database.Database.Db

	if input.Title != "" {
		course.Title = input.Title
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.ShortDescription != "" {
		course.ShortDescription = input.ShortDescription
	}
	if input.Category != "" {
		course.Category = input.Category
	}
	if input.Level != "" {
		course.Level = input.Level
	}
	if input.Price > 0 {
		course.Price = input.Price
	}
	if input.Currency != "" {
		course.Currency = input.Currency
	}
	if input.Thumbnail != "" {
		course.Thumbnail = input.Thumbnail
	}
	if input.Language != "" {
		course.Language = input.Language
	}
	if input.Tags != nil {
		course.Tags = input.Tags
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if input.Lessons != nil {
			if err := tx.Where("course_id = ?", course.ID).Delete(&models.Lesson{}).Error; err != nil {
				return err
			}
			lessons := make([]models.Lesson, 0, len(input.Lessons))
			for _, l := range input.Lessons {
				lessons = append(lessons, models.Lesson{
					CourseID:    course.ID,
					Title:       l.Title,
					Description: l.Description,
					VideoURL:    l.VideoURL,
					Duration:    l.Duration,
					Position:    l.Position,
					IsPreview:   l.IsPreview,
				})
			}
			if len(lessons) > 0 {
				if err := tx.Create(&lessons).Error; err != nil {
					return err
				}
			}
			course.Lessons = lessons
			course.Duration = lessonDurationHours(lessons)
		}
		return tx.Save(course).Error
	})
	if err != nil {
		return nil, err
	}

	return course, nil
}

// SetPublishStatus publishes or unpublishes a course. PublishedAt is
// set on the first publish only and survives later unpublishing.
func SetPublishStatus(courseID, actorID uint, actorRole string, publish bool) (*models.Course, error) {
	course, err := loadOwnedCourse(courseID, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	if publish {
		course.Status = models.CourseStatusPublished
		if course.PublishedAt == nil {
			now := time.Now()
			course.PublishedAt = &now
		}
	} else {
		course.Status = models.CourseStatusDraft
	}

	if err := database.Database.Db.Save(course).Error; err != nil {
		return nil, err
	}
	return course, nil
}

// ArchiveCourse moves a course to archived status, removing it from
// the catalog without touching existing enrollments.
func ArchiveCourse(courseID, actorID uint, actorRole string) (*models.Course, error) {
	course, err := loadOwnedCourse(courseID, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	course.Status = models.CourseStatusArchived
	if err := database.Database.Db.Save(course).Error; err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse soft-deletes a course. Deletion is blocked while any
// enrollment references it; such courses must be archived instead.
func DeleteCourse(courseID, actorID uint, actorRole string) error {
	course, err := loadOwnedCourse(courseID, actorID, actorRole)
	if err != nil {
		return err
	}

	db := database.Database.Db

	var enrollmentCount int64
	if err := db.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&enrollmentCount).Error; err != nil {
		return err
	}
	if enrollmentCount > 0 {
		return ErrCourseHasStudents
	}

	course.IsDeleted = true
	return db.Save(course).Error
}
