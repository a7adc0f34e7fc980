package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
	CourseStatusArchived  = "archived"
)

// CourseCategories is the closed set of allowed course categories.
var CourseCategories = []string{
	"Web Development",
	"Mobile Development",
	"Data Science",
	"Machine Learning",
	"Artificial Intelligence",
	"Design",
	"Business",
	"Marketing",
	"Programming",
	"DevOps",
	"Cybersecurity",
	"Game Development",
	"Other",
}

// CourseLevels is the closed set of allowed course levels.
var CourseLevels = []string{"Beginner", "Intermediate", "Advanced"}

type Course struct {
	gorm.Model
	Title            string         `json:"title" gorm:"not null"`
	Description      string         `json:"description" gorm:"type:text;not null"`
	ShortDescription string         `json:"short_description" gorm:"default:''"`
	InstructorID     uint           `json:"instructor_id" gorm:"index;not null"`
	Instructor       User           `json:"instructor" gorm:"foreignKey:InstructorID"`
	Category         string         `json:"category" gorm:"index;not null"`
	Level            string         `json:"level" gorm:"index;not null"` // Beginner, Intermediate, Advanced
	Price            float64        `json:"price" gorm:"default:0"`
	Currency         string         `json:"currency" gorm:"default:'USD'"`
	Thumbnail        string         `json:"thumbnail" gorm:"default:''"`
	PreviewVideo     string         `json:"preview_video" gorm:"default:''"`
	Duration         float64        `json:"duration" gorm:"default:0"` // hours, derived from lessons
	Lessons          []Lesson       `json:"lessons" gorm:"foreignKey:CourseID"`
	Tags             datatypes.JSON `json:"tags"`
	Language         string         `json:"language" gorm:"default:'English'"`
	Status           string         `json:"status" gorm:"index;default:'draft'"` // draft, published, archived
	PublishedAt      *time.Time     `json:"published_at"`                        // set on first publish, never cleared
	RatingAverage    float64        `json:"rating_average" gorm:"default:0"`
	RatingCount      int64          `json:"rating_count" gorm:"default:0"`
	StudentsCount    int64          `json:"students_count" gorm:"default:0"`
	Featured         bool           `json:"featured" gorm:"default:false"`
	IsDeleted        bool           `json:"-" gorm:"default:false"`
}

// Lesson belongs to exactly one course. Position is the ordering key
// within the course; uniqueness is enforced at the application layer.
type Lesson struct {
	gorm.Model
	CourseID    uint           `json:"course_id" gorm:"index;not null"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description" gorm:"type:text;default:''"`
	VideoURL    string         `json:"video_url" gorm:"default:''"`
	Duration    int            `json:"duration" gorm:"not null"` // minutes, >= 1
	Position    int            `json:"position" gorm:"not null"`
	IsPreview   bool           `json:"is_preview" gorm:"default:false"`
	Materials   datatypes.JSON `json:"materials"`
}
