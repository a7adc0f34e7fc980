package services

import (
	"strings"

	"openlearn/database"
	"openlearn/models"
)

const (
	catalogDefaultLimit = 12
	catalogMaxLimit     = 50
)

// CatalogFilter narrows the published-course listing.
type CatalogFilter struct {
	Category string // case-insensitive partial match
	Level    string // exact
	Search   string // free text over title/description/tags
	Sort     string // newest, oldest, rating, price-low, price-high, popular
	Page     int
	Limit    int
	ViewerID uint // 0 = anonymous
}

// Pagination is the standard list envelope.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

// CatalogCourse annotates a course with the viewer's own enrollment.
type CatalogCourse struct {
	models.Course
	Enrolled         bool   `json:"enrolled"`
	Progress         int    `json:"progress"`
	EnrollmentStatus string `json:"enrollment_status"`
}

// CatalogResult is the full listing response.
type CatalogResult struct {
	Courses    []CatalogCourse `json:"courses"`
	Pagination Pagination      `json:"pagination"`
}

// ListCourses returns published courses matching the filter, paginated
// and sorted. When a viewer is supplied every returned course carries
// that viewer's enrollment state, resolved with one batch query.
func ListCourses(filter CatalogFilter) (*CatalogResult, error) {
	db := database.Database.Db

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = catalogDefaultLimit
	}
	if limit > catalogMaxLimit {
		limit = catalogMaxLimit
	}
	offset := (page - 1) * limit

	query := db.Model(&models.Course{}).
		Where("status = ? AND is_deleted = ?", models.CourseStatusPublished, false)

	if filter.Category != "" {
		query = query.Where("LOWER(category) LIKE ?", "%"+strings.ToLower(filter.Category)+"%")
	}
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(CAST(tags AS TEXT)) LIKE ?",
			needle, needle, needle,
		)
	}

	switch filter.Sort {
	case "oldest":
		query = query.Order("created_at asc")
	case "rating":
		query = query.Order("rating_average desc, rating_count desc")
	case "price-low":
		query = query.Order("price asc")
	case "price-high":
		query = query.Order("price desc")
	case "popular":
		query = query.Order("students_count desc")
	default: // newest
		query = query.Order("created_at desc")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var courses []models.Course
	if err := query.Preload("Instructor").Offset(offset).Limit(limit).Find(&courses).Error; err != nil {
		return nil, err
	}

	items := make([]CatalogCourse, len(courses))
	for i, course := range courses {
		items[i] = CatalogCourse{Course: course}
	}

	if filter.ViewerID != 0 && len(courses) > 0 {
		courseIDs := make([]uint, len(courses))
		for i, course := range courses {
			courseIDs[i] = course.ID
		}

		var enrollments []models.Enrollment
		if err := db.Where("user_id = ? AND course_id IN ?", filter.ViewerID, courseIDs).Find(&enrollments).Error; err != nil {
			return nil, err
		}

		byCourse := make(map[uint]models.Enrollment, len(enrollments))
		for _, e := range enrollments {
			byCourse[e.CourseID] = e
		}
		for i := range items {
			if e, ok := byCourse[items[i].ID]; ok {
				items[i].Enrolled = true
				items[i].Progress = e.OverallProgress
				items[i].EnrollmentStatus = e.Status
			}
		}
	}

	pages := int((total + int64(limit) - 1) / int64(limit))

	return &CatalogResult{
		Courses: items,
		Pagination: Pagination{
			Current: page,
			Pages:   pages,
			Total:   total,
			HasNext: page < pages,
			HasPrev: page > 1,
		},
	}, nil
}

// CategoryCount is one row of the category aggregate.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// ListCategories returns published-course counts grouped by category,
// most populated first.
func ListCategories() ([]CategoryCount, error) {
	db := database.Database.Db

	var rows []CategoryCount
	err := db.Model(&models.Course{}).
		Select("category, COUNT(*) AS count").
		Where("status = ? AND is_deleted = ?", models.CourseStatusPublished, false).
		Group("category").
		Order("count desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
