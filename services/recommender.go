package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"openlearn/database"
	"openlearn/models"

	"github.com/go-resty/resty/v2"
)

// ScoredCourse is one ranked result from the external scorer.
type ScoredCourse struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Level    string  `json:"level"`
	Score    float64 `json:"similarity_score"`
}

// Recommender ranks courses for a free-text query. Implementations are
// constructed once at process start and handed to the handlers; there
// is no ambient model singleton.
type Recommender interface {
	Recommend(query string, k int) ([]ScoredCourse, error)
}

// HTTPRecommender talks to the external recommendation scorer.
type HTTPRecommender struct {
	client  *resty.Client
	baseURL string
}

// NewHTTPRecommender builds a client for the scorer at baseURL.
func NewHTTPRecommender(baseURL string) *HTTPRecommender {
	return &HTTPRecommender{
		client:  resty.New().SetTimeout(10 * time.Second),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (r *HTTPRecommender) Recommend(query string, k int) ([]ScoredCourse, error) {
	var results []ScoredCourse
	resp, err := r.client.R().
		SetQueryParams(map[string]string{
			"query": query,
			"top_k": fmt.Sprintf("%d", k),
		}).
		SetResult(&results).
		Get(r.baseURL + "/recommend")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("recommender returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return results, nil
}

// Recommendation is one catalog-backed suggestion for a user.
type Recommendation struct {
	Course     models.Course `json:"course"`
	Reason     string        `json:"reason"`
	Confidence float64       `json:"confidence"`
	Type       string        `json:"type"`
}

const maxRecommendations = 10

// RecommendFromCatalog builds recommendations for a user directly from
// the catalog when the external scorer is unavailable. Five sources
// are merged with fixed confidences, deduplicated, sorted by
// confidence and capped.
func RecommendFromCatalog(userID uint) ([]Recommendation, error) {
	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, ErrNotFound
	}

	var enrollments []models.Enrollment
	if err := db.Where("user_id = ?", userID).Find(&enrollments).Error; err != nil {
		return nil, err
	}

	enrolledIDs := make([]uint, 0, len(enrollments))
	completedIDs := make([]uint, 0)
	for _, e := range enrollments {
		enrolledIDs = append(enrolledIDs, e.CourseID)
		if e.Status == models.EnrollmentCompleted {
			completedIDs = append(completedIDs, e.CourseID)
		}
	}

	var completedCourses []models.Course
	if len(completedIDs) > 0 {
		if err := db.Where("id IN ?", completedIDs).Find(&completedCourses).Error; err != nil {
			return nil, err
		}
	}
	completedCategories := make([]string, 0, len(completedCourses))
	completedLevels := make([]string, 0, len(completedCourses))
	for _, c := range completedCourses {
		completedCategories = append(completedCategories, c.Category)
		completedLevels = append(completedLevels, c.Level)
	}

	recommendations := make([]Recommendation, 0, maxRecommendations)
	seen := make(map[uint]bool)
	for _, id := range enrolledIDs {
		seen[id] = true
	}

	add := func(courses []models.Course, reason string, confidence float64, kind string) {
		for _, course := range courses {
			if seen[course.ID] {
				continue
			}
			seen[course.ID] = true
			recommendations = append(recommendations, Recommendation{
				Course:     course,
				Reason:     reason,
				Confidence: confidence,
				Type:       kind,
			})
		}
	}

	interests := splitTerms(user.Interests, user.Skills)
	if len(interests) > 0 {
		var courses []models.Course
		q := db.Where("status = ? AND is_deleted = ?", models.CourseStatusPublished, false)
		conds := make([]string, 0, len(interests))
		args := make([]interface{}, 0, len(interests))
		for _, term := range interests {
			conds = append(conds, "(LOWER(category) LIKE ? OR LOWER(CAST(tags AS TEXT)) LIKE ?)")
			needle := "%" + strings.ToLower(term) + "%"
			args = append(args, needle, needle)
		}
		q = q.Where(strings.Join(conds, " OR "), args...)
		if err := q.Order("rating_average desc, students_count desc").Limit(5).Find(&courses).Error; err != nil {
			return nil, err
		}
		add(courses, "Based on your interests and skills", 0.8, "interest_based")
	}

	if len(completedCategories) > 0 {
		var courses []models.Course
		err := db.Where("status = ? AND is_deleted = ? AND category IN ?", models.CourseStatusPublished, false, completedCategories).
			Order("rating_average desc").Limit(3).Find(&courses).Error
		if err != nil {
			return nil, err
		}
		add(courses, "Similar to courses you've completed", 0.7, "category_based")
	}

	if next := nextLevel(completedLevels); next != "" {
		var courses []models.Course
		err := db.Where("status = ? AND is_deleted = ? AND level = ?", models.CourseStatusPublished, false, next).
			Order("rating_average desc").Limit(3).Find(&courses).Error
		if err != nil {
			return nil, err
		}
		add(courses, fmt.Sprintf("Ready for %s level courses", next), 0.6, "level_progression")
	}

	var trending []models.Course
	err := db.Where("status = ? AND is_deleted = ? AND featured = ?", models.CourseStatusPublished, false, true).
		Order("students_count desc, rating_average desc").Limit(3).Find(&trending).Error
	if err != nil {
		return nil, err
	}
	add(trending, "Popular and highly rated", 0.5, "trending")

	if len(recommendations) < maxRecommendations {
		var topRated []models.Course
		err := db.Where("status = ? AND is_deleted = ? AND rating_count >= ?", models.CourseStatusPublished, false, 10).
			Order("rating_average desc, rating_count desc").
			Limit(maxRecommendations - len(recommendations)).Find(&topRated).Error
		if err != nil {
			return nil, err
		}
		add(topRated, "Highly rated by students", 0.4, "top_rated")
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Confidence > recommendations[j].Confidence
	})
	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}

	return recommendations, nil
}

// SimilarCourses returns published courses sharing category or level
// with the given course, best rated first.
func SimilarCourses(courseID uint, limit int) ([]models.Course, error) {
	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, ErrNotFound
	}

	if limit < 1 {
		limit = 6
	}

	var similar []models.Course
	err := db.Where("id <> ? AND status = ? AND is_deleted = ?", course.ID, models.CourseStatusPublished, false).
		Where("category = ? OR level = ?", course.Category, course.Level).
		Order("rating_average desc, students_count desc").
		Limit(limit).
		Find(&similar).Error
	if err != nil {
		return nil, err
	}
	return similar, nil
}

// RecommendationQuery joins the user's interests, skills and completed
// categories into the free-text query sent to the external scorer.
func RecommendationQuery(user models.User, completedCategories []string) string {
	terms := splitTerms(user.Interests, user.Skills)
	terms = append(terms, completedCategories...)
	if len(terms) == 0 {
		return "general courses"
	}
	return strings.Join(terms, " ")
}

func splitTerms(lists ...string) []string {
	var terms []string
	for _, list := range lists {
		for _, term := range strings.Split(list, ",") {
			term = strings.TrimSpace(term)
			if term != "" {
				terms = append(terms, term)
			}
		}
	}
	return terms
}

// nextLevel picks the level above the highest one completed.
func nextLevel(completed []string) string {
	rank := map[string]int{"Beginner": 1, "Intermediate": 2, "Advanced": 3}
	highest := 0
	for _, level := range completed {
		if rank[level] > highest {
			highest = rank[level]
		}
	}
	switch highest {
	case 1:
		return "Intermediate"
	case 2:
		return "Advanced"
	}
	return ""
}
