package services

import (
	"sort"
	"testing"

	"openlearn/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendFromCatalogExcludesEnrolled(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	require.NoError(t, db.Model(student).Update("interests", "programming").Error)

	enrolled := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)
	fresh := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	_, err := Enroll(student.ID, enrolled.ID, EnrollInput{AmountPaid: 49.99})
	require.NoError(t, err)

	recommendations, err := RecommendFromCatalog(student.ID)
	require.NoError(t, err)

	for _, rec := range recommendations {
		assert.NotEqual(t, enrolled.ID, rec.Course.ID, "enrolled courses must never be recommended")
	}

	found := false
	for _, rec := range recommendations {
		if rec.Course.ID == fresh.ID {
			found = true
			assert.Equal(t, 0.8, rec.Confidence)
			assert.Equal(t, "interest_based", rec.Type)
		}
	}
	assert.True(t, found)
}

func TestRecommendFromCatalogOrderedByConfidence(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	require.NoError(t, db.Model(student).Update("interests", "design").Error)

	interest := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)
	require.NoError(t, db.Model(interest).Update("category", "Design").Error)

	trending := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)
	require.NoError(t, db.Model(trending).Update("featured", true).Error)

	recommendations, err := RecommendFromCatalog(student.ID)
	require.NoError(t, err)
	require.NotEmpty(t, recommendations)

	sorted := sort.SliceIsSorted(recommendations, func(i, j int) bool {
		return recommendations[i].Confidence > recommendations[j].Confidence
	})
	assert.True(t, sorted)
	assert.LessOrEqual(t, len(recommendations), 10)
}

func TestRecommendFromCatalogUnknownUser(t *testing.T) {
	setupTestDB(t)

	_, err := RecommendFromCatalog(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSimilarCoursesSharesCategoryOrLevel(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)

	base := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	sameCategory := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)
	unrelated := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)
	require.NoError(t, db.Model(unrelated).Updates(map[string]interface{}{
		"category": "Business",
		"level":    "Advanced",
	}).Error)

	similar, err := SimilarCourses(base.ID, 6)
	require.NoError(t, err)

	ids := make([]uint, 0, len(similar))
	for _, c := range similar {
		ids = append(ids, c.ID)
	}
	assert.Contains(t, ids, sameCategory.ID)
	assert.NotContains(t, ids, unrelated.ID)
	assert.NotContains(t, ids, base.ID)
}

func TestNextLevel(t *testing.T) {
	assert.Equal(t, "Intermediate", nextLevel([]string{"Beginner"}))
	assert.Equal(t, "Advanced", nextLevel([]string{"Beginner", "Intermediate"}))
	assert.Equal(t, "", nextLevel([]string{"Advanced"}))
	assert.Equal(t, "", nextLevel(nil))
}

func TestSplitTerms(t *testing.T) {
	terms := splitTerms("go, docker , ", "kubernetes")
	assert.Equal(t, []string{"go", "docker", "kubernetes"}, terms)
	assert.Empty(t, splitTerms("", "  "))
}

func TestRecommendationQuery(t *testing.T) {
	user := models.User{Interests: "go,cloud", Skills: "docker"}
	query := RecommendationQuery(user, []string{"DevOps"})
	assert.Equal(t, "go cloud docker DevOps", query)

	assert.Equal(t, "general courses", RecommendationQuery(models.User{}, nil))
}
