package services

import (
	"testing"

	"openlearn/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingAggregateFollowsReviews(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	reviewers := []*models.User{
		createTestUser(t, db, models.RoleStudent),
		createTestUser(t, db, models.RoleStudent),
		createTestUser(t, db, models.RoleStudent),
	}

	ratings := []int{5, 5, 4}
	var lastReview *models.Review
	for i, reviewer := range reviewers {
		review, err := CreateReview(reviewer.ID, course.ID, ReviewInput{
			Rating:  ratings[i],
			Title:   "Great course",
			Comment: "Learned a lot",
		})
		require.NoError(t, err)
		lastReview = review
	}

	var reloaded models.Course
	require.NoError(t, db.First(&reloaded, course.ID).Error)
	assert.Equal(t, 4.7, reloaded.RatingAverage)
	assert.Equal(t, int64(3), reloaded.RatingCount)

	// Removing the 4-star review lifts the average back to 5.0.
	require.NoError(t, DeleteReview(lastReview.ID, lastReview.UserID, models.RoleStudent))

	require.NoError(t, db.First(&reloaded, course.ID).Error)
	assert.Equal(t, 5.0, reloaded.RatingAverage)
	assert.Equal(t, int64(2), reloaded.RatingCount)
}

func TestRatingZeroedWithoutReviews(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	review, err := CreateReview(student.ID, course.ID, ReviewInput{Rating: 3, Title: "Okay", Comment: "Average"})
	require.NoError(t, err)
	require.NoError(t, DeleteReview(review.ID, student.ID, models.RoleStudent))

	var reloaded models.Course
	require.NoError(t, db.First(&reloaded, course.ID).Error)
	assert.Equal(t, 0.0, reloaded.RatingAverage)
	assert.Equal(t, int64(0), reloaded.RatingCount)
}

func TestHiddenReviewsExcludedFromAggregate(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	first := createTestUser(t, db, models.RoleStudent)
	second := createTestUser(t, db, models.RoleStudent)

	_, err := CreateReview(first.ID, course.ID, ReviewInput{Rating: 5, Title: "Superb", Comment: "Loved it"})
	require.NoError(t, err)
	hidden, err := CreateReview(second.ID, course.ID, ReviewInput{Rating: 1, Title: "Spam", Comment: "buy followers"})
	require.NoError(t, err)

	require.NoError(t, db.Model(hidden).Update("is_hidden", true).Error)

	stats, err := RecomputeRating(course.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, stats.Average)
	assert.Equal(t, int64(1), stats.Count)
}

func TestReviewCanBeRecreatedAfterDelete(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	review, err := CreateReview(student.ID, course.ID, ReviewInput{Rating: 2, Title: "Too early", Comment: "Half the content was missing"})
	require.NoError(t, err)
	require.NoError(t, DeleteReview(review.ID, student.ID, models.RoleStudent))

	// The pair is free again after deletion.
	recreated, err := CreateReview(student.ID, course.ID, ReviewInput{Rating: 5, Title: "Much better now", Comment: "Came back after the update"})
	require.NoError(t, err)
	assert.Equal(t, 5, recreated.Rating)

	var reloaded models.Course
	require.NoError(t, db.First(&reloaded, course.ID).Error)
	assert.Equal(t, 5.0, reloaded.RatingAverage)
	assert.Equal(t, int64(1), reloaded.RatingCount)
}

func TestDuplicateReviewRejected(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	_, err := CreateReview(student.ID, course.ID, ReviewInput{Rating: 5, Title: "Great", Comment: "Yes"})
	require.NoError(t, err)

	_, err = CreateReview(student.ID, course.ID, ReviewInput{Rating: 4, Title: "Again", Comment: "No"})
	assert.ErrorIs(t, err, ErrDuplicateReview)
}

func TestReviewValidation(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	_, err := CreateReview(student.ID, course.ID, ReviewInput{Rating: 0, Title: "Bad", Comment: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CreateReview(student.ID, course.ID, ReviewInput{Rating: 6, Title: "Bad", Comment: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CreateReview(student.ID, course.ID, ReviewInput{Rating: 3, Title: "  ", Comment: "x"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateReviewOwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	author := createTestUser(t, db, models.RoleStudent)
	stranger := createTestUser(t, db, models.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	review, err := CreateReview(author.ID, course.ID, ReviewInput{Rating: 4, Title: "Good", Comment: "Solid"})
	require.NoError(t, err)

	_, err = UpdateReview(review.ID, stranger.ID, ReviewInput{Rating: 1, Title: "Bad", Comment: "Nope"})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := UpdateReview(review.ID, author.ID, ReviewInput{Rating: 5, Title: "Even better", Comment: "Rewatched it"})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	var reloaded models.Course
	require.NoError(t, db.First(&reloaded, course.ID).Error)
	assert.Equal(t, 5.0, reloaded.RatingAverage)
}

func TestDeleteReviewAdminOverride(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	author := createTestUser(t, db, models.RoleStudent)
	stranger := createTestUser(t, db, models.RoleStudent)
	admin := createTestUser(t, db, models.RoleAdmin)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	review, err := CreateReview(author.ID, course.ID, ReviewInput{Rating: 2, Title: "Meh", Comment: "Not great"})
	require.NoError(t, err)

	err = DeleteReview(review.ID, stranger.ID, models.RoleStudent)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, DeleteReview(review.ID, admin.ID, models.RoleAdmin))
}

func TestListCourseReviewsSkipsHidden(t *testing.T) {
	db := setupTestDB(t)
	instructor := createTestUser(t, db, models.RoleTeacher)
	course := createTestCourse(t, db, instructor.ID, models.CourseStatusPublished, 30)

	visible := createTestUser(t, db, models.RoleStudent)
	flagged := createTestUser(t, db, models.RoleStudent)

	_, err := CreateReview(visible.ID, course.ID, ReviewInput{Rating: 5, Title: "Great", Comment: "Yes"})
	require.NoError(t, err)
	hidden, err := CreateReview(flagged.ID, course.ID, ReviewInput{Rating: 1, Title: "Spam", Comment: "spam"})
	require.NoError(t, err)
	require.NoError(t, db.Model(hidden).Update("is_hidden", true).Error)

	reviews, pagination, err := ListCourseReviews(course.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
	assert.Equal(t, int64(1), pagination.Total)
}
