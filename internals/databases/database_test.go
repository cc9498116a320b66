package database_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	importModel "campusaxis_backend/internals/features/admin/imports/model"
	postModel "campusaxis_backend/internals/features/community/posts/model"
	achievementModel "campusaxis_backend/internals/features/gamification/achievements/model"
	statsModel "campusaxis_backend/internals/features/gamification/stats/model"
	prefModel "campusaxis_backend/internals/features/users/preferences/model"
	"campusaxis_backend/internals/testutil"
)

// Every model must read back whole rows, timestamps included, on the test driver.
func TestModels_TimestampsRoundTrip(t *testing.T) {
	db := testutil.OpenDB(t)
	user := uuid.New()

	post := &postModel.Post{PostAuthorID: user, PostContent: "hello"}
	require.NoError(t, db.Create(post).Error)
	var gotPost postModel.Post
	require.NoError(t, db.Where("post_id = ?", post.PostID).Take(&gotPost).Error)
	assert.False(t, gotPost.PostCreatedAt.IsZero())

	require.NoError(t, db.Create(&statsModel.UserStats{UserStatsUserID: user}).Error)
	var gotStats statsModel.UserStats
	require.NoError(t, db.Where("user_stats_user_id = ?", user).Take(&gotStats).Error)
	assert.False(t, gotStats.UserStatsUpdatedAt.IsZero())

	require.NoError(t, db.Create(&prefModel.UserPreference{UserPreferenceUserID: user}).Error)
	var gotPref prefModel.UserPreference
	require.NoError(t, db.Where("user_preference_user_id = ?", user).Take(&gotPref).Error)
	assert.False(t, gotPref.UserPreferenceCreatedAt.IsZero())

	ach := &achievementModel.Achievement{AchievementSlug: "first-post", AchievementTitle: "First Post"}
	require.NoError(t, db.Create(ach).Error)
	unlockedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, db.Create(&achievementModel.UserAchievement{
		UserAchievementUserID:        user,
		UserAchievementAchievementID: ach.AchievementID,
		UserAchievementUnlockedAt:    unlockedAt,
	}).Error)
	var gotUA achievementModel.UserAchievement
	require.NoError(t, db.Preload("Achievement").Where("user_achievement_user_id = ?", user).Take(&gotUA).Error)
	assert.True(t, gotUA.UserAchievementUnlockedAt.Equal(unlockedAt))

	fac := &importModel.Faculty{FacultyName: "Dr. Sana", FacultyDepartment: "CS"}
	require.NoError(t, db.Create(fac).Error)
	require.NoError(t, db.Create(&importModel.FacultyReview{
		ReviewFacultyID:       fac.FacultyID,
		ReviewCourse:          "CS101",
		ReviewSemester:        "FA24",
		ReviewRating:          5,
		ReviewTeachingQuality: 4,
		ReviewAccessibility:   4,
		ReviewCourseMaterial:  3,
		ReviewGrading:         4,
		ReviewComment:         "clear lectures",
	}).Error)
	var gotReview importModel.FacultyReview
	require.NoError(t, db.Preload("Faculty").Where("review_faculty_id = ?", fac.FacultyID).Take(&gotReview).Error)
	assert.False(t, gotReview.ReviewCreatedAt.IsZero())
	require.NotNil(t, gotReview.Faculty)
	assert.False(t, gotReview.Faculty.FacultyCreatedAt.IsZero())
}
