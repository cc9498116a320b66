package model

import (
	"time"

	"github.com/google/uuid"
)

// UserStats is the per-user aggregate behind points, levels and achievements.
type UserStats struct {
	UserStatsID                uint      `gorm:"column:user_stats_id;primaryKey" json:"-"`
	UserStatsUserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:user_stats_user_id" json:"user_id"`
	UserStatsPostsCount        int       `gorm:"not null;default:0;column:user_stats_posts_count" json:"posts_count"`
	UserStatsCommentsCount     int       `gorm:"not null;default:0;column:user_stats_comments_count" json:"comments_count"`
	UserStatsLikesReceived     int       `gorm:"not null;default:0;column:user_stats_likes_received" json:"likes_received"`
	UserStatsResourcesUploaded int       `gorm:"not null;default:0;column:user_stats_resources_uploaded" json:"resources_uploaded"`
	UserStatsPapersUploaded    int       `gorm:"not null;default:0;column:user_stats_papers_uploaded" json:"papers_uploaded"`
	UserStatsGroupsJoined      int       `gorm:"not null;default:0;column:user_stats_groups_joined" json:"groups_joined"`
	UserStatsEventsAttended    int       `gorm:"not null;default:0;column:user_stats_events_attended" json:"events_attended"`
	UserStatsTotalPoints       int       `gorm:"not null;default:0;index;column:user_stats_total_points" json:"total_points"`

	UserStatsCreatedAt time.Time `gorm:"not null;autoCreateTime;column:user_stats_created_at" json:"created_at"`
	UserStatsUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:user_stats_updated_at" json:"updated_at"`
}

func (UserStats) TableName() string { return "user_stats" }

// Metric returns the counter an achievement criterion refers to.
func (s *UserStats) Metric(key string) (int, bool) {
	switch key {
	case "posts":
		return s.UserStatsPostsCount, true
	case "comments":
		return s.UserStatsCommentsCount, true
	case "likes_received":
		return s.UserStatsLikesReceived, true
	case "resources":
		return s.UserStatsResourcesUploaded, true
	case "papers":
		return s.UserStatsPapersUploaded, true
	case "groups":
		return s.UserStatsGroupsJoined, true
	case "events":
		return s.UserStatsEventsAttended, true
	case "total_points":
		return s.UserStatsTotalPoints, true
	default:
		return 0, false
	}
}
