package dto

import (
	"time"

	"github.com/google/uuid"

	"campusaxis_backend/internals/features/gamification/catalog"
	"campusaxis_backend/internals/features/gamification/stats/model"
)

type UserStatsResponse struct {
	UserID            uuid.UUID `json:"user_id"`
	PostsCount        int       `json:"posts_count"`
	CommentsCount     int       `json:"comments_count"`
	LikesReceived     int       `json:"likes_received"`
	ResourcesUploaded int       `json:"resources_uploaded"`
	PapersUploaded    int       `json:"papers_uploaded"`
	GroupsJoined      int       `json:"groups_joined"`
	EventsAttended    int       `json:"events_attended"`
	TotalPoints       int       `json:"total_points"`

	Level     catalog.LevelProgress `json:"level"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func FromModel(m *model.UserStats, cat *catalog.Catalog) UserStatsResponse {
	return UserStatsResponse{
		UserID:            m.UserStatsUserID,
		PostsCount:        m.UserStatsPostsCount,
		CommentsCount:     m.UserStatsCommentsCount,
		LikesReceived:     m.UserStatsLikesReceived,
		ResourcesUploaded: m.UserStatsResourcesUploaded,
		PapersUploaded:    m.UserStatsPapersUploaded,
		GroupsJoined:      m.UserStatsGroupsJoined,
		EventsAttended:    m.UserStatsEventsAttended,
		TotalPoints:       m.UserStatsTotalPoints,
		Level:             cat.Progress(m.UserStatsTotalPoints),
		UpdatedAt:         m.UserStatsUpdatedAt,
	}
}

type LeaderboardEntry struct {
	Rank        int           `json:"rank"`
	UserID      uuid.UUID     `json:"user_id"`
	TotalPoints int           `json:"total_points"`
	PostsCount  int           `json:"posts_count"`
	Level       catalog.Level `json:"level"`
}

func ToLeaderboard(rows []model.UserStats, cat *catalog.Catalog) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(rows))
	for i := range rows {
		out = append(out, LeaderboardEntry{
			Rank:        i + 1,
			UserID:      rows[i].UserStatsUserID,
			TotalPoints: rows[i].UserStatsTotalPoints,
			PostsCount:  rows[i].UserStatsPostsCount,
			Level:       cat.LevelFor(rows[i].UserStatsTotalPoints),
		})
	}
	return out
}
