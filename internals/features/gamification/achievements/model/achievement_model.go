package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================================================
   MODEL: achievements (definitions, mirrored from the catalog)
   ========================================================= */

type Achievement struct {
	AchievementID          uuid.UUID                              `gorm:"type:uuid;primaryKey;column:achievement_id" json:"id"`
	AchievementSlug        string                                 `gorm:"type:varchar(80);not null;uniqueIndex;column:achievement_slug" json:"slug"`
	AchievementTitle       string                                 `gorm:"type:varchar(120);not null;column:achievement_title" json:"title"`
	AchievementDescription string                                 `gorm:"type:text;column:achievement_description" json:"description"`
	AchievementIcon        string                                 `gorm:"type:varchar(60);column:achievement_icon" json:"icon"`
	AchievementCategory    string                                 `gorm:"type:varchar(40);column:achievement_category" json:"category"`
	AchievementRarity      string                                 `gorm:"type:varchar(20);column:achievement_rarity" json:"rarity"`
	AchievementPoints      int                                    `gorm:"not null;default:0;column:achievement_points" json:"points"`
	AchievementCriteria    datatypes.JSONType[map[string]float64] `gorm:"column:achievement_criteria" json:"criteria"`
	AchievementIsActive    bool                                   `gorm:"not null;column:achievement_is_active" json:"is_active"`

	AchievementCreatedAt time.Time `gorm:"not null;autoCreateTime;column:achievement_created_at" json:"created_at"`
	AchievementUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:achievement_updated_at" json:"updated_at"`
}

func (Achievement) TableName() string { return "achievements" }

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.AchievementID == uuid.Nil {
		a.AchievementID = uuid.New()
	}
	return nil
}

/* =========================================================
   MODEL: user_achievements (immutable unlock records)
   ========================================================= */

type UserAchievement struct {
	UserAchievementID            uuid.UUID `gorm:"type:uuid;primaryKey;column:user_achievement_id" json:"id"`
	UserAchievementUserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_user_achievement;column:user_achievement_user_id" json:"user_id"`
	UserAchievementAchievementID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_user_achievement;column:user_achievement_achievement_id" json:"achievement_id"`
	UserAchievementUnlockedAt    time.Time `gorm:"not null;column:user_achievement_unlocked_at" json:"unlocked_at"`

	Achievement *Achievement `gorm:"foreignKey:UserAchievementAchievementID;references:AchievementID" json:"achievement,omitempty"`
}

func (UserAchievement) TableName() string { return "user_achievements" }

func (ua *UserAchievement) BeforeCreate(tx *gorm.DB) error {
	if ua.UserAchievementID == uuid.Nil {
		ua.UserAchievementID = uuid.New()
	}
	if ua.UserAchievementUnlockedAt.IsZero() {
		ua.UserAchievementUnlockedAt = time.Now()
	}
	return nil
}
