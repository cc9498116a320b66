package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campusaxis_backend/internals/features/gamification/achievements/model"
	"campusaxis_backend/internals/features/gamification/catalog"
)

// SyncCatalog mirrors the catalog's achievements into the achievements
// table keyed by slug. Rows whose slug left the catalog are deactivated,
// never deleted, so existing unlocks keep their definition.
func SyncCatalog(ctx context.Context, db *gorm.DB, cat *catalog.Catalog) error {
	slugs := make([]string, 0, len(cat.Achievements))

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, def := range cat.Achievements {
			criteria := def.Criteria
			if criteria == nil {
				criteria = map[string]float64{}
			}
			row := model.Achievement{
				AchievementSlug:        def.Slug,
				AchievementTitle:       def.Title,
				AchievementDescription: def.Description,
				AchievementIcon:        def.Icon,
				AchievementCategory:    def.Category,
				AchievementRarity:      def.Rarity,
				AchievementPoints:      def.Points,
				AchievementCriteria:    datatypes.NewJSONType(criteria),
				AchievementIsActive:    !def.Inactive,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "achievement_slug"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"achievement_title",
					"achievement_description",
					"achievement_icon",
					"achievement_category",
					"achievement_rarity",
					"achievement_points",
					"achievement_criteria",
					"achievement_is_active",
					"achievement_updated_at",
				}),
			}).Create(&row).Error; err != nil {
				return err
			}
			slugs = append(slugs, def.Slug)
		}

		q := tx.Model(&model.Achievement{}).Where("achievement_is_active = ?", true)
		if len(slugs) > 0 {
			q = q.Where("achievement_slug NOT IN ?", slugs)
		}
		res := q.Update("achievement_is_active", false)
		if res.Error != nil {
			return res.Error
		}
		log.Printf("[ACHIEVEMENT] catalog synced: %d definitions, %d deactivated", len(slugs), res.RowsAffected)
		return nil
	})
}

func ListActive(ctx context.Context, db *gorm.DB) ([]model.Achievement, error) {
	var rows []model.Achievement
	err := db.WithContext(ctx).
		Where("achievement_is_active = ?", true).
		Order("achievement_points ASC").
		Order("achievement_slug ASC").
		Find(&rows).Error
	return rows, err
}

func ListUnlocked(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.UserAchievement, error) {
	var rows []model.UserAchievement
	err := db.WithContext(ctx).
		Preload("Achievement").
		Where("user_achievement_user_id = ?", userID).
		Order("user_achievement_unlocked_at DESC").
		Find(&rows).Error
	return rows, err
}
