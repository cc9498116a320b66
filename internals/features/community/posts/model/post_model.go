package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PostVisibility string

const (
	VisibilityPublic     PostVisibility = "public"
	VisibilityCampus     PostVisibility = "campus"
	VisibilityDepartment PostVisibility = "department"
	VisibilityBatch      PostVisibility = "batch"
	VisibilityPrivate    PostVisibility = "private"
)

const DefaultPostType = "general"

/* =========================================================
   MODEL: community_posts
   ========================================================= */

type Post struct {
	PostID       uuid.UUID `gorm:"type:uuid;primaryKey;column:post_id" json:"post_id"`
	PostAuthorID uuid.UUID `gorm:"type:uuid;not null;index:idx_post_author_created,priority:1;column:post_author_id" json:"post_author_id"`

	PostContent     string                      `gorm:"type:text;not null;column:post_content" json:"post_content"`
	PostType        string                      `gorm:"type:varchar(40);not null;default:general;column:post_type" json:"post_type"`
	PostMedia       datatypes.JSONSlice[string] `gorm:"column:post_media" json:"post_media"`
	PostLocation    *string                     `gorm:"type:varchar(160);column:post_location" json:"post_location"`
	PostFeeling     *string                     `gorm:"type:varchar(60);column:post_feeling" json:"post_feeling"`
	PostTaggedUsers datatypes.JSONSlice[string] `gorm:"column:post_tagged_users" json:"post_tagged_users"`
	PostVisibility  PostVisibility              `gorm:"type:varchar(20);not null;default:public;column:post_visibility" json:"post_visibility"`

	// scope (campus / department / batch)
	PostCampusID     *uuid.UUID `gorm:"type:uuid;index;column:post_campus_id" json:"post_campus_id"`
	PostDepartmentID *uuid.UUID `gorm:"type:uuid;index;column:post_department_id" json:"post_department_id"`
	PostBatch        *string    `gorm:"type:varchar(32);index;column:post_batch" json:"post_batch"`

	// engagement counters, mutated elsewhere
	PostLikesCount    int `gorm:"not null;default:0;column:post_likes_count" json:"post_likes_count"`
	PostCommentsCount int `gorm:"not null;default:0;column:post_comments_count" json:"post_comments_count"`
	PostSharesCount   int `gorm:"not null;default:0;column:post_shares_count" json:"post_shares_count"`
	PostViewsCount    int `gorm:"not null;default:0;column:post_views_count" json:"post_views_count"`

	PostIsEdited bool       `gorm:"not null;default:false;column:post_is_edited" json:"post_is_edited"`
	PostEditedAt *time.Time `gorm:"column:post_edited_at" json:"post_edited_at"`

	PostCreatedAt time.Time      `gorm:"not null;autoCreateTime;index:idx_post_author_created,priority:2;column:post_created_at" json:"post_created_at"`
	PostUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:post_updated_at" json:"post_updated_at"`
	PostDeletedAt gorm.DeletedAt `gorm:"index;column:post_deleted_at" json:"-"`
}

func (Post) TableName() string { return "community_posts" }

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.PostID == uuid.Nil {
		p.PostID = uuid.New()
	}
	if p.PostType == "" {
		p.PostType = DefaultPostType
	}
	if p.PostVisibility == "" {
		p.PostVisibility = VisibilityPublic
	}
	return nil
}
