package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campusaxis_backend/internals/features/community/posts/model"
	helper "campusaxis_backend/internals/helpers"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotAuthor    = errors.New("only the author can modify this post")
)

type ListFilter struct {
	CampusID     *uuid.UUID
	DepartmentID *uuid.UUID
	Batch        *string
	AuthorID     *uuid.UUID
	Type         string

	// Viewer sees their own private posts; nil means anonymous.
	Viewer *uuid.UUID

	SortBy string // created_at | likes | comments
	Order  string // asc | desc
}

func applySort(q *gorm.DB, sortBy, order string) *gorm.DB {
	col := "post_created_at"
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "likes":
		col = "post_likes_count"
	case "comments":
		col = "post_comments_count"
	}
	dir := "DESC"
	if strings.EqualFold(strings.TrimSpace(order), "asc") {
		dir = "ASC"
	}
	return q.Order(col + " " + dir).Order("post_id DESC")
}

func (f ListFilter) apply(q *gorm.DB) *gorm.DB {
	if f.CampusID != nil {
		q = q.Where("post_campus_id = ?", *f.CampusID)
	}
	if f.DepartmentID != nil {
		q = q.Where("post_department_id = ?", *f.DepartmentID)
	}
	if f.Batch != nil && strings.TrimSpace(*f.Batch) != "" {
		q = q.Where("post_batch = ?", strings.TrimSpace(*f.Batch))
	}
	if f.AuthorID != nil {
		q = q.Where("post_author_id = ?", *f.AuthorID)
	}
	if t := strings.TrimSpace(f.Type); t != "" {
		q = q.Where("post_type = ?", strings.ToLower(t))
	}
	if f.Viewer != nil {
		q = q.Where("(post_visibility <> ? OR post_author_id = ?)", model.VisibilityPrivate, *f.Viewer)
	} else {
		q = q.Where("post_visibility <> ?", model.VisibilityPrivate)
	}
	return q
}

func Create(ctx context.Context, db *gorm.DB, p *model.Post) error {
	return db.WithContext(ctx).Create(p).Error
}

// List returns one page; total is only counted when withTotal is set.
// Soft-deleted posts are excluded by the model's DeletedAt.
func List(ctx context.Context, db *gorm.DB, f ListFilter, p helper.Paging, withTotal bool) ([]model.Post, int64, error) {
	base := f.apply(db.WithContext(ctx).Model(&model.Post{}))

	var total int64
	if withTotal {
		if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			return nil, 0, fmt.Errorf("count posts: %w", err)
		}
	}

	var rows []model.Post
	if err := applySort(base.Session(&gorm.Session{}), f.SortBy, f.Order).
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return rows, total, nil
}

// GetVisible loads a live post; another user's private post reads as missing.
func GetVisible(ctx context.Context, db *gorm.DB, id uuid.UUID, viewer *uuid.UUID) (*model.Post, error) {
	row, err := getByID(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if row.PostVisibility == model.VisibilityPrivate && (viewer == nil || *viewer != row.PostAuthorID) {
		return nil, ErrPostNotFound
	}
	return row, nil
}

func getByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.Post, error) {
	var row model.Post
	err := db.WithContext(ctx).Where("post_id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetOwned: ErrPostNotFound before ErrNotAuthor, so existence is checked first.
func GetOwned(ctx context.Context, db *gorm.DB, id, authorID uuid.UUID) (*model.Post, error) {
	row, err := getByID(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if row.PostAuthorID != authorID {
		return nil, ErrNotAuthor
	}
	return row, nil
}

// UpdateOwned applies updates and marks the post edited. An empty update
// set returns the post unchanged.
func UpdateOwned(ctx context.Context, db *gorm.DB, id, authorID uuid.UUID, updates map[string]any) (*model.Post, error) {
	row, err := GetOwned(ctx, db, id, authorID)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return row, nil
	}

	now := time.Now()
	updates["post_is_edited"] = true
	updates["post_edited_at"] = now

	if err := db.WithContext(ctx).
		Model(&model.Post{}).
		Where("post_id = ?", row.PostID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return getByID(ctx, db, row.PostID)
}

// DeleteOwned soft-deletes the post.
func DeleteOwned(ctx context.Context, db *gorm.DB, id, authorID uuid.UUID) (*model.Post, error) {
	row, err := GetOwned(ctx, db, id, authorID)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(row).Error; err != nil {
		return nil, fmt.Errorf("delete post: %w", err)
	}
	return row, nil
}

// CountLiveByAuthor returns live post counts for the given authors; authors
// without posts are absent from the map.
func CountLiveByAuthor(ctx context.Context, db *gorm.DB, authorIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}

	type row struct {
		AuthorID uuid.UUID
		N        int
	}
	var rows []row
	if err := db.WithContext(ctx).
		Model(&model.Post{}).
		Select("post_author_id AS author_id, COUNT(*) AS n").
		Where("post_author_id IN ?", authorIDs).
		Group("post_author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.AuthorID] = r.N
	}
	return out, nil
}

// AuthorsChangedSince reports which of the given authors created or deleted
// a post after since.
func AuthorsChangedSince(ctx context.Context, db *gorm.DB, authorIDs []uuid.UUID, since time.Time) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool)
	if len(authorIDs) == 0 {
		return out, nil
	}

	var ids []uuid.UUID
	if err := db.WithContext(ctx).
		Unscoped().
		Model(&model.Post{}).
		Distinct("post_author_id").
		Where("post_author_id IN ?", authorIDs).
		Where("(post_created_at > ? OR post_deleted_at > ?)", since, since).
		Pluck("post_author_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
