package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	"gorm.io/datatypes"

	"campusaxis_backend/internals/features/community/posts/model"
	prefService "campusaxis_backend/internals/features/users/preferences/service"
)

const (
	MinContentRunes = 3
	MaxContentRunes = 5000
)

var (
	ErrContentTooShort = fmt.Errorf("Content must be at least %d characters long", MinContentRunes)
	ErrContentTooLong  = fmt.Errorf("Content must be at most %d characters long", MaxContentRunes)
)

// NormalizeContent trims and NFC-normalises s, then checks its length in runes.
func NormalizeContent(s string) (string, error) {
	s = strings.TrimSpace(norm.NFC.String(s))
	n := utf8.RuneCountInString(s)
	if n < MinContentRunes {
		return "", ErrContentTooShort
	}
	if n > MaxContentRunes {
		return "", ErrContentTooLong
	}
	return s, nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func cleanList(in []string) datatypes.JSONSlice[string] {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return datatypes.JSONSlice[string](out)
}

/* ==============================
   CREATE (POST /community/posts)
============================== */

type CreatePostRequest struct {
	Content     string   `json:"content"`
	Type        *string  `json:"type" validate:"omitempty,max=40"`
	Media       []string `json:"media" validate:"omitempty,max=10,dive,url"`
	Location    *string  `json:"location" validate:"omitempty,max=160"`
	Feeling     *string  `json:"feeling" validate:"omitempty,max=60"`
	TaggedUsers []string `json:"tagged_users" validate:"omitempty,max=50,dive,uuid"`
	Visibility  *string  `json:"visibility" validate:"omitempty,oneof=public campus department batch private"`

	CampusID     *uuid.UUID `json:"campus_id"`
	DepartmentID *uuid.UUID `json:"department_id"`
	Batch        *string    `json:"batch" validate:"omitempty,max=32"`
}

// Scope returns the explicit campus/department/batch overrides.
func (r *CreatePostRequest) Scope() prefService.Scope {
	return prefService.Scope{
		CampusID:     r.CampusID,
		DepartmentID: r.DepartmentID,
		Batch:        trimPtr(r.Batch),
	}
}

// ToModel expects content already normalised and scope already resolved.
func (r *CreatePostRequest) ToModel(authorID uuid.UUID, content string, scope prefService.Scope) *model.Post {
	m := &model.Post{
		PostAuthorID:     authorID,
		PostContent:      content,
		PostType:         model.DefaultPostType,
		PostMedia:        cleanList(r.Media),
		PostLocation:     trimPtr(r.Location),
		PostFeeling:      trimPtr(r.Feeling),
		PostTaggedUsers:  cleanList(r.TaggedUsers),
		PostVisibility:   model.VisibilityPublic,
		PostCampusID:     scope.CampusID,
		PostDepartmentID: scope.DepartmentID,
		PostBatch:        scope.Batch,
	}
	if t := trimPtr(r.Type); t != nil {
		m.PostType = strings.ToLower(*t)
	}
	if r.Visibility != nil {
		m.PostVisibility = model.PostVisibility(*r.Visibility)
	}
	return m
}

/* ==============================
   PATCH (PATCH /community/posts/:id)
============================== */

/*
Tri-state field for PATCH:
- Absent : not updated
- null   : set column to NULL
- value  : set to value
*/
type UpdateField[T any] struct {
	set   bool
	null  bool
	value T
}

func (f *UpdateField[T]) UnmarshalJSON(b []byte) error {
	f.set = true
	if string(b) == "null" {
		f.null = true
		var zero T
		f.value = zero
		return nil
	}
	return json.Unmarshal(b, &f.value)
}

func (f UpdateField[T]) ShouldUpdate() bool { return f.set }
func (f UpdateField[T]) IsNull() bool       { return f.set && f.null }
func (f UpdateField[T]) Val() T             { return f.value }

type PatchPostRequest struct {
	Content     UpdateField[string]   `json:"content"`
	Type        UpdateField[string]   `json:"type"`
	Media       UpdateField[[]string] `json:"media"`
	Location    UpdateField[string]   `json:"location"`
	Feeling     UpdateField[string]   `json:"feeling"`
	TaggedUsers UpdateField[[]string] `json:"tagged_users"`
	Visibility  UpdateField[string]   `json:"visibility"`
}

var ErrInvalidVisibility = errors.New("visibility must be one of public, campus, department, batch, private")

func validVisibility(v string) bool {
	switch model.PostVisibility(v) {
	case model.VisibilityPublic, model.VisibilityCampus, model.VisibilityDepartment,
		model.VisibilityBatch, model.VisibilityPrivate:
		return true
	}
	return false
}

// ToUpdates turns the PATCH payload into a column map for GORM .Updates(...).
// Content follows the same rule as on create and cannot be cleared.
func (p *PatchPostRequest) ToUpdates() (map[string]any, error) {
	u := make(map[string]any, 8)

	if p.Content.ShouldUpdate() {
		if p.Content.IsNull() {
			return nil, ErrContentTooShort
		}
		c, err := NormalizeContent(p.Content.Val())
		if err != nil {
			return nil, err
		}
		u["post_content"] = c
	}
	if p.Type.ShouldUpdate() {
		t := strings.ToLower(strings.TrimSpace(p.Type.Val()))
		if p.Type.IsNull() || t == "" {
			t = model.DefaultPostType
		}
		if utf8.RuneCountInString(t) > 40 {
			return nil, errors.New("type must be at most 40 characters")
		}
		u["post_type"] = t
	}
	if p.Media.ShouldUpdate() {
		if len(p.Media.Val()) > 10 {
			return nil, errors.New("media accepts at most 10 items")
		}
		u["post_media"] = cleanList(p.Media.Val())
	}
	if p.Location.ShouldUpdate() {
		v := p.Location.Val()
		u["post_location"] = trimPtr(&v)
	}
	if p.Feeling.ShouldUpdate() {
		v := p.Feeling.Val()
		u["post_feeling"] = trimPtr(&v)
	}
	if p.TaggedUsers.ShouldUpdate() {
		for _, id := range p.TaggedUsers.Val() {
			if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
				return nil, fmt.Errorf("tagged_users: %q is not a valid id", id)
			}
		}
		u["post_tagged_users"] = cleanList(p.TaggedUsers.Val())
	}
	if p.Visibility.ShouldUpdate() {
		v := strings.TrimSpace(p.Visibility.Val())
		if p.Visibility.IsNull() || v == "" {
			v = string(model.VisibilityPublic)
		}
		if !validVisibility(v) {
			return nil, ErrInvalidVisibility
		}
		u["post_visibility"] = v
	}
	return u, nil
}

/* ==============================
   RESPONSE
============================== */

type PostResponse struct {
	ID          uuid.UUID `json:"id"`
	AuthorID    uuid.UUID `json:"author_id"`
	Content     string    `json:"content"`
	Type        string    `json:"type"`
	Media       []string  `json:"media"`
	Location    *string   `json:"location"`
	Feeling     *string   `json:"feeling"`
	TaggedUsers []string  `json:"tagged_users"`
	Visibility  string    `json:"visibility"`

	CampusID     *uuid.UUID `json:"campus_id"`
	DepartmentID *uuid.UUID `json:"department_id"`
	Batch        *string    `json:"batch"`

	LikesCount    int `json:"likes_count"`
	CommentsCount int `json:"comments_count"`
	SharesCount   int `json:"shares_count"`
	ViewsCount    int `json:"views_count"`

	IsEdited  bool       `json:"is_edited"`
	EditedAt  *time.Time `json:"edited_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	TimeAgo   string     `json:"time_ago"`
}

func FromModel(m *model.Post) PostResponse {
	media := []string(m.PostMedia)
	if media == nil {
		media = []string{}
	}
	tagged := []string(m.PostTaggedUsers)
	if tagged == nil {
		tagged = []string{}
	}
	return PostResponse{
		ID:          m.PostID,
		AuthorID:    m.PostAuthorID,
		Content:     m.PostContent,
		Type:        m.PostType,
		Media:       media,
		Location:    m.PostLocation,
		Feeling:     m.PostFeeling,
		TaggedUsers: tagged,
		Visibility:  string(m.PostVisibility),

		CampusID:     m.PostCampusID,
		DepartmentID: m.PostDepartmentID,
		Batch:        m.PostBatch,

		LikesCount:    m.PostLikesCount,
		CommentsCount: m.PostCommentsCount,
		SharesCount:   m.PostSharesCount,
		ViewsCount:    m.PostViewsCount,

		IsEdited:  m.PostIsEdited,
		EditedAt:  m.PostEditedAt,
		CreatedAt: m.PostCreatedAt,
		UpdatedAt: m.PostUpdatedAt,
		TimeAgo:   TimeAgo(m.PostCreatedAt, time.Now()),
	}
}

func FromModels(rows []model.Post) []PostResponse {
	out := make([]PostResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

// TimeAgo renders the feed's relative timestamp; older than 30 days falls back to the date.
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(d/(7*24*time.Hour)))
	default:
		return t.Format("2006-01-02")
	}
}
