package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

/* ===============================
   Offset paging (?limit= & ?offset=)
=================================*/

type Paging struct {
	Limit  int
	Offset int
}

type PageMeta struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	Count   int   `json:"count"`
	HasMore bool  `json:"has_more"`
}

// ResolvePaging reads ?limit= & ?offset= and normalises them.
// - defaultLimit: fallback when missing/invalid
// - maxLimit: upper bound (0 = unbounded)
func ResolvePaging(c *fiber.Ctx, defaultLimit, maxLimit int) Paging {
	limit, err := strconv.Atoi(strings.TrimSpace(c.Query("limit")))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	offset, err := strconv.Atoi(strings.TrimSpace(c.Query("offset")))
	if err != nil || offset < 0 {
		offset = 0
	}
	return Paging{Limit: limit, Offset: offset}
}

func BuildPageMeta(total int64, p Paging, count int) PageMeta {
	return PageMeta{
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		Count:   count,
		HasMore: int64(p.Offset+count) < total,
	}
}

// ParseBoolPtr: "1/true/yes" → true, "0/false/no" → false, anything else nil.
func ParseBoolPtr(s string) *bool {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "1", "true", "t", "yes", "y":
		v := true
		return &v
	case "0", "false", "f", "no", "n":
		v := false
		return &v
	default:
		return nil
	}
}
