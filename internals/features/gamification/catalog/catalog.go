package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPostCreatedPoints = 15

//go:embed catalog.yaml
var defaultYAML []byte

type Rules struct {
	PostCreated int `yaml:"post_created"`
}

type Level struct {
	Level     int    `yaml:"level" json:"level"`
	Name      string `yaml:"name" json:"name"`
	Title     string `yaml:"title" json:"title"`
	MinPoints int    `yaml:"min_points" json:"min_points"`
}

type AchievementDef struct {
	Slug        string             `yaml:"slug"`
	Title       string             `yaml:"title"`
	Description string             `yaml:"description"`
	Icon        string             `yaml:"icon"`
	Category    string             `yaml:"category"`
	Rarity      string             `yaml:"rarity"`
	Points      int                `yaml:"points"`
	Criteria    map[string]float64 `yaml:"criteria"`
	Inactive    bool               `yaml:"inactive"`
}

type Catalog struct {
	Rules        Rules            `yaml:"rules"`
	Levels       []Level          `yaml:"levels"`
	Achievements []AchievementDef `yaml:"achievements"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultYAML)
}

// Load reads path, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.normalize(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) normalize() error {
	if c.Rules.PostCreated <= 0 {
		c.Rules.PostCreated = DefaultPostCreatedPoints
	}
	if len(c.Levels) == 0 {
		return errors.New("catalog: at least one level is required")
	}
	sort.Slice(c.Levels, func(i, j int) bool { return c.Levels[i].MinPoints < c.Levels[j].MinPoints })
	if c.Levels[0].MinPoints != 0 {
		return errors.New("catalog: lowest level must start at 0 points")
	}

	seen := make(map[string]struct{}, len(c.Achievements))
	for i := range c.Achievements {
		a := &c.Achievements[i]
		a.Slug = strings.TrimSpace(a.Slug)
		if a.Slug == "" {
			return fmt.Errorf("catalog: achievement #%d has no slug", i+1)
		}
		if _, dup := seen[a.Slug]; dup {
			return fmt.Errorf("catalog: duplicate achievement slug %q", a.Slug)
		}
		seen[a.Slug] = struct{}{}
		if a.Points < 0 {
			return fmt.Errorf("catalog: achievement %q has negative points", a.Slug)
		}
	}
	return nil
}

// LevelFor returns the highest level whose threshold is reached.
func (c *Catalog) LevelFor(points int) Level {
	cur := c.Levels[0]
	for _, l := range c.Levels {
		if points >= l.MinPoints {
			cur = l
		}
	}
	return cur
}

func (c *Catalog) next(l Level) (Level, bool) {
	for _, cand := range c.Levels {
		if cand.MinPoints > l.MinPoints {
			return cand, true
		}
	}
	return Level{}, false
}

type LevelProgress struct {
	Current       Level   `json:"current"`
	Next          *Level  `json:"next"`
	Progress      float64 `json:"progress"`
	PointsToNext  int     `json:"points_to_next"`
	PointsInLevel int     `json:"points_in_level"`
}

// Progress is percent of the way from the current band to the next one,
// capped at 100; the top band always reports 100.
func (c *Catalog) Progress(points int) LevelProgress {
	cur := c.LevelFor(points)
	lp := LevelProgress{
		Current:       cur,
		PointsInLevel: points - cur.MinPoints,
	}
	nxt, ok := c.next(cur)
	if !ok {
		lp.Progress = 100
		return lp
	}
	lp.Next = &nxt
	span := nxt.MinPoints - cur.MinPoints
	lp.Progress = float64(lp.PointsInLevel) / float64(span) * 100
	if lp.Progress > 100 {
		lp.Progress = 100
	}
	lp.PointsToNext = nxt.MinPoints - points
	return lp
}
