package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_PostRewardIsFifteen(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 15, c.Rules.PostCreated)
	assert.Len(t, c.Levels, 10)
	assert.NotEmpty(t, c.Achievements)
}

func TestParse_MissingRewardFallsBack(t *testing.T) {
	c, err := Parse([]byte("levels:\n  - { level: 0, name: A, min_points: 0 }\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPostCreatedPoints, c.Rules.PostCreated)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"no levels":      "rules: { post_created: 15 }\n",
		"nonzero start":  "levels:\n  - { level: 1, name: A, min_points: 10 }\n",
		"duplicate slug": "levels:\n  - { level: 0, min_points: 0 }\nachievements:\n  - { slug: a }\n  - { slug: a }\n",
		"blank slug":     "levels:\n  - { level: 0, min_points: 0 }\nachievements:\n  - { slug: ' ' }\n",
		"bad yaml":       "levels: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLevelFor(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 0, c.LevelFor(0).Level)
	assert.Equal(t, 0, c.LevelFor(99).Level)
	assert.Equal(t, 1, c.LevelFor(100).Level)
	assert.Equal(t, 4, c.LevelFor(1500).Level)
	assert.Equal(t, 9, c.LevelFor(50000).Level)
}

func TestProgress(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	p := c.Progress(115)
	assert.Equal(t, 1, p.Current.Level)
	require.NotNil(t, p.Next)
	assert.Equal(t, 2, p.Next.Level)
	assert.Equal(t, 15, p.PointsInLevel)
	assert.Equal(t, 185, p.PointsToNext)
	assert.InDelta(t, 7.5, p.Progress, 0.0001)

	top := c.Progress(20000)
	assert.Nil(t, top.Next)
	assert.Equal(t, float64(100), top.Progress)
	assert.Equal(t, 0, top.PointsToNext)
}
