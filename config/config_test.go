package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFromJSON(t *testing.T, body string) AppConfig {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	var c AppConfig
	markUnsetKnobs(&c)
	require.NoError(t, loadJSONConfig(path, &c))
	applyDefaults(&c)
	return c
}

func TestRewardKnobsDefaultWhenAbsent(t *testing.T) {
	c := loadFromJSON(t, `{"app": {"AppPort": "9090"}}`)
	assert.Equal(t, 10, c.WorkoutRewardPoints)
	assert.Equal(t, 5, c.NutritionRewardPoints)
	assert.Equal(t, 300, c.LeaderboardCacheTTLSec)
}

func TestExplicitZeroKnobsSurviveDefaults(t *testing.T) {
	// 0 means "reward disabled" / "caching off" and must not be replaced
	// by the default.
	c := loadFromJSON(t, `{"app": {
		"WorkoutRewardPoints": 0,
		"NutritionRewardPoints": 0,
		"LeaderboardCacheTTLSec": 0
	}}`)
	assert.Zero(t, c.WorkoutRewardPoints)
	assert.Zero(t, c.NutritionRewardPoints)
	assert.Zero(t, c.LeaderboardCacheTTLSec)
}

func TestNonZeroKnobsLoaded(t *testing.T) {
	c := loadFromJSON(t, `{"app": {
		"WorkoutRewardPoints": 25,
		"LeaderboardCacheTTLSec": 60
	}}`)
	assert.Equal(t, 25, c.WorkoutRewardPoints)
	assert.Equal(t, 5, c.NutritionRewardPoints)
	assert.Equal(t, 60, c.LeaderboardCacheTTLSec)
}
