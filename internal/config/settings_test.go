package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ModeClassic, s.Mode)
	assert.Equal(t, 150, s.StartingMoney)
	assert.Equal(t, 20, s.StartingLives)
	assert.Equal(t, int64(0), s.Seed)
	assert.Equal(t, "data", s.DataDir)
	assert.Equal(t, "info", s.LogLevel)
	assert.False(t, s.LowEffects)
	assert.Equal(t, 48, s.MaxVisualEffects)
	assert.Equal(t, TickRate, s.TickRate)
	assert.InDelta(t, MaxDeltaTime, s.MaxDeltaTime, 1e-9)
}

func TestLoadSettings_Override(t *testing.T) {
	dir := t.TempDir()
	cfg := `{
		"mode": "advanced",
		"startingMoney": 400,
		"startingLives": 5,
		"seed": 1234,
		"lowEffects": true,
		"primaryRace": "goblins"
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(cfg), 0644))

	s, err := LoadSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, ModeAdvanced, s.Mode)
	assert.Equal(t, 400, s.StartingMoney)
	assert.Equal(t, 5, s.StartingLives)
	assert.Equal(t, int64(1234), s.Seed)
	assert.True(t, s.LowEffects)
	assert.Equal(t, "goblins", s.PrimaryRace)
	assert.Equal(t, "data", s.DataDir)
}

func TestLoadSettings_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(`{"mode": `), 0644))

	_, err := LoadSettings(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadSettings_InvalidMode(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(`{"mode": "hardcore"}`), 0644))

	_, err := LoadSettings(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestWinBossFor(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{ModeClassic, BossClassic},
		{ModeAdvanced, BossAdvanced},
		{ModeWild, BossAdvanced},
		{"", BossClassic},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			assert.Equal(t, tt.want, WinBossFor(tt.mode))
		})
	}
}

func TestDefaultSettingsValid(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())
}
