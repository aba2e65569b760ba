// internal/config/settings.go
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// SettingsFileName is looked up in the directory passed to LoadSettings.
const SettingsFileName = "supermaultd.json"

// Settings are the runtime options of a game session.
type Settings struct {
	Mode             string  `mapstructure:"mode"`
	StartingMoney    int     `mapstructure:"startingMoney"`
	StartingLives    int     `mapstructure:"startingLives"`
	Seed             int64   `mapstructure:"seed"`
	DataDir          string  `mapstructure:"dataDir"`
	LogLevel         string  `mapstructure:"logLevel"`
	LowEffects       bool    `mapstructure:"lowEffects"`
	MaxVisualEffects int     `mapstructure:"maxVisualEffects"`
	PrimaryRace      string  `mapstructure:"primaryRace"`
	SecondaryRace    string  `mapstructure:"secondaryRace"`
	TickRate         int     `mapstructure:"tickRate"`
	MaxDeltaTime     float64 `mapstructure:"maxDeltaTime"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", ModeClassic)
	v.SetDefault("startingMoney", 150)
	v.SetDefault("startingLives", 20)
	v.SetDefault("seed", 0)
	v.SetDefault("dataDir", "data")
	v.SetDefault("logLevel", "info")
	v.SetDefault("lowEffects", false)
	v.SetDefault("maxVisualEffects", 48)
	v.SetDefault("primaryRace", "")
	v.SetDefault("secondaryRace", "")
	v.SetDefault("tickRate", TickRate)
	v.SetDefault("maxDeltaTime", MaxDeltaTime)
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() Settings {
	v := viper.New()
	setDefaults(v)
	var s Settings
	_ = v.Unmarshal(&s)
	return s
}

// LoadSettings reads SettingsFileName from configDir on top of the defaults.
// A missing file is not an error.
func LoadSettings(configDir string) (Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName(SettingsFileName)
	v.SetConfigType("json")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("SUPERMAUL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects settings the simulation cannot run with.
func (s Settings) Validate() error {
	switch s.Mode {
	case ModeClassic, ModeAdvanced, ModeWild:
	default:
		return fmt.Errorf("unknown mode %q", s.Mode)
	}
	if s.StartingLives <= 0 {
		return fmt.Errorf("startingLives must be positive, got %d", s.StartingLives)
	}
	if s.StartingMoney < 0 {
		return fmt.Errorf("startingMoney must not be negative, got %d", s.StartingMoney)
	}
	if s.TickRate <= 0 {
		return fmt.Errorf("tickRate must be positive, got %d", s.TickRate)
	}
	return nil
}
