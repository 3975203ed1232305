// Package config loads runtime settings from an optional YAML file and
// SLOTBATTLER_* environment variables.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/milk9111/slotbattler/battle"
	"github.com/milk9111/slotbattler/common"
)

type Config struct {
	Battle   battle.Config    `yaml:"battle"`
	Log      common.LogConfig `yaml:"log"`
	Viewer   ViewerConfig     `yaml:"viewer"`
	Simulate SimulateConfig   `yaml:"simulate"`
}

type ViewerConfig struct {
	TPS       int    `yaml:"tps" env:"SLOTBATTLER_TPS" env-default:"60"`
	Width     int    `yaml:"width" env:"SLOTBATTLER_WIDTH" env-default:"960"`
	Height    int    `yaml:"height" env:"SLOTBATTLER_HEIGHT" env-default:"540"`
	StageFile string `yaml:"stage_file" env:"SLOTBATTLER_STAGE" env-default:"stage.yaml"`
	// Watch reloads prefabs and scripts from disk when they change.
	Watch bool `yaml:"watch" env:"SLOTBATTLER_WATCH"`
}

type SimulateConfig struct {
	Seed     uint64 `yaml:"seed" env:"SLOTBATTLER_SEED" env-default:"1"`
	MaxTicks int    `yaml:"max_ticks" env:"SLOTBATTLER_MAX_TICKS" env-default:"200000"`
}

// Load reads path when it is non-empty, then applies the environment.
func Load(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read config from env: %w", err)
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return &cfg, nil
}

// Usage describes the recognised environment variables.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err.Error()
	}
	return text
}
