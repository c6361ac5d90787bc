// Package config loads server settings from an optional YAML file with
// environment variable overrides for deployment-specific values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string  `yaml:"addr"`
	PublicBaseURL string  `yaml:"public_base_url"`
	TTSBaseURL    string  `yaml:"tts_base_url"`
	WorkDir       string  `yaml:"work_dir"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	ImageSeconds  float64 `yaml:"image_seconds"`
	VideoEncoder  string  `yaml:"video_encoder"`
	RedisAddr     string  `yaml:"redis_addr"`
	OpenAIKey     string  `yaml:"-"`
}

// Default returns the configuration used when no file is present.
// 720x1280 is the portrait resolution WhatsApp status videos expect.
func Default() Config {
	return Config{
		Addr:         ":8080",
		TTSBaseURL:   "http://localhost:5002",
		WorkDir:      os.TempDir(),
		Width:        720,
		Height:       1280,
		ImageSeconds: 4.0,
	}
}

// Load reads the YAML file at path on top of the defaults. A missing file
// is not an error; environment overrides are applied last either way.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Config{}, fmt.Errorf("invalid resolution %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.ImageSeconds <= 0 {
		return Config{}, fmt.Errorf("invalid image duration %.2f", cfg.ImageSeconds)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SHOPREEL_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("SHOPREEL_PUBLIC_BASE_URL"); v != "" {
		c.PublicBaseURL = v
	}
	if v := os.Getenv("SHOPREEL_TTS_BASE_URL"); v != "" {
		c.TTSBaseURL = v
	}
	if v := os.Getenv("SHOPREEL_REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
}
