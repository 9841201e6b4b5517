package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/kerbaras/yomu/pkg/data"
)

const (
	SourceMock     = "mock"
	SourceMangaDex = "mangadex"
)

// Config holds runtime settings for the reader, read from YOMU_* variables.
type Config struct {
	CacheVersion string `env:"YOMU_CACHE_VERSION" envDefault:"v1"`
	CacheDB      string `env:"YOMU_CACHE_DB"`
	Origin       string `env:"YOMU_ORIGIN" envDefault:"http://localhost:5173"`

	Source      string `env:"YOMU_SOURCE" envDefault:"mock"`
	MangaDexURL string `env:"YOMU_MANGADEX_URL" envDefault:"https://api.mangadex.org"`

	SourceLanguage string       `env:"YOMU_SOURCE_LANGUAGE" envDefault:"ja"`
	TargetLanguage string       `env:"YOMU_TARGET_LANGUAGE" envDefault:"en"`
	APIKey         string       `env:"YOMU_API_KEY"`
	Quality        data.Quality `env:"YOMU_QUALITY" envDefault:"medium"`

	DownloadDir         string        `env:"YOMU_DOWNLOAD_DIR"`
	TransformDelayScale float64       `env:"YOMU_TRANSFORM_DELAY_SCALE" envDefault:"1"`
	PrefetchInterval    time.Duration `env:"YOMU_PREFETCH_INTERVAL" envDefault:"500ms"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment and fills in home-relative paths. The result
// is not validated, so callers can apply overrides first.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	homeDir, _ := os.UserHomeDir()
	if cfg.CacheDB == "" {
		cfg.CacheDB = filepath.Join(homeDir, ".yomu", "cache.db")
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = filepath.Join(homeDir, "Downloads")
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.CacheVersion == "" {
		return errors.New("YOMU_CACHE_VERSION is required")
	}
	if c.CacheDB == "" {
		return errors.New("CacheDB is required")
	}
	u, err := url.Parse(c.Origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("YOMU_ORIGIN must be an http(s) URL: %q", c.Origin)
	}
	if c.Source != SourceMock && c.Source != SourceMangaDex {
		return fmt.Errorf("YOMU_SOURCE must be mock or mangadex: %s", c.Source)
	}
	if !data.KnownLanguage(c.SourceLanguage) {
		return fmt.Errorf("unknown source language: %s", c.SourceLanguage)
	}
	if !data.KnownLanguage(c.TargetLanguage) {
		return fmt.Errorf("unknown target language: %s", c.TargetLanguage)
	}
	if !c.Quality.Valid() {
		return fmt.Errorf("YOMU_QUALITY must be low, medium or high: %s", c.Quality)
	}
	if c.TransformDelayScale < 0 {
		return fmt.Errorf("YOMU_TRANSFORM_DELAY_SCALE must not be negative: %v", c.TransformDelayScale)
	}
	if c.PrefetchInterval < 0 {
		return fmt.Errorf("YOMU_PREFETCH_INTERVAL must not be negative: %v", c.PrefetchInterval)
	}
	return nil
}

// Preferences seeds the reader preferences from the configured defaults.
func (c Config) Preferences() data.Preferences {
	prefs := data.DefaultPreferences()
	prefs.SourceLanguage = c.SourceLanguage
	prefs.TargetLanguage = c.TargetLanguage
	prefs.APIKey = c.APIKey
	prefs.ModelSettings.Quality = c.Quality
	return prefs
}

// Scale multiplies a simulated delay by TransformDelayScale.
func (c Config) Scale(d time.Duration) time.Duration {
	return time.Duration(float64(d) * c.TransformDelayScale)
}
