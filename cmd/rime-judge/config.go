package main

import (
	"fmt"
	"os"
	"time"

	"github.com/amylase/rime-judge/internal/common/cache"
	"github.com/amylase/rime-judge/internal/common/db"
	"github.com/amylase/rime-judge/internal/contest/model"
	"github.com/amylase/rime-judge/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPAddr        = "0.0.0.0:8080"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultWorkers         = 2

	// Accepted layout for contest start/end times, interpreted in the
	// server's local timezone.
	contestTimeLayout = "2006-01-02T15:04:05"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// ContestConfig holds the scoring window and worker pool size.
type ContestConfig struct {
	StartTime string `yaml:"startTime"`
	EndTime   string `yaml:"endTime"`
	Workers   int    `yaml:"workers"`
}

// ProjectConfig holds the rime project settings.
type ProjectConfig struct {
	Dir      string `yaml:"dir"`
	CacheDir string `yaml:"cacheDir"`
	RimeBin  string `yaml:"rimeBin"`
}

// QueueConfig holds judge queue settings.
type QueueConfig struct {
	Capacity int `yaml:"capacity"`
}

// StatusCacheConfig holds the redis status cache settings. The cache
// is optional; an empty redis addr disables it.
type StatusCacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// AppConfig holds the rime-judge server configuration.
type AppConfig struct {
	Server      ServerConfig      `yaml:"server"`
	Logger      logger.Config     `yaml:"logger"`
	Database    db.MySQLConfig    `yaml:"database"`
	Redis       cache.RedisConfig `yaml:"redis"`
	Contest     ContestConfig     `yaml:"contest"`
	Project     ProjectConfig     `yaml:"project"`
	Queue       QueueConfig       `yaml:"queue"`
	StatusCache StatusCacheConfig `yaml:"statusCache"`
}

func loadAppConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file failed: %w", err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file failed: %w", err)
	}

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	if cfg.Project.Dir == "" {
		return nil, fmt.Errorf("project dir is required")
	}
	if cfg.Contest.StartTime == "" || cfg.Contest.EndTime == "" {
		return nil, fmt.Errorf("contest start and end times are required")
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultHTTPAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Contest.Workers <= 0 {
		cfg.Contest.Workers = defaultWorkers
	}
	return &cfg, nil
}

// contestWindow parses the configured scoring window.
func (c ContestConfig) contestWindow() (model.Window, error) {
	start, err := time.ParseInLocation(contestTimeLayout, c.StartTime, time.Local)
	if err != nil {
		return model.Window{}, fmt.Errorf("parse contest start time failed: %w", err)
	}
	end, err := time.ParseInLocation(contestTimeLayout, c.EndTime, time.Local)
	if err != nil {
		return model.Window{}, fmt.Errorf("parse contest end time failed: %w", err)
	}
	if !end.After(start) {
		return model.Window{}, fmt.Errorf("contest end time must be after start time")
	}
	return model.Window{Start: start, End: end}, nil
}
