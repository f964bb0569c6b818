package scheduler

import (
	"time"

	"github.com/smallbiznis/rentfolio/internal/config"
)

// Config controls how often the background jobs run and how long they may
// take.
type Config struct {
	RunInterval          time.Duration
	JobTimeout           time.Duration
	LockTTL              time.Duration
	StaleImportThreshold time.Duration
	EnabledJobs          []string
}

func DefaultConfig() Config {
	return Config{
		RunInterval:          24 * time.Hour,
		JobTimeout:           10 * time.Minute,
		LockTTL:              30 * time.Minute,
		StaleImportThreshold: time.Hour,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaults.LockTTL
	}
	if c.StaleImportThreshold <= 0 {
		c.StaleImportThreshold = defaults.StaleImportThreshold
	}
	return c
}

func ProvideConfig(cfg config.Config) Config {
	return Config{
		RunInterval: cfg.Sweep.Interval,
		JobTimeout:  cfg.Sweep.JobTimeout,
		LockTTL:     cfg.Sweep.LockTTL,
	}.withDefaults()
}
