// Package config provides YAML-based configuration loading for the snake
// game and its servers.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Config contains all runtime configuration.
type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Tick    TickConfig    `yaml:"tick"`
	Scoring ScoringConfig `yaml:"scoring"`
	Status  StatusConfig  `yaml:"status"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
}

// GridConfig defines the board.
type GridConfig struct {
	Size int `yaml:"size"` // tiles per side
}

// TickConfig defines the movement clock.
type TickConfig struct {
	IntervalMS int `yaml:"interval_ms"`
}

// ScoringConfig defines points per target.
type ScoringConfig struct {
	FoodPoints int `yaml:"food_points"`
}

// StatusConfig defines how long status messages stay on screen.
type StatusConfig struct {
	DurationMS     int `yaml:"duration_ms"`
	LongDurationMS int `yaml:"long_duration_ms"` // load, game over, new best
}

// StorageConfig defines where saves and scores live.
type StorageConfig struct {
	Path         string `yaml:"path"` // SQLite file; empty keeps everything in memory
	SaveKey      string `yaml:"save_key"`
	HighScoreKey string `yaml:"high_score_key"`
}

// ServerConfig defines the SSH and websocket servers.
type ServerConfig struct {
	SSHAddr        string `yaml:"ssh_addr"`
	HostKeyPath    string `yaml:"host_key_path"`
	HTTPAddr       string `yaml:"http_addr"`
	IdleTimeoutMin int    `yaml:"idle_timeout_min"`
}

// TickInterval returns the tick period.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.Tick.IntervalMS) * time.Millisecond
}

// StatusDuration returns how long short status messages are shown.
func (c Config) StatusDuration() time.Duration {
	return time.Duration(c.Status.DurationMS) * time.Millisecond
}

// LongStatusDuration returns how long important status messages are shown.
func (c Config) LongStatusDuration() time.Duration {
	return time.Duration(c.Status.LongDurationMS) * time.Millisecond
}

// IdleTimeout returns the SSH idle timeout.
func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeoutMin) * time.Minute
}

// Validate checks that the configuration can drive a game.
func (c Config) Validate() error {
	switch {
	case c.Grid.Size < 2:
		return fmt.Errorf("%w: grid.size must be at least 2, got %d", ErrInvalidConfig, c.Grid.Size)
	case c.Tick.IntervalMS <= 0:
		return fmt.Errorf("%w: tick.interval_ms must be positive, got %d", ErrInvalidConfig, c.Tick.IntervalMS)
	case c.Scoring.FoodPoints <= 0:
		return fmt.Errorf("%w: scoring.food_points must be positive, got %d", ErrInvalidConfig, c.Scoring.FoodPoints)
	case c.Status.DurationMS < 0 || c.Status.LongDurationMS < 0:
		return fmt.Errorf("%w: status durations must not be negative", ErrInvalidConfig)
	case c.Server.IdleTimeoutMin < 0:
		return fmt.Errorf("%w: server.idle_timeout_min must not be negative", ErrInvalidConfig)
	}
	return nil
}
