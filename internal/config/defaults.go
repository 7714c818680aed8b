package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Grid:    GridConfig{Size: 20},
		Tick:    TickConfig{IntervalMS: 300},
		Scoring: ScoringConfig{FoodPoints: 10},
		Status: StatusConfig{
			DurationMS:     2000,
			LongDurationMS: 3000,
		},
		Storage: StorageConfig{
			Path:         "~/.snake/snake.db",
			SaveKey:      "snakeGameSave",
			HighScoreKey: "snakeHighScore",
		},
		Server: ServerConfig{
			SSHAddr:        ":2222",
			HostKeyPath:    ".ssh/snake_ed25519",
			HTTPAddr:       ":8080",
			IdleTimeoutMin: 30,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultSnakeYAML
}
