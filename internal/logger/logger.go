package logger

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/issue-tracker/internal/config"
)

// levelEnv overrides the configured level.
const levelEnv = "SCANIO_LOG_LEVEL"

// NewLogger creates the logger of a command. Output goes to stderr, stdout
// carries command results.
func NewLogger(cfg *config.Config, name string) hclog.Logger {
	return NewLoggerTo(cfg, name, os.Stderr)
}

// NewLoggerTo is NewLogger writing to w.
func NewLoggerTo(cfg *config.Config, name string, w io.Writer) hclog.Logger {
	level, unknown := determineLogLevel(cfg)
	l := hclog.New(&hclog.LoggerOptions{
		Name:            name,
		DisableTime:     config.GetBoolValue(cfg, "Logger.DisableTime", true),
		JSONFormat:      config.GetBoolValue(cfg, "Logger.JSONFormat", false),
		IncludeLocation: config.GetBoolValue(cfg, "Logger.IncludeLocation", false),
		Output:          w,
		Level:           level,
	})
	if unknown != "" {
		l.Warn("unrecognized log level, defaulting to INFO", "providedLevel", unknown)
	}
	return l
}

// determineLogLevel takes the level from the environment, then from cfg,
// defaulting to INFO. An unrecognized value is returned as the second result.
func determineLogLevel(cfg *config.Config) (hclog.Level, string) {
	raw := os.Getenv(levelEnv)
	if raw == "" && cfg != nil {
		raw = cfg.Logger.Level
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return hclog.Info, ""
	}

	level := hclog.LevelFromString(raw)
	if level == hclog.NoLevel {
		return hclog.Info, raw
	}
	return level, ""
}
