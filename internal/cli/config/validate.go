package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

var outputModes = []string{"auto", "text", "markdown", "json"}

// Validate checks the CLI-only settings. Generation parameters are checked
// by commands that need them through GenerationConfig.Validate.
func (c *Config) Validate() error {
	var errs []error
	if !validOutput(c.OutputFormat) {
		errs = append(errs, fmt.Errorf("invalid output format %q (valid: %s)", c.OutputFormat, strings.Join(outputModes, "|")))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if !c.NoState && c.StatePath == "" {
		errs = append(errs, errors.New("state_path is required unless no_state is set"))
	}
	return errors.Join(errs...)
}

func validOutput(mode string) bool {
	if mode == "" {
		return true
	}
	for _, m := range outputModes {
		if strings.EqualFold(mode, m) {
			return true
		}
	}
	return false
}

// ParseLogLevel parses debug|info|warn|error. Empty means warn.
func ParseLogLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q (valid: debug|info|warn|error)", s)
	}
	return level, nil
}

// NewLogger builds the CLI logger: a text handler at the configured level,
// lowered to info when verbose is set.
func NewLogger(w io.Writer, c *Config) (*slog.Logger, error) {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	if c.Verbose && level > slog.LevelInfo {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
