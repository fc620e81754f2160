package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type config struct {
	EnvFile    string
	APIKey     string
	FFplayPath string
	Volume     int
	NoSpeaker  bool
	LogLevel   string

	// Model and voice overrides; empty means the guru package defaults.
	TextModel  string
	TTSModel   string
	ImageModel string
	Voice      string
}

func defaultConfig() config {
	return config{
		EnvFile:    ".env",
		FFplayPath: "ffplay",
		Volume:     80,
		LogLevel:   "info",
	}
}

// resolveEnv fills unset fields from the environment. Flags win over env.
func (c *config) resolveEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if c.APIKey == "" {
		c.APIKey = strings.TrimSpace(getenv("GEMINI_API_KEY"))
	}
	if c.APIKey == "" {
		c.APIKey = strings.TrimSpace(getenv("GOOGLE_API_KEY"))
	}
	if v := strings.TrimSpace(getenv("GURUKUL_FFPLAY")); v != "" && c.FFplayPath == defaultConfig().FFplayPath {
		c.FFplayPath = v
	}
	if v := strings.TrimSpace(getenv("GURUKUL_LOG_LEVEL")); v != "" && c.LogLevel == defaultConfig().LogLevel {
		c.LogLevel = v
	}
	if c.TextModel == "" {
		c.TextModel = strings.TrimSpace(getenv("GURUKUL_TEXT_MODEL"))
	}
	if c.TTSModel == "" {
		c.TTSModel = strings.TrimSpace(getenv("GURUKUL_TTS_MODEL"))
	}
	if c.ImageModel == "" {
		c.ImageModel = strings.TrimSpace(getenv("GURUKUL_IMAGE_MODEL"))
	}
	if c.Voice == "" {
		c.Voice = strings.TrimSpace(getenv("GURUKUL_VOICE"))
	}
	if !c.NoSpeaker {
		switch strings.ToLower(strings.TrimSpace(getenv("GURUKUL_NO_AUDIO"))) {
		case "1", "true", "yes":
			c.NoSpeaker = true
		}
	}
}

func (c config) validate() error {
	if c.APIKey == "" {
		return errors.New("an API key is required (set GEMINI_API_KEY or GOOGLE_API_KEY)")
	}
	if c.Volume < 1 || c.Volume > 100 {
		return fmt.Errorf("volume must be 1..100, got %d", c.Volume)
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

func newLogger(level string) *slog.Logger {
	lvl, err := parseLogLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
