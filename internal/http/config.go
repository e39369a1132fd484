package http

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"meta_debug_web/internal/pkg/errors"

	"github.com/joho/godotenv"
)

type HTTPServerConfig struct {
	Host     string
	Timeouts struct {
		Read         time.Duration
		ReadHeader   time.Duration
		Write        time.Duration
		Idle         time.Duration
		ShutdownWait time.Duration
	}
}

func NewHTTPServerConfig(files ...string) (*HTTPServerConfig, error) {
	if len(files) == 0 {
		files = []string{`config.env`}
	}
	err := godotenv.Load(files...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	var errMsg []string
	cfg := &HTTPServerConfig{}

	cfg.Host = os.Getenv("HTTP_SERVER_HOST")
	if cfg.Host == "" {
		errMsg = append(errMsg, "HTTP_SERVER_HOST is required")
	}

	parseDuration := func(envVar string) (time.Duration, error) {
		value := os.Getenv(envVar)
		if value == "" {
			return 0, fmt.Errorf("%s is required", envVar)
		}
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("%s: invalid duration format: %w", envVar, err)
		}
		return duration, nil
	}

	timeouts := []struct {
		env string
		dst *time.Duration
	}{
		{"HTTP_APP_READ_TIMEOUT_DURATION", &cfg.Timeouts.Read},
		{"HTTP_APP_READ_HEADER_TIMEOUT_DURATION", &cfg.Timeouts.ReadHeader},
		{"HTTP_APP_WRITE_TIMEOUT_DURATION", &cfg.Timeouts.Write},
		{"HTTP_APP_IDLE_TIMEOUT_DURATION", &cfg.Timeouts.Idle},
		{"HTTP_APP_SHUTDOWN_TIMEOUT_DURATION", &cfg.Timeouts.ShutdownWait},
	}
	for _, t := range timeouts {
		dur, err := parseDuration(t.env)
		if err != nil {
			errMsg = append(errMsg, err.Error())
			continue
		}
		*t.dst = dur
	}

	if len(errMsg) > 0 {
		return nil, fmt.Errorf("configuration validation failed:\n%s", strings.Join(errMsg, "\n"))
	}

	return cfg, nil
}
