package config

import (
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"meta_debug_web/internal/domain/adaptors"
	"meta_debug_web/internal/domain/models"
	"meta_debug_web/internal/pkg/errors"

	"github.com/joho/godotenv"
)

const (
	DefaultUserAgent     = "MetaDebugWeb/3.2 (+https://jozapf.de)"
	DefaultFetchTimeout  = 10 * time.Second
	DefaultMaxBodyBytes  = 5 * 1024 * 1024
	DefaultImageTagLimit = 30
)

type AppConfig struct {
	LogLevel    string
	DebugMode   bool
	MetricsHost string
	PprofHost   string
	Fetch       FetchConfig
	Images      ImageConfig
}

type FetchConfig struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

type ImageConfig struct {
	Strategy models.ImageStrategy
	TagLimit int
}

// NewAppConfig loads config.env when present and reads the environment.
// A missing config.env is not an error so the binary also runs as a CGI
// program or one-off CLI.
func NewAppConfig() (*AppConfig, error) {
	return Load(`config.env`)
}

func Load(files ...string) (*AppConfig, error) {
	err := godotenv.Load(files...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var errMsg []string
	cfg := AppConfig{}
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", string(adaptors.Info))
	cfg.DebugMode = os.Getenv("APP_ENABLE_DEBUG") == "true"
	cfg.MetricsHost = os.Getenv("HTTP_APP_METRICS_HOST")
	cfg.PprofHost = os.Getenv("HTTP_APP_PPROF_HOST")

	cfg.Fetch.UserAgent = getEnv("FETCH_USER_AGENT", DefaultUserAgent)
	cfg.Fetch.Timeout = DefaultFetchTimeout
	if v := os.Getenv("FETCH_TIMEOUT_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errMsg = append(errMsg, fmt.Sprintf(`FETCH_TIMEOUT_DURATION: invalid duration format: %v`, err))
		} else {
			cfg.Fetch.Timeout = d
		}
	}

	cfg.Fetch.MaxBodyBytes = DefaultMaxBodyBytes
	if v := os.Getenv("FETCH_MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errMsg = append(errMsg, fmt.Sprintf(`FETCH_MAX_BODY_BYTES: %v`, err))
		} else {
			cfg.Fetch.MaxBodyBytes = n
		}
	}

	cfg.Images.Strategy = models.ImageStrategy(getEnv("IMAGE_STRATEGY", string(models.ImageStrategyStructured)))
	cfg.Images.TagLimit = DefaultImageTagLimit
	if v := os.Getenv("IMAGE_TAG_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errMsg = append(errMsg, fmt.Sprintf(`IMAGE_TAG_LIMIT: %v`, err))
		} else {
			cfg.Images.TagLimit = n
		}
	}

	errMsg = append(errMsg, validate(&cfg)...)
	if len(errMsg) != 0 {
		return nil, fmt.Errorf(`validation failed: %s`, strings.Join(errMsg, "\n"))
	}

	return &cfg, nil
}

func validate(cfg *AppConfig) []string {
	var errMsg []string
	if !adaptors.LogLevel(strings.ToLower(cfg.LogLevel)).IsValid() {
		errMsg = append(errMsg, fmt.Sprintf(`log level %q is not supported`, cfg.LogLevel))
	}

	if cfg.Fetch.Timeout <= 0 {
		errMsg = append(errMsg, `fetch timeout must be positive`)
	}

	if cfg.Fetch.MaxBodyBytes <= 0 {
		errMsg = append(errMsg, `fetch max body bytes must be positive`)
	}

	if !cfg.Images.Strategy.IsValid() {
		errMsg = append(errMsg, fmt.Sprintf(`image strategy %q is not supported`, cfg.Images.Strategy))
	}

	if cfg.Images.TagLimit <= 0 {
		errMsg = append(errMsg, `image tag limit must be positive`)
	}
	return errMsg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
