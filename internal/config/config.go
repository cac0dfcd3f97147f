// Package config loads service settings from the environment and the resort
// metadata file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/powderline/snowday/internal/domain"
)

// Resort describes one configured resort in the metadata file.
type Resort struct {
	ID        string            `yaml:"id"`
	Name      string            `yaml:"name"`
	State     string            `yaml:"state"`
	ReportURL string            `yaml:"report_url"`
	Format    string            `yaml:"format"`
	Schema    string            `yaml:"schema"`
	Latitude  *float64          `yaml:"latitude"`
	Longitude *float64          `yaml:"longitude"`
	Selectors map[string]string `yaml:"selectors"`
}

type resortsFile struct {
	Resorts []Resort `yaml:"resorts"`
}

// Config holds all service settings, populated from environment variables
// and the resorts file.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DBPath      string
	ResortsFile string

	FetchMaxAttempts int
	FetchBaseDelay   time.Duration
	FetchTimeout     time.Duration

	SchedulerEnabled bool
	RefreshInterval  time.Duration
	RefreshTimeout   time.Duration
	PruneMaxAge      time.Duration
	PruneKeepLast    int

	WeatherFallbackEnabled bool
	WeatherTimeout         time.Duration

	OllamaURL     string
	OllamaModel   string
	OllamaTimeout time.Duration

	Scoring domain.ScoringConfig
	Resorts []Resort
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:  envOrDefault("SNOWDAY_HTTP_ADDR", ":8080"),
		LogLevel:  envOrDefault("SNOWDAY_LOG_LEVEL", "info"),
		LogFormat: envOrDefault("SNOWDAY_LOG_FORMAT", "json"),

		DBPath:      envOrDefault("SNOWDAY_DB_PATH", "data/snowday.db"),
		ResortsFile: envOrDefault("SNOWDAY_RESORTS_FILE", "config/resorts.yaml"),

		OllamaURL:   os.Getenv("SNOWDAY_OLLAMA_URL"),
		OllamaModel: envOrDefault("SNOWDAY_OLLAMA_MODEL", "phi3"),
	}

	var err error
	if cfg.ShutdownTimeout, err = durationEnv("SNOWDAY_SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.FetchBaseDelay, err = durationEnv("SNOWDAY_FETCH_BASE_DELAY", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = durationEnv("SNOWDAY_FETCH_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = durationEnv("SNOWDAY_REFRESH_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RefreshTimeout, err = durationEnv("SNOWDAY_REFRESH_TIMEOUT", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.PruneMaxAge, err = durationEnv("SNOWDAY_PRUNE_MAX_AGE", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.WeatherTimeout, err = durationEnv("SNOWDAY_WEATHER_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.OllamaTimeout, err = durationEnv("SNOWDAY_OLLAMA_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if cfg.FetchMaxAttempts, err = intEnv("SNOWDAY_FETCH_MAX_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if cfg.PruneKeepLast, err = intEnv("SNOWDAY_PRUNE_KEEP_LAST", 100); err != nil {
		return nil, err
	}

	cfg.SchedulerEnabled = boolEnv("SNOWDAY_SCHEDULER_ENABLED", true)
	cfg.WeatherFallbackEnabled = boolEnv("SNOWDAY_WEATHER_FALLBACK_ENABLED", true)

	cfg.Scoring, err = loadScoring()
	if err != nil {
		return nil, err
	}

	cfg.Resorts, err = loadResorts(cfg.ResortsFile)
	if err != nil {
		return nil, err
	}

	if cfg.FetchMaxAttempts <= 0 {
		return nil, errors.New("SNOWDAY_FETCH_MAX_ATTEMPTS must be positive")
	}
	if len(cfg.Resorts) == 0 {
		return nil, errors.New("no resorts configured")
	}
	return cfg, nil
}

// loadScoring starts from the stock coefficients and applies any
// SNOWDAY_SCORING_* overrides.
func loadScoring() (domain.ScoringConfig, error) {
	cfg := domain.DefaultScoringConfig()

	overrides := map[string]*float64{
		"SNOWDAY_SCORING_BASE_SCORE":              &cfg.BaseScore,
		"SNOWDAY_SCORING_MIN_SCORE":               &cfg.MinScore,
		"SNOWDAY_SCORING_MAX_SCORE":               &cfg.MaxScore,
		"SNOWDAY_SCORING_BASE_DEPTH_FLOOR":        &cfg.BaseDepthFloor,
		"SNOWDAY_SCORING_BASE_DEPTH_WEIGHT":       &cfg.BaseDepthWeight,
		"SNOWDAY_SCORING_BASE_DEPTH_SHORTFALL":    &cfg.BaseDepthShortfallPerInch,
		"SNOWDAY_SCORING_FRESH_SNOW_BONUS":        &cfg.FreshSnowBonusPerInch,
		"SNOWDAY_SCORING_POWDER_BONUS":            &cfg.PowderBonus,
		"SNOWDAY_SCORING_ICY_PENALTY":             &cfg.IcyPenalty,
		"SNOWDAY_SCORING_UNKNOWN_STATUS_PENALTY":  &cfg.UnknownStatusPenalty,
		"SNOWDAY_SCORING_IDEAL_WIND_SPEED":        &cfg.IdealWindSpeed,
		"SNOWDAY_SCORING_WIND_PENALTY_PER_MPH":    &cfg.WindPenaltyPerMPH,
		"SNOWDAY_SCORING_TEMP_BAND_LOW":           &cfg.TempBandLow,
		"SNOWDAY_SCORING_TEMP_BAND_HIGH":          &cfg.TempBandHigh,
		"SNOWDAY_SCORING_TEMP_PENALTY_PER_DEGREE": &cfg.TempPenaltyPerDegree,
		"SNOWDAY_SCORING_OPENNESS_WEIGHT":         &cfg.OpennessWeightPerPercent,
		"SNOWDAY_SCORING_MISSING_METRIC_PENALTY":  &cfg.MissingMetricPenalty,
	}
	for key, field := range overrides {
		s := os.Getenv(key)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return domain.ScoringConfig{}, fmt.Errorf("invalid %s: %q", key, s)
		}
		*field = v
	}

	if cfg.MinScore >= cfg.MaxScore {
		return domain.ScoringConfig{}, errors.New("scoring min must be below max")
	}
	return cfg, nil
}

// loadResorts reads the resorts file. A missing file falls back to the
// built-in defaults so the service can start without local configuration.
func loadResorts(path string) ([]Resort, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultResorts(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read resorts file: %w", err)
	}

	var file resortsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse resorts file %s: %w", path, err)
	}
	for i, r := range file.Resorts {
		if r.ID == "" {
			return nil, fmt.Errorf("resorts file %s: entry %d missing id", path, i)
		}
		if r.ReportURL == "" {
			return nil, fmt.Errorf("resorts file %s: resort %s missing report_url", path, r.ID)
		}
	}
	return file.Resorts, nil
}

// DefaultResorts returns the built-in resort set used when no resorts file
// is present.
func DefaultResorts() []Resort {
	return []Resort{
		{
			ID:        "alpine_peak",
			Name:      "Alpine Peak",
			State:     "VT",
			ReportURL: "https://alpinepeak.example.com/snow-report",
			Format:    "template",
			Schema:    "standard",
			Latitude:  f(44.1),
			Longitude: f(-72.8),
		},
		{
			ID:        "summit_valley",
			Name:      "Summit Valley",
			State:     "NH",
			ReportURL: "https://summitvalley.example.com/conditions",
			Format:    "tables",
			Schema:    "standard",
			Latitude:  f(44.05),
			Longitude: f(-71.5),
		},
		{
			ID:        "killington",
			Name:      "Killington",
			State:     "VT",
			ReportURL: "https://www.onthesnow.com/vermont/killington-resort/skireport",
			Format:    "aggregator",
			Schema:    "standard",
			Latitude:  f(43.6045),
			Longitude: f(-72.8201),
		},
	}
}

func f(v float64) *float64 { return &v }

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func boolEnv(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		return fallback
	}
}
