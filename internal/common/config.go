package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the resolved run configuration. It is loaded once at
// process start (defaults -> file -> env -> CLI flags) and never mutated
// afterwards; every timing and tolerance decision reads from it.
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Target      TargetConfig    `toml:"target"`
	Timing      TimingConfig    `toml:"timing"`
	Tolerance   ToleranceConfig `toml:"tolerance"`
	Browser     BrowserConfig   `toml:"browser"`
	Output      OutputConfig    `toml:"output"`
	Logging     LoggingConfig   `toml:"logging"`
	Suites      SuitesConfig    `toml:"suites"`
}

// TargetConfig identifies the UI under test and the backend API used as the
// validation oracle.
type TargetConfig struct {
	UIBaseURL  string `toml:"ui_base_url" validate:"required,url"`
	APIBaseURL string `toml:"api_base_url" validate:"required,url"`
	APIToken   string `toml:"api_token"` // optional bearer credential
	Username   string `toml:"username"`  // test account credentials
	Password   string `toml:"password"`
}

// Duration wraps time.Duration so TOML files can carry duration strings
// like "500ms". go-toml decodes via encoding.TextUnmarshaler.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the wrapped standard-library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// TimingConfig holds every pacing, polling and timeout knob. Durations are
// TOML duration strings (e.g. "500ms").
type TimingConfig struct {
	StepDelay      Duration `toml:"step_delay"`      // pacing between steps
	PageLoadWait   Duration `toml:"page_load_wait"`  // settle time after navigation
	AnimationWait  Duration `toml:"animation_wait"`  // settle time for visual transitions
	RequestTimeout Duration `toml:"request_timeout"` // per HTTP call to the API oracle
	PollInterval   Duration `toml:"poll_interval"`   // constant interval for UI waits
	WaitTimeout    Duration `toml:"wait_timeout"`    // default bound for condition waits
	SlowMultiplier float64  `toml:"slow_multiplier"` // pacing multiplier (doubled by --slow)
	APIRateLimit   Duration `toml:"api_rate_limit"`  // minimum spacing between oracle requests
}

// ToleranceConfig holds the per-category numeric tolerances, in percent.
// Real-time P&L gets a wider band than static prices because the value can
// move between the UI read and the API read.
type ToleranceConfig struct {
	DefaultPercent float64 `toml:"default_percent" validate:"gte=0"`
	PricePercent   float64 `toml:"price_percent" validate:"gte=0"`
	ChangePercent  float64 `toml:"change_percent" validate:"gte=0"`
	PnLPercent     float64 `toml:"pnl_percent" validate:"gte=0"`
}

// BrowserConfig controls the Chrome session the runner owns.
type BrowserConfig struct {
	Headed       bool   `toml:"headed"` // show the browser window
	Engine       string `toml:"engine"` // chromium-family executable name or path; empty = default Chrome
	WindowWidth  int    `toml:"window_width"`
	WindowHeight int    `toml:"window_height"`
}

// OutputConfig controls run evidence on disk.
type OutputConfig struct {
	Dir         string `toml:"dir"`         // base results directory
	Screenshots bool   `toml:"screenshots"` // toggle screenshot capture
	KeepRuns    int    `toml:"keep_runs"`   // retention: runs' worth of screenshots kept per suite
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=verbose debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

// SuitesConfig fixes the suite execution order when no --suite filter is
// given, plus the market data the flows exercise.
type SuitesConfig struct {
	Order         []string `toml:"order"`
	Watchlist     []string `toml:"watchlist"`      // symbols validated on the dashboard
	OrderSymbol   string   `toml:"order_symbol"`   // asset traded by the place-order flow
	OrderQuantity float64  `toml:"order_quantity"` // quantity for the test market order
}

// NewDefaultConfig creates a configuration with default values. Technical
// parameters are hardcoded here; only user-facing settings belong in
// livetest.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Target: TargetConfig{
			UIBaseURL:  "http://localhost:5173",
			APIBaseURL: "http://localhost:8080",
		},
		Timing: TimingConfig{
			StepDelay:      Duration(500 * time.Millisecond),
			PageLoadWait:   Duration(2 * time.Second),
			AnimationWait:  Duration(300 * time.Millisecond),
			RequestTimeout: Duration(10 * time.Second),
			PollInterval:   Duration(250 * time.Millisecond),
			WaitTimeout:    Duration(15 * time.Second),
			SlowMultiplier: 1.0,
			APIRateLimit:   Duration(100 * time.Millisecond),
		},
		Tolerance: ToleranceConfig{
			DefaultPercent: 1.0,
			PricePercent:   1.0,
			ChangePercent:  0.5, // percentage-change fields are tighter
			PnLPercent:     5.0, // real-time P&L moves between reads
		},
		Browser: BrowserConfig{
			Headed:       false,
			WindowWidth:  1920,
			WindowHeight: 1080,
		},
		Output: OutputConfig{
			Dir:         "./results",
			Screenshots: true,
			KeepRuns:    3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Suites: SuitesConfig{
			Order: []string{
				"login", "dashboard", "place-order", "portfolio",
				"predictions", "leaderboard", "logout",
			},
			Watchlist:     []string{"BTC", "ETH", "SOL"},
			OrderSymbol:   "BTC",
			OrderQuantity: 0.01,
		},
	}
}

// LoadFromFiles loads configuration from multiple files; later files override
// earlier files, environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)
	return config, nil
}

// Validate checks the resolved configuration before anything else runs.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Timing.SlowMultiplier <= 0 {
		return fmt.Errorf("invalid configuration: slow_multiplier must be positive, got %v", c.Timing.SlowMultiplier)
	}
	return nil
}

// applyEnvOverrides applies LIVETEST_* environment variable overrides.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("LIVETEST_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if v := os.Getenv("LIVETEST_UI_BASE_URL"); v != "" {
		config.Target.UIBaseURL = v
	}
	if v := os.Getenv("LIVETEST_API_BASE_URL"); v != "" {
		config.Target.APIBaseURL = v
	}
	if v := os.Getenv("LIVETEST_API_TOKEN"); v != "" {
		config.Target.APIToken = v
	}
	if v := os.Getenv("LIVETEST_USERNAME"); v != "" {
		config.Target.Username = v
	}
	if v := os.Getenv("LIVETEST_PASSWORD"); v != "" {
		config.Target.Password = v
	}

	if v := os.Getenv("LIVETEST_STEP_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Timing.StepDelay = Duration(d)
		}
	}
	if v := os.Getenv("LIVETEST_PAGE_LOAD_WAIT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Timing.PageLoadWait = Duration(d)
		}
	}
	if v := os.Getenv("LIVETEST_ANIMATION_WAIT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Timing.AnimationWait = Duration(d)
		}
	}
	if v := os.Getenv("LIVETEST_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Timing.RequestTimeout = Duration(d)
		}
	}
	if v := os.Getenv("LIVETEST_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Timing.PollInterval = Duration(d)
		}
	}
	if v := os.Getenv("LIVETEST_TOLERANCE_PERCENT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Tolerance.DefaultPercent = f
		}
	}

	if v := os.Getenv("LIVETEST_HEADED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Browser.Headed = b
		}
	}
	if v := os.Getenv("LIVETEST_BROWSER"); v != "" {
		config.Browser.Engine = v
	}

	if v := os.Getenv("LIVETEST_OUTPUT_DIR"); v != "" {
		config.Output.Dir = v
	}
	if v := os.Getenv("LIVETEST_SCREENSHOTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Output.Screenshots = b
		}
	}

	if v := os.Getenv("LIVETEST_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("LIVETEST_LOG_OUTPUT"); v != "" {
		outputs := []string{}
		for _, o := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
// Command-line flags have highest priority.
func ApplyFlagOverrides(config *Config, slow bool, browser string, headed bool) {
	if slow {
		config.Timing.SlowMultiplier *= 2
	}
	if browser != "" {
		config.Browser.Engine = browser
	}
	if headed {
		config.Browser.Headed = true
	}
}

// Paced scales a configured duration by the pacing multiplier.
func (c *Config) Paced(d Duration) time.Duration {
	return time.Duration(float64(d) * c.Timing.SlowMultiplier)
}
