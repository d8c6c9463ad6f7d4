package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Timing.StepDelay.Std() != 500*time.Millisecond {
		t.Errorf("Expected default step delay 500ms, got %v", cfg.Timing.StepDelay.Std())
	}
	if cfg.Tolerance.DefaultPercent != 1.0 {
		t.Errorf("Expected default tolerance 1.0, got %v", cfg.Tolerance.DefaultPercent)
	}
	if cfg.Tolerance.PnLPercent <= cfg.Tolerance.ChangePercent {
		t.Error("P&L tolerance should be wider than percentage-change tolerance")
	}
	if cfg.Browser.Headed {
		t.Error("Expected headless by default")
	}
	if len(cfg.Suites.Order) != 7 {
		t.Errorf("Expected 7 suites in default order, got %d", len(cfg.Suites.Order))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadFromFiles(t *testing.T) {
	t.Run("File overrides defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "livetest.toml")
		content := `
[target]
ui_base_url = "https://staging.example.com"
api_base_url = "https://api.staging.example.com"

[timing]
step_delay = "250ms"
wait_timeout = "30s"

[tolerance]
pnl_percent = 10.0
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}

		cfg, err := LoadFromFiles(path)
		if err != nil {
			t.Fatalf("LoadFromFiles failed: %v", err)
		}

		if cfg.Target.UIBaseURL != "https://staging.example.com" {
			t.Errorf("Expected file UI base URL, got %s", cfg.Target.UIBaseURL)
		}
		if cfg.Timing.StepDelay.Std() != 250*time.Millisecond {
			t.Errorf("Expected 250ms step delay, got %v", cfg.Timing.StepDelay.Std())
		}
		if cfg.Timing.WaitTimeout.Std() != 30*time.Second {
			t.Errorf("Expected 30s wait timeout, got %v", cfg.Timing.WaitTimeout.Std())
		}
		if cfg.Tolerance.PnLPercent != 10.0 {
			t.Errorf("Expected P&L tolerance 10.0, got %v", cfg.Tolerance.PnLPercent)
		}
		// Values the file does not set keep their defaults.
		if cfg.Timing.PageLoadWait.Std() != 2*time.Second {
			t.Errorf("Expected default page load wait, got %v", cfg.Timing.PageLoadWait.Std())
		}
	})

	t.Run("Malformed duration string is an error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "livetest.toml")
		os.WriteFile(path, []byte("[timing]\nstep_delay = \"soon\"\n"), 0644)

		if _, err := LoadFromFiles(path); err == nil {
			t.Fatal("Expected error for unparseable duration")
		}
	})

	t.Run("Later files override earlier files", func(t *testing.T) {
		dir := t.TempDir()
		first := filepath.Join(dir, "base.toml")
		second := filepath.Join(dir, "override.toml")
		os.WriteFile(first, []byte("[logging]\nlevel = \"info\"\n"), 0644)
		os.WriteFile(second, []byte("[logging]\nlevel = \"verbose\"\n"), 0644)

		cfg, err := LoadFromFiles(first, second)
		if err != nil {
			t.Fatalf("LoadFromFiles failed: %v", err)
		}
		if cfg.Logging.Level != "verbose" {
			t.Errorf("Expected later file to win, got %s", cfg.Logging.Level)
		}
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		if _, err := LoadFromFiles("/nonexistent/livetest.toml"); err == nil {
			t.Fatal("Expected error for missing config file")
		}
	})
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("LIVETEST_UI_BASE_URL", "https://env.example.com")
	t.Setenv("LIVETEST_API_TOKEN", "env-token")
	t.Setenv("LIVETEST_STEP_DELAY", "50ms")
	t.Setenv("LIVETEST_HEADED", "true")
	t.Setenv("LIVETEST_LOG_OUTPUT", "stdout, file")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Target.UIBaseURL != "https://env.example.com" {
		t.Errorf("Expected env UI base URL, got %s", cfg.Target.UIBaseURL)
	}
	if cfg.Target.APIToken != "env-token" {
		t.Errorf("Expected env API token, got %s", cfg.Target.APIToken)
	}
	if cfg.Timing.StepDelay.Std() != 50*time.Millisecond {
		t.Errorf("Expected env step delay, got %v", cfg.Timing.StepDelay.Std())
	}
	if !cfg.Browser.Headed {
		t.Error("Expected env headed override")
	}
	if len(cfg.Logging.Output) != 2 || cfg.Logging.Output[1] != "file" {
		t.Errorf("Expected trimmed log outputs, got %v", cfg.Logging.Output)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, true, "chromium", true)

	if cfg.Timing.SlowMultiplier != 2.0 {
		t.Errorf("Expected --slow to double the multiplier, got %v", cfg.Timing.SlowMultiplier)
	}
	if cfg.Browser.Engine != "chromium" {
		t.Errorf("Expected browser override, got %s", cfg.Browser.Engine)
	}
	if !cfg.Browser.Headed {
		t.Error("Expected headed override")
	}

	// No flags set leaves the config untouched.
	cfg2 := NewDefaultConfig()
	ApplyFlagOverrides(cfg2, false, "", false)
	if cfg2.Timing.SlowMultiplier != 1.0 || cfg2.Browser.Engine != "" {
		t.Error("Expected unset flags to leave config untouched")
	}
}

func TestPaced(t *testing.T) {
	cfg := NewDefaultConfig()
	if got := cfg.Paced(Duration(100 * time.Millisecond)); got != 100*time.Millisecond {
		t.Errorf("Multiplier 1.0 should be identity, got %v", got)
	}

	cfg.Timing.SlowMultiplier = 2.0
	if got := cfg.Paced(Duration(100 * time.Millisecond)); got != 200*time.Millisecond {
		t.Errorf("Expected doubled duration, got %v", got)
	}
}

func TestValidate(t *testing.T) {
	t.Run("Rejects malformed base URL", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Target.UIBaseURL = "not a url"
		if err := cfg.Validate(); err == nil {
			t.Fatal("Expected validation error for malformed URL")
		}
	})

	t.Run("Rejects invalid log level", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Logging.Level = "chatty"
		if err := cfg.Validate(); err == nil {
			t.Fatal("Expected validation error for unknown log level")
		}
	})

	t.Run("Rejects non-positive slow multiplier", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Timing.SlowMultiplier = 0
		if err := cfg.Validate(); err == nil {
			t.Fatal("Expected validation error for zero multiplier")
		}
	})

	t.Run("Rejects negative tolerance", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Tolerance.PricePercent = -1
		if err := cfg.Validate(); err == nil {
			t.Fatal("Expected validation error for negative tolerance")
		}
	})
}
