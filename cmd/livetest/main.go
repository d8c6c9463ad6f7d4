package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ternarybob/arbor"

	"github.com/tradepulse/livetest/internal/common"
	"github.com/tradepulse/livetest/internal/harness"
	"github.com/tradepulse/livetest/internal/suites"
	"github.com/tradepulse/livetest/internal/validator"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles    configPaths // Multiple -config flags supported
	suiteFilter    = flag.String("suite", "", "Comma-separated suite names to run (default: all)")
	suiteFilterS   = flag.String("s", "", "Comma-separated suite names (shorthand)")
	slowMode       = flag.Bool("slow", false, "Double the pacing multiplier")
	browserEngine  = flag.String("browser", "", "Browser executable name or path (overrides config)")
	browserEngineB = flag.String("b", "", "Browser executable (shorthand)")
	headedMode     = flag.Bool("headed", false, "Show the browser window")
	showVersion    = flag.Bool("version", false, "Print version information")
	showVersionV   = flag.Bool("v", false, "Print version information (shorthand)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	os.Exit(run())
}

func run() int {
	// .env is optional; real environment variables win inside godotenv
	_ = godotenv.Load()

	flag.Parse()

	common.LoadVersionFromFile()

	if *showVersion || *showVersionV {
		fmt.Printf("Livetest version %s\n", common.GetVersion())
		return 0
	}

	// Merge shorthand flags (shorthand takes precedence)
	filter := *suiteFilter
	if *suiteFilterS != "" {
		filter = *suiteFilterS
	}
	browser := *browserEngine
	if *browserEngineB != "" {
		browser = *browserEngineB
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("livetest.toml"); err == nil {
			configFiles = append(configFiles, "livetest.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Error().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		return 1
	}
	if err := config.Validate(); err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Error().Err(err).Msg("Configuration rejected")
		return 1
	}

	common.ApplyFlagOverrides(config, *slowMode, browser, *headedMode)

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetFullVersion())

	common.InstallCrashHandler(filepath.Join(config.Output.Dir, "logs"))

	logger.Debug().
		Str("ui_base_url", config.Target.UIBaseURL).
		Str("api_base_url", config.Target.APIBaseURL).
		Float64("slow_multiplier", config.Timing.SlowMultiplier).
		Bool("headed", config.Browser.Headed).
		Msg("Resolved configuration")

	if logPath := common.GetLogFilePath(logger); logPath != "" {
		logger.Debug().Str("log_file", logPath).Msg("Diagnostic log sink")
	}

	return execute(filter)
}

// execute owns the run lifecycle so crash recovery and logger teardown happen
// before the process exit code is decided.
func execute(filter string) (code int) {
	defer func() {
		if rec := recover(); rec != nil {
			crashPath := common.WriteCrashFile(rec, string(debug.Stack()))
			logger.Error().Str("crash_file", crashPath).Msgf("Fatal error escaped the runner: %v", rec)
			code = 1
		}
	}()

	runID := common.NewRunID()
	runDir := filepath.Join(config.Output.Dir, "run-"+time.Now().Format("20060102-150405"))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		logger.Error().Err(err).Msg("Failed to create run directory")
		return 1
	}

	runLog, err := harness.NewRunLogger(config, runDir)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open run log")
		return 1
	}
	defer runLog.Close()

	runLog.Banner("Livetest", common.GetFullVersion(), runID)

	// Screenshots live in a directory shared across runs so the retention
	// policy can see older runs' files.
	shots := harness.NewScreenshotManager(
		config.Output.Screenshots,
		filepath.Join(config.Output.Dir, "screenshots"),
		runLog,
	)

	deps := &suites.Deps{
		Cfg:       config,
		Log:       runLog,
		Shots:     shots,
		Validator: validator.New(config, logger),
	}

	order := make([]suites.ID, 0, len(config.Suites.Order))
	for _, name := range config.Suites.Order {
		order = append(order, suites.ID(name))
	}
	selected := splitSuiteFilter(filter)
	named := suites.Resolve(selected, order, deps)

	runner := harness.NewRunner(config, runLog, shots, runID, runDir)
	sum, err := runner.RunAll(context.Background(), named)
	if err != nil {
		return 1
	}
	return runner.ExitCode(sum)
}

func splitSuiteFilter(filter string) []string {
	if filter == "" {
		return nil
	}
	parts := strings.Split(filter, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
