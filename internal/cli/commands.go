// pattern: Imperative Shell
package cli

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Patrick-Luo-THR/piksi-tools/internal/config"
	"github.com/Patrick-Luo-THR/piksi-tools/internal/instance"
	"github.com/Patrick-Luo-THR/piksi-tools/internal/logging"
	"github.com/Patrick-Luo-THR/piksi-tools/internal/telemetry"
)

// BuildApp creates and configures the CLI application with all commands.
func BuildApp(version string, configDir string) *App {
	app := NewApp(version)

	app.AddCommand(&Command{
		Name:    "report",
		Summary: "Report a settings snapshot to the collection endpoint",
		Usage:   "Usage: swift-console report <settings.yaml>",
		Run: func(args []string) error {
			return runReportCommand(configDir, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "cleanup",
		Summary: "Remove stale lock files from a crashed console",
		Usage:   "Usage: swift-console cleanup",
		Run: func(args []string) error {
			return runCleanupCommand(configDir)
		},
	})

	app.AddCommand(&Command{
		Name:    "version",
		Summary: "Print version and exit",
		Usage:   "Usage: swift-console version",
		Run: func(args []string) error {
			fmt.Println(version)
			return nil
		},
	})

	return app
}

// runReportCommand performs the one-shot settings report. The report is
// best-effort: a network or endpoint failure is only visible in the
// diagnostic log, never as a command failure.
func runReportCommand(configDir string, args []string) error {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: swift-console report <settings.yaml>\n")
		os.Exit(1)
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}

	mgr, err := logging.NewManager(logging.Config{
		FilePath:   cfg.ResolveLogFile(),
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Level:      cfg.Logging.Level,
	}, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer mgr.Close()

	if err := ReportSettings(cfg, args[0], mgr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return nil
}

// ReportSettings loads a settings snapshot and performs the one-shot
// report. Reporting is opt-in: a config with telemetry disabled never
// touches the network. Once the reporter runs, delivery failures stay
// best-effort and only show up in the diagnostic log.
func ReportSettings(cfg config.Config, snapshotPath string, logs logging.LoggerProvider) error {
	if !cfg.Telemetry.Enabled {
		return fmt.Errorf("telemetry reporting is disabled; set telemetry.enabled in config.yaml")
	}

	settings, err := LoadSettingsSnapshot(snapshotPath)
	if err != nil {
		return err
	}

	reporter := telemetry.NewReporter(cfg.Telemetry.Endpoint, logs.For("telemetry"))
	reporter.Report(context.Background(), settings)
	return nil
}

// runCleanupCommand removes stale lock and path files from a crashed console.
func runCleanupCommand(configDir string) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
	outputDir := cfg.ResolveOutputDir()

	// Try to acquire the lock to verify no console is actually running
	fl, err := instance.Lock(outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: a console appears to be running. Stop it first.\n")
		os.Exit(1)
	}
	// We got the lock — no console is running. Clean up and release.
	instance.Cleanup(outputDir, fl)
	fmt.Println("Cleaned up stale lock and path files.")
	return nil
}

// LoadSettingsSnapshot reads a YAML settings snapshot into the nested
// mapping form the reporter expects.
func LoadSettingsSnapshot(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings snapshot: %w", err)
	}
	var settings map[string]any
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings snapshot: %w", err)
	}
	return settings, nil
}

func loadConfig(configDir string) (config.Config, error) {
	if configDir != "" {
		return config.LoadFromDir(configDir)
	}
	return config.Load()
}
