// pattern: Imperative Shell
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/Patrick-Luo-THR/piksi-tools/internal/cli"
	"github.com/Patrick-Luo-THR/piksi-tools/internal/config"
	"github.com/Patrick-Luo-THR/piksi-tools/internal/console"
	"github.com/Patrick-Luo-THR/piksi-tools/internal/instance"
	"github.com/Patrick-Luo-THR/piksi-tools/internal/logging"
)

var version = "dev"

// consoleFlags are the command-line overrides applied on top of config.yaml.
type consoleFlags struct {
	filterLevel string
	maxLen      int
	logToFile   bool
	outputDir   string
	deviceLog   string
}

func main() {
	// Stop parsing flags after the first non-flag arg (the subcommand),
	// so that --help after a subcommand is handled by the subcommand.
	flag.CommandLine.SetInterspersed(false)

	configDir := flag.StringP("config-dir", "c", "", "config directory (default: ~/.config/swift-console)")
	filterLevel := flag.String("filter", "", "severity threshold for the display (ERROR, WARNING, INFO, DEBUG)")
	maxLen := flag.Int("max-len", 0, "log buffer cap (negative for unbounded)")
	logToFile := flag.BoolP("file", "t", false, "mirror log entries into a session log file")
	outputDir := flag.StringP("output-dir", "o", "", "directory for session log files")
	deviceLog := flag.String("follow", "", "device JSONL log file to follow")

	// Override flag.Usage before Parse so --help uses the CLI app's help
	flag.Usage = func() {
		app := cli.BuildApp(version, *configDir)
		app.PrintHelp(os.Stderr)
		flag.PrintDefaults()
	}

	flag.Parse()

	app := cli.BuildApp(version, *configDir)
	if app.Execute(flag.Args()) {
		runConsole(*configDir, consoleFlags{
			filterLevel: *filterLevel,
			maxLen:      *maxLen,
			logToFile:   *logToFile,
			outputDir:   *outputDir,
			deviceLog:   *deviceLog,
		})
	}
}

// loadConfig loads the configuration from the specified directory or default location.
func loadConfig(configDir string) (config.Config, error) {
	if configDir != "" {
		return config.LoadFromDir(configDir)
	}
	return config.Load()
}

// applyFlags overlays non-zero command-line values onto the loaded config.
func applyFlags(cfg config.Config, flags consoleFlags) config.Config {
	if flags.filterLevel != "" {
		cfg.FilterLevel = flags.filterLevel
	}
	if flags.maxLen != 0 {
		cfg.MaxLen = flags.maxLen
	}
	if flags.logToFile {
		cfg.LogToFile = true
	}
	if flags.outputDir != "" {
		cfg.OutputDir = flags.outputDir
	}
	if flags.deviceLog != "" {
		cfg.DeviceLog = flags.deviceLog
	}
	return cfg
}

// runConsole runs the headless log loop: stdin and the device log feed the
// buffer, and the filtered view is dumped to stdout on shutdown.
func runConsole(configDir string, flags consoleFlags) {
	cfg, err := loadConfig(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
	cfg = applyFlags(cfg, flags)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	outputDir := cfg.ResolveOutputDir()

	// Acquire single-console lock on the output directory
	fl, err := instance.Lock(outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer instance.Cleanup(outputDir, fl)

	bufCfg := console.BufferConfig{
		MaxLen:      cfg.MaxLen,
		FilterLevel: cfg.ParsedFilterLevel(),
	}
	if cfg.LogToFile {
		sessionFile, sessionPath, err := console.OpenLogFile(outputDir, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		bufCfg.LogFile = sessionFile
		if err := instance.WriteLogPath(outputDir, sessionPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record session log path: %v\n", err)
		}
	}

	buffer := console.NewBuffer(bufCfg)
	defer func() { _ = buffer.Close() }()

	logManager, err := logging.NewManager(logging.Config{
		FilePath:   cfg.ResolveLogFile(),
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Level:      cfg.Logging.Level,
	}, buffer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logManager.Close() }()

	appLogger := logManager.For("app")
	appLogger.Info("console starting", "filter", cfg.FilterLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Follow the device log if one is configured
	if cfg.DeviceLog != "" {
		follower, err := console.NewFollower(cfg.DeviceLog, buffer)
		if err != nil {
			appLogger.Error("failed to follow device log", "path", cfg.DeviceLog, "error", err)
		} else {
			appLogger.Info("following device log", "path", cfg.DeviceLog)
			go func() {
				if err := follower.Start(ctx); err != nil && ctx.Err() == nil {
					appLogger.Error("device log follower stopped", "error", err)
				}
			}()
		}
	}

	// Pipe stdin into the buffer as console-origin entries
	stdinDone := make(chan struct{})
	go func() {
		defer close(stdinDone)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			buffer.Write(scanner.Text())
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sig:
	case <-stdinDone:
	}
	cancel()

	appLogger.Info("console stopping")

	// Dump the filtered view, oldest first, the way the table would show it
	rows := buffer.Rows()
	for i := len(rows) - 1; i >= 0; i-- {
		fmt.Printf("%s  %-8s %s\n", rows[i].Timestamp, rows[i].Level, rows[i].Message)
	}
}
