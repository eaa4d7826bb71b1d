package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"medal-backup/style"
)

// Limits and Defaults
const (
	ConfigFileDefault string = "config.json"
	Version           string = "1.0.0"
)

// ENTRY POINT
func main() {
	// Command-line args
	var (
		configFile  = flag.String("config", "", "Path to configuration file. Defaults to '"+ConfigFileDefault+"' in the working directory or next to the executable.")
		logFile     = flag.String("log-file", "", "Also write messages to this log file.")
		scheduled   = flag.Bool("scheduled", false, "Run unattended backups on the configured schedule.")
		showHelp    = flag.Bool("help", false, "Show help.")
		showVersion = flag.Bool("version", false, "Show version info.")
	)
	flag.Parse()

	// Show help
	if *showHelp {
		printHelp()
		return
	}

	// Show version
	if *showVersion {
		printVersion()
		return
	}

	os.Exit(run(*configFile, *logFile, *scheduled))
}

// run executes one session and returns the process exit code.
func run(configFile, logFile string, scheduled bool) int {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		style.Err("Failed to load configuration: %v", err)
		return 1
	}

	if logFile == "" {
		logFile = cfg.LogFile
	}
	if logFile != "" {
		closer, err := style.OpenLog(logFile)
		if err != nil {
			style.Err("%v", err)
			return 1
		}
		defer closer.Close()
	}

	app := NewApp(cfg, os.Stdin)

	if scheduled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = app.runScheduled(ctx)
	} else {
		err = app.Run()
	}

	if err != nil {
		style.Err("%v", err)
		return 1
	}
	return 0
}

// PRINT HELP
func printHelp() {
	fmt.Println()
	style.Signature("===============  Medal Backup  ===============")
	fmt.Println()
	style.PlainLn("Usage:")
	fmt.Println("  medal-backup [options]")
	fmt.Println()
	style.Bold("Options:")
	flag.PrintDefaults()
	fmt.Println()
	style.Sub("Without -scheduled the app asks whether to back up or restore.")
	style.Sub("Paths missing from '" + ConfigFileDefault + "' are asked for interactively.")
	fmt.Println()
}

// PRINT VERSION
func printVersion() {
	style.Signature("Medal Backup")
	style.PlainLn("v%s", Version)
	fmt.Println()
}
