package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/David-MyRaceDay/grid-builder-sub000/internal/testgrid"
)

// Default configuration constants.
const (
	defaultDrivers     = 24
	defaultClasses     = 3
	defaultLaps        = 8
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		drivers   = flag.Int("drivers", defaultDrivers, "Number of synthetic drivers to generate")
		classes   = flag.Int("classes", defaultClasses, "Number of classes to spread drivers across")
		laps      = flag.Int("laps", defaultLaps, "Practice laps per driver in the lap log")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputDir = flag.String("output", ".", "Directory for saved fixtures")
		keepFiles = flag.Bool("keep", false, "Save the generated session files to disk")
		logFile   = flag.String("log", "", "Log file for test output (default: grid_test_TIMESTAMP.log)")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		testgrid.ShowHelp()
		return
	}

	if err := testgrid.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("failed to set up logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	config := &testgrid.Config{
		BaseURL:   *baseURL,
		Drivers:   *drivers,
		Classes:   *classes,
		Laps:      *laps,
		Timeout:   *timeout,
		OutputDir: *outputDir,
		LogFile:   *logFile,
		KeepFiles: *keepFiles,
		Verbose:   *verbose,
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	if err := testgrid.Run(ctx, config); err != nil {
		os.Stderr.WriteString("test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
