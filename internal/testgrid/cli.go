package testgrid

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/David-MyRaceDay/grid-builder-sub000/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "grid_test_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the grid test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Grid Builder Test Tool
======================

Exercises a running grid builder service end to end: uploads a synthetic
heat sheet and practice lap log, configures waves, builds the grid, applies
mutations and verifies the results.

Usage:
  go run cmd/test-grid/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -drivers int
        Number of synthetic drivers to generate (default 24)
  -classes int
        Number of classes to spread drivers across (default 3)
  -laps int
        Practice laps per driver in the lap log (default 8)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Directory for saved fixtures (default ".")
  -keep
        Save the generated session files to disk
  -log string
        Log file for test output (default: grid_test_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Exercise with default settings
  go run cmd/test-grid/main.go

  # A bigger field split across more classes
  go run cmd/test-grid/main.go -drivers 120 -classes 5

  # Keep the generated fixtures for inspection
  go run cmd/test-grid/main.go -keep -output fixtures

  # Verbose output with a custom log file
  go run cmd/test-grid/main.go -verbose -log my_test.log
`)
}
