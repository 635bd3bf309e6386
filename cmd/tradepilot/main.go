// Package main runs the tradepilot scenario suite against the target
// platform, driving a managed browser with the persisted session state and
// writing a report plus failure artifacts under the artifacts directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/entrhq/tradepilot/pkg/config"
	"github.com/entrhq/tradepilot/pkg/logging"
	"github.com/entrhq/tradepilot/pkg/runner"
)

const version = "0.1.0"

func main() {
	settingsPath := flag.String("settings", "", "Path to a YAML settings file (TRADEPILOT_* env takes precedence)")
	suitePath := flag.String("suite", "", "Path to a YAML suite file selecting scenarios")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("tradepilot v%s\n", version)
		return
	}

	settings, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logging.SetDirectory(filepath.Join(settings.ArtifactsDir, "logs"))
	logger, err := logging.NewLogger("runner")
	if err != nil {
		// The fallback logger writes to stderr; the run proceeds degraded.
		log.Printf("file logging unavailable: %v", err)
	}
	defer logger.Close()

	suite, err := runner.LoadSuiteFile(*suitePath)
	if err != nil {
		log.Fatalf("Suite error: %v", err)
	}
	filter, err := suite.Filter()
	if err != nil {
		log.Fatalf("Suite error: %v", err)
	}

	// An interrupt must still tear the browser down; exit through the
	// logger rather than leaving orphaned driver processes.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warnf("interrupted, shutting down")
		logger.Close()
		os.Exit(130)
	}()

	r := runner.NewRunner(settings, logger).WithFilter(filter)
	report, err := r.Run(suite.Name, defaultScenarios())
	if err != nil {
		log.Fatalf("Run error: %v", err)
	}

	writer := runner.NewReportWriter(settings.ArtifactsDir)
	if err := writer.WriteAll(report); err != nil {
		logger.Errorf("failed to write report: %v", err)
	}

	fmt.Print(runner.ConsoleSummary(report))
	if !report.Ok() {
		os.Exit(1)
	}
}
