// Package main runs the one-time interactive login flow and persists the
// resulting session state for later suite runs. Run it whenever the stored
// session expires; scenario runs never log in themselves.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/entrhq/tradepilot/pkg/auth"
	"github.com/entrhq/tradepilot/pkg/config"
	"github.com/entrhq/tradepilot/pkg/logging"
)

func main() {
	settingsPath := flag.String("settings", "", "Path to a YAML settings file (TRADEPILOT_* env takes precedence)")
	flag.Parse()

	settings, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if settings.LoginEmail == "" || settings.LoginPassword == "" {
		log.Fatalf("Login credentials are required (set TRADEPILOT_LOGIN_EMAIL and TRADEPILOT_LOGIN_PASSWORD)")
	}

	logging.SetDirectory(filepath.Join(settings.ArtifactsDir, "logs"))
	logger, err := logging.NewLogger("login")
	if err != nil {
		log.Printf("file logging unavailable: %v", err)
	}
	defer logger.Close()

	result, err := auth.Bootstrap(settings, logger)
	if err != nil {
		logger.Errorf("login flow failed: %v", err)
		if result.StatePath != "" {
			fmt.Fprintf(os.Stderr, "login failed (%v); partial state written to %s\n", err, result.StatePath)
		}
		os.Exit(1)
	}

	verified := "unverified"
	if result.Verified {
		verified = "verified"
	}
	fmt.Printf("session state written to %s (%d cookies, %s)\n",
		result.StatePath, result.CookieCount, verified)
}
