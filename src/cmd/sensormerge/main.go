// FILE: sensormerge/src/cmd/sensormerge/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sensormerge/src/cmd/sensormerge/commands"
	"sensormerge/src/internal/config"
	"sensormerge/src/internal/version"

	"github.com/lixenwraith/log"
)

var logger *log.Logger

func main() {
	os.Exit(realMain())
}

func realMain() int {
	// Subcommands run before any configuration is loaded
	router := commands.NewCommandRouter()
	handled, err := router.Route(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}
	if handled {
		return exitSuccess
	}

	flagCfg, cliArgs, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\nRun 'sensormerge help' for usage\n", err)
		return exitFailure
	}

	InitOutputHandler(flagCfg.Quiet)

	if flagCfg.ShowHelp {
		_ = router.Help()
		return exitSuccess
	}
	if flagCfg.ShowVersion {
		fmt.Println(version.String())
		return exitSuccess
	}

	if flagCfg.ConfigFile != "" {
		os.Setenv("SENSORMERGE_CONFIG_FILE", flagCfg.ConfigFile)
	}

	cfg, err := config.LoadWithCLI(cliArgs)
	if err != nil {
		Error("Failed to load config: %v\n", err)
		return exitFailure
	}

	if flagCfg.Quiet {
		cfg.Quiet = true
	}
	output.SetQuiet(cfg.Quiet)

	if err := initializeLogger(cfg); err != nil {
		Error("Failed to initialize logger: %v\n", err)
		return exitFailure
	}
	defer shutdownLogger()

	logger.Info("msg", "SensorMerge starting",
		"version", version.String(),
		"config_file", config.GetConfigPath(),
		"log_output", cfg.Logging.Output)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return newRunner(cfg, logger, output).run(ctx)
}

func shutdownLogger() {
	if logger != nil {
		if err := logger.Shutdown(2 * time.Second); err != nil {
			// Best effort - can't log the shutdown error
			Error("Logger shutdown error: %v\n", err)
		}
	}
}
