package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/rios0rios0/reqscan/internal"
	"github.com/rios0rios0/reqscan/internal/infrastructure/controllers"
)

func buildRootCommand(scanController *controllers.ScanController) *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "reqscan [path]",
		Short: "Inventory the Python dependencies of a directory tree",
		Long: `Scan every requirements.txt below a directory, count how often each package
(and each package+version specifier) is declared, and write sorted reports.
Optionally ask an AI provider how to group the packages into a few shared
virtual environments.

The path defaults to the REPO_BASE environment variable, which may also be
set in a .env file in the working directory.

Usage modes:
  reqscan ~/repos                     Scan and write the reports
  reqscan ~/repos --ai-analysis       Scan, then ask for recommendations
  reqscan recommend --ai-provider X   Recommend from an earlier scan`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, args []string) error {
			return scanController.Execute(command, args)
		},
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().String("token", "",
		"API key for the AI provider (overrides env var detection)")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")

	scanController.AddFlags(cmd)
	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:          bind.Use,
			Short:        bind.Short,
			Long:         bind.Long,
			SilenceUsage: true,
			RunE:         controller.Execute,
		}
		if _, ok := controller.(*controllers.ScanController); ok {
			subCmd.Args = cobra.MaximumNArgs(1)
		} else {
			subCmd.Args = cobra.NoArgs
		}

		controller.AddFlags(subCmd)
		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})

	// .env is optional; variables already set in the environment win
	if err := gotenv.Load(); err == nil {
		logger.Debug("Loaded environment from .env")
	}
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Inject controllers via DIG
	scanController := injectScanController()
	cobraRoot := buildRootCommand(scanController)

	// Add all subcommands
	appContext := injectAppContext()
	addSubcommands(cobraRoot, appContext)

	if err := cobraRoot.ExecuteContext(ctx); err != nil {
		stop()
		logger.Fatalf("Error executing 'reqscan': %s", err)
	}
}
