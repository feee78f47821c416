package controllers

import (
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/reqscan/internal/domain/commands"
	"github.com/rios0rios0/reqscan/internal/domain/entities"
)

// ScanController handles the "scan" subcommand, which is also the default
// action of the root command.
type ScanController struct {
	scan      commands.Scan
	recommend commands.Recommend
}

// NewScanController creates a new ScanController.
func NewScanController(scan commands.Scan, recommend commands.Recommend) *ScanController {
	return &ScanController{scan: scan, recommend: recommend}
}

// GetBind returns the Cobra command metadata for the scan controller.
func (it *ScanController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "scan [path]",
		Short: "Scan a directory tree for requirements files",
		Long: `Recursively find every requirements.txt under the given path (or REPO_BASE),
count the declared packages and write four reports to the output directory:

  unique_packages.txt                        Distinct package names
  packages_by_frequency.txt                  Names by number of declarations
  unique_packages_with_versions.txt          Distinct name+specifier pairs
  packages_by_frequency_with_versions.txt    Pairs by number of declarations

With --ai-analysis the frequency report is then sent to an AI provider
for a proposed set of shared virtual environments. A failed recommendation
never fails the scan.`,
	}
}

// Execute runs a scan and, when requested, the recommendation step.
func (it *ScanController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}
	if err = settings.ValidateScan(); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if _, err = it.scan.Execute(ctx, settings); err != nil {
		return err
	}

	if !wantsRecommendation(cmd, settings) {
		logger.Info("Skipping AI analysis (use --ai-analysis to enable)")
		return nil
	}

	reply, err := it.recommend.Execute(ctx, settings)
	if err != nil {
		var unavailable *entities.RecommendationUnavailableError
		if errors.As(err, &unavailable) {
			logger.Warnf("AI analysis failed: %v", unavailable.Err)
		} else {
			logger.Warnf("AI analysis failed: %v", err)
		}
		logger.Warn("Continuing with basic reports only...")
		return nil
	}

	printRecommendation(cmd.OutOrStdout(), reply)
	return nil
}

// AddFlags adds the scan-specific flags to the given Cobra command.
func (it *ScanController) AddFlags(cmd *cobra.Command) {
	addOutputFlags(cmd)
	addRecommendationFlags(cmd)

	cmd.Flags().String("manifest", "",
		fmt.Sprintf("Exact filename to look for (default %q)", entities.DefaultManifestName))
	cmd.Flags().StringSlice("exclude", nil,
		"Additional directory patterns to skip (gitignore syntax, repeatable)")
	cmd.Flags().String("count-mode", "",
		fmt.Sprintf("Count every declaration (%q) or once per file (%q)",
			entities.CountOccurrences, entities.CountFiles))
	cmd.Flags().IntP("workers", "j", 0, "Number of files parsed concurrently (default: number of CPUs)")
	cmd.Flags().String("unique-versions-output", "",
		fmt.Sprintf("Filename of the unique versions report (default %q)", entities.DefaultUniqueWithVersionsReport))
	cmd.Flags().String("frequency-versions-output", "",
		fmt.Sprintf("Filename of the versions frequency report (default %q)",
			entities.DefaultFrequencyWithVersionsReport))
	cmd.Flags().Bool("ai-analysis", false, "Run AI analysis after scanning")
	cmd.Flags().Bool("skip-ai", false, "Skip AI analysis even if enabled in the config file")
}

func wantsRecommendation(cmd *cobra.Command, settings *entities.Settings) bool {
	if skip, _ := cmd.Flags().GetBool("skip-ai"); skip {
		return false
	}
	if enabled, _ := cmd.Flags().GetBool("ai-analysis"); enabled {
		return true
	}
	return settings.Recommendation.Enabled
}
