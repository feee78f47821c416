package controllers

import (
	"context"
	"fmt"
	"io"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/reqscan/internal/domain/entities"
)

const separatorWidth = 80

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output-dir", "o", "",
		fmt.Sprintf("Directory the reports are written to (default %q)", entities.DefaultOutputDir))
	cmd.Flags().String("unique-output", "",
		fmt.Sprintf("Filename of the unique packages report (default %q)", entities.DefaultUniqueReport))
	cmd.Flags().String("frequency-output", "",
		fmt.Sprintf("Filename of the frequency report (default %q)", entities.DefaultFrequencyReport))
}

func addRecommendationFlags(cmd *cobra.Command) {
	cmd.Flags().String("ai-provider", "",
		fmt.Sprintf("AI provider to use (%s, %s, %s)",
			entities.ProviderAnthropic, entities.ProviderOpenAI, entities.ProviderOllama))
	cmd.Flags().String("ai-model", "", "Model to request from the AI provider")
	cmd.Flags().String("ai-endpoint", "", "Override the AI provider endpoint")
	cmd.Flags().Duration("ai-timeout", 0,
		fmt.Sprintf("Maximum time to wait for the AI reply (default %s)", entities.DefaultRecommendationTimeout))
	cmd.Flags().String("recommendation-output", "",
		fmt.Sprintf("Filename of the AI recommendations (default %q)", entities.DefaultRecommendationReport))
}

// loadSettings builds the run settings in order of precedence: built-in
// defaults, then the config file, then the environment for fields still
// empty, with command-line flags overriding all of them.
func loadSettings(cmd *cobra.Command, args []string) (*entities.Settings, error) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	settings := &entities.Settings{}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		if found, err := entities.FindConfigFile(); err == nil {
			configPath = found
		}
	}
	if configPath != "" {
		logger.Infof("Using config file: %s", configPath)
		loaded, err := entities.NewSettings(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		settings = loaded
	}

	if len(args) > 0 {
		settings.Root = args[0]
	}
	applyFlags(cmd, settings)
	settings.ApplyDefaults()

	return settings, nil
}

func applyFlags(cmd *cobra.Command, settings *entities.Settings) {
	flags := cmd.Flags()

	if changed(cmd, "ai-provider") {
		provider, _ := flags.GetString("ai-provider")
		settings.Recommendation.SelectProvider(provider)
	}

	stringFlag(cmd, "output-dir", &settings.OutputDir)
	stringFlag(cmd, "manifest", &settings.ManifestName)
	stringFlag(cmd, "unique-output", &settings.Reports.Unique)
	stringFlag(cmd, "frequency-output", &settings.Reports.Frequency)
	stringFlag(cmd, "unique-versions-output", &settings.Reports.UniqueWithVersions)
	stringFlag(cmd, "frequency-versions-output", &settings.Reports.FrequencyWithVersions)
	stringFlag(cmd, "recommendation-output", &settings.Reports.Recommendation)
	stringFlag(cmd, "ai-model", &settings.Recommendation.Model)
	stringFlag(cmd, "ai-endpoint", &settings.Recommendation.Endpoint)
	stringFlag(cmd, "token", &settings.Recommendation.Token)

	if changed(cmd, "count-mode") {
		mode, _ := flags.GetString("count-mode")
		settings.CountMode = entities.CountMode(strings.ToLower(mode))
	}
	if changed(cmd, "exclude") {
		excludes, _ := flags.GetStringSlice("exclude")
		settings.Exclude = append(settings.Exclude, excludes...)
	}
	if changed(cmd, "workers") {
		settings.Workers, _ = flags.GetInt("workers")
	}
	if changed(cmd, "ai-timeout") {
		settings.Recommendation.Timeout, _ = flags.GetDuration("ai-timeout")
	}
}

func changed(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}

func stringFlag(cmd *cobra.Command, name string, target *string) {
	if changed(cmd, name) {
		*target, _ = cmd.Flags().GetString(name)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printRecommendation(w io.Writer, reply string) {
	separator := strings.Repeat("=", separatorWidth)
	_, _ = fmt.Fprintf(w, "\n%s\nAI RECOMMENDATIONS\n%s\n%s\n%s\n", separator, separator, reply, separator)
}
