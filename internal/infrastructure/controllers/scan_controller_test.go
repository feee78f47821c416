//go:build unit

package controllers_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/reqscan/internal/domain/entities"
	"github.com/rios0rios0/reqscan/internal/infrastructure/controllers"
	"github.com/rios0rios0/reqscan/test/domain/commanddoubles"
)

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestScanControllerExecute(t *testing.T) {
	t.Run("should scan the path argument with flag overrides", func(t *testing.T) {
		t.Parallel()

		// given
		scan := &commanddoubles.StubScanCommand{}
		recommend := &commanddoubles.StubRecommendCommand{}
		cmd, _ := newCommand(t, controllers.NewScanController(scan, recommend), "")
		cmd.SetArgs([]string{
			"/srv/repos",
			"--output-dir", "/tmp/out",
			"--manifest", "requirements-dev.txt",
			"--count-mode", "FILES",
			"--workers", "3",
			"--exclude", "legacy",
			"--exclude", "vendor",
			"--unique-output", "u.txt",
		})

		// when
		err := cmd.Execute()

		// then
		require.NoError(t, err)
		require.Equal(t, 1, scan.ExecuteCallCount)
		settings := scan.LastSettings
		assert.Equal(t, "/srv/repos", settings.Root)
		assert.Equal(t, "/tmp/out", settings.OutputDir)
		assert.Equal(t, "requirements-dev.txt", settings.ManifestName)
		assert.Equal(t, entities.CountFiles, settings.CountMode)
		assert.Equal(t, 3, settings.Workers)
		assert.Equal(t, []string{"legacy", "vendor"}, settings.Exclude)
		assert.Equal(t, "u.txt", settings.Reports.Unique)
		assert.Equal(t, entities.DefaultFrequencyReport, settings.Reports.Frequency)
		assert.Zero(t, recommend.ExecuteCallCount)
	})

	t.Run("should prefer flags over the config file", func(t *testing.T) {
		t.Parallel()

		// given
		scan := &commanddoubles.StubScanCommand{}
		config := "root: /from/config\noutput_dir: /config/out\nworkers: 2\nexclude: [docs]\n"
		cmd, _ := newCommand(t, controllers.NewScanController(scan, &commanddoubles.StubRecommendCommand{}), config)
		cmd.SetArgs([]string{"--output-dir", "/flag/out", "--exclude", "legacy"})

		// when
		err := cmd.Execute()

		// then
		require.NoError(t, err)
		assert.Equal(t, "/from/config", scan.LastSettings.Root)
		assert.Equal(t, "/flag/out", scan.LastSettings.OutputDir)
		assert.Equal(t, 2, scan.LastSettings.Workers)
		assert.Equal(t, []string{"docs", "legacy"}, scan.LastSettings.Exclude)
	})

	t.Run("should run the recommendation and print the reply", func(t *testing.T) {
		t.Parallel()

		// given
		scan := &commanddoubles.StubScanCommand{}
		recommend := &commanddoubles.StubRecommendCommand{Reply: "Use two environments."}
		cmd, out := newCommand(t, controllers.NewScanController(scan, recommend), "")
		cmd.SetArgs([]string{"/srv/repos", "--ai-analysis", "--ai-provider", "OpenAI", "--ai-model", "gpt-4o"})

		// when
		err := cmd.Execute()

		// then
		require.NoError(t, err)
		require.Equal(t, 1, recommend.ExecuteCallCount)
		assert.Equal(t, entities.ProviderOpenAI, recommend.LastSettings.Recommendation.Provider)
		assert.Equal(t, "gpt-4o", recommend.LastSettings.Recommendation.Model)
		assert.Contains(t, out.String(), "AI RECOMMENDATIONS")
		assert.Contains(t, out.String(), "Use two environments.")
	})

	t.Run("should not fail the scan when the recommendation fails", func(t *testing.T) {
		t.Parallel()

		// given
		recommend := &commanddoubles.StubRecommendCommand{
			ExecuteErr: &entities.RecommendationUnavailableError{Provider: "anthropic", Err: errors.New("no API key")},
		}
		cmd, out := newCommand(t, controllers.NewScanController(&commanddoubles.StubScanCommand{}, recommend), "")
		cmd.SetArgs([]string{"/srv/repos", "--ai-analysis"})

		// when
		err := cmd.Execute()

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, recommend.ExecuteCallCount)
		assert.NotContains(t, out.String(), "AI RECOMMENDATIONS")
	})

	t.Run("should honour the config switch and let skip-ai override it", func(t *testing.T) {
		t.Parallel()

		// given
		config := "recommendation:\n  enabled: true\n"
		enabled := &commanddoubles.StubRecommendCommand{}
		skipped := &commanddoubles.StubRecommendCommand{}
		enabledCmd, _ := newCommand(t, controllers.NewScanController(&commanddoubles.StubScanCommand{}, enabled), config)
		enabledCmd.SetArgs([]string{"/srv/repos"})
		skippedCmd, _ := newCommand(t, controllers.NewScanController(&commanddoubles.StubScanCommand{}, skipped), config)
		skippedCmd.SetArgs([]string{"/srv/repos", "--skip-ai"})

		// when
		enabledErr := enabledCmd.Execute()
		skippedErr := skippedCmd.Execute()

		// then
		require.NoError(t, enabledErr)
		require.NoError(t, skippedErr)
		assert.Equal(t, 1, enabled.ExecuteCallCount)
		assert.Zero(t, skipped.ExecuteCallCount)
	})

	t.Run("should return scan failures", func(t *testing.T) {
		t.Parallel()

		// given
		scan := &commanddoubles.StubScanCommand{ExecuteErr: errors.New("output directory is not writable")}
		recommend := &commanddoubles.StubRecommendCommand{}
		cmd, _ := newCommand(t, controllers.NewScanController(scan, recommend), "")
		cmd.SetArgs([]string{"/srv/repos", "--ai-analysis"})

		// when
		err := cmd.Execute()

		// then
		require.ErrorIs(t, err, scan.ExecuteErr)
		assert.Zero(t, recommend.ExecuteCallCount)
	})

	t.Run("should reject an unknown count mode before scanning", func(t *testing.T) {
		t.Parallel()

		// given
		scan := &commanddoubles.StubScanCommand{}
		cmd, _ := newCommand(t, controllers.NewScanController(scan, &commanddoubles.StubRecommendCommand{}), "")
		cmd.SetArgs([]string{"/srv/repos", "--count-mode", "projects"})

		// when
		err := cmd.Execute()

		// then
		require.Error(t, err)
		assert.Zero(t, scan.ExecuteCallCount)
	})

	t.Run("should fall back to REPO_BASE for the root", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv(entities.RootEnvVar, "/from/env")
		scan := &commanddoubles.StubScanCommand{}
		cmd, _ := newCommand(t, controllers.NewScanController(scan, &commanddoubles.StubRecommendCommand{}), "")
		cmd.SetArgs([]string{})

		// when
		err := cmd.Execute()

		// then
		require.NoError(t, err)
		assert.Equal(t, "/from/env", scan.LastSettings.Root)
	})

	t.Run("should fail without any root", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv(entities.RootEnvVar, "")
		scan := &commanddoubles.StubScanCommand{}
		cmd, _ := newCommand(t, controllers.NewScanController(scan, &commanddoubles.StubRecommendCommand{}), "")
		cmd.SetArgs([]string{})

		// when
		err := cmd.Execute()

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), entities.RootEnvVar)
		assert.Zero(t, scan.ExecuteCallCount)
	})
}

func TestScanControllerGetBind(t *testing.T) {
	t.Parallel()

	t.Run("should bind to the scan subcommand", func(t *testing.T) {
		t.Parallel()

		// given
		controller := controllers.NewScanController(nil, nil)

		// when
		bind := controller.GetBind()

		// then
		assert.Equal(t, "scan [path]", bind.Use)
		assert.NotEmpty(t, bind.Short)
		assert.NotContains(t, bind.Long, "upgrade")
	})
}
