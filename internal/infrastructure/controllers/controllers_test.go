//go:build unit

package controllers_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/reqscan/internal/domain/entities"
)

// newCommand mirrors the root command wiring: global flags plus the
// controller's own flags.
func newCommand(t *testing.T, controller entities.Controller, config string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:           "reqscan",
		Args:          cobra.MaximumNArgs(1),
		RunE:          controller.Execute,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringP("config", "c", "", "")
	cmd.PersistentFlags().String("token", "", "")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "")
	controller.AddFlags(cmd)

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)

	configPath := filepath.Join(t.TempDir(), "reqscan.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o600))
	require.NoError(t, cmd.PersistentFlags().Set("config", configPath))

	return cmd, out
}
