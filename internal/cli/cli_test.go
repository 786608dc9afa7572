// Package cli provides tests for CLI commands.
package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

// execute runs a root command carrying the global flags and cmd with args.
// XDG_CONFIG_HOME points at an empty directory so no user config is read.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := &cobra.Command{Use: "chaosq", SilenceUsage: true, SilenceErrors: true}
	AddGlobalFlags(root)
	root.AddCommand(cmd)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{cmd.Name()}, args...))

	err := root.Execute()
	return out.String(), err
}
