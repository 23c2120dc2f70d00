// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package cliutil_test

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/datawire/wheelresolver/pkg/cliutil"
)

func newHelpTree() (root, download *cobra.Command) {
	noopRunE := func(_ *cobra.Command, _ []string) error {
		return nil
	}
	root = &cobra.Command{
		Use:   "wheel-resolver {[flags]|SUBCOMMAND...}",
		Short: "Resolve a Python package to a compatible wheel",
		RunE:  noopRunE,
	}
	root.PersistentFlags().String("package-name", "", "Resolve the package named `NAME`")
	root.SetHelpTemplate(cliutil.HelpTemplate)

	download = &cobra.Command{
		Use:   "download [flags]",
		Short: "Download the wheel to use",
		Long: "Resolve the package to a compatible wheel, and download it to the file named by " +
			"--output, or by the $OUTS environment variable.",
		RunE: noopRunE,
	}
	download.Flags().StringP("output", "o", "", "Write the result to `FILENAME`")
	cliutil.SetEnvironment(download,
		cliutil.EnvVar{Name: "OUTS", Usage: "Default for --output"},
		cliutil.EnvVar{Name: "SOURCE_DATE_EPOCH", Usage: "Timestamp ceiling for --layer-dir"})
	root.AddCommand(download)
	return root, download
}

//nolint:paralleltest // can't use .Parallel() with .Setenv()
func TestHelpTemplate(t *testing.T) {
	t.Setenv("COLUMNS", "80")
	testcases := map[string]struct {
		Pick         func(root, download *cobra.Command) *cobra.Command
		ExpectedHelp string
	}{
		"root": {
			Pick: func(root, _ *cobra.Command) *cobra.Command { return root },
			ExpectedHelp: "" +
				"Usage: wheel-resolver {[flags]|SUBCOMMAND...}\n" +
				"Resolve a Python package to a compatible wheel\n" +
				"\n" +
				"Available Commands:\n" +
				"  download      Download the wheel to use\n" +
				"\n" +
				"Flags:\n" +
				"      --package-name NAME   Resolve the package named NAME\n" +
				"\n" +
				"Use \"wheel-resolver [command] --help\" for more information about a command.\n",
		},
		"subcommand": {
			Pick: func(_, download *cobra.Command) *cobra.Command { return download },
			ExpectedHelp: "" +
				// 0      1         2         3         4         5         6         7         8
				// 345678901234567890123456789012345678901234567890123456789012345678901234567890
				"Usage: wheel-resolver download [flags]\n" +
				"Download the wheel to use\n" +
				"\n" +
				"Resolve the package to a compatible wheel, and download it to the file\n" +
				"named by --output, or by the $OUTS environment variable.\n" +
				"\n" +
				"Flags:\n" +
				"  -o, --output FILENAME   Write the result to FILENAME\n" +
				"\n" +
				"Global Flags:\n" +
				"      --package-name NAME   Resolve the package named NAME\n" +
				"\n" +
				"Environment:\n" +
				"  OUTS                Default for --output\n" +
				"  SOURCE_DATE_EPOCH   Timestamp ceiling for --layer-dir\n",
		},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			cmd := tcData.Pick(newHelpTree())

			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.HelpFunc()(cmd, []string{"--help"})

			assert.Equal(t, tcData.ExpectedHelp, out.String())
		})
	}
}

//nolint:paralleltest // can't use .Parallel() with .Setenv()
func TestTerminalWidth(t *testing.T) {
	t.Setenv("COLUMNS", "123")
	assert.Equal(t, 123, cliutil.TerminalWidth(&bytes.Buffer{}))

	t.Setenv("COLUMNS", "")
	assert.Equal(t, 0, cliutil.TerminalWidth(&bytes.Buffer{}))
}
