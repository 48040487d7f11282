package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tkoenig/unzipr"
)

const version = "0.3.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", progname(), err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		listMode bool
		testMode bool
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "unzipr [-l|-t] zip-archive [file...]",
		Short: "inspect and extract entries from a ZIP archive",
		Long: `unzipr extracts entries from a ZIP archive, or lists or tests them
with -l or -t. With no file arguments the whole archive is selected;
otherwise each argument selects entries by exact name, or by shell glob
when it contains one of the characters "*?[". Arguments that select
nothing are reported as warnings and do not change the exit status.`,
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := runExtract
			switch {
			case listMode:
				mode = runList
			case testMode:
				mode = runTest
			}
			return run(cmd, mode, args, verbose)
		},
	}
	cmd.Flags().BoolVarP(&listMode, "list", "l", false, "list the selected entries instead of extracting them")
	cmd.Flags().BoolVarP(&testMode, "test", "t", false, "test the integrity of the selected entries")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().BoolP("version", "V", false, "display the version number")
	cmd.MarkFlagsMutuallyExclusive("list", "test")
	return cmd
}

type runMode int

const (
	runExtract runMode = iota
	runList
	runTest
)

func run(cmd *cobra.Command, mode runMode, args []string, verbose bool) error {
	logrus.SetOutput(cmd.ErrOrStderr())
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	zf, err := unzipr.Open(args[0])
	if err != nil {
		return err
	}
	defer zf.Close()
	logrus.WithFields(logrus.Fields{
		"archive": args[0],
		"entries": zf.NumEntries(),
	}).Debug("archive opened")

	sel, diags := zf.Select(args[1:])
	logrus.WithField("selected", sel.Count()).Debug("selection complete")
	for _, d := range diags {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", progname(), d)
	}

	switch mode {
	case runList:
		return zf.List(cmd.OutOrStdout(), sel)
	case runTest:
		return zf.Test(cmd.OutOrStdout(), sel)
	default:
		return zf.Extract(afero.NewOsFs(), sel)
	}
}

func progname() string {
	return filepath.Base(os.Args[0])
}
