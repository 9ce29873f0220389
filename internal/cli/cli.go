// Package cli wires the spf13/cobra command tree for vrz.
//
// Grounded on the teacher's (javanhut-IvaldiVCS) cli/cli.go: a package
// level rootCmd, subcommands added in init(), Execute() as the single
// exported function, and RunE handlers (rather than cli.go's own mix
// of Run/log.Fatal — per SPEC_FULL.md §6 AMBIENT, every subcommand here
// uses RunE so errors flow through cobra's own reporting path instead
// of calling log.Fatal inside library code).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const vrzVersion = "0.1.0"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "vrz",
	Short: "vrz is a content-addressed version control store",
	Long:  "vrz manages blob/tree/commit/tag objects, a staging index, and a ref namespace modeled on the Git data model.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command; the process exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Version = vrzVersion

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(hashObjectCmd)
	rootCmd.AddCommand(catFileCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(lsTreeCmd)
	rootCmd.AddCommand(lsFilesCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(revParseCmd)
	rootCmd.AddCommand(showRefCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(checkIgnoreCmd)
}

func fail(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
