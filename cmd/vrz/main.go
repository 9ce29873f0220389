// Command vrz is the CLI entry point, wiring one cobra subcommand per
// operation in spec.md §6 onto the internal/ops composition layer.
//
// Grounded on the teacher's (javanhut-IvaldiVCS) cli/cli.go: a package
// variable rootCmd, subcommands registered in an init(), and
// Execute() as the sole exported entry point called from main.
package main

import (
	"github.com/yash-srivastava19/vrz/internal/cli"
)

func main() {
	cli.Execute()
}
