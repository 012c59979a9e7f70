// Package cli wires up the simplejvm command line: a cobra root command
// delegating to run.go for the actual class-file execution, matching the
// root/run split the interpreter's CLI dependency stack uses elsewhere in
// the example corpus.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "simplejvm",
	Short: "A minimal JVM implementation in Go",
	Long: `simplejvm loads a .class file and interprets its bytecode directly,
without a JIT: class-file parsing, a frame/operand-stack runtime, and a
dispatch-table interpreter over the instruction set.`,
	Version: "0.1.0",
}

// Execute runs the root command, returning any error from the selected
// subcommand instead of calling os.Exit itself.
func Execute() error {
	return rootCmd.Execute()
}
