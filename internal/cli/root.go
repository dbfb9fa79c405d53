package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes. The engine owns 0 vs 1; everything above is CLI-level.
const (
	ExitSuccess      = 0
	ExitFindings     = 1
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "ailint",
	Short: "AI-backed code linter",
	Long:  "Ailint checks source files against natural-language rules using LLM providers, caching judgments by content hash.",
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print ailint version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "ailint version %s\n", version)
	},
}
