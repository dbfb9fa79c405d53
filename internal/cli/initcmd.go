package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const starterConfig = `# ailint configuration
provider: anthropic
model: claude-sonnet
concurrency: 5

rules:
  - id: no_debug_logging
    name: No debug logging
    severity: error
    files: "*.go"
    ignore: "*_test.go"
    prompt: >
      The file must not contain leftover debugging output such as
      fmt.Println calls or commented-out print statements.

  - id: exported_docs
    name: Exported identifiers are documented
    severity: warning
    files: "*.go"
    prompt: >
      Every exported function, type, and package-level variable should
      carry a doc comment explaining what it does.
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter .ailint.yml",
	RunE: func(cmd *cobra.Command, args []string) error {
		const path = ".ailint.yml"
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(os.Stderr, "Error: %s already exists\n", path)
			exitCode = ExitUsageError
			return nil
		}
		if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(os.Stdout, "Wrote %s. Edit the rules, then run: ailint check\n", path)
		return nil
	},
}
