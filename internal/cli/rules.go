package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect configured rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the rules from the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}
		for _, r := range cfg.Rules {
			fmt.Fprintf(os.Stdout, "%s (%s)\n", r.ID, r.Severity)
			fmt.Fprintf(os.Stdout, "  files: %s\n", r.Files)
			if r.Ignore != "" {
				fmt.Fprintf(os.Stdout, "  ignore: %s\n", r.Ignore)
			}
			if r.Model != "" {
				fmt.Fprintf(os.Stdout, "  model: %s\n", r.Model)
			}
			fmt.Fprintf(os.Stdout, "  %s\n\n", r.Prompt)
		}
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesListCmd.Flags().StringVar(&flagConfig, "config", "", "Config file path (default: .ailint.yml)")
}
