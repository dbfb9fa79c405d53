package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dshills/ailint/internal/providers"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Provider and model information",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logical model names and their provider identifiers",
	Run: func(cmd *cobra.Command, args []string) {
		catalog := providers.DefaultCatalog()
		provs := catalog.Providers()
		sort.Strings(provs)
		for _, p := range provs {
			fmt.Fprintf(os.Stdout, "%s:\n", p)
			models := catalog.Models(p)
			names := make([]string, 0, len(models))
			for name := range models {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(os.Stdout, "  %s -> %s\n", name, models[name])
			}
			fmt.Fprintln(os.Stdout)
		}
	},
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
}
