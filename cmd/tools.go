package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/revulabs/revu-cli/internal/analyzer"
)

var toolsJSONOutput bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the analysis tools and whether each is installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := analyzer.NewRegistry(cliConfig.Review.Python)
		tools := registry.Tools()

		if toolsJSONOutput {
			b, err := json.MarshalIndent(tools, "", "  ")
			if err != nil {
				return fmt.Errorf("encode tool list: %w", err)
			}
			fmt.Println(string(b))
			return nil
		}

		missing := 0
		fmt.Printf("%-12s %-12s %-12s %s\n", "ANALYZER", "TOOL", "CATEGORY", "STATUS")
		for _, t := range tools {
			status := "available"
			if !t.Available {
				status = "missing"
				missing++
			}
			fmt.Printf("%-12s %-12s %-12s %s\n", t.Name, t.Tool, t.Category, formatStatusWithColor(status))
		}

		if missing > 0 {
			fmt.Printf("\n%s %d tool(s) missing; the corresponding analyzers will report unavailable.\n", colorWarn("Note:"), missing)
		}
		return nil
	},
}

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSONOutput, "json", false, "Print the tool list as JSON")
}
