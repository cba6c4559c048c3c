// Package cmd - standards command
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YASHK-arch/heavy-metal-compass/internal/metals"
)

var standardsJSON bool

// standardsCmd prints the regulatory table assessments run against,
// honoring the --standards override.
var standardsCmd = &cobra.Command{
	Use:   "standards",
	Short: "Print the regulatory standards table in effect",
	RunE:  runStandards,
}

func init() {
	standardsCmd.Flags().BoolVarP(&standardsJSON, "json", "j", false, "emit the table as JSON")
}

func runStandards(cmd *cobra.Command, args []string) error {
	std, err := resolveStandards()
	if err != nil {
		return err
	}

	if standardsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(std)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%-5s %-12s %s\n", "Metal", "Limit (mg/L)", "Weight")
	for _, m := range metals.All {
		entry, ok := std[m]
		if !ok {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-5s %-12.4f %.1f\n", m, entry.Limit, entry.Weight)
	}
	return nil
}
