// Package cmd provides the CLI commands for hmc.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YASHK-arch/heavy-metal-compass/internal/logging"
	"github.com/YASHK-arch/heavy-metal-compass/internal/metals"
)

var (
	standardsFile string
	verbose       bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hmc",
	Short: "Assess heavy-metal pollution in groundwater samples",
	Long: `hmc runs the heavy-metal assessment pipeline over tabular sample
uploads: it validates each row, derives the HPI, PLI and CF pollution
indices against regulatory standards, grades every sample on the
five-step quality scale and summarizes the batch.

Examples:
  hmc assess samples.csv
  hmc assess --json --top 3 samples.xlsx
  hmc assess --standards strict.yaml --partial field-data.csv
  hmc standards`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&standardsFile, "standards", "", "YAML standards table overriding the built-in WHO limits")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(standardsCmd)
	rootCmd.AddCommand(versionCmd)
}

func initLogging() {
	cfg := logging.DefaultConfig()
	if verbose {
		cfg.Level = "debug"
	}
	if err := logging.Initialize(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// resolveStandards picks the table every command judges against.
func resolveStandards() (metals.Standards, error) {
	if standardsFile == "" {
		return metals.Default(), nil
	}
	return metals.LoadFile(standardsFile)
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "hmc version 0.1.0")
	},
}
