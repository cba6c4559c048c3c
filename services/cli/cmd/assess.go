// Package cmd - assess command
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YASHK-arch/heavy-metal-compass/internal/ingest"
	"github.com/YASHK-arch/heavy-metal-compass/internal/logging"
	"github.com/YASHK-arch/heavy-metal-compass/internal/metals"
	"github.com/YASHK-arch/heavy-metal-compass/internal/pipeline"
)

var (
	jsonOutput  bool
	partial     bool
	defaultDate string
	topK        int
	workers     int
)

// assessCmd represents the assess command
var assessCmd = &cobra.Command{
	Use:   "assess [file]",
	Short: "Validate and score one sample upload",
	Long: `Run the full assessment pipeline over a .csv, .tsv or .xlsx upload.

Every row is validated independently. Any diagnostic rejects the whole
upload unless --partial keeps the rows that individually passed.

Examples:
  hmc assess samples.csv
  hmc assess --partial --top 3 field-data.csv
  hmc assess --json samples.xlsx > report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "emit the full report as JSON")
	assessCmd.Flags().BoolVarP(&partial, "partial", "p", false, "keep individually valid rows even when the batch has diagnostics")
	assessCmd.Flags().StringVar(&defaultDate, "date", "", "date filled into rows without one (YYYY-MM-DD, default today)")
	assessCmd.Flags().IntVarP(&topK, "top", "k", 2, "top pollutants ranked per sample")
	assessCmd.Flags().IntVarP(&workers, "workers", "w", 4, "goroutines scoring samples")
}

func runAssess(cmd *cobra.Command, args []string) error {
	path := args[0]

	std, err := resolveStandards()
	if err != nil {
		return err
	}

	rows, err := ingest.ReadFile(path)
	if err != nil {
		return err
	}

	report := pipeline.Run(rows, pipeline.Options{
		Standards:   std,
		DefaultDate: defaultDate,
		Workers:     workers,
		TopK:        topK,
	})
	logging.Sugar.Debugw("assessment finished",
		"file", path,
		"rows", len(rows),
		"accepted", len(report.Samples),
		"diagnostics", len(report.Diagnostics),
	)

	if !report.Valid && !partial {
		for _, diag := range report.Diagnostics {
			fmt.Fprintln(cmd.ErrOrStderr(), diag)
		}
		return fmt.Errorf("upload rejected: %d diagnostics (re-run with --partial to keep valid rows)", len(report.Diagnostics))
	}
	if len(report.Samples) == 0 {
		return fmt.Errorf("no valid samples in %s", path)
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(cmd.OutOrStdout(), path, len(rows), report)
	return nil
}

func printReport(w io.Writer, path string, totalRows int, report pipeline.Report) {
	fmt.Fprintf(w, "Assessed %d of %d rows from %s\n", len(report.Samples), totalRows, path)

	if len(report.Diagnostics) > 0 {
		fmt.Fprintln(w, "\nDiagnostics:")
		for _, diag := range report.Diagnostics {
			fmt.Fprintf(w, "  - %s\n", diag)
		}
	}

	if report.Summary != nil {
		fmt.Fprintln(w, "\nSummary:")
		fmt.Fprintf(w, "  HPI  min %.2f  max %.2f  avg %.2f\n",
			report.Summary.HPI.Min, report.Summary.HPI.Max, report.Summary.HPI.Avg)
		fmt.Fprintf(w, "  PLI  min %.2f  max %.2f  avg %.2f\n",
			report.Summary.PLI.Min, report.Summary.PLI.Max, report.Summary.PLI.Avg)
	}

	if len(report.Distribution) > 0 {
		fmt.Fprintln(w, "\nQuality distribution:")
		for _, row := range report.Distribution {
			fmt.Fprintf(w, "  %-11s %d (%.1f%%)\n", row.Category, row.Count, row.Percentage)
		}
	}

	if len(report.MeanConcentrations) > 0 {
		fmt.Fprintln(w, "\nMean concentration (mg/L):")
		for _, m := range metals.All {
			mean, ok := report.MeanConcentrations[m]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "  %-3s %.4f\n", m, mean)
		}
	}

	fmt.Fprintln(w, "\nTop pollutants:")
	for _, s := range report.Samples {
		ranked := report.TopPollutants[s.ID]
		symbols := make([]string, len(ranked))
		for i, m := range ranked {
			symbols[i] = string(m)
		}
		fmt.Fprintf(w, "  %s (%s): %s\n", s.ID, s.Results.Category, strings.Join(symbols, ", "))
	}
}
