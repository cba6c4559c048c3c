// Package validate turns raw uploaded rows into typed samples, collecting
// row-level diagnostics for everything it rejects.
package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/YASHK-arch/heavy-metal-compass/internal/metals"
	"github.com/YASHK-arch/heavy-metal-compass/internal/sample"
)

// Options tunes a validation pass.
type Options struct {
	// DefaultDate fills rows whose sampleDate cell is empty or absent,
	// formatted YYYY-MM-DD. Empty means the date the validation runs,
	// which makes output for dateless rows depend on the wall clock;
	// callers needing reproducible output must set it.
	DefaultDate string
}

// RequiredColumns returns the header columns every upload must carry, in
// the order missing ones are reported.
func RequiredColumns() []string {
	cols := []string{"latitude", "longitude", "sampleDate"}
	for _, m := range metals.All {
		cols = append(cols, string(m))
	}
	return cols
}

// Validate checks every raw row independently and returns the accepted
// samples in input order plus diagnostics for everything rejected.
//
// A row is accepted only if it produced no diagnostics at all; one bad
// field excludes the whole row. Sample ids encode the row's position in
// the original input, so rejecting row 2 still leaves row 3 as sample_3.
// A missing-column diagnostic from the header check is advisory: rows are
// still validated and may individually be accepted alongside it.
//
// Validate never fails for data-quality reasons. Whether a non-empty
// diagnostics slice rejects the whole upload is the caller's call.
func Validate(rows []sample.RawRecord, opts Options) ([]sample.Sample, []string) {
	if len(rows) == 0 {
		return nil, []string{"no data found"}
	}

	defaultDate := opts.DefaultDate
	if defaultDate == "" {
		defaultDate = time.Now().Format("2006-01-02")
	}

	var diags []string
	if missing := missingColumns(rows[0]); len(missing) > 0 {
		diags = append(diags, "missing required columns: "+strings.Join(missing, ", "))
	}

	samples := make([]sample.Sample, 0, len(rows))
	for i, row := range rows {
		s, rowDiags := validateRow(i+1, row, defaultDate)
		if len(rowDiags) > 0 {
			diags = append(diags, rowDiags...)
			continue
		}
		samples = append(samples, s)
	}
	return samples, diags
}

// missingColumns checks the first row's keys against the required set.
// Only the header shape is judged here; cell contents are row-level.
func missingColumns(first sample.RawRecord) []string {
	var missing []string
	for _, col := range RequiredColumns() {
		if _, ok := first[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// validateRow checks one row and either returns the typed sample or every
// diagnostic the row produced. rowNum is 1-indexed input position.
func validateRow(rowNum int, row sample.RawRecord, defaultDate string) (sample.Sample, []string) {
	var diags []string

	lat, ok := parseFinite(row["latitude"])
	if !ok || lat < -90 || lat > 90 {
		diags = append(diags, fmt.Sprintf("row %d: latitude must be a number between -90 and 90", rowNum))
	}
	lon, ok := parseFinite(row["longitude"])
	if !ok || lon < -180 || lon > 180 {
		diags = append(diags, fmt.Sprintf("row %d: longitude must be a number between -180 and 180", rowNum))
	}

	panel := make(metals.Panel, len(metals.All))
	for _, m := range metals.All {
		conc, ok := parseFinite(row[string(m)])
		if !ok || conc < 0 {
			diags = append(diags, fmt.Sprintf("row %d: %s concentration must be a non-negative number", rowNum, m))
			continue
		}
		panel[m] = conc
	}

	if len(diags) > 0 {
		return sample.Sample{}, diags
	}

	date := strings.TrimSpace(row["sampleDate"])
	if date == "" {
		date = defaultDate
	}
	return sample.Sample{
		ID:         fmt.Sprintf("sample_%d", rowNum),
		Latitude:   lat,
		Longitude:  lon,
		SampleDate: date,
		Metals:     panel,
	}, nil
}

// parseFinite parses a cell as a finite real number. strconv accepts
// "NaN" and "Inf", which are not measurements, so both are rejected.
func parseFinite(cell string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
