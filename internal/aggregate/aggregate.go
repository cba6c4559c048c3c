// Package aggregate builds the batch-level views over samples that carry
// computed results: summary statistics, the quality distribution, per-metal
// means and per-sample pollutant rankings.
package aggregate

import (
	"errors"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/YASHK-arch/heavy-metal-compass/internal/metals"
	"github.com/YASHK-arch/heavy-metal-compass/internal/sample"
)

// DefaultTopK is how many pollutants TopPollutants reports when the caller
// does not ask for a specific count.
const DefaultTopK = 2

// ErrNoResults is returned when an aggregate needs at least one sample with
// computed results and the filtered batch is empty.
var ErrNoResults = errors.New("no samples with computed results")

// WithResults narrows a batch to the samples whose indices have been
// computed. Every aggregate in this package starts from this one filter.
func WithResults(in []sample.Sample) []sample.Sample {
	out := make([]sample.Sample, 0, len(in))
	for _, s := range in {
		if s.Results != nil {
			out = append(out, s)
		}
	}
	return out
}

// RangeStat summarizes one index across a batch.
type RangeStat struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Summary carries the batch-level HPI and PLI statistics.
type Summary struct {
	HPI RangeStat `json:"hpi"`
	PLI RangeStat `json:"pli"`
}

// SummaryStats computes min, max and mean of HPI and PLI across the batch.
func SummaryStats(samples []sample.Sample) (Summary, error) {
	filtered := WithResults(samples)
	if len(filtered) == 0 {
		return Summary{}, ErrNoResults
	}
	hpis := make([]float64, len(filtered))
	plis := make([]float64, len(filtered))
	for i, s := range filtered {
		hpis[i] = s.Results.HPI
		plis[i] = s.Results.PLI
	}
	return Summary{HPI: rangeStat(hpis), PLI: rangeStat(plis)}, nil
}

// rangeStat folds a non-empty series into its extrema and mean. The stats
// helpers only error on empty input, which the callers rule out.
func rangeStat(series []float64) RangeStat {
	min, _ := stats.Min(series)
	max, _ := stats.Max(series)
	avg, _ := stats.Mean(series)
	return RangeStat{Min: min, Max: max, Avg: avg}
}

// CategoryCount is one row of the quality distribution.
type CategoryCount struct {
	Category   sample.QualityCategory `json:"category"`
	Count      int                    `json:"count"`
	Percentage float64                `json:"percentage"`
}

// QualityDistribution groups the batch by quality category. Rows come out
// in first-seen order, not best-to-worst; callers wanting the canonical
// order re-sort by Category.Rank. Percentages are rounded to one decimal.
func QualityDistribution(samples []sample.Sample) []CategoryCount {
	filtered := WithResults(samples)
	counts := make(map[sample.QualityCategory]int, len(sample.Categories))
	order := make([]sample.QualityCategory, 0, len(sample.Categories))
	for _, s := range filtered {
		cat := s.Results.Category
		if _, seen := counts[cat]; !seen {
			order = append(order, cat)
		}
		counts[cat]++
	}
	out := make([]CategoryCount, 0, len(order))
	for _, cat := range order {
		pct := float64(counts[cat]) / float64(len(filtered)) * 100
		out = append(out, CategoryCount{
			Category:   cat,
			Count:      counts[cat],
			Percentage: math.Round(pct*10) / 10,
		})
	}
	return out
}

// MeanConcentrationByMetal averages each metal's concentration across the
// batch. Metals missing from every sample are left out of the result.
func MeanConcentrationByMetal(samples []sample.Sample) map[metals.Metal]float64 {
	filtered := WithResults(samples)
	out := make(map[metals.Metal]float64, len(metals.All))
	for _, m := range metals.All {
		series := make([]float64, 0, len(filtered))
		for _, s := range filtered {
			if conc, ok := s.Metals[m]; ok {
				series = append(series, conc)
			}
		}
		if len(series) == 0 {
			continue
		}
		mean, _ := stats.Mean(series)
		out[m] = mean
	}
	return out
}

// TopPollutants ranks one sample's metals by concentration, highest first,
// and returns the top k symbols. Ties keep canonical panel order. k <= 0
// falls back to DefaultTopK.
func TopPollutants(s sample.Sample, k int) []metals.Metal {
	if k <= 0 {
		k = DefaultTopK
	}
	ranked := make([]metals.Metal, 0, len(metals.All))
	for _, m := range metals.All {
		if _, ok := s.Metals[m]; ok {
			ranked = append(ranked, m)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return s.Metals[ranked[i]] > s.Metals[ranked[j]]
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
