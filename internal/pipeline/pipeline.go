// Package pipeline runs a whole assessment batch: validation, index
// computation, classification and the aggregate views, in one pass.
package pipeline

import (
	"sync"

	"github.com/YASHK-arch/heavy-metal-compass/internal/aggregate"
	"github.com/YASHK-arch/heavy-metal-compass/internal/indices"
	"github.com/YASHK-arch/heavy-metal-compass/internal/metals"
	"github.com/YASHK-arch/heavy-metal-compass/internal/sample"
	"github.com/YASHK-arch/heavy-metal-compass/internal/validate"
)

// Options tunes one batch run.
type Options struct {
	// Standards is the regulatory table indices are computed against.
	// Nil means the built-in WHO table.
	Standards metals.Standards
	// DefaultDate fills rows that omit sampleDate (YYYY-MM-DD). Empty
	// means the date of the run.
	DefaultDate string
	// Workers caps the goroutines enriching samples. Values below 2 run
	// the batch sequentially; results are identical either way.
	Workers int
	// TopK is how many top pollutants to rank per sample. Non-positive
	// values use the package default of 2.
	TopK int
}

// Report is the complete outcome of one batch run: the enriched samples,
// everything the validator complained about, and the four aggregate views.
// A new upload produces a whole new Report; nothing is merged.
type Report struct {
	Samples            []sample.Sample           `json:"samples"`
	Diagnostics        []string                  `json:"diagnostics"`
	Valid              bool                      `json:"valid"`
	Summary            *aggregate.Summary        `json:"summary,omitempty"`
	Distribution       []aggregate.CategoryCount `json:"distribution"`
	MeanConcentrations map[metals.Metal]float64  `json:"mean_concentrations"`
	TopPollutants      map[string][]metals.Metal `json:"top_pollutants"`
}

// Run validates the raw rows, computes indices and a quality category for
// every accepted sample, and assembles the aggregate views. Summary stays
// nil when no sample survived validation.
func Run(rows []sample.RawRecord, opts Options) Report {
	std := opts.Standards
	if std == nil {
		std = metals.Default()
	}

	accepted, diags := validate.Validate(rows, validate.Options{DefaultDate: opts.DefaultDate})
	enriched := Enrich(accepted, std, opts.Workers)

	report := Report{
		Samples:            enriched,
		Diagnostics:        diags,
		Valid:              len(diags) == 0,
		Distribution:       aggregate.QualityDistribution(enriched),
		MeanConcentrations: aggregate.MeanConcentrationByMetal(enriched),
		TopPollutants:      rankPollutants(enriched, opts.TopK),
	}
	if summary, err := aggregate.SummaryStats(enriched); err == nil {
		report.Summary = &summary
	}
	return report
}

// Enrich returns a new slice where every sample carries freshly computed
// results; the input samples are not touched. Samples are independent of
// one another, so with workers > 1 the batch fans out across goroutines,
// each writing its own slot so order is preserved.
func Enrich(samples []sample.Sample, std metals.Standards, workers int) []sample.Sample {
	out := make([]sample.Sample, len(samples))
	if workers < 2 || len(samples) < 2 {
		for i, s := range samples {
			out[i] = enrichOne(s, std)
		}
		return out
	}

	slots := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, s := range samples {
		wg.Add(1)
		go func(i int, s sample.Sample) {
			defer wg.Done()
			slots <- struct{}{}
			out[i] = enrichOne(s, std)
			<-slots
		}(i, s)
	}
	wg.Wait()
	return out
}

func enrichOne(s sample.Sample, std metals.Standards) sample.Sample {
	hpi := indices.HPI(s.Metals, std)
	pli := indices.PLI(s.Metals, std)
	return s.Enriched(sample.Results{
		HPI:      hpi,
		PLI:      pli,
		CF:       indices.CF(s.Metals, std),
		Category: indices.Classify(hpi, pli),
	})
}

// rankPollutants maps each enriched sample's id to its top-k pollutants.
func rankPollutants(samples []sample.Sample, k int) map[string][]metals.Metal {
	out := make(map[string][]metals.Metal, len(samples))
	for _, s := range aggregate.WithResults(samples) {
		out[s.ID] = aggregate.TopPollutants(s, k)
	}
	return out
}
