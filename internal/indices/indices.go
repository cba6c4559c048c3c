// Package indices computes the three pollution indices for a single metal
// panel. All functions are pure: same panel and standards in, same numbers
// out, nothing mutated.
//
// Metals with no entry in the standards table are skipped, not errors. A
// panel matching nothing at all scores 0 on every index.
package indices

import (
	"math"

	"github.com/YASHK-arch/heavy-metal-compass/internal/metals"
	"github.com/YASHK-arch/heavy-metal-compass/internal/sample"
)

// HPI is the heavy-metal pollution index: the weighted mean of per-metal
// sub-indices Qi = (concentration / limit) * 100. The formula stays
// weight-generic even though the default table carries unit weights.
func HPI(panel metals.Panel, std metals.Standards) float64 {
	var weightedSum, weightSum float64
	for _, m := range metals.All {
		conc, entry, ok := matched(panel, std, m)
		if !ok {
			continue
		}
		qi := conc / entry.Limit * 100
		weightedSum += entry.Weight * qi
		weightSum += entry.Weight
	}
	if weightSum == 0 {
		return 0
	}
	return weightedSum / weightSum
}

// PLI is the pollution load index: the geometric mean of per-metal
// contamination factors, (CF1 * CF2 * ... * CFn)^(1/n).
//
// A single zero concentration zeroes the product and therefore the whole
// index. That is the geometric mean doing its job and must not be
// special-cased away.
func PLI(panel metals.Panel, std metals.Standards) float64 {
	product := 1.0
	n := 0
	for _, m := range metals.All {
		conc, entry, ok := matched(panel, std, m)
		if !ok {
			continue
		}
		product *= conc / entry.Limit
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Pow(product, 1/float64(n))
}

// CF is the mean contamination factor: the arithmetic mean of per-metal
// concentration / limit ratios.
func CF(panel metals.Panel, std metals.Standards) float64 {
	var sum float64
	n := 0
	for _, m := range metals.All {
		conc, entry, ok := matched(panel, std, m)
		if !ok {
			continue
		}
		sum += conc / entry.Limit
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// matched resolves one metal against both the panel and the standards
// table. Iteration callers go through metals.All, so results never depend
// on map order.
func matched(panel metals.Panel, std metals.Standards, m metals.Metal) (float64, metals.Standard, bool) {
	conc, ok := panel[m]
	if !ok {
		return 0, metals.Standard{}, false
	}
	entry, ok := std[m]
	if !ok {
		return 0, metals.Standard{}, false
	}
	return conc, entry, true
}

// Classify grades an index pair on the five-step quality scale. Each band
// bounds hpi and pli together and the first band both satisfy wins, so the
// worse of the two indices decides: raising either one can only hold the
// category or push it toward unsuitable.
func Classify(hpi, pli float64) sample.QualityCategory {
	switch {
	case hpi < 25 && pli < 1:
		return sample.Excellent
	case hpi < 50 && pli < 2:
		return sample.Good
	case hpi < 75 && pli < 3:
		return sample.Moderate
	case hpi < 100 && pli < 5:
		return sample.Poor
	default:
		return sample.Unsuitable
	}
}
