// Package sample holds the data types shared across the assessment
// pipeline: raw uploaded rows, validated samples and their computed
// pollution results.
package sample

import (
	"github.com/YASHK-arch/heavy-metal-compass/internal/metals"
)

// RawRecord is one unvalidated upload row, keyed by column name exactly as
// it appeared in the file header. Columns the pipeline does not recognize
// are carried along and ignored.
type RawRecord map[string]string

// QualityCategory grades a sample's overall water quality.
type QualityCategory string

// Quality grades from best to worst.
const (
	Excellent  QualityCategory = "excellent"
	Good       QualityCategory = "good"
	Moderate   QualityCategory = "moderate"
	Poor       QualityCategory = "poor"
	Unsuitable QualityCategory = "unsuitable"
)

// Categories lists the quality grades from best to worst.
var Categories = []QualityCategory{Excellent, Good, Moderate, Poor, Unsuitable}

// Rank places a category on the best-to-worst scale, Excellent being 0.
// Anything unknown ranks past Unsuitable.
func (c QualityCategory) Rank() int {
	for i, known := range Categories {
		if known == c {
			return i
		}
	}
	return len(Categories)
}

// Results carries the pollution indices computed for one sample. A Results
// value is immutable once attached; recomputing produces a fresh copy.
type Results struct {
	HPI      float64         `json:"hpi"`
	PLI      float64         `json:"pli"`
	CF       float64         `json:"cf"`
	Category QualityCategory `json:"quality_category"`
}

// Sample is one validated groundwater observation.
type Sample struct {
	ID         string       `json:"id"`
	Latitude   float64      `json:"latitude"`
	Longitude  float64      `json:"longitude"`
	SampleDate string       `json:"sample_date"`
	Metals     metals.Panel `json:"metals"`
	Results    *Results     `json:"results,omitempty"`
}

// Enriched returns a copy of the sample carrying the given results. The
// receiver is left untouched.
func (s Sample) Enriched(r Results) Sample {
	s.Results = &r
	return s
}
