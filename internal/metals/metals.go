// Package metals defines the heavy metals tracked per groundwater sample
// and the regulatory standards their concentrations are judged against.
package metals

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Metal identifies one tracked heavy metal by its chemical symbol.
type Metal string

// The nine metals every sample panel reports.
const (
	As Metal = "As"
	Cd Metal = "Cd"
	Cr Metal = "Cr"
	Cu Metal = "Cu"
	Fe Metal = "Fe"
	Mn Metal = "Mn"
	Ni Metal = "Ni"
	Pb Metal = "Pb"
	Zn Metal = "Zn"
)

// All lists the tracked metals in canonical panel order. Every iteration
// over a panel or standards table goes through this slice so that derived
// values and tie-breaks come out the same on every run.
var All = []Metal{As, Cd, Cr, Cu, Fe, Mn, Ni, Pb, Zn}

// Panel maps a metal to its measured concentration in mg/L.
type Panel map[Metal]float64

// Standard is the regulatory entry for one metal: the permissible
// concentration in mg/L and the weight its sub-index carries in weighted
// aggregations.
type Standard struct {
	Limit  float64 `json:"limit" yaml:"limit"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Standards maps metals to their regulatory standard. A table is loaded
// once and treated as read-only; callers wanting different limits build or
// load their own table rather than mutating a shared one.
type Standards map[Metal]Standard

// Default returns the WHO drinking-water guideline table with unit weights.
// Each call builds a fresh table.
func Default() Standards {
	return Standards{
		As: {Limit: 0.01, Weight: 1.0},
		Cd: {Limit: 0.003, Weight: 1.0},
		Cr: {Limit: 0.05, Weight: 1.0},
		Cu: {Limit: 2.0, Weight: 1.0},
		Fe: {Limit: 0.3, Weight: 1.0},
		Mn: {Limit: 0.1, Weight: 1.0},
		Ni: {Limit: 0.07, Weight: 1.0},
		Pb: {Limit: 0.01, Weight: 1.0},
		Zn: {Limit: 3.0, Weight: 1.0},
	}
}

// Load parses a standards table from YAML. Keys are metal symbols, values
// carry limit and weight:
//
//	Pb:
//	  limit: 0.01
//	  weight: 1.0
//
// Symbols outside the tracked panel are rejected so a typo cannot silently
// drop a metal from every index.
func Load(data []byte) (Standards, error) {
	raw := map[string]Standard{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse standards: %w", err)
	}
	std := make(Standards, len(raw))
	for symbol, entry := range raw {
		m := Metal(symbol)
		if !tracked(m) {
			return nil, fmt.Errorf("unknown metal %q in standards", symbol)
		}
		if entry.Limit <= 0 {
			return nil, fmt.Errorf("standard for %s: limit must be positive, got %v", m, entry.Limit)
		}
		if entry.Weight <= 0 {
			return nil, fmt.Errorf("standard for %s: weight must be positive, got %v", m, entry.Weight)
		}
		std[m] = entry
	}
	if len(std) == 0 {
		return nil, fmt.Errorf("standards table is empty")
	}
	return std, nil
}

// LoadFile reads a YAML standards table from disk.
func LoadFile(path string) (Standards, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read standards file: %w", err)
	}
	std, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return std, nil
}

func tracked(m Metal) bool {
	for _, known := range All {
		if known == m {
			return true
		}
	}
	return false
}
