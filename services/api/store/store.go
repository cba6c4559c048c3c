// Package store keeps the most recent assessment batch in memory. An
// upload replaces the whole batch and nothing survives a restart; the
// pipeline is strictly single-batch.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/YASHK-arch/heavy-metal-compass/internal/pipeline"
	"github.com/YASHK-arch/heavy-metal-compass/internal/sample"
)

// ErrNoBatch is returned before the first successful upload.
var ErrNoBatch = errors.New("no batch uploaded yet")

// Batch couples one upload's pipeline report with its identity.
type Batch struct {
	ID         string          `json:"id"`
	Filename   string          `json:"filename"`
	UploadedAt time.Time       `json:"uploaded_at"`
	Report     pipeline.Report `json:"report"`
}

// SampleByID finds one sample of the batch by its synthesized id.
func (b Batch) SampleByID(id string) (sample.Sample, bool) {
	for _, s := range b.Report.Samples {
		if s.ID == id {
			return s, true
		}
	}
	return sample.Sample{}, false
}

// Store guards the current batch for concurrent handlers.
type Store struct {
	mu      sync.RWMutex
	current *Batch
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Replace swaps in a freshly assessed batch, discarding the previous one.
func (s *Store) Replace(b Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &b
}

// Current returns the most recent batch.
func (s *Store) Current() (Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Batch{}, ErrNoBatch
	}
	return *s.current, nil
}
