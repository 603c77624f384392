// Package trace provides the per-evaluation trace recorder.
//
// A Recorder is scoped to exactly one evaluation and is never shared across
// goroutines; the engine creates one per Evaluate call and finalizes it into
// the returned Evaluation. It is standalone (not tree-local state) so that a
// delegating node can run a nested evaluation and splice its entries into
// the parent trace as a single contiguous, step-indexed sequence.
package trace

import "lattice/pkg/domain"

// Recorder accumulates trace entries in visit order, assigning contiguous
// step indices starting at 0.
type Recorder struct {
	entries []domain.TraceEntry
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one entry, stamping it with the next step index, which it
// returns.
func (r *Recorder) Record(e domain.TraceEntry) int {
	e.Step = len(r.entries)
	r.entries = append(r.entries, e)
	return e.Step
}

// Splice merges a nested evaluation's entries inline, renumbering them so the
// combined trace stays contiguous. Entries after the splice continue from the
// nested trace's end.
func (r *Recorder) Splice(sub []domain.TraceEntry) {
	for _, e := range sub {
		r.Record(e)
	}
}

// Len returns the number of entries recorded so far.
func (r *Recorder) Len() int {
	return len(r.entries)
}

// Finalize returns the ordered entries. The returned slice is a copy; the
// recorder can be discarded afterwards.
func (r *Recorder) Finalize() []domain.TraceEntry {
	out := make([]domain.TraceEntry, len(r.entries))
	copy(out, r.entries)
	return out
}
