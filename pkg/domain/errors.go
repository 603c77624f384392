package domain

import (
	"errors"
	"fmt"
)

// ErrEvaluationNotFound is returned when a case ID cannot be found in a store.
var ErrEvaluationNotFound = errors.New("evaluation not found")

// ErrTreeNotFound is returned when a tree ID cannot be resolved by a loader.
var ErrTreeNotFound = errors.New("tree not found")

// MissingFactError reports a condition that required a fact absent from the
// fact set.
type MissingFactError struct {
	Field  string
	NodeID string
}

func (e *MissingFactError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("node %q requires missing fact %q", e.NodeID, e.Field)
	}
	return fmt.Sprintf("missing fact %q", e.Field)
}

// TypeMismatchError reports a fact whose stored kind is incompatible with the
// condition consuming it.
type TypeMismatchError struct {
	Field  string
	Want   FactKind
	Got    FactKind
	NodeID string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("fact %q has kind %s, want %s", e.Field, e.Got, e.Want)
}

// MalformedTreeError reports a structural defect found during tree
// construction: a missing child, a dangling reference, or a cycle.
type MalformedTreeError struct {
	TreeID string
	NodeID string
	Reason string
}

func (e *MalformedTreeError) Error() string {
	return fmt.Sprintf("malformed tree %q at node %q: %s", e.TreeID, e.NodeID, e.Reason)
}

// DepthExceededError reports a traversal that ran past the tree's configured
// maximum depth. The builder rejects cyclic structures, so hitting this at
// evaluation time indicates a defect, not bad user input.
type DepthExceededError struct {
	TreeID   string
	NodeID   string
	MaxDepth int
	Step     int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("evaluation of tree %q exceeded max depth %d at node %q (step %d)",
		e.TreeID, e.MaxDepth, e.NodeID, e.Step)
}

// NegativeInputError reports a worksheet figure that must be non-negative.
type NegativeInputError struct {
	Field string
	Value float64
}

func (e *NegativeInputError) Error() string {
	return fmt.Sprintf("%s must be non-negative, got %v", e.Field, e.Value)
}

// EvaluationError wraps a failure that occurred mid-traversal. No partial
// trace is exposed; Step locates where the walk stopped.
type EvaluationError struct {
	TreeID string
	NodeID string
	Step   int
	Err    error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation of tree %q failed at node %q (step %d): %v",
		e.TreeID, e.NodeID, e.Step, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
