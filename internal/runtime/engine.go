// Package runtime contains the decision-tree traversal engine. It walks an
// immutable tree with a caller-supplied fact set, consulting the predicate
// evaluator at each internal node and recording the path into a trace
// recorder, until a terminal outcome is reached.
package runtime

import (
	"io"
	"log/slog"

	"lattice/internal/trace"
	"lattice/pkg/domain"
	"lattice/pkg/predicate"
)

// ConditionEvaluator answers one condition against a fact set. The predicate
// registry satisfies this; tests may substitute their own.
type ConditionEvaluator interface {
	Evaluate(cond domain.Condition, facts *domain.FactSet) (bool, string, error)
}

// Engine evaluates decision trees. It holds no per-evaluation state, so one
// engine serves unlimited concurrent evaluations.
type Engine struct {
	evaluator ConditionEvaluator
	logger    *slog.Logger
	maxDepth  int
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithEvaluator replaces the default predicate registry.
func WithEvaluator(ev ConditionEvaluator) EngineOption {
	return func(e *Engine) {
		if ev != nil {
			e.evaluator = ev
		}
	}
}

// WithLogger sets a structured logger for per-node debug output.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxDepth sets the fallback depth bound used when a tree declares none.
func WithMaxDepth(d int) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.maxDepth = d
		}
	}
}

// NewEngine creates an engine. Without options it uses the built-in
// predicate registry and discards logs.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		evaluator: predicate.NewEvaluator(),
		logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
		maxDepth:  64,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate walks the tree from its root. It either returns a complete
// Evaluation (outcome plus full trace) or fails atomically: on error no
// partial trace is exposed, and the error locates the failing node and step.
func (e *Engine) Evaluate(tree *domain.Tree, facts *domain.FactSet) (*domain.Evaluation, error) {
	rec := trace.NewRecorder()
	outcome, err := e.walk(tree, facts, rec)
	if err != nil {
		return nil, err
	}
	return &domain.Evaluation{
		TreeID:  tree.ID,
		Outcome: outcome,
		Trace:   rec.Finalize(),
	}, nil
}

func (e *Engine) walk(tree *domain.Tree, facts *domain.FactSet, rec *trace.Recorder) (domain.Outcome, error) {
	maxDepth := tree.MaxDepth
	if maxDepth <= 0 {
		maxDepth = e.maxDepth
	}

	node := tree.Root
	for depth := 0; ; depth++ {
		if depth > maxDepth {
			return "", &domain.DepthExceededError{
				TreeID:   tree.ID,
				NodeID:   node.ID,
				MaxDepth: maxDepth,
				Step:     rec.Len(),
			}
		}

		if node.IsLeaf() {
			step := rec.Record(domain.TraceEntry{
				TreeID:      tree.ID,
				NodeID:      node.ID,
				Description: node.Describe(),
				Branch:      domain.BranchOutcome,
				Outcome:     node.Outcome,
			})
			e.logger.Debug("reached outcome", "tree", tree.ID, "node", node.ID,
				"outcome", node.Outcome, "step", step)
			return node.Outcome, nil
		}

		answer, rationale, err := e.answer(tree, node, facts, rec)
		if err != nil {
			return "", &domain.EvaluationError{
				TreeID: tree.ID,
				NodeID: node.ID,
				Step:   rec.Len(),
				Err:    err,
			}
		}

		branch := domain.BranchNo
		next := node.No
		if answer {
			branch = domain.BranchYes
			next = node.Yes
		}
		rec.Record(domain.TraceEntry{
			TreeID:      tree.ID,
			NodeID:      node.ID,
			Description: node.Describe(),
			Branch:      branch,
			Rationale:   rationale,
		})
		e.logger.Debug("answered", "tree", tree.ID, "node", node.ID, "answer", answer)

		node = next
	}
}

// answer resolves one internal node: either a predicate call or a delegated
// sub-tree evaluation. For delegation the nested entries are spliced into the
// parent trace first, so they sit contiguously before the delegating node's
// own entry and step indices stay linear.
func (e *Engine) answer(tree *domain.Tree, node *domain.Node, facts *domain.FactSet, rec *trace.Recorder) (bool, string, error) {
	if node.Subtree != nil {
		sub, err := e.Evaluate(node.Subtree, facts)
		if err != nil {
			return false, "", err
		}
		rec.Splice(sub.Trace)
		answer := node.TruthyOutcome(sub.Outcome)
		rationale := "sub-tree " + node.Subtree.ID + " resolved to " + string(sub.Outcome)
		return answer, rationale, nil
	}
	return e.evaluator.Evaluate(*node.Condition, facts)
}
