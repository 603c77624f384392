package lattice

import (
	"context"
	"fmt"
	"log/slog"

	"lattice/internal/logging"
	"lattice/internal/runtime"
	"lattice/pkg/adapters/memory"
	"lattice/pkg/catalog"
	"lattice/pkg/domain"
	"lattice/pkg/ports"
	"lattice/pkg/worksheet"
)

// Engine is the high-level entry point for the lattice library.
// It wraps the internal runtime and provides a simplified API for consumers:
// trees resolved by ID through a loader, evaluations optionally persisted
// through a store, and threshold tables for the numeric worksheets.
type Engine struct {
	runtime     *runtime.Engine
	loader      ports.TreeLoader
	store       ports.EvaluationStore
	table       *worksheet.Table
	logger      *slog.Logger
	runtimeOpts []runtime.EngineOption
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom TreeLoader, bypassing the built-in catalog.
func WithLoader(l ports.TreeLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithStore injects an EvaluationStore used by EvaluateCase.
func WithStore(s ports.EvaluationStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithTable sets the year's threshold table (default: worksheet.DefaultTable).
func WithTable(t *worksheet.Table) Option {
	return func(e *Engine) {
		e.table = t
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithConditionEvaluator sets a custom predicate evaluator for the runtime.
func WithConditionEvaluator(eval runtime.ConditionEvaluator) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithEvaluator(eval))
	}
}

// New initializes a lattice Engine. Without options it serves the built-in
// catalog trees with the default threshold table, keeps evaluations in
// memory, and stays quiet.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		table:  worksheet.DefaultTable(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		loader, err := catalog.NewLoader(eng.table)
		if err != nil {
			return nil, fmt.Errorf("building catalog: %w", err)
		}
		eng.loader = loader
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	eng.runtime = runtime.NewEngine(append([]runtime.EngineOption{
		runtime.WithLogger(eng.logger),
	}, eng.runtimeOpts...)...)
	return eng, nil
}

// Evaluate resolves a tree by ID and evaluates it against the fact set.
func (e *Engine) Evaluate(treeID string, facts *domain.FactSet) (*domain.Evaluation, error) {
	tree, err := e.loader.GetTree(treeID)
	if err != nil {
		return nil, err
	}
	return e.runtime.Evaluate(tree, facts)
}

// EvaluateTree evaluates an already-built tree, bypassing the loader.
func (e *Engine) EvaluateTree(tree *domain.Tree, facts *domain.FactSet) (*domain.Evaluation, error) {
	return e.runtime.Evaluate(tree, facts)
}

// EvaluateCase evaluates a tree and persists the result under caseID, so
// the determination can be retrieved and rendered later.
func (e *Engine) EvaluateCase(ctx context.Context, caseID, treeID string, facts *domain.FactSet) (*domain.Evaluation, error) {
	eval, err := e.Evaluate(treeID, facts)
	if err != nil {
		return nil, err
	}
	if err := e.store.Save(ctx, caseID, eval); err != nil {
		return nil, fmt.Errorf("persisting case %s: %w", caseID, err)
	}
	e.logger.Info("case evaluated", "case", caseID, "tree", treeID, "outcome", eval.Outcome)
	return eval, nil
}

// Case retrieves a previously stored evaluation.
func (e *Engine) Case(ctx context.Context, caseID string) (*domain.Evaluation, error) {
	return e.store.Load(ctx, caseID)
}

// Cases lists stored case IDs.
func (e *Engine) Cases(ctx context.Context) ([]string, error) {
	return e.store.List(ctx)
}

// Tree resolves a tree by ID.
func (e *Engine) Tree(id string) (*domain.Tree, error) {
	return e.loader.GetTree(id)
}

// Trees lists the available tree IDs.
func (e *Engine) Trees() ([]string, error) {
	return e.loader.ListTrees()
}

// Table returns the threshold table in use.
func (e *Engine) Table() *worksheet.Table {
	return e.table
}
