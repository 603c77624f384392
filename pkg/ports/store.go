package ports

import (
	"context"

	"lattice/pkg/domain"
)

// EvaluationStore defines the interface for persisting completed
// determinations, so a case's outcome and trace can be retrieved and
// rendered after the fact.
type EvaluationStore interface {
	// Save persists the evaluation under a caller-chosen case ID.
	Save(ctx context.Context, caseID string, eval *domain.Evaluation) error

	// Load retrieves the evaluation for a case ID.
	// Returns domain.ErrEvaluationNotFound if the case does not exist.
	Load(ctx context.Context, caseID string) (*domain.Evaluation, error)

	// Delete removes the evaluation for a case ID.
	Delete(ctx context.Context, caseID string) error

	// List returns the stored case IDs.
	List(ctx context.Context) ([]string, error)
}
