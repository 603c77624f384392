package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lattice/pkg/domain"
)

// RunEvaluationStoreContract runs a suite of tests verifying that an
// EvaluationStore implementation adheres to the interface contract. Adapter
// test files call this against their own backend.
func RunEvaluationStoreContract(t *testing.T, store EvaluationStore) {
	ctx := context.Background()
	caseID := "contract-test-case-" + time.Now().Format("20060102150405")

	sample := &domain.Evaluation{
		TreeID:  "qualifying_relative",
		Outcome: "dependent",
		Trace: []domain.TraceEntry{
			{Step: 0, TreeID: "qualifying_relative", NodeID: "gross_income", Branch: domain.BranchNo,
				Rationale: "gross_income 4200 >= threshold 4700: false"},
			{Step: 1, TreeID: "qualifying_relative", NodeID: "is_dependent", Branch: domain.BranchOutcome,
				Outcome: "dependent"},
		},
	}

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, caseID, sample)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, caseID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sample.TreeID, loaded.TreeID)
		assert.Equal(t, sample.Outcome, loaded.Outcome)
		assert.Equal(t, sample.Trace, loaded.Trace)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+caseID)
		assert.ErrorIs(t, err, domain.ErrEvaluationNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, caseID, sample)
		require.NoError(t, err)

		err = store.Delete(ctx, caseID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, caseID)
		assert.ErrorIs(t, err, domain.ErrEvaluationNotFound, "Load after Delete should return ErrEvaluationNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := caseID + "-1"
		id2 := caseID + "-2"
		require.NoError(t, store.Save(ctx, id1, sample))
		require.NoError(t, store.Save(ctx, id2, sample))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		cases, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, cases, id1)
		assert.Contains(t, cases, id2)
	})
}
