package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lattice/internal/testutils"
	"lattice/pkg/adapters/yamlspec"
	"lattice/pkg/domain"
)

const grossIncomeDoc = `---
id: gross_income_test
root: under_limit
nodes:
  under_limit:
    question: "Is the person's gross income under the annual limit?"
    predicate: number_cmp
    params:
      fact: gross_income
      op: lt
      value: 4700
    yes: passes
    no: fails
  passes:
    outcome: passes
  fails:
    outcome: fails
---
The gross income test for qualifying relatives.`

const dependentDoc = `---
id: dependent
root: income
nodes:
  income:
    delegate: gross_income_test
    truthy: [passes]
    yes: support
    no: not_dependent
  support:
    predicate: fact_true
    params:
      fact: provided_half_support
    yes: dependent
    no: not_dependent
  dependent:
    outcome: dependent
  not_dependent:
    outcome: not_dependent
---
The dependent determination.`

func setupLoader(t *testing.T) *Loader {
	t.Helper()
	_, repo := testutils.SetupTestRepo(t)
	ctx := context.Background()

	docs := map[string]string{
		"gross_income_test.md": grossIncomeDoc,
		"dependent.md":         dependentDoc,
	}
	for id, content := range docs {
		require.NoError(t, repo.Save(ctx, core.Document{ID: id, Content: content}))
	}

	typed := loam.NewTypedRepository[yamlspec.TreeSpec](repo)
	return New(typed)
}

func TestLoader_GetTree(t *testing.T) {
	loader := setupLoader(t)

	tree, err := loader.GetTree("gross_income_test")
	require.NoError(t, err)
	assert.Equal(t, "gross_income_test", tree.ID)
	assert.Equal(t, "under_limit", tree.Root.ID)
}

func TestLoader_DelegateAcrossDocuments(t *testing.T) {
	loader := setupLoader(t)

	tree, err := loader.GetTree("dependent")
	require.NoError(t, err)
	require.NotNil(t, tree.Root.Subtree)
	assert.Equal(t, "gross_income_test", tree.Root.Subtree.ID)

	// Built trees are cached; the delegate target resolves to the same
	// immutable tree value.
	direct, err := loader.GetTree("gross_income_test")
	require.NoError(t, err)
	assert.Same(t, direct, tree.Root.Subtree)
}

func TestLoader_ListTrees(t *testing.T) {
	loader := setupLoader(t)

	ids, err := loader.ListTrees()
	require.NoError(t, err)
	assert.Equal(t, []string{"dependent", "gross_income_test"}, ids)
}

func TestLoader_NotFound(t *testing.T) {
	loader := setupLoader(t)

	_, err := loader.GetTree("missing")
	assert.ErrorIs(t, err, domain.ErrTreeNotFound)
}
