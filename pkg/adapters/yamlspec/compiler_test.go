package yamlspec_test

import (
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lattice/pkg/adapters/yamlspec"
	"lattice/pkg/domain"
	"lattice/pkg/ports"
)

const grossIncomeDoc = `
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
`

const dependentDoc = `
id: dependent
root: income
nodes:
  income:
    question: "Does the person pass the gross income test?"
    delegate: gross_income_test
    truthy: [passes]
    yes: support
    no: not_dependent
  support:
    question: "Did you provide over half the person's support?"
    predicate: fact_true
    params:
      fact: provided_half_support
    yes: dependent
    no: not_dependent
  dependent:
    outcome: dependent
  not_dependent:
    outcome: not_dependent
`

func TestCompile(t *testing.T) {
	tree, err := yamlspec.Compile([]byte(grossIncomeDoc), nil)
	require.NoError(t, err)

	assert.Equal(t, "gross_income_test", tree.ID)
	assert.Equal(t, "under_limit", tree.Root.ID)
	assert.Len(t, tree.Nodes(), 3)
	assert.Equal(t, "number_cmp", tree.Root.Condition.Predicate)
}

func TestCompile_MalformedDocument(t *testing.T) {
	doc := `
id: broken
root: q
nodes:
  q:
    predicate: fact_true
    params: {fact: x}
    yes: missing
    no: also_missing
`
	_, err := yamlspec.Compile([]byte(doc), nil)
	var malformed *domain.MalformedTreeError
	require.ErrorAs(t, err, &malformed)
}

func TestCompile_UnknownField(t *testing.T) {
	_, err := yamlspec.Compile([]byte("id: x\nbogus: true\n"), nil)
	assert.Error(t, err)
}

func TestCompile_DelegateWithoutResolver(t *testing.T) {
	_, err := yamlspec.Compile([]byte(dependentDoc), nil)
	assert.ErrorContains(t, err, "no resolver")
}

func TestLoader_ResolvesDelegates(t *testing.T) {
	fsys := fstest.MapFS{
		"trees/gross_income.yaml": {Data: []byte(grossIncomeDoc)},
		"trees/dependent.yaml":    {Data: []byte(dependentDoc)},
	}

	loader, err := yamlspec.NewLoader(fsys, "trees")
	require.NoError(t, err)

	var _ ports.TreeLoader = loader

	ids, err := loader.ListTrees()
	require.NoError(t, err)
	assert.Equal(t, []string{"dependent", "gross_income_test"}, ids)

	tree, err := loader.GetTree("dependent")
	require.NoError(t, err)
	require.NotNil(t, tree.Root.Subtree)
	assert.Equal(t, "gross_income_test", tree.Root.Subtree.ID)
	assert.Equal(t, []domain.Outcome{"passes"}, tree.Root.Truthy)
}

func TestLoader_DelegateCycle(t *testing.T) {
	a := `
id: a
root: q
nodes:
  q:
    delegate: b
    truthy: [in]
    yes: y
    no: n
  y: {outcome: in}
  n: {outcome: out}
`
	b := `
id: b
root: q
nodes:
  q:
    delegate: a
    truthy: [in]
    yes: y
    no: n
  y: {outcome: in}
  n: {outcome: out}
`
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte(a)},
		"b.yaml": {Data: []byte(b)},
	}

	loader, err := yamlspec.NewLoader(fsys, ".")
	require.NoError(t, err)

	_, err = loader.GetTree("a")
	assert.ErrorContains(t, err, "cycle")
}

func TestLoader_ConcurrentGetTree(t *testing.T) {
	fsys := fstest.MapFS{
		"trees/gross_income.yaml": {Data: []byte(grossIncomeDoc)},
		"trees/dependent.yaml":    {Data: []byte(dependentDoc)},
	}

	loader, err := yamlspec.NewLoader(fsys, "trees")
	require.NoError(t, err)

	// Concurrent first builds must not race on the lazy cache; run with -race.
	const workers = 8
	trees := make([]*domain.Tree, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tree, err := loader.GetTree("dependent")
			assert.NoError(t, err)
			trees[i] = tree
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, trees[0], trees[i])
	}
}

func TestLoader_UnknownTree(t *testing.T) {
	loader, err := yamlspec.NewLoader(fstest.MapFS{}, ".")
	require.NoError(t, err)

	_, err = loader.GetTree("nope")
	assert.ErrorIs(t, err, domain.ErrTreeNotFound)
}
