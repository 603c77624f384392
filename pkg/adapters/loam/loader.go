// Package loam adapts a Loam document workspace to the TreeLoader port, so
// determination content can live as front-matter documents in a versioned
// workspace with hot reload.
package loam

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/loam"

	"lattice/pkg/adapters/yamlspec"
	"lattice/pkg/domain"
)

// Loader implements ports.TreeLoader over a Loam typed repository whose
// document metadata is a yamlspec.TreeSpec.
type Loader struct {
	Repo *loam.TypedRepository[yamlspec.TreeSpec]

	mu    sync.Mutex
	built map[string]*domain.Tree
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[yamlspec.TreeSpec]) *Loader {
	return &Loader{
		Repo:  repo,
		built: make(map[string]*domain.Tree),
	}
}

// GetTree retrieves a document from the Loam repository and builds it,
// resolving delegate references against other documents in the workspace.
func (l *Loader) GetTree(id string) (*domain.Tree, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.build(context.Background(), id, make(map[string]bool))
}

func (l *Loader) build(ctx context.Context, id string, building map[string]bool) (*domain.Tree, error) {
	if tree, ok := l.built[id]; ok {
		return tree, nil
	}
	if building[id] {
		return nil, fmt.Errorf("delegate cycle detected at tree %q", id)
	}
	building[id] = true
	defer delete(building, id)

	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (loam: %v)", domain.ErrTreeNotFound, id, err)
	}

	spec := doc.Data
	if spec.ID == "" {
		spec.ID = doc.ID
	}

	tree, err := yamlspec.Build(&spec, resolverFunc(func(ref string) (*domain.Tree, error) {
		return l.build(ctx, ref, building)
	}))
	if err != nil {
		return nil, fmt.Errorf("building tree %s: %w", id, err)
	}
	l.built[id] = tree
	return tree, nil
}

// ListTrees lists all tree IDs in the workspace.
func (l *Loader) ListTrees() ([]string, error) {
	ctx := context.Background()
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		id := doc.Data.ID
		if id == "" {
			id = doc.ID
		}
		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: tree %q is defined in both %q and %q", id, existing, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Watch surfaces workspace changes so callers can rebuild. The built-tree
// cache is dropped on every event.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				l.mu.Lock()
				l.built = make(map[string]*domain.Tree)
				l.mu.Unlock()

				select {
				case ch <- evt.ID:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

type resolverFunc func(id string) (*domain.Tree, error)

func (f resolverFunc) GetTree(id string) (*domain.Tree, error) { return f(id) }
