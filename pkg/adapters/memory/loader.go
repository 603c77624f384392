package memory

import (
	"fmt"
	"sort"
	"sync"

	"lattice/pkg/domain"
)

// Loader implements ports.TreeLoader over an in-memory catalog of built
// trees. Trees are immutable after construction, so no copying is needed.
type Loader struct {
	trees map[string]*domain.Tree
	mu    sync.RWMutex
}

// NewLoader creates a loader holding the given trees.
func NewLoader(trees ...*domain.Tree) (*Loader, error) {
	l := &Loader{trees: make(map[string]*domain.Tree)}
	for _, tree := range trees {
		if err := l.Register(tree); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Register adds a tree to the catalog. IDs must be unique.
func (l *Loader) Register(tree *domain.Tree) error {
	if tree == nil || tree.ID == "" {
		return fmt.Errorf("tree missing ID")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.trees[tree.ID]; exists {
		return fmt.Errorf("tree already registered: %s", tree.ID)
	}
	l.trees[tree.ID] = tree
	return nil
}

// GetTree returns the tree for an ID.
func (l *Loader) GetTree(id string) (*domain.Tree, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tree, ok := l.trees[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTreeNotFound, id)
	}
	return tree, nil
}

// ListTrees returns all available tree IDs.
func (l *Loader) ListTrees() ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]string, 0, len(l.trees))
	for id := range l.trees {
		ids = append(ids, id)
	}
	sort.Strings(ids) // Deterministic order
	return ids, nil
}
