package yamlspec

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"lattice/pkg/domain"
)

// Loader implements ports.TreeLoader over a filesystem of YAML tree
// documents. All documents are parsed eagerly; building happens lazily per
// tree, so a document may delegate to any other document in the set.
// Safe for concurrent use once constructed.
type Loader struct {
	specs map[string]*TreeSpec

	mu    sync.Mutex
	built map[string]*domain.Tree
}

// NewLoader reads every .yaml/.yml file under root in fsys. File names do
// not matter; trees are keyed by the id field in each document.
func NewLoader(fsys fs.FS, root string) (*Loader, error) {
	l := &Loader{
		specs: make(map[string]*TreeSpec),
		built: make(map[string]*domain.Tree),
	}

	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(path.Ext(p))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		spec, err := Parse(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", p, err)
		}
		if _, exists := l.specs[spec.ID]; exists {
			return fmt.Errorf("tree %q defined more than once (last in %s)", spec.ID, p)
		}
		l.specs[spec.ID] = spec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetTree builds (or returns the cached) tree for an ID, resolving delegate
// references against the other documents in the set.
func (l *Loader) GetTree(id string) (*domain.Tree, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.build(id, make(map[string]bool))
}

// ListTrees returns the IDs of every document, sorted.
func (l *Loader) ListTrees() ([]string, error) {
	ids := make([]string, 0, len(l.specs))
	for id := range l.specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (l *Loader) build(id string, building map[string]bool) (*domain.Tree, error) {
	if tree, ok := l.built[id]; ok {
		return tree, nil
	}
	spec, ok := l.specs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTreeNotFound, id)
	}
	if building[id] {
		return nil, fmt.Errorf("delegate cycle detected at tree %q", id)
	}
	building[id] = true
	defer delete(building, id)

	tree, err := Build(spec, resolverFunc(func(ref string) (*domain.Tree, error) {
		return l.build(ref, building)
	}))
	if err != nil {
		return nil, err
	}
	l.built[id] = tree
	return tree, nil
}

type resolverFunc func(id string) (*domain.Tree, error)

func (f resolverFunc) GetTree(id string) (*domain.Tree, error) { return f(id) }
