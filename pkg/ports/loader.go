package ports

import "lattice/pkg/domain"

// TreeLoader defines how callers resolve decision trees by ID.
// This allows the content source (in-memory catalog, YAML files, Loam) to be
// decoupled from the engine.
type TreeLoader interface {
	// GetTree returns the built, immutable tree for an ID.
	// It returns domain.ErrTreeNotFound if no such tree exists.
	GetTree(id string) (*domain.Tree, error)

	// ListTrees returns the IDs of every available tree, sorted.
	// This backs introspection and the graph rendering tools.
	ListTrees() ([]string, error)
}
