package yamlspec

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"lattice/pkg/domain"
	"lattice/pkg/dsl"
)

// Resolver resolves a delegate reference to an already-built tree. A
// ports.TreeLoader satisfies this.
type Resolver interface {
	GetTree(id string) (*domain.Tree, error)
}

// Parse decodes one YAML document into a TreeSpec without building it.
// Unknown fields are rejected.
func Parse(data []byte) (*TreeSpec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var spec TreeSpec
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("failed to parse tree document: %w", err)
	}
	if spec.ID == "" {
		return nil, fmt.Errorf("tree document missing id")
	}
	return &spec, nil
}

// Compile parses a YAML document and builds the tree. Delegate references
// are resolved through the resolver; pass nil when the document has none.
func Compile(data []byte, resolver Resolver) (*domain.Tree, error) {
	spec, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Build(spec, resolver)
}

// Build turns a parsed spec into a validated tree.
func Build(spec *TreeSpec, resolver Resolver) (*domain.Tree, error) {
	b := dsl.New(spec.ID)
	if spec.MaxDepth > 0 {
		b.MaxDepth(spec.MaxDepth)
	}
	if spec.Root != "" {
		b.Root(spec.Root)
	}

	for id, ns := range spec.Nodes {
		nb := b.Add(id)
		if ns.Question != "" {
			nb.Describe(ns.Question)
		}
		if ns.Predicate != "" {
			nb.Ask(ns.Predicate, ns.Params)
		}
		if ns.Delegate != "" {
			if resolver == nil {
				return nil, fmt.Errorf("node %s delegates to %q but no resolver was given", id, ns.Delegate)
			}
			sub, err := resolver.GetTree(ns.Delegate)
			if err != nil {
				return nil, fmt.Errorf("node %s: resolving delegate %q: %w", id, ns.Delegate, err)
			}
			truthy := make([]domain.Outcome, len(ns.Truthy))
			for i, o := range ns.Truthy {
				truthy[i] = domain.Outcome(o)
			}
			nb.Delegate(sub, truthy...)
		}
		if ns.Yes != "" {
			nb.Yes(ns.Yes)
		}
		if ns.No != "" {
			nb.No(ns.No)
		}
		if ns.Outcome != "" {
			nb.Outcome(domain.Outcome(ns.Outcome))
		}
	}

	return b.Build()
}
