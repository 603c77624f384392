// Package dsl provides a fluent builder for assembling decision trees in Go
// code. Tree content reads top-down, one node per statement:
//
//	b := dsl.New("qualifying_child")
//	b.Root("relationship").
//		Describe("Is the person your child, sibling, or a descendant of either?").
//		Ask(predicate.CategoryIn, map[string]any{"fact": "relationship", "values": childRelationships}).
//		Yes("age").No("no")
//	b.Add("no").Outcome("not_qualifying_child")
//
// Build validates structure (two children per internal node, no dangling
// references, no cycles, bounded depth) and returns an immutable tree.
package dsl

import (
	"fmt"

	"lattice/pkg/domain"
)

// DefaultMaxDepth bounds tree depth when the author does not set one. Real
// determination flowcharts are shallow; the bound exists to catch accidental
// cycles, not to constrain content.
const DefaultMaxDepth = 32

// Builder manages construction of one tree.
type Builder struct {
	id       string
	rootID   string
	maxDepth int
	nodes    map[string]*NodeBuilder
	order    []string
}

// New creates a builder for a tree with the given ID.
func New(id string) *Builder {
	return &Builder{
		id:       id,
		maxDepth: DefaultMaxDepth,
		nodes:    make(map[string]*NodeBuilder),
	}
}

// MaxDepth overrides the depth bound enforced at build and evaluation time.
func (b *Builder) MaxDepth(d int) *Builder {
	b.maxDepth = d
	return b
}

// Root creates (or returns) the root node.
func (b *Builder) Root(id string) *NodeBuilder {
	b.rootID = id
	return b.Add(id)
}

// Add creates a new node. If the node already exists, the existing builder is
// returned so content can be declared in any order.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{id: id}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build compiles and validates the tree. Any structural defect fails with
// MalformedTreeError; nothing partially built is ever returned.
func (b *Builder) Build() (*domain.Tree, error) {
	if b.rootID == "" {
		return nil, &domain.MalformedTreeError{TreeID: b.id, Reason: "no root node declared"}
	}

	built := make(map[string]*domain.Node, len(b.nodes))
	for _, id := range b.order {
		nb := b.nodes[id]
		if err := b.check(nb); err != nil {
			return nil, err
		}
		built[id] = &domain.Node{
			ID:        id,
			Question:  nb.question,
			Condition: nb.condition,
			Subtree:   nb.subtree,
			Truthy:    nb.truthy,
			Outcome:   nb.outcome,
		}
	}

	// Link children after all nodes exist, so declaration order is free.
	for _, id := range b.order {
		nb := b.nodes[id]
		node := built[id]
		if nb.hasYes {
			child, ok := built[nb.yesID]
			if !ok {
				return nil, b.malformed(id, fmt.Sprintf("yes branch references unknown node %q", nb.yesID))
			}
			node.Yes = child
		}
		if nb.hasNo {
			child, ok := built[nb.noID]
			if !ok {
				return nil, b.malformed(id, fmt.Sprintf("no branch references unknown node %q", nb.noID))
			}
			node.No = child
		}
	}

	tree := &domain.Tree{ID: b.id, Root: built[b.rootID], MaxDepth: b.maxDepth}
	if err := b.checkDepth(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// check validates a single node's shape before linking.
func (b *Builder) check(nb *NodeBuilder) error {
	isLeaf := nb.hasOutcome
	isInternal := nb.condition != nil || nb.subtree != nil

	switch {
	case isLeaf && isInternal:
		return b.malformed(nb.id, "node has both an outcome and a condition")
	case isLeaf && (nb.hasYes || nb.hasNo):
		return b.malformed(nb.id, "leaf node has children")
	case !isLeaf && !isInternal:
		return b.malformed(nb.id, "node has neither condition nor outcome")
	case isInternal && nb.condition != nil && nb.subtree != nil:
		return b.malformed(nb.id, "node has both a condition and a delegated sub-tree")
	case isInternal && !nb.hasYes:
		return b.malformed(nb.id, "internal node missing yes branch")
	case isInternal && !nb.hasNo:
		return b.malformed(nb.id, "internal node missing no branch")
	case nb.subtree != nil && len(nb.truthy) == 0:
		return b.malformed(nb.id, "delegating node declares no truthy outcomes")
	}
	return nil
}

// checkDepth walks every root-to-leaf path. Shared sub-trees are fine (the
// structure is a DAG); a node reappearing on its own path is a cycle and is
// rejected.
func (b *Builder) checkDepth(tree *domain.Tree) error {
	onPath := make(map[*domain.Node]bool)

	var walk func(n *domain.Node, depth int) error
	walk = func(n *domain.Node, depth int) error {
		if depth > tree.MaxDepth {
			return b.malformed(n.ID, fmt.Sprintf("path exceeds max depth %d", tree.MaxDepth))
		}
		if onPath[n] {
			return b.malformed(n.ID, "node is its own descendant (cycle)")
		}
		if n.IsLeaf() {
			return nil
		}
		onPath[n] = true
		defer delete(onPath, n)
		if err := walk(n.Yes, depth+1); err != nil {
			return err
		}
		return walk(n.No, depth+1)
	}
	return walk(tree.Root, 0)
}

func (b *Builder) malformed(nodeID, reason string) error {
	return &domain.MalformedTreeError{TreeID: b.id, NodeID: nodeID, Reason: reason}
}
