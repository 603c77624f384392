package dsl

import "lattice/pkg/domain"

// NodeBuilder provides a fluent API for configuring one node.
type NodeBuilder struct {
	id       string
	question string

	condition *domain.Condition
	subtree   *domain.Tree
	truthy    []domain.Outcome

	yesID, noID string
	hasYes      bool
	hasNo       bool

	outcome    domain.Outcome
	hasOutcome bool
}

// Ask sets the node's condition: a predicate name plus its parameters.
func (n *NodeBuilder) Ask(predicate string, params map[string]any) *NodeBuilder {
	n.condition = &domain.Condition{Predicate: predicate, Params: params}
	return n
}

// Describe sets the human-readable question (or outcome) text recorded in
// traces and rendered to users.
func (n *NodeBuilder) Describe(text string) *NodeBuilder {
	n.question = text
	return n
}

// Delegate makes this node answer by evaluating a sub-tree: the branch is
// "yes" when the sub-tree's outcome is one of truthy, "no" otherwise. The
// sub-tree's trace is spliced into the parent trace at this point.
func (n *NodeBuilder) Delegate(subtree *domain.Tree, truthy ...domain.Outcome) *NodeBuilder {
	n.subtree = subtree
	n.truthy = truthy
	return n
}

// Yes sets the child taken when the condition holds.
func (n *NodeBuilder) Yes(target string) *NodeBuilder {
	n.yesID = target
	n.hasYes = true
	return n
}

// No sets the child taken when the condition fails.
func (n *NodeBuilder) No(target string) *NodeBuilder {
	n.noID = target
	n.hasNo = true
	return n
}

// Outcome marks the node as a leaf carrying a terminal value.
func (n *NodeBuilder) Outcome(value domain.Outcome) *NodeBuilder {
	n.outcome = value
	n.hasOutcome = true
	return n
}
