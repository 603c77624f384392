package domain

// Outcome is the opaque terminal value a determination resolves to,
// e.g. "qualifying_child" or "not_head_of_household".
type Outcome string

// Condition describes one yes/no question: a named predicate plus the
// parameters it is evaluated with. Predicates are resolved against a
// predicate registry at evaluation time.
type Condition struct {
	Predicate string         `json:"predicate" yaml:"predicate"`
	Params    map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// Node is one vertex of a decision tree. It is a tagged variant:
//
//   - internal node: Condition set, Yes and No children set;
//   - delegating node: Subtree set (the sub-tree is evaluated and its outcome
//     checked against Truthy to pick the branch), Yes and No children set;
//   - leaf node: Outcome set, no children.
//
// Nodes are immutable once their tree is built and safe for concurrent
// read-only use.
type Node struct {
	ID string

	// Question is the human-readable form of the condition, phrased the way
	// a preparer would ask it. For leaves it describes the outcome.
	Question string

	Condition *Condition
	Subtree   *Tree
	Truthy    []Outcome

	Yes *Node
	No  *Node

	Outcome Outcome
}

// IsLeaf reports whether the node carries a terminal outcome.
func (n *Node) IsLeaf() bool {
	return n.Condition == nil && n.Subtree == nil
}

// Describe returns the question text, falling back to the node ID.
func (n *Node) Describe() string {
	if n.Question != "" {
		return n.Question
	}
	if n.IsLeaf() {
		return string(n.Outcome)
	}
	return n.ID
}

// TruthyOutcome reports whether a sub-tree outcome maps to the yes branch.
func (n *Node) TruthyOutcome(o Outcome) bool {
	for _, t := range n.Truthy {
		if t == o {
			return true
		}
	}
	return false
}

// Tree is an immutable decision tree (strictly: a DAG, since immutable nodes
// may be shared as common sub-trees). Built once, evaluated many times.
type Tree struct {
	ID       string
	Root     *Node
	MaxDepth int
}

// Walk visits every reachable node exactly once, yes branch before no branch,
// in a deterministic order. Used by introspection and rendering layers.
func (t *Tree) Walk(fn func(*Node)) {
	seen := make(map[*Node]bool)
	var visit func(*Node)
	visit = func(n *Node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		fn(n)
		visit(n.Yes)
		visit(n.No)
	}
	visit(t.Root)
}

// Nodes returns all reachable nodes in walk order.
func (t *Tree) Nodes() []*Node {
	var nodes []*Node
	t.Walk(func(n *Node) { nodes = append(nodes, n) })
	return nodes
}
