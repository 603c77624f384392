package domain

// Branch records which edge the walk took out of a node.
type Branch string

const (
	BranchYes Branch = "yes"
	BranchNo  Branch = "no"
	// BranchOutcome marks the terminal entry of a trace.
	BranchOutcome Branch = "outcome"
)

// TraceEntry is one record of the path taken: a node visited, the answer at
// that node, and the rationale the evaluator produced. Step indices are
// contiguous from 0 across one whole evaluation, including spliced sub-tree
// entries.
type TraceEntry struct {
	Step int `json:"step"`

	TreeID      string `json:"tree_id"`
	NodeID      string `json:"node_id"`
	Description string `json:"description"`

	Branch    Branch `json:"branch"`
	Rationale string `json:"rationale,omitempty"`

	// Outcome is set only on BranchOutcome entries.
	Outcome Outcome `json:"outcome,omitempty"`
}

// Evaluation is the complete result of one tree evaluation: the terminal
// outcome plus the ordered trace that produced it. Created fresh per call,
// immutable once returned, owned by the caller.
type Evaluation struct {
	TreeID  string       `json:"tree_id"`
	Outcome Outcome      `json:"outcome"`
	Trace   []TraceEntry `json:"trace"`
}
