// Package yamlspec compiles declarative YAML tree documents into built
// decision trees. Content authors describe a determination as data; the
// compiler runs it through the same builder and validation as trees declared
// in Go, and resolves delegate references to other documents.
package yamlspec

// TreeSpec is the YAML document shape for one tree.
type TreeSpec struct {
	ID       string              `yaml:"id"`
	Root     string              `yaml:"root"`
	MaxDepth int                 `yaml:"max_depth"`
	Nodes    map[string]NodeSpec `yaml:"nodes"`
}

// NodeSpec declares one node. Exactly one of Predicate, Delegate, or Outcome
// must be set; the builder rejects anything else.
type NodeSpec struct {
	Question string `yaml:"question"`

	Predicate string         `yaml:"predicate"`
	Params    map[string]any `yaml:"params"`

	// Delegate names another tree (by ID) whose outcome answers this node.
	Delegate string   `yaml:"delegate"`
	Truthy   []string `yaml:"truthy"`

	Yes string `yaml:"yes"`
	No  string `yaml:"no"`

	Outcome string `yaml:"outcome"`
}
