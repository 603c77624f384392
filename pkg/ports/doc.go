/*
Package ports defines the driven ports (interfaces) for the determination
engine.

These interfaces decouple the core from external implementations, so tree
content can come from any catalog source and completed evaluations can be
kept in any store.

# Key Interfaces

  - TreeLoader: resolves built decision trees by ID (memory catalog, YAML
    files, Loam workspaces).
  - EvaluationStore: persists completed evaluations (outcome plus trace) so
    a determination can be retrieved and rendered later.
*/
package ports
