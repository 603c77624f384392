/*
Package domain defines the core value types of the Lattice engine: fact sets
(typed per-case input), decision nodes and trees, trace entries and
evaluations, and the typed errors every layer reports.

Everything here is plain data. Trees are immutable after construction and
safe for unlimited concurrent evaluation; fact sets belong to the caller and
are only ever read by the engine.
*/
package domain
