/*
Package lattice is a deterministic decision-tree engine for tax-law style
determinations, paired with the netting worksheets those determinations feed.

It separates the tree definitions (Logic) from the facts of a case (Data)
and from the thresholds that change year over year (Tables). The engine walks
a binary tree of yes/no questions against a fact set and produces an outcome
together with a step-indexed trace, so every determination can be audited
question by question.

# Concept

A Tree is a graph of condition nodes, delegation nodes, and outcome leaves.
Conditions ask a single question of the fact set ("is age under 19?"),
delegations evaluate another tree and branch on its outcome, and leaves name
the result. Evaluation is pure: the same tree and the same facts always yield
the same outcome and the same trace.

Alongside the trees, the worksheet package implements the numeric
computations that determinations gate: capital-gains netting across rate
categories, the qualified business income deduction, and the taxable portion
of Social Security benefits. Their thresholds come from a Table loaded per
tax year.

# Key Features

  - Deterministic Execution: evaluation never mutates the tree or the facts.
  - Auditable Traces: every step records the question, the answer, and why.
  - Delegation: trees compose by evaluating sub-trees, with the sub-trace
    spliced into the parent trace.
  - Hexagonal Architecture: loaders and stores are ports with in-memory,
    YAML, Loam, and Redis adapters.

# Usage

Initialize the engine with New. Without options it serves the built-in
catalog of determination trees with the default threshold table.

	package main

	import (
		"fmt"
		"log"

		"lattice"
		"lattice/pkg/domain"
	)

	func main() {
		engine, err := lattice.New()
		if err != nil {
			log.Fatal(err)
		}

		facts := domain.NewFactSet().
			SetNumber("amount", 1200).
			SetCategory("category", "rental")

		eval, err := engine.Evaluate("income_inclusion", facts)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println("Outcome:", eval.Outcome)
		for _, step := range eval.Trace {
			fmt.Printf("%d. %s -> %s\n", step.Step, step.Description, step.Branch)
		}
	}

Custom trees can be built with the dsl package, loaded from YAML documents
with the yamlspec adapter, or served from a Loam repository. Evaluations can
be persisted as cases through an EvaluationStore (in-memory or Redis).
*/
package lattice
