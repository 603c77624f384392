package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lattice/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <tree-id>",
	Short: "Export a tree as a Mermaid diagram",
	Long:  `Resolves a tree and outputs a Mermaid diagram (graph TD) representing its decision logic.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine(cmd)
		if err != nil {
			fmt.Printf("Error initializing lattice: %v\n", err)
			os.Exit(1)
		}

		tree, err := engine.Tree(args[0])
		if err != nil {
			fmt.Printf("Error resolving tree: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(tree, nil))
	},
}

// treesCmd represents the trees command
var treesCmd = &cobra.Command{
	Use:   "trees",
	Short: "List the available determination trees",
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine(cmd)
		if err != nil {
			fmt.Printf("Error initializing lattice: %v\n", err)
			os.Exit(1)
		}

		ids, err := engine.Trees()
		if err != nil {
			fmt.Printf("Error listing trees: %v\n", err)
			os.Exit(1)
		}
		for _, id := range ids {
			fmt.Println(id)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(treesCmd)
}
