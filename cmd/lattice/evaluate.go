package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"lattice/internal/presentation/report"
	"lattice/internal/presentation/tui"
	"lattice/pkg/domain"
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <tree-id>",
	Short: "Evaluate a determination tree against a set of facts",
	Long: `Evaluates a tree against facts supplied inline as JSON or read from a
YAML file, and prints the outcome with the full determination trace.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		treeID := args[0]

		engine, err := newEngine(cmd)
		if err != nil {
			fmt.Printf("Error initializing lattice: %v\n", err)
			os.Exit(1)
		}

		facts, err := readFacts(cmd)
		if err != nil {
			fmt.Printf("Error reading facts: %v\n", err)
			os.Exit(1)
		}

		eval, err := engine.Evaluate(treeID, facts)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		jsonMode, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")
		switch {
		case jsonMode:
			out, err := json.MarshalIndent(eval, "", "  ")
			if err != nil {
				fmt.Printf("Error encoding result: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(out))
		case plain:
			fmt.Print(report.RenderText(eval))
		default:
			render := tui.NewRenderer()
			out, err := render(report.RenderMarkdown(eval))
			if err != nil {
				// Fall back to the plain report if the terminal renderer fails.
				fmt.Print(report.RenderText(eval))
				return
			}
			fmt.Print(out)
		}
	},
}

// readFacts loads the fact set from --facts (inline JSON) or --facts-file
// (YAML or JSON document).
func readFacts(cmd *cobra.Command) (*domain.FactSet, error) {
	inline, _ := cmd.Flags().GetString("facts")
	path, _ := cmd.Flags().GetString("facts-file")

	raw := map[string]any{}
	switch {
	case inline != "":
		if err := json.Unmarshal([]byte(inline), &raw); err != nil {
			return nil, fmt.Errorf("parsing --facts: %w", err)
		}
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("provide facts with --facts or --facts-file")
	}

	return domain.FactsFromMap(raw)
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().String("facts", "", "Facts as an inline JSON object")
	evaluateCmd.Flags().StringP("facts-file", "f", "", "Facts as a YAML or JSON file")
	evaluateCmd.Flags().Bool("json", false, "Output the full evaluation as JSON")
	evaluateCmd.Flags().Bool("plain", false, "Output the trace as plain text")
}
