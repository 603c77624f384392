package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lattice"
	"lattice/internal/logging"
	"lattice/pkg/adapters/yamlspec"
	"lattice/pkg/worksheet"
)

var rootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Lattice is a decision-tree engine for tax determinations",
	Long: `Lattice evaluates tax-law determination trees against a set of facts and
produces an auditable, step-by-step trace. It also runs the numeric
worksheets those determinations feed: capital-gains netting, the QBI
deduction, and the taxable portion of Social Security benefits.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("trees", "", "Directory of YAML tree definitions (default: built-in catalog)")
	rootCmd.PersistentFlags().String("table", "", "YAML threshold table file (default: built-in table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// newEngine builds a lattice engine from the persistent flags.
func newEngine(cmd *cobra.Command) (*lattice.Engine, error) {
	var opts []lattice.Option

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		opts = append(opts, lattice.WithLogger(logging.New(slog.LevelDebug)))
	}

	if tablePath, _ := cmd.Flags().GetString("table"); tablePath != "" {
		f, err := os.Open(tablePath)
		if err != nil {
			return nil, fmt.Errorf("opening table %s: %w", tablePath, err)
		}
		defer f.Close()

		table, err := worksheet.LoadTable(f)
		if err != nil {
			return nil, fmt.Errorf("loading table %s: %w", tablePath, err)
		}
		opts = append(opts, lattice.WithTable(table))
	}

	if treesDir, _ := cmd.Flags().GetString("trees"); treesDir != "" {
		loader, err := yamlspec.NewLoader(os.DirFS(treesDir), ".")
		if err != nil {
			return nil, fmt.Errorf("loading trees from %s: %w", treesDir, err)
		}
		opts = append(opts, lattice.WithLoader(loader))
	}

	return lattice.New(opts...)
}
