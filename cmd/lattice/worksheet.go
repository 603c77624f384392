package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lattice/pkg/domain"
	"lattice/pkg/worksheet"
)

// worksheetCmd groups the numeric worksheet computations.
var worksheetCmd = &cobra.Command{
	Use:   "worksheet",
	Short: "Run a numeric worksheet computation",
}

var capitalGainsCmd = &cobra.Command{
	Use:   "capital-gains",
	Short: "Net capital gains and losses across rate categories",
	Run: func(cmd *cobra.Command, args []string) {
		itemsJSON, _ := cmd.Flags().GetString("items")

		var items []worksheet.GainLoss
		if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
			fmt.Printf("Error parsing --items: %v\n", err)
			os.Exit(1)
		}

		printJSON(worksheet.NetCapitalGains(items...))
	},
}

var qbiCmd = &cobra.Command{
	Use:   "qbi",
	Short: "Compute the qualified business income deduction",
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine(cmd)
		if err != nil {
			fmt.Printf("Error initializing lattice: %v\n", err)
			os.Exit(1)
		}

		status, phaseErr := filingStatus(cmd)
		if phaseErr != nil {
			fmt.Printf("Error: %v\n", phaseErr)
			os.Exit(1)
		}
		phase, err := engine.Table().QBIFor(status)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		var input worksheet.QBIInput
		if err := decodeInput(cmd, &input); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		result, err := worksheet.ComputeQBI(input, phase)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		printJSON(result)
	},
}

var socialSecurityCmd = &cobra.Command{
	Use:   "social-security",
	Short: "Compute the taxable portion of Social Security benefits",
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine(cmd)
		if err != nil {
			fmt.Printf("Error initializing lattice: %v\n", err)
			os.Exit(1)
		}

		status, statusErr := filingStatus(cmd)
		if statusErr != nil {
			fmt.Printf("Error: %v\n", statusErr)
			os.Exit(1)
		}
		th, err := engine.Table().SSAFor(status)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		var input worksheet.SSAInput
		if err := decodeInput(cmd, &input); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		result, err := worksheet.ComputeTaxableSocialSecurity(input, th)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		printJSON(result)
	},
}

func filingStatus(cmd *cobra.Command) (domain.FilingStatus, error) {
	raw, _ := cmd.Flags().GetString("status")
	return domain.ParseFilingStatus(raw)
}

func decodeInput(cmd *cobra.Command, v any) error {
	raw, _ := cmd.Flags().GetString("input")
	if raw == "" {
		return fmt.Errorf("provide the worksheet figures with --input")
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("parsing --input: %w", err)
	}
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Error encoding result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func init() {
	rootCmd.AddCommand(worksheetCmd)
	worksheetCmd.AddCommand(capitalGainsCmd)
	worksheetCmd.AddCommand(qbiCmd)
	worksheetCmd.AddCommand(socialSecurityCmd)

	capitalGainsCmd.Flags().String("items", "[]", "Gain/loss items as a JSON array")
	for _, c := range []*cobra.Command{qbiCmd, socialSecurityCmd} {
		c.Flags().String("status", "single", "Filing status")
		c.Flags().String("input", "", "Worksheet figures as a JSON object")
	}
}
