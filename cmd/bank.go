package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talentprep/scorekit/internal/question"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect question banks",
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate <bank.json|->",
	Short: "Validate a question bank and report duplicate content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(args[0])
		if err != nil {
			return fmt.Errorf("read bank: %w", err)
		}
		bank, err := question.ParseBank(raw)
		if err != nil {
			return err
		}

		report := validateBank(bank)
		if jsonOutput(cmd) {
			return printJSON(report)
		}

		fmt.Printf("%d questions, %d unique after de-duplication\n", report.Questions, report.Unique)
		for _, k := range []question.Kind{
			question.KindClassificationTable, question.KindProportionChart, question.KindAllocationChart,
			question.KindTabbedEvaluation, question.KindPointGraph, question.KindRanking,
			question.KindSimpleChoice, question.KindIpsativeTriplet, question.KindRatedResponseSet,
		} {
			if n := report.Kinds[k]; n > 0 {
				fmt.Printf("  %-22s %d\n", k, n)
			}
		}
		if len(report.Duplicates) == 0 {
			fmt.Println("No duplicate content.")
			return nil
		}
		fmt.Println("Duplicate content:")
		for _, group := range report.Duplicates {
			fmt.Printf("  %s\n", strings.Join(group, ", "))
		}
		return nil
	},
}

// bankReport summarizes a parsed bank for `bank validate`.
type bankReport struct {
	Questions  int                   `json:"questions"`
	Unique     int                   `json:"unique"`
	Kinds      map[question.Kind]int `json:"kinds"`
	Duplicates [][]string            `json:"duplicates"`
}

func validateBank(bank *question.Bank) bankReport {
	qs := bank.Questions()
	report := bankReport{
		Questions:  len(qs),
		Unique:     len(question.Dedupe(qs)),
		Kinds:      make(map[question.Kind]int),
		Duplicates: question.Duplicates(qs),
	}
	for _, q := range qs {
		report.Kinds[q.Kind()]++
	}
	return report
}

func init() {
	bankCmd.AddCommand(bankValidateCmd)
}
