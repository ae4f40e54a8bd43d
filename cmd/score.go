package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talentprep/scorekit/internal/evaluator"
	"github.com/talentprep/scorekit/internal/report"
	"github.com/talentprep/scorekit/internal/rolling"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <answers.json|->",
	Short: "Grade answers against the question bank",
	Long: "Grade a JSON object of answers keyed by question id. With --question, grade a single\n" +
		"raw answer given as the argument instead.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := loadEngine(cmd)
		if err != nil {
			return err
		}

		if id, _ := cmd.Flags().GetString("question"); id != "" {
			answer, err := decodeInline(args[0])
			if err != nil {
				return err
			}
			r, err := eng.Evaluate(id, answer)
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(r)
			}
			results := []evaluator.Result{r}
			render(report.Results(results, evaluator.Summarize(results)))
			return nil
		}

		answers, err := readAnswers(args[0])
		if err != nil {
			return err
		}
		results, summary := eng.Results(answers)
		if jsonOutput(cmd) {
			return printJSON(map[string]any{"results": results, "summary": summary})
		}
		render(report.Results(results, summary))
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile <answers.json|->",
	Short: "Build the behavioral profile, consistency report and alignment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		answers, err := readAnswers(args[0])
		if err != nil {
			return err
		}

		as := eng.Assess(answers)
		warnUnmapped(as.Profile.Unmapped)
		if jsonOutput(cmd) {
			return printJSON(as)
		}
		render(report.Profile(as.Profile), report.Consistency(as.Consistency), report.Alignment(as.Alignment))
		return nil
	},
}

var breakdownCmd = &cobra.Command{
	Use:   "breakdown <answers.json|->",
	Short: "Score one attempt's rated responses by competency",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		answers, err := readAnswers(args[0])
		if err != nil {
			return err
		}

		r := eng.Breakdown(answers)
		warnUnmapped(r.Unmapped)
		if jsonOutput(cmd) {
			return printJSON(r)
		}
		render(report.Breakdown(r))
		return nil
	},
}

var rollingCmd = &cobra.Command{
	Use:   "rolling",
	Short: "Blend the competency breakdown across recent attempts",
	Long: "Blend the most recent attempts of the configured kind. Attempts come from the database\n" +
		"unless --history names a JSON array of attempt records.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := loadEngine(cmd)
		if err != nil {
			return err
		}

		var attempts []rolling.Attempt
		if path, _ := cmd.Flags().GetString("history"); path != "" {
			raw, err := readInput(path)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			if attempts, err = rolling.ParseAttempts(raw); err != nil {
				return err
			}
		} else {
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			if attempts, err = listAttempts(cmd, s, 0, ""); err != nil {
				return err
			}
		}

		r := eng.Rolling(attempts)
		warnUnmapped(r.Unmapped)
		if jsonOutput(cmd) {
			return printJSON(r)
		}
		render(report.Breakdown(r))
		return nil
	},
}

// decodeInline parses a command-line answer as JSON, falling back to the
// literal string so choice answers need no quoting.
func decodeInline(arg string) (any, error) {
	if v, err := evaluator.DecodeAnswer([]byte(arg)); err == nil {
		return v, nil
	}
	if arg == "" {
		return nil, fmt.Errorf("empty answer")
	}
	return arg, nil
}

func init() {
	evaluateCmd.Flags().StringP("question", "q", "", "Grade a single inline answer for this question id")
	rollingCmd.Flags().String("history", "", "Read attempts from a JSON file instead of the database")
}
