package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/talentprep/scorekit/internal/llm"
	"github.com/talentprep/scorekit/internal/narrative"
	"github.com/talentprep/scorekit/internal/report"
)

var explainCmd = &cobra.Command{
	Use:   "explain <answers.json|->",
	Short: "Write a narrative profile summary and coaching tips with an LLM",
	Long: "Explain an attempt in plain language. The provider is configured with SCOREKIT_LLM_*\n" +
		"variables or discovered from standard API key variables. Coaching falls back to the\n" +
		"catalog's static tips when no provider is available.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		answers, err := readAnswers(args[0])
		if err != nil {
			return err
		}
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		cfg := narrative.DefaultConfig()
		breakdown := eng.Breakdown(answers).Breakdown

		llmCfg, err := llm.ConfigFromEnv()
		var provider llm.Provider
		if err == nil && llmCfg.Provider == llm.ProviderMock {
			err = errors.New("no API key found")
		}
		if err == nil {
			provider, err = llm.NewProvider(ctx, llmCfg, s.EventRepo())
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Showing static coaching tips only.")
			return showTips(cmd, nil, narrative.StaticTips(breakdown, cfg.MaxTips))
		}

		ex := narrative.New(provider, cfg)

		var story *narrative.Narrative
		if len(eng.Bank().Triplets()) > 0 {
			as := eng.Assess(answers)
			story, err = ex.ExplainProfile(llm.WithPurpose(ctx, llm.PurposeNarrative), narrative.ProfileInput{
				Profile:     as.Profile,
				Consistency: &as.Consistency,
				Alignment:   as.Alignment,
			})
			if err != nil && !errors.Is(err, narrative.ErrNothingToExplain) {
				return fmt.Errorf("explain profile: %w", err)
			}
		}

		tips, err := ex.Coach(llm.WithPurpose(ctx, llm.PurposeTips), breakdown)
		switch {
		case errors.Is(err, narrative.ErrNothingToExplain):
			tips = nil
		case err != nil:
			fmt.Fprintf(os.Stderr, "warning: coaching failed, using static tips: %v\n", err)
			tips = narrative.StaticTips(breakdown, cfg.MaxTips)
		}
		return showTips(cmd, story, tips)
	},
}

func showTips(cmd *cobra.Command, story *narrative.Narrative, tips []narrative.Tip) error {
	if jsonOutput(cmd) {
		return printJSON(map[string]any{"narrative": story, "tips": tips})
	}
	var sections []string
	if story != nil {
		sections = append(sections, report.Narrative(*story))
	}
	render(append(sections, report.Tips(tips))...)
	return nil
}
