package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talentprep/scorekit/internal/engine"
	"github.com/talentprep/scorekit/internal/report"
	"github.com/talentprep/scorekit/internal/rolling"
	"github.com/talentprep/scorekit/internal/store"
)

// snapshotsKept bounds stored scoring snapshots per attempt.
const snapshotsKept = 3

var attemptsCmd = &cobra.Command{
	Use:   "attempts",
	Short: "Record, list and score stored attempts",
}

var attemptsAddCmd = &cobra.Command{
	Use:   "add <answers.json|->",
	Short: "Record an attempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		id, _ := cmd.Flags().GetString("id")

		answers, err := readAnswers(args[0])
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		a, err := s.AttemptRepo().Append(cmd.Context(), rolling.Attempt{ID: id, Kind: kind, Answers: answers})
		if err != nil {
			return fmt.Errorf("record attempt: %w", err)
		}
		fmt.Println(a.ID)
		return nil
	},
}

var attemptsImportCmd = &cobra.Command{
	Use:   "import <history.json|->",
	Short: "Record every attempt in a JSON history array",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(args[0])
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		attempts, err := rolling.ParseAttempts(raw)
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		repo := s.AttemptRepo()
		for i, a := range attempts {
			if _, err := repo.Append(cmd.Context(), a); err != nil {
				return fmt.Errorf("record attempt %d: %w", i, err)
			}
		}
		fmt.Printf("Imported %d attempts.\n", len(attempts))
		return nil
	},
}

var attemptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded attempts, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		attempts, err := listAttempts(cmd, s, limit, kind)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(attempts)
		}
		render(report.Attempts(attempts))
		return nil
	},
}

var attemptsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an attempt and its snapshots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		return s.AttemptRepo().Delete(cmd.Context(), args[0])
	},
}

var attemptsScoreCmd = &cobra.Command{
	Use:   "score [id...]",
	Short: "Score recorded attempts and save snapshots",
	Long: "Score the given attempts, or the most recent --limit attempts when no ids are given.\n" +
		"Each result is saved as a snapshot of its attempt.",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")

		eng, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		var attempts []rolling.Attempt
		if len(args) > 0 {
			for _, id := range args {
				a, err := s.AttemptRepo().Get(ctx, id)
				if err != nil {
					return err
				}
				if a == nil {
					return fmt.Errorf("attempt %s not found", id)
				}
				attempts = append(attempts, *a)
			}
		} else if attempts, err = listAttempts(cmd, s, limit, kind); err != nil {
			return err
		}

		scored, err := eng.ScoreBatch(ctx, attempts)
		if err != nil {
			return fmt.Errorf("score attempts: %w", err)
		}
		if err := saveSnapshots(ctx, s.SnapshotRepo(), scored); err != nil {
			return err
		}

		if jsonOutput(cmd) {
			return printJSON(scored)
		}
		for i, sc := range scored {
			sections := []string{fmt.Sprintf("Attempt %s (%s)\n", sc.AttemptID, sc.Kind), report.Results(sc.Results, sc.Summary)}
			if sc.Assessment != nil {
				sections = append(sections, report.Profile(sc.Assessment.Profile))
			}
			if sc.Breakdown != nil {
				sections = append(sections, report.Breakdown(*sc.Breakdown))
			}
			if i > 0 {
				fmt.Println()
			}
			render(sections...)
		}
		return nil
	},
}

var attemptsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the latest saved score of an attempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		snap, err := s.SnapshotRepo().Latest(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if snap == nil {
			return fmt.Errorf("attempt %s has not been scored; run: scorekit attempts score %s", args[0], args[0])
		}

		var sc engine.Scored
		if err := json.Unmarshal(snap.Data, &sc); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		if jsonOutput(cmd) {
			return printJSON(sc)
		}
		sections := []string{report.Results(sc.Results, sc.Summary)}
		if sc.Assessment != nil {
			sections = append(sections,
				report.Profile(sc.Assessment.Profile),
				report.Consistency(sc.Assessment.Consistency),
				report.Alignment(sc.Assessment.Alignment))
		}
		if sc.Breakdown != nil {
			sections = append(sections, report.Breakdown(*sc.Breakdown))
		}
		render(sections...)
		return nil
	},
}

func listAttempts(cmd *cobra.Command, s *store.Store, limit int, kind string) ([]rolling.Attempt, error) {
	attempts, err := s.AttemptRepo().List(cmd.Context(), store.QueryOpts{Limit: limit, Kind: kind})
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return attempts, nil
}

func saveSnapshots(ctx context.Context, repo store.SnapshotRepo, scored []engine.Scored) error {
	for _, sc := range scored {
		data, err := json.Marshal(sc)
		if err != nil {
			return fmt.Errorf("encode score: %w", err)
		}
		if err := repo.Save(ctx, &store.Snapshot{AttemptID: sc.AttemptID, Data: data}); err != nil {
			return err
		}
		if err := repo.Prune(ctx, sc.AttemptID, snapshotsKept); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	attemptsAddCmd.Flags().StringP("kind", "k", rolling.DefaultKind, "Assessment kind")
	attemptsAddCmd.Flags().String("id", "", "Attempt id (default: random UUID)")

	attemptsListCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")
	attemptsListCmd.Flags().StringP("kind", "k", "", "Filter by assessment kind")

	attemptsScoreCmd.Flags().IntP("limit", "n", 10, "Number of recent attempts to score when no ids are given")
	attemptsScoreCmd.Flags().StringP("kind", "k", "", "Filter by assessment kind when no ids are given")

	attemptsCmd.AddCommand(attemptsAddCmd)
	attemptsCmd.AddCommand(attemptsImportCmd)
	attemptsCmd.AddCommand(attemptsListCmd)
	attemptsCmd.AddCommand(attemptsShowCmd)
	attemptsCmd.AddCommand(attemptsScoreCmd)
	attemptsCmd.AddCommand(attemptsDeleteCmd)
}
