package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/talentprep/scorekit/internal/engine"
	"github.com/talentprep/scorekit/internal/evaluator"
	"github.com/talentprep/scorekit/internal/question"
	"github.com/talentprep/scorekit/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "scorekit",
	Short: "Score assessment practice attempts",
	Long: "scorekit grades numerical and logical answers, builds behavioral profiles from forced-choice\n" +
		"triplets and blends situational-judgement ratings into competency breakdowns.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SCOREKIT_DB env var)")
	rootCmd.PersistentFlags().String("bank", "", "Path to question bank JSON (overrides SCOREKIT_BANK env var)")
	rootCmd.PersistentFlags().String("policy", "", "Path to scoring policy JSON (overrides SCOREKIT_POLICY env var)")
	rootCmd.PersistentFlags().Bool("json", false, "Print JSON instead of styled text")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(breakdownCmd)
	rootCmd.AddCommand(rollingCmd)
	rootCmd.AddCommand(attemptsCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SCOREKIT_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// loadEngine builds an engine from SCOREKIT_* settings, the --policy flag
// and the question bank named by --bank or SCOREKIT_BANK.
func loadEngine(cmd *cobra.Command) (*engine.Engine, error) {
	cfg, err := engine.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("policy"); p != "" {
		cfg.PolicyPath = p
	}

	bankPath, _ := cmd.Flags().GetString("bank")
	if bankPath == "" {
		bankPath = os.Getenv("SCOREKIT_BANK")
	}
	if bankPath == "" {
		return nil, fmt.Errorf("no question bank: pass --bank or set SCOREKIT_BANK")
	}
	bank, err := question.LoadBankFile(bankPath)
	if err != nil {
		return nil, err
	}
	return engine.New(cfg, bank)
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// readAnswers reads a JSON object of answers keyed by question id.
func readAnswers(path string) (map[string]any, error) {
	raw, err := readInput(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	v, err := evaluator.DecodeAnswer(raw)
	if err != nil {
		return nil, fmt.Errorf("parse answers: %w", err)
	}
	answers, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("answers must be a JSON object keyed by question id")
	}
	return answers, nil
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// printJSON writes v as indented JSON stamped with the tool version.
func printJSON(v any) error {
	out, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if len(out) > 0 && out[0] == '{' {
		out, err = sjson.SetBytes(out, "meta", map[string]string{
			"version":      resolvedVersion(),
			"generated_at": time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, out, "", "  "); err != nil {
		return err
	}
	fmt.Println(buf.String())
	return nil
}

// render prints styled sections separated by blank lines.
func render(sections ...string) {
	for i, s := range sections {
		if i > 0 {
			lipgloss.Println()
		}
		lipgloss.Print(s)
	}
}

func warnUnmapped(ids []string) {
	if len(ids) > 0 {
		fmt.Fprintf(os.Stderr, "warning: unknown competencies scored under the fallback: %s\n", strings.Join(ids, ", "))
	}
}
