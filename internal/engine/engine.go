// Package engine ties the scoring packages to one question bank and policy.
package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/talentprep/scorekit/internal/alignment"
	"github.com/talentprep/scorekit/internal/catalog"
	"github.com/talentprep/scorekit/internal/consistency"
	"github.com/talentprep/scorekit/internal/evaluator"
	"github.com/talentprep/scorekit/internal/ipsative"
	"github.com/talentprep/scorekit/internal/question"
	"github.com/talentprep/scorekit/internal/rolling"
)

// Engine scores attempts against a fixed bank and policy. It is safe for
// concurrent use.
type Engine struct {
	cfg    Config
	eval   *evaluator.Evaluator
	policy catalog.Policy
	bank   *question.Bank
}

// New builds an Engine. When cfg.PolicyPath is set the policy is loaded from
// it; a nil bank behaves as an empty one.
func New(cfg Config, bank *question.Bank) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}

	policy := catalog.DefaultPolicy()
	if cfg.PolicyPath != "" {
		p, err := catalog.LoadPolicyFile(cfg.PolicyPath)
		if err != nil {
			return nil, err
		}
		policy = p
	}
	return NewWithPolicy(cfg, bank, policy), nil
}

// NewWithPolicy builds an Engine with an explicit policy; cfg.PolicyPath is
// ignored.
func NewWithPolicy(cfg Config, bank *question.Bank, policy catalog.Policy) *Engine {
	if cfg.ContradictionSten > 0 {
		policy.ContradictionSten = cfg.ContradictionSten
	}
	if bank == nil {
		bank = question.NewBank(nil)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Engine{
		cfg:    cfg,
		eval:   evaluator.New(cfg.Evaluator),
		policy: policy,
		bank:   bank,
	}
}

// Bank returns the engine's question bank.
func (e *Engine) Bank() *question.Bank { return e.bank }

// Policy returns the engine's policy.
func (e *Engine) Policy() catalog.Policy { return e.policy }

// Evaluate judges one answer against the bank question with id.
func (e *Engine) Evaluate(id string, answer any) (evaluator.Result, error) {
	q, ok := e.bank.Get(id)
	if !ok {
		return evaluator.Result{}, fmt.Errorf("unknown question %q", id)
	}
	return evaluator.Result{
		QuestionID: id,
		Kind:       q.Kind(),
		Answer:     answer,
		Answered:   evaluator.IsAnswered(q, answer),
		Correct:    e.eval.Evaluate(q, answer),
	}, nil
}

// Results grades the bank questions that answers has a key for, in bank
// order. Triplets have no correct answer and are left to Assess, so they never
// count toward the summary. Keys naming no bank question are ignored.
func (e *Engine) Results(answers map[string]any) ([]evaluator.Result, evaluator.Summary) {
	var ids []string
	for _, q := range e.bank.Questions() {
		if _, ok := answers[q.QuestionID()]; ok {
			ids = append(ids, q.QuestionID())
		}
	}
	return e.ResultsFor(ids, answers)
}

// ResultsFor grades the questions with ids, in the order given, so questions
// that were presented but left blank count as unanswered. Unknown ids and
// triplets are skipped.
func (e *Engine) ResultsFor(ids []string, answers map[string]any) ([]evaluator.Result, evaluator.Summary) {
	var (
		questions []question.Question
		ordered   []any
	)
	for _, id := range ids {
		q, ok := e.bank.Get(id)
		if !ok || q.Kind() == question.KindIpsativeTriplet {
			continue
		}
		questions = append(questions, q)
		ordered = append(ordered, answers[id])
	}
	results := e.eval.BuildResults(questions, ordered)
	return results, evaluator.Summarize(results)
}

// answersTriplets reports whether answers ranks at least one bank triplet.
func (e *Engine) answersTriplets(answers map[string]any) bool {
	for _, t := range e.bank.Triplets() {
		if evaluator.IsAnswered(t, answers[t.ID]) {
			return true
		}
	}
	return false
}

// Assessment is the behavioral reading of one forced-choice session.
type Assessment struct {
	Profile     ipsative.Profile      `json:"profile"`
	Consistency consistency.Report    `json:"consistency"`
	Alignment   []alignment.Alignment `json:"alignment"`
}

// Assess builds the profile, its consistency report and its alignment from
// the bank's triplets.
func (e *Engine) Assess(answers map[string]any) Assessment {
	triplets := e.bank.Triplets()
	profile := ipsative.BuildProfile(triplets, answers, e.policy.Traits)
	return Assessment{
		Profile:     profile,
		Consistency: consistency.Compute(triplets, answers, profile, e.policy),
		Alignment:   alignment.Map(profile, e.policy.Alignment),
	}
}

// Breakdown scores a single attempt's rated-response sets.
func (e *Engine) Breakdown(answers map[string]any) rolling.Result {
	return e.Rolling([]rolling.Attempt{{Kind: e.cfg.Rolling.Kind, Answers: answers}})
}

// Rolling blends the configured window of attempts.
func (e *Engine) Rolling(attempts []rolling.Attempt) rolling.Result {
	return rolling.Breakdown(attempts, e.bank, e.policy.SJQ, e.cfg.Rolling)
}

// Scored is the full scoring of one attempt.
type Scored struct {
	AttemptID  string             `json:"attempt_id"`
	Kind       string             `json:"assessment_kind"`
	Summary    evaluator.Summary  `json:"summary"`
	Results    []evaluator.Result `json:"results,omitempty"`
	Assessment *Assessment        `json:"assessment,omitempty"`
	Breakdown  *rolling.Result    `json:"breakdown,omitempty"`
}

// Score runs every applicable scorer on one attempt: answer verdicts always,
// the behavioral assessment when the attempt ranks at least one triplet and
// the competency breakdown when the attempt is of the rolling kind.
func (e *Engine) Score(a rolling.Attempt) Scored {
	results, summary := e.Results(a.Answers)
	s := Scored{AttemptID: a.ID, Kind: a.Kind, Summary: summary, Results: results}
	if e.answersTriplets(a.Answers) {
		as := e.Assess(a.Answers)
		s.Assessment = &as
	}
	if a.Kind == e.cfg.Rolling.Kind {
		b := e.Breakdown(a.Answers)
		s.Breakdown = &b
	}
	return s
}

// ScoreBatch scores attempts concurrently with at most cfg.Workers in
// flight. Output order matches input order. It stops early only when ctx is
// cancelled.
func (e *Engine) ScoreBatch(ctx context.Context, attempts []rolling.Attempt) ([]Scored, error) {
	out := make([]Scored, len(attempts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)

	for i, a := range attempts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = e.Score(a)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
