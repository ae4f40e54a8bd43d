// Package narrative turns scored results into prose through an LLM. It is
// optional; every score it describes is computed without it.
package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/talentprep/scorekit/internal/llm"
	"github.com/talentprep/scorekit/internal/units"
)

// Narrative is a written reading of a profile.
type Narrative struct {
	Summary     string    `json:"summary"`
	Strengths   []string  `json:"strengths"`
	Development []string  `json:"development"`
	Caveats     []string  `json:"caveats"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Tip is coaching advice for one competency.
type Tip struct {
	Competency string `json:"competency"`
	Tip        string `json:"tip"`
}

// ErrNothingToExplain is returned for inputs with no scored data.
var ErrNothingToExplain = errors.New("nothing to explain")

// Explainer writes narratives with an llm.Provider.
type Explainer struct {
	provider llm.Provider
	cfg      Config
}

// New creates an Explainer.
func New(provider llm.Provider, cfg Config) *Explainer {
	return &Explainer{provider: provider, cfg: cfg}
}

// ExplainProfile writes a narrative for a behavioral profile.
func (e *Explainer) ExplainProfile(ctx context.Context, in ProfileInput) (*Narrative, error) {
	if in.Profile.AnsweredCount == 0 {
		return nil, ErrNothingToExplain
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeNarrative)

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:      profileSystemPrompt,
		Messages:    llm.UserMessage(buildProfileUserMessage(in)),
		Schema:      ProfileSchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("profile narrative: %w", err)
	}

	var n Narrative
	if err := json.Unmarshal(resp.Content, &n); err != nil {
		return nil, fmt.Errorf("parse profile narrative: %w", err)
	}
	n.Model = resp.Model
	n.GeneratedAt = time.Now()
	return &n, nil
}

// Coach asks for tips on the weakest competencies of a breakdown. Only
// competencies that were actually rated are considered. Tips naming a
// competency that was not asked about are dropped.
func (e *Explainer) Coach(ctx context.Context, breakdown []units.Score) ([]Tip, error) {
	weakest := Weakest(breakdown, e.cfg.MaxTips)
	if len(weakest) == 0 {
		return nil, ErrNothingToExplain
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeTips)

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:      coachingSystemPrompt,
		Messages:    llm.UserMessage(buildCoachingUserMessage(weakest, e.cfg.MaxTips)),
		Schema:      CoachingSchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("coaching tips: %w", err)
	}

	var out struct {
		Tips []Tip `json:"tips"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse coaching tips: %w", err)
	}

	asked := make(map[string]bool, len(weakest))
	for _, s := range weakest {
		asked[s.ID] = true
	}
	var tips []Tip
	for _, t := range out.Tips {
		if asked[t.Competency] && len(tips) < e.cfg.MaxTips {
			tips = append(tips, t)
		}
	}
	return tips, nil
}

// StaticTips returns the catalog tips for the weakest competencies, for use
// when no provider is configured or generation fails.
func StaticTips(breakdown []units.Score, limit int) []Tip {
	var tips []Tip
	for _, s := range Weakest(breakdown, limit) {
		if s.Tip != "" {
			tips = append(tips, Tip{Competency: s.ID, Tip: s.Tip})
		}
	}
	return tips
}

// Weakest returns up to limit rated competencies, lowest percentage first,
// ties in breakdown order.
func Weakest(breakdown []units.Score, limit int) []units.Score {
	var rated []units.Score
	for _, s := range breakdown {
		if s.Total > 0 {
			rated = append(rated, s)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool { return rated[i].Pct < rated[j].Pct })
	if limit >= 0 && len(rated) > limit {
		rated = rated[:limit]
	}
	return rated
}
