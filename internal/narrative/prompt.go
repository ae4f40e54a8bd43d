package narrative

import (
	"fmt"
	"strings"

	"github.com/talentprep/scorekit/internal/alignment"
	"github.com/talentprep/scorekit/internal/consistency"
	"github.com/talentprep/scorekit/internal/ipsative"
	"github.com/talentprep/scorekit/internal/units"
)

const profileSystemPrompt = `You interpret forced-choice behavioral assessments for job candidates practising for employer tests. Describe tendencies, never fitness for a role. Percentages are relative preferences between traits, not abilities.`

func buildProfileUserMessage(in ProfileInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Answered %d of %d forced-choice blocks.\n\n", in.Profile.AnsweredCount, in.Profile.TotalTriplets)

	b.WriteString("Trait profile (percent, sten 1-10):\n")
	for _, e := range in.Profile.Entries {
		fmt.Fprintf(&b, "- %s: %d%% (sten %d)\n", e.Label, e.Pct, e.Sten)
	}
	writeEntries(&b, "Top traits", in.Profile.Top)
	writeEntries(&b, "Bottom traits", in.Profile.Bottom)

	if in.Consistency != nil {
		fmt.Fprintf(&b, "\nOverall consistency: %d/100\n", in.Consistency.Overall)
		for _, c := range in.Consistency.Contradictions {
			fmt.Fprintf(&b, "- Contradiction: %s and %s both high", c.A.Label, c.B.Label)
			if c.Reason != "" {
				fmt.Fprintf(&b, " (%s)", c.Reason)
			}
			b.WriteString("\n")
		}
	}

	if len(in.Alignment) > 0 {
		b.WriteString("\nValues alignment:\n")
		for _, a := range in.Alignment {
			fmt.Fprintf(&b, "- %s: %d%%\n", a.Label, a.Pct)
		}
	}

	b.WriteString(`
Instructions:
1. Summarise the working style in 3-4 sentences, leading with the top traits.
2. List strengths drawn from the top traits and development areas drawn from the bottom traits.
3. If consistency is below 60 or contradictions are listed, add a caveat saying the profile may be unreliable. Otherwise return an empty caveats list.
4. Plain text only. No markdown.`)

	return b.String()
}

func writeEntries(b *strings.Builder, title string, entries []ipsative.Entry) {
	if len(entries) == 0 {
		return
	}
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
	}
	fmt.Fprintf(b, "%s: %s\n", title, strings.Join(labels, ", "))
}

const coachingSystemPrompt = `You coach candidates preparing for situational judgement tests. Tips must be concrete behaviours the candidate can apply when rating response options.`

func buildCoachingUserMessage(weakest []units.Score, maxTips int) string {
	var b strings.Builder

	b.WriteString("Weakest competencies (percent of rating units earned):\n")
	for _, s := range weakest {
		fmt.Fprintf(&b, "- %s [%s]: %d%%", s.Label, s.ID, s.Pct)
		if s.Tip != "" {
			fmt.Fprintf(&b, ". Existing guidance: %s", s.Tip)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `
Instructions:
Give at most %d tips, one per competency, using the bracketed id as the competency field. Each tip is one sentence that goes beyond the existing guidance.`, maxTips)
	return b.String()
}

// ProfileInput is everything a profile narrative is written from.
type ProfileInput struct {
	Profile     ipsative.Profile
	Consistency *consistency.Report
	Alignment   []alignment.Alignment
}
