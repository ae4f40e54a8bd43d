// Package report renders scoring output for the terminal.
//
// Every function returns a styled string; callers print it with
// lipgloss.Println so colors are downsampled to the terminal's profile.
package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/talentprep/scorekit/internal/alignment"
	"github.com/talentprep/scorekit/internal/consistency"
	"github.com/talentprep/scorekit/internal/evaluator"
	"github.com/talentprep/scorekit/internal/ipsative"
	"github.com/talentprep/scorekit/internal/narrative"
	"github.com/talentprep/scorekit/internal/rolling"
	"github.com/talentprep/scorekit/internal/ui/components"
	"github.com/talentprep/scorekit/internal/ui/theme"
)

const (
	labelWidth = 26
	barWidth   = 24
)

// Profile renders a trait profile with its top and bottom traits.
func Profile(p ipsative.Profile) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Behavioral profile"))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d of %d triplets answered", p.AnsweredCount, p.TotalTriplets)))
	b.WriteString("\n")

	writeEntries(&b, p.Entries)
	if len(p.Extras) > 0 {
		b.WriteString(theme.Heading.Render("Additional traits"))
		b.WriteString("\n")
		writeEntries(&b, p.Extras)
	}
	if len(p.Top) > 0 {
		b.WriteString(theme.Heading.Render("Strongest"))
		b.WriteString("\n  " + labels(p.Top) + "\n")
	}
	if len(p.Bottom) > 0 {
		b.WriteString(theme.Heading.Render("Least expressed"))
		b.WriteString("\n  " + labels(p.Bottom) + "\n")
	}
	return b.String()
}

func writeEntries(b *strings.Builder, entries []ipsative.Entry) {
	for _, e := range entries {
		bar := components.Bar{
			Label:      e.Label,
			LabelWidth: labelWidth,
			Pct:        e.Pct,
			Width:      barWidth,
			Suffix:     fmt.Sprintf("sten %d", e.Sten),
		}
		b.WriteString(bar.View())
		b.WriteString("\n")
	}
}

func labels(entries []ipsative.Entry) string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Label
	}
	return strings.Join(names, ", ")
}

// Consistency renders the overall index, per-trait indices and any flagged
// contradictions.
func Consistency(r consistency.Report) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Consistency"))
	b.WriteString("\n")
	b.WriteString(components.Bar{Label: "Overall", LabelWidth: labelWidth, Pct: r.Overall, Width: barWidth}.View())
	b.WriteString("\n")

	for _, t := range r.PerCompetency {
		bar := components.Bar{
			Label:      t.Label,
			LabelWidth: labelWidth,
			Pct:        t.Index,
			Width:      barWidth,
			Suffix:     fmt.Sprintf("sd %.2f over %d", t.StdDev, t.Observations),
		}
		b.WriteString(bar.View())
		b.WriteString("\n")
	}

	if len(r.Contradictions) == 0 {
		b.WriteString(theme.Hint.Render("No contradictions flagged."))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(theme.Heading.Render("Contradictions"))
	b.WriteString("\n")
	for _, c := range r.Contradictions {
		line := fmt.Sprintf("! %s (sten %d) and %s (sten %d)", c.A.Label, c.A.Sten, c.B.Label, c.B.Sten)
		if c.Reason != "" {
			line += ": " + c.Reason
		}
		b.WriteString(theme.Flagged.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// Alignment renders external-framework percentages.
func Alignment(items []alignment.Alignment) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Alignment"))
	b.WriteString("\n")
	for _, a := range items {
		b.WriteString(components.Bar{Label: a.Label, LabelWidth: labelWidth, Pct: a.Pct, Width: barWidth}.View())
		b.WriteString("\n")
	}
	return b.String()
}

// Breakdown renders a competency breakdown with raw units.
func Breakdown(r rolling.Result) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Competency breakdown"))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%s used", plural(r.AttemptsUsed, "attempt"))))
	b.WriteString("\n")
	for _, s := range r.Breakdown {
		bar := components.Bar{
			Label:      s.Label,
			LabelWidth: labelWidth,
			Pct:        s.Pct,
			Width:      barWidth,
			Suffix:     fmt.Sprintf("%g/%g units", s.Earned, s.Total),
		}
		b.WriteString(bar.View())
		b.WriteString("\n")
	}
	return b.String()
}

// Results renders per-question verdicts and the summary line.
func Results(results []evaluator.Result, summary evaluator.Summary) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("#", "Question", "Kind", "Verdict").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.Heading.MarginTop(0).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for i, r := range results {
		t.Row(fmt.Sprint(i+1), r.QuestionID, string(r.Kind), verdict(r))
	}

	line := fmt.Sprintf("%d/%d correct (%d%%), %d answered", summary.Correct, summary.Total, summary.Pct, summary.Answered)
	return t.String() + "\n" + theme.Band(summary.Pct).Render(line) + "\n"
}

func verdict(r evaluator.Result) string {
	switch {
	case !r.Answered:
		return theme.Hint.Render("unanswered")
	case r.Correct:
		return theme.Correct.Render("correct")
	default:
		return theme.Incorrect.Render("incorrect")
	}
}

// Attempts renders stored attempts newest first.
func Attempts(attempts []rolling.Attempt) string {
	if len(attempts) == 0 {
		return theme.Hint.Render("No attempts recorded.") + "\n"
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("ID", "Kind", "Created", "Answers")
	for _, a := range attempts {
		t.Row(a.ID, a.Kind, a.CreatedAt.Local().Format("2006-01-02 15:04"), fmt.Sprint(len(a.Answers)))
	}
	return t.String() + "\n"
}

// Narrative renders a generated profile narrative.
func Narrative(n narrative.Narrative) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(theme.Body.Width(80).Render(n.Summary))
	b.WriteString("\n")
	writeList(&b, "Strengths", n.Strengths)
	writeList(&b, "Development", n.Development)
	writeList(&b, "Caveats", n.Caveats)
	if n.Model != "" {
		b.WriteString(theme.Hint.Render("Generated by " + n.Model))
		b.WriteString("\n")
	}
	return b.String()
}

// Tips renders coaching tips.
func Tips(tips []narrative.Tip) string {
	if len(tips) == 0 {
		return theme.Hint.Render("No coaching tips: nothing was rated.") + "\n"
	}
	var b strings.Builder
	b.WriteString(theme.Title.Render("Coaching"))
	b.WriteString("\n")
	for _, t := range tips {
		b.WriteString(theme.Card.Render(theme.Heading.MarginTop(0).Render(t.Competency) + "\n" + t.Tip))
		b.WriteString("\n")
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(theme.Heading.Render(title))
	b.WriteString("\n")
	for _, it := range items {
		b.WriteString("  • " + it + "\n")
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
