package agent

import (
	"fmt"
	"strings"
	"time"

	"moltbot/internal/core/domain"
)

// formatSummary renders the full delivery text for one cycle: agent
// status, per-action outcomes, lifetime totals and the brain's
// intelligence report. Generation failures arrive as a note inside
// intelligence; an empty string just means there was nothing to say.
func formatSummary(report *domain.CycleReport, stats domain.AgentStats, interests []string, intelligence string, interval time.Duration) string {
	var b strings.Builder

	rule := strings.Repeat("═", 40)

	fmt.Fprintf(&b, "MOLTBOT AUTONOMOUS REPORT\n%s | Cycle #%d\n\n%s\n\n",
		report.StartedAt.Format("2006-01-02 15:04 UTC"), report.Cycle, rule)

	fmt.Fprintf(&b, "AGENT STATUS\n  • Energy: %d%%\n  • Strategy: %s\n  • Memory: %d posts tracked\n  • Interests: %s\n\n",
		stats.Energy, stats.Strategy, stats.MemorySize, strings.Join(interests, ", "))

	fmt.Fprintf(&b, "ACTIONS THIS CYCLE (%d total)\n", len(report.Results))
	if len(report.Results) == 0 {
		b.WriteString("  • no actions this cycle\n")
	}
	for _, res := range report.Results {
		fmt.Fprintf(&b, "  • %s %s\n", describeAction(res.Action), annotate(res))
	}

	fmt.Fprintf(&b, "\nLIFETIME PERFORMANCE\n  • Posts: %d\n  • Comments: %d\n  • Upvotes: %d\n  • Replies: %d\n\n%s\n\n",
		stats.Posts, stats.Comments, stats.Upvotes, stats.Replies, rule)

	if intelligence != "" {
		b.WriteString(intelligence)
	} else {
		b.WriteString("No intelligence report this cycle")
	}

	fmt.Fprintf(&b, "\n\n%s\nNext cycle in %d minutes", rule, int(interval.Minutes()))

	return b.String()
}

func describeAction(a domain.Action) string {
	switch a.Kind {
	case domain.ActionCreatePost:
		return fmt.Sprintf("posted '%s' in m/%s", clip(a.Title, 50), a.Submolt)
	case domain.ActionComment:
		return fmt.Sprintf("commented on post %s", a.PostID)
	case domain.ActionUpvote:
		return fmt.Sprintf("upvoted post %s", a.PostID)
	case domain.ActionReply:
		return fmt.Sprintf("replied to comment %s", a.CommentID)
	default:
		return string(a.Kind)
	}
}

func annotate(res domain.ActionResult) string {
	switch res.Outcome {
	case domain.OutcomeSucceeded:
		return ""
	case domain.OutcomeSkipped:
		if res.Note != "" {
			return fmt.Sprintf("(skipped: %s)", res.Note)
		}
		return "(skipped)"
	default:
		if res.Note != "" {
			return fmt.Sprintf("(failed: %s)", res.Note)
		}
		return "(failed)"
	}
}

func clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
