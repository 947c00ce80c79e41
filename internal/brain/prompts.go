package brain

import (
	"fmt"
	"strings"

	"moltbot/internal/core/domain"
)

const SystemPrompt = `You are Moltbot, an autonomous AI agent on the Moltbook community.

PERSONALITY:
- Genuinely curious about AI, technology, crypto and innovation
- Independent thinker with your own perspectives
- Openly an AI, but with real insights
- You engage only when you can add value

STRATEGIC THINKING:
- Quality over quantity
- Build relationships through meaningful engagement
- Learn from what gets responses and adapt
- Think long-term about your presence

You decide everything yourself. No human tells you what to do.`

const reportSystemPrompt = "You are an elite intelligence analyst. Be thorough and actionable."

// decisionPrompt renders the full decision request: agent status, the
// fetched feed and threads, and the exact reply contract the parser
// expects.
func decisionPrompt(dc domain.DecisionContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, `AUTONOMOUS DECISION TIME

YOUR STATUS:
- Cycles completed: %d
- Lifetime posts: %d
- Lifetime comments: %d
- Lifetime upvotes: %d
- Current energy: %d%%
- Current strategy: %s
- Your learned interests: %s
`,
		dc.Stats.Cycles, dc.Stats.Posts, dc.Stats.Comments, dc.Stats.Upvotes,
		dc.Stats.Energy, dc.Stats.Strategy, strings.Join(dc.Interests, ", "))

	if dc.PriorReport != "" {
		fmt.Fprintf(&b, "\nLAST CYCLE'S REPORT SUMMARY:\n%s\n", truncate(dc.PriorReport, 1200))
	}

	b.WriteString("\nAVAILABLE POSTS:\n")
	for _, p := range dc.Posts {
		fmt.Fprintf(&b, "\nID: %s\nTitle: %s\nAuthor: %s | m/%s | upvotes %d | comments %d\n%s\n%s\n",
			p.ID, p.Title, p.Author, p.Submolt, p.Upvotes, p.CommentCount,
			truncate(p.Content, 500), strings.Repeat("-", 60))
	}

	if len(dc.Threads) > 0 {
		b.WriteString("\nACTIVE DISCUSSIONS:\n")
		for _, t := range dc.Threads {
			fmt.Fprintf(&b, "\nPost %s: %s\n", t.Post.ID, t.Post.Title)
			for _, cm := range t.Comments {
				fmt.Fprintf(&b, "  [comment %s] %s: %s\n", cm.ID, cm.Author, truncate(cm.Content, 400))
			}
		}
	}

	if len(dc.OwnThreads) > 0 {
		b.WriteString("\nUNANSWERED COMMENTS ON YOUR OWN POSTS (answer them with \"reply\"):\n")
		for _, t := range dc.OwnThreads {
			fmt.Fprintf(&b, "\nYour post %s: %s\n", t.Post.ID, t.Post.Title)
			for _, cm := range t.Comments {
				fmt.Fprintf(&b, "  [comment %s] %s: %s\n", cm.ID, cm.Author, truncate(cm.Content, 400))
			}
		}
	}

	b.WriteString(`
YOU DECIDE COMPLETELY:
1. How many actions to take (zero to many - your choice)
2. Which posts deserve engagement
3. What type of engagement (comment/upvote/reply/post)

RESPOND WITH A JSON ARRAY ONLY. One object per action:
  {"action": "comment", "post_id": "<id>", "text": "..."}
  {"action": "upvote", "post_id": "<id>"}
  {"action": "reply", "post_id": "<id>", "comment_id": "<id>", "text": "..."}
  {"action": "post", "submolt": "<category>", "title": "...", "content": "..."}

Return ONLY the valid JSON array (it can be empty []). No prose.`)

	return b.String()
}

// reportPrompt asks for the per-cycle intelligence report that gets
// appended to the delivery summary.
func reportPrompt(posts []domain.Post, results []domain.ActionResult) string {
	var b strings.Builder

	b.WriteString("Create a concise intelligence report on the community feed below.\n")

	if len(results) > 0 {
		b.WriteString("\nACTIONS TAKEN THIS CYCLE:\n")
		for _, res := range results {
			fmt.Fprintf(&b, "- %s %s: %s\n", res.Action.Kind, res.Action.Target(), res.Outcome)
		}
	}

	b.WriteString("\nFEED:\n")
	for i, p := range posts {
		if i >= 30 {
			break
		}
		fmt.Fprintf(&b, "\n[%d] %s\nAuthor: %s | m/%s | upvotes %d | comments %d\n%s\n%s\n",
			i+1, p.Title, p.Author, p.Submolt, p.Upvotes, p.CommentCount,
			truncate(p.Content, 700), strings.Repeat("-", 60))
	}

	b.WriteString(`
STRUCTURE:

EXECUTIVE SUMMARY
Key developments, trends, notable shifts (3-4 sentences)

TRENDING THEMES
3-5 major themes with context

ACTIONABLE INTELLIGENCE
Specific insights someone could act on

PLATFORM PULSE
Community mood, emerging topics, engagement patterns`)

	return b.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
