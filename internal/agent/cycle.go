package agent

import (
	"context"
	"sort"
	"strings"
	"time"

	"moltbot/internal/core/domain"
)

// RunCycle executes one full iteration: fetch state, ask the brain for
// actions, perform each one, then deliver the report. Failures are
// isolated to the smallest scope: a failed action is recorded and the
// rest still run, a failed decision yields zero actions, a failed
// delivery is swallowed. The returned report always carries exactly one
// result per attempted action.
func (a *Agent) RunCycle(ctx context.Context) *domain.CycleReport {
	report := &domain.CycleReport{
		Cycle:     a.memory.BeginCycle(),
		StartedAt: time.Now().UTC(),
	}
	a.log.Infow("cycle start", "cycle", report.Cycle)

	a.resolveIdentity(ctx)

	var notes []string

	// Fetching
	posts, err := a.platform.GetRecentPosts(ctx, a.fetchLimit)
	if err != nil {
		platformErrorCounter.WithLabelValues("fetch_posts").Inc()
		a.log.Errorw("feed fetch failed", "error", err)
		notes = append(notes, "Feed fetch failed: "+err.Error())
	}

	// Deciding
	var actions []domain.Action
	submoltByPost := make(map[string]string, len(posts))
	if len(posts) > 0 {
		for _, p := range posts {
			submoltByPost[p.ID] = p.Submolt
		}

		dc := a.buildContext(ctx, posts)
		actions, err = a.brain.Decide(ctx, dc)
		if err != nil {
			decisionFailureCounter.Inc()
			a.log.Errorw("decision failed", "error", err)
			notes = append(notes, "Decision engine failed: "+err.Error())
			actions = nil
		}
	}

	// Acting
	for _, action := range actions {
		res := a.execute(ctx, action, submoltByPost)
		actionsCounter.WithLabelValues(string(action.Kind), string(res.Outcome)).Inc()
		report.Results = append(report.Results, res)

		switch res.Outcome {
		case domain.OutcomeSucceeded:
			a.log.Infow("action done", "kind", action.Kind, "target", action.Target())
		case domain.OutcomeSkipped:
			a.log.Infow("action skipped", "kind", action.Kind, "target", action.Target(), "reason", res.Note)
		default:
			a.log.Errorw("action failed", "kind", action.Kind, "target", action.Target(), "reason", res.Note)
		}
	}

	// Reporting. The delivery happens even when everything above failed;
	// the notes tell the owner what went wrong.
	if len(posts) > 0 {
		intel, err := a.brain.Report(ctx, posts, report.Results)
		if err != nil {
			a.log.Warnw("report generation failed", "error", err)
			notes = append(notes, "Report generation failed: "+err.Error())
		} else if intel != "" {
			notes = append(notes, intel)
		}
	} else if len(notes) == 0 {
		notes = append(notes, "No posts in the feed; nothing to report.")
	}

	intelligence := strings.Join(notes, "\n\n")
	report.Summary = formatSummary(report, a.memory.Stats(), a.memory.Interests(), intelligence, a.interval)
	a.memory.SetLastReport(clip(intelligence, 1500))

	if err := a.notifier.Send(ctx, report.Summary); err != nil {
		notifyFailureCounter.Inc()
		a.log.Errorw("report delivery failed", "error", err)
	}

	return report
}

// resolveIdentity fetches the bot's own account once so its own posts
// can be excluded from engagement.
func (a *Agent) resolveIdentity(ctx context.Context) {
	if a.memory.AgentName() != "" {
		return
	}
	me, err := a.platform.Me(ctx)
	if err != nil {
		platformErrorCounter.WithLabelValues("me").Inc()
		a.log.Warnw("identity fetch failed", "error", err)
		return
	}
	a.memory.SetAgentName(me.Name)
	a.log.Infow("identity resolved", "name", me.Name, "id", me.ID)
}

// buildContext assembles the decision context: engageable posts plus the
// comment threads of the most active discussions.
func (a *Agent) buildContext(ctx context.Context, posts []domain.Post) domain.DecisionContext {
	agentName := a.memory.AgentName()

	candidates := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if agentName != "" && p.Author == agentName {
			a.memory.MarkOwnPost(p.ID)
		}
		if a.memory.ShouldEngage(p.ID) {
			candidates = append(candidates, p)
		}
	}

	// Expand the liveliest discussions so the brain can reply in-thread.
	active := make([]domain.Post, 0, len(candidates))
	for _, p := range candidates {
		if p.CommentCount >= 2 {
			active = append(active, p)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CommentCount*2+active[i].Upvotes > active[j].CommentCount*2+active[j].Upvotes
	})
	if len(active) > a.threadLimit {
		active = active[:a.threadLimit]
	}

	var threads []domain.Thread
	for _, p := range active {
		comments, err := a.platform.GetComments(ctx, p.ID)
		if err != nil {
			platformErrorCounter.WithLabelValues("fetch_comments").Inc()
			a.log.Warnw("thread fetch failed", "post", p.ID, "error", err)
			continue
		}
		threads = append(threads, domain.Thread{Post: p, Comments: comments})
	}

	return domain.DecisionContext{
		Posts:       candidates,
		Threads:     threads,
		OwnThreads:  a.ownThreads(ctx, posts, agentName),
		PriorReport: a.memory.LastReport(),
		Stats:       a.memory.Stats(),
		Interests:   a.memory.Interests(),
		AgentName:   agentName,
	}
}

// ownThreads collects unanswered comments on the bot's own posts so the
// brain can reply to its commenters. Comments the bot wrote itself and
// comments it already answered are dropped.
func (a *Agent) ownThreads(ctx context.Context, posts []domain.Post, agentName string) []domain.Thread {
	if agentName == "" {
		return nil
	}

	own := make([]domain.Post, 0)
	for _, p := range posts {
		if p.Author == agentName && p.CommentCount > 0 {
			own = append(own, p)
		}
	}
	if len(own) > a.threadLimit {
		own = own[:a.threadLimit]
	}

	var threads []domain.Thread
	for _, p := range own {
		comments, err := a.platform.GetComments(ctx, p.ID)
		if err != nil {
			platformErrorCounter.WithLabelValues("fetch_comments").Inc()
			a.log.Warnw("own thread fetch failed", "post", p.ID, "error", err)
			continue
		}
		pending := make([]domain.Comment, 0, len(comments))
		for _, cm := range comments {
			if cm.Author == agentName || a.memory.HasReplied(cm.ID) {
				continue
			}
			pending = append(pending, cm)
		}
		if len(pending) > 0 {
			threads = append(threads, domain.Thread{Post: p, Comments: pending})
		}
	}
	return threads
}

// execute performs a single action. Each action is attempted at most
// once; a non-rate-limit failure is recorded, never retried.
func (a *Agent) execute(ctx context.Context, action domain.Action, submoltByPost map[string]string) domain.ActionResult {
	switch action.Kind {
	case domain.ActionCreatePost:
		post, err := a.platform.CreatePost(ctx, action.Submolt, action.Title, action.Text)
		if err != nil {
			return failed(action, err)
		}
		a.memory.MarkOwnPost(post.ID)
		a.memory.Record(action.Kind)
		return succeeded(action)

	case domain.ActionComment:
		if !a.memory.ShouldEngage(action.PostID) {
			return skipped(action, "already engaged or own post")
		}
		if _, err := a.platform.CreateComment(ctx, action.PostID, action.Text); err != nil {
			return failed(action, err)
		}
		a.memory.MarkEngaged(action.PostID, submoltByPost[action.PostID])
		a.memory.Record(action.Kind)
		return succeeded(action)

	case domain.ActionUpvote:
		if !a.memory.ShouldEngage(action.PostID) {
			return skipped(action, "already engaged or own post")
		}
		if err := a.platform.Upvote(ctx, action.PostID); err != nil {
			return failed(action, err)
		}
		a.memory.MarkEngaged(action.PostID, submoltByPost[action.PostID])
		a.memory.Record(action.Kind)
		return succeeded(action)

	case domain.ActionReply:
		if a.memory.HasReplied(action.CommentID) {
			return skipped(action, "already replied")
		}
		if _, err := a.platform.Reply(ctx, action.PostID, action.CommentID, action.Text); err != nil {
			return failed(action, err)
		}
		a.memory.MarkReplied(action.CommentID)
		a.memory.MarkEngaged(action.PostID, submoltByPost[action.PostID])
		a.memory.Record(action.Kind)
		return succeeded(action)

	default:
		return skipped(action, "unknown action kind")
	}
}

func succeeded(a domain.Action) domain.ActionResult {
	return domain.ActionResult{Action: a, Outcome: domain.OutcomeSucceeded}
}

func failed(a domain.Action, err error) domain.ActionResult {
	return domain.ActionResult{Action: a, Outcome: domain.OutcomeFailed, Note: err.Error()}
}

func skipped(a domain.Action, reason string) domain.ActionResult {
	return domain.ActionResult{Action: a, Outcome: domain.OutcomeSkipped, Note: reason}
}
