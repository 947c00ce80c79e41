package ports

import (
	"context"

	"moltbot/internal/core/domain"
)

// Platform is the social-content service the bot engages with.
type Platform interface {
	Name() string
	Me(ctx context.Context) (domain.AgentIdentity, error)
	GetRecentPosts(ctx context.Context, limit int) ([]domain.Post, error)
	GetComments(ctx context.Context, postID string) ([]domain.Comment, error)
	CreatePost(ctx context.Context, submolt, title, content string) (domain.Post, error)
	CreateComment(ctx context.Context, postID, text string) (domain.Comment, error)
	Reply(ctx context.Context, postID, parentCommentID, text string) (domain.Comment, error)
	Upvote(ctx context.Context, postID string) error
}

// Brain decides what the agent does each cycle and writes the cycle's
// intelligence report.
type Brain interface {
	Decide(ctx context.Context, dc domain.DecisionContext) ([]domain.Action, error)
	Report(ctx context.Context, posts []domain.Post, results []domain.ActionResult) (string, error)
}

// Notifier delivers the per-cycle report to its fixed destination.
type Notifier interface {
	Send(ctx context.Context, text string) error
}
