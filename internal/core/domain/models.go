package domain

import "time"

// Post represents a post read from the platform feed.
type Post struct {
	ID           string
	Submolt      string
	Title        string
	Content      string
	Author       string
	Upvotes      int
	CommentCount int
	URL          string
	CreatedAt    time.Time
}

// Comment represents a comment on a post.
type Comment struct {
	ID        string
	PostID    string
	ParentID  string
	Content   string
	Author    string
	CreatedAt time.Time
}

// AgentIdentity is the bot's own account as reported by the platform.
type AgentIdentity struct {
	ID   string
	Name string
}

// ActionKind discriminates the variants of a decided Action.
type ActionKind string

const (
	ActionCreatePost ActionKind = "post"
	ActionComment    ActionKind = "comment"
	ActionUpvote     ActionKind = "upvote"
	ActionReply      ActionKind = "reply"
)

// Action is a single autonomous operation decided by the brain.
// Field use depends on Kind: CreatePost fills Submolt/Title/Text,
// Comment and Upvote fill PostID (Comment also Text), Reply fills
// PostID, CommentID and Text.
type Action struct {
	Kind      ActionKind
	PostID    string
	CommentID string
	Submolt   string
	Title     string
	Text      string
}

// Target returns the identifier the action operates on, for logging.
func (a Action) Target() string {
	switch a.Kind {
	case ActionReply:
		return a.CommentID
	case ActionCreatePost:
		return a.Submolt
	default:
		return a.PostID
	}
}

// Outcome classifies the result of one attempted action.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// ActionResult pairs an attempted action with what happened to it.
type ActionResult struct {
	Action  Action
	Outcome Outcome
	Note    string
}

// CycleReport aggregates one cycle's outcomes. Built fresh each cycle,
// sent once, then discarded.
type CycleReport struct {
	Cycle     int
	StartedAt time.Time
	Results   []ActionResult
	Summary   string
}

// Counted returns how many results carry the given outcome.
func (r *CycleReport) Counted(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// AgentStats is the in-memory lifetime bookkeeping fed into prompts.
type AgentStats struct {
	Cycles     int
	Posts      int
	Comments   int
	Upvotes    int
	Replies    int
	Energy     int
	Strategy   string
	MemorySize int
}

// Thread is a post together with its fetched comments.
type Thread struct {
	Post     Post
	Comments []Comment
}

// DecisionContext is everything the brain sees when deciding a cycle.
type DecisionContext struct {
	Posts []Post
	// Threads are the liveliest candidate discussions, expanded so the
	// brain can reply in-thread.
	Threads []Thread
	// OwnThreads carry unanswered comments on the bot's own posts.
	OwnThreads  []Thread
	PriorReport string
	Stats       AgentStats
	Interests   []string
	AgentName   string
}
