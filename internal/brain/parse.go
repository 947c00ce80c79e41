package brain

import (
	"encoding/json"
	"fmt"
	"strings"

	"moltbot/internal/core/domain"
)

// actionRecord is one element of the JSON array the model must reply
// with. Unknown kinds and missing fields are rejected rather than
// guessed at.
type actionRecord struct {
	Action    string `json:"action"`
	PostID    string `json:"post_id"`
	CommentID string `json:"comment_id"`
	Submolt   string `json:"submolt"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Text      string `json:"text"`
}

// ParseActions parses the model's reply into a list of actions. The
// contract is a bare JSON array of tagged objects; markdown code fences
// around it are tolerated. Any deviation yields a *domain.ParseError and
// callers degrade to zero actions.
func ParseActions(raw string) ([]domain.Action, error) {
	cleaned := stripFences(raw)

	// Models occasionally wrap the array in prose. Take the outermost
	// bracket pair if one exists.
	if start := strings.Index(cleaned, "["); start != -1 {
		if end := strings.LastIndex(cleaned, "]"); end > start {
			cleaned = cleaned[start : end+1]
		}
	}

	var records []actionRecord
	if err := json.Unmarshal([]byte(cleaned), &records); err != nil {
		return nil, &domain.ParseError{Raw: raw, Err: err}
	}

	actions := make([]domain.Action, 0, len(records))
	for i, rec := range records {
		action, err := rec.toAction()
		if err != nil {
			return nil, &domain.ParseError{Raw: raw, Err: fmt.Errorf("action %d: %w", i, err)}
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func (r actionRecord) toAction() (domain.Action, error) {
	text := r.Text
	if text == "" {
		text = r.Content
	}

	switch domain.ActionKind(r.Action) {
	case domain.ActionCreatePost:
		if r.Title == "" || text == "" {
			return domain.Action{}, fmt.Errorf("post needs title and content")
		}
		submolt := r.Submolt
		if submolt == "" {
			submolt = "general"
		}
		return domain.Action{Kind: domain.ActionCreatePost, Submolt: submolt, Title: r.Title, Text: text}, nil
	case domain.ActionComment:
		if r.PostID == "" || text == "" {
			return domain.Action{}, fmt.Errorf("comment needs post_id and text")
		}
		return domain.Action{Kind: domain.ActionComment, PostID: r.PostID, Text: text}, nil
	case domain.ActionUpvote:
		if r.PostID == "" {
			return domain.Action{}, fmt.Errorf("upvote needs post_id")
		}
		return domain.Action{Kind: domain.ActionUpvote, PostID: r.PostID}, nil
	case domain.ActionReply:
		if r.PostID == "" || r.CommentID == "" || text == "" {
			return domain.Action{}, fmt.Errorf("reply needs post_id, comment_id and text")
		}
		return domain.Action{Kind: domain.ActionReply, PostID: r.PostID, CommentID: r.CommentID, Text: text}, nil
	default:
		return domain.Action{}, fmt.Errorf("unknown action %q", r.Action)
	}
}

func stripFences(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
