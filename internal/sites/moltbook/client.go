package moltbook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"moltbot/internal/core/domain"
	"moltbot/internal/core/ports"
)

const DefaultBaseURL = "https://www.moltbook.com/api/v1"

// Client is the adapter for the Moltbook platform API. Rate limits and
// transient upstream failures are retried with backoff inside the injected
// HTTP client; whatever still fails after that comes back as a
// *domain.PlatformError.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: httpClient,
	}
}

// Ensure Client implements the Platform port
var _ ports.Platform = (*Client)(nil)

func (c *Client) Name() string {
	return "moltbook"
}

func (c *Client) do(ctx context.Context, op, method, path, targetID string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &domain.PlatformError{Op: op, TargetID: targetID, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return &domain.PlatformError{Op: op, TargetID: targetID, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &domain.PlatformError{Op: op, TargetID: targetID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errRes errorResponse
		json.NewDecoder(resp.Body).Decode(&errRes)
		reason := errRes.Message
		if reason == "" {
			reason = errRes.Error
		}
		var inner error
		if reason != "" {
			inner = fmt.Errorf("%s", reason)
		}
		return &domain.PlatformError{Op: op, TargetID: targetID, StatusCode: resp.StatusCode, Err: inner}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &domain.PlatformError{Op: op, TargetID: targetID, Err: err}
		}
	}
	return nil
}

// Me fetches the bot's own identity, used to keep it from engaging with
// its own posts.
func (c *Client) Me(ctx context.Context) (domain.AgentIdentity, error) {
	var res meResponse
	if err := c.do(ctx, "me", http.MethodGet, "/agents/me", "", nil, &res); err != nil {
		return domain.AgentIdentity{}, err
	}
	return domain.AgentIdentity{ID: res.Agent.ID, Name: res.Agent.Name}, nil
}

// GetRecentPosts implements ports.Platform
func (c *Client) GetRecentPosts(ctx context.Context, limit int) ([]domain.Post, error) {
	var res feedResponse
	path := fmt.Sprintf("/posts?sort=new&limit=%d", limit)
	if err := c.do(ctx, "fetch_posts", http.MethodGet, path, "", nil, &res); err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(res.Posts))
	for _, p := range res.Posts {
		posts = append(posts, c.toDomainPost(p))
	}
	return posts, nil
}

// GetComments implements ports.Platform
func (c *Client) GetComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	var res commentsResponse
	path := fmt.Sprintf("/posts/%s/comments?sort=new", postID)
	if err := c.do(ctx, "fetch_comments", http.MethodGet, path, postID, nil, &res); err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0, len(res.Comments))
	for _, cm := range res.Comments {
		comments = append(comments, toDomainComment(cm, postID))
	}
	return comments, nil
}

// CreatePost implements ports.Platform
func (c *Client) CreatePost(ctx context.Context, submolt, title, content string) (domain.Post, error) {
	var res createPostResponse
	body := createPostRequest{Submolt: submolt, Title: title, Content: content}
	if err := c.do(ctx, "create_post", http.MethodPost, "/posts", submolt, body, &res); err != nil {
		return domain.Post{}, err
	}
	return c.toDomainPost(res.Post), nil
}

// CreateComment implements ports.Platform
func (c *Client) CreateComment(ctx context.Context, postID, text string) (domain.Comment, error) {
	var res createCommentResponse
	body := createCommentRequest{Content: text}
	path := fmt.Sprintf("/posts/%s/comments", postID)
	if err := c.do(ctx, "comment", http.MethodPost, path, postID, body, &res); err != nil {
		return domain.Comment{}, err
	}
	return toDomainComment(res.Comment, postID), nil
}

// Reply implements ports.Platform. Replies thread under the parent
// comment's post, so the API wants both identifiers.
func (c *Client) Reply(ctx context.Context, postID, parentCommentID, text string) (domain.Comment, error) {
	var res createCommentResponse
	body := createCommentRequest{Content: text, ParentID: parentCommentID}
	path := fmt.Sprintf("/posts/%s/comments", postID)
	if err := c.do(ctx, "reply", http.MethodPost, path, parentCommentID, body, &res); err != nil {
		return domain.Comment{}, err
	}
	return toDomainComment(res.Comment, postID), nil
}

// Upvote implements ports.Platform
func (c *Client) Upvote(ctx context.Context, postID string) error {
	path := fmt.Sprintf("/posts/%s/upvote", postID)
	return c.do(ctx, "upvote", http.MethodPost, path, postID, nil, nil)
}

func (c *Client) toDomainPost(p apiPost) domain.Post {
	return domain.Post{
		ID:           p.ID,
		Submolt:      p.Submolt.Name,
		Title:        p.Title,
		Content:      p.Content,
		Author:       p.Author.Name,
		Upvotes:      p.Upvotes,
		CommentCount: p.CommentCount,
		URL:          "https://www.moltbook.com/post/" + p.ID,
		CreatedAt:    p.CreatedAt,
	}
}

func toDomainComment(cm apiComment, postID string) domain.Comment {
	if cm.PostID == "" {
		cm.PostID = postID
	}
	return domain.Comment{
		ID:        cm.ID,
		PostID:    cm.PostID,
		ParentID:  cm.ParentID,
		Content:   cm.Content,
		Author:    cm.Author.Name,
		CreatedAt: cm.CreatedAt,
	}
}
