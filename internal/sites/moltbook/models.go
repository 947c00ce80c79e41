package moltbook

import "time"

// apiAuthor is the nested author object the API attaches to posts and
// comments.
type apiAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type apiSubmolt struct {
	Name string `json:"name"`
}

// apiPost is a post as returned by the Moltbook API.
type apiPost struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Author       apiAuthor  `json:"author"`
	Submolt      apiSubmolt `json:"submolt"`
	Upvotes      int        `json:"upvotes"`
	CommentCount int        `json:"comment_count"`
	CreatedAt    time.Time  `json:"created_at"`
}

// apiComment is a comment as returned by the Moltbook API.
type apiComment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	ParentID  string    `json:"parent_id"`
	Content   string    `json:"content"`
	Author    apiAuthor `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

type feedResponse struct {
	Success bool      `json:"success"`
	Posts   []apiPost `json:"posts"`
}

type commentsResponse struct {
	Success  bool         `json:"success"`
	Comments []apiComment `json:"comments"`
}

type meResponse struct {
	Success bool `json:"success"`
	Agent   struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"agent"`
}

type createPostRequest struct {
	Submolt string `json:"submolt"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type createPostResponse struct {
	Success bool    `json:"success"`
	Post    apiPost `json:"post"`
}

type createCommentRequest struct {
	Content  string `json:"content"`
	ParentID string `json:"parent_id,omitempty"`
}

type createCommentResponse struct {
	Success bool       `json:"success"`
	Comment apiComment `json:"comment"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
