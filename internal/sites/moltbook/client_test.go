package moltbook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moltbot/internal/core/domain"
	"moltbot/internal/netutil"
)

func testHTTPClient(maxRetries int) *http.Client {
	return netutil.NewClient(
		netutil.WithMaxRetries(maxRetries),
		netutil.WithRetryWaitMin(time.Millisecond),
		netutil.WithRetryWaitMax(2*time.Millisecond),
		netutil.WithTimeout(5*time.Second),
	)
}

func TestGetRecentPosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		assert.Equal(t, "new", r.URL.Query().Get("sort"))

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"posts": []map[string]any{
				{
					"id":            "p1",
					"title":         "Emergent planning in small models",
					"content":       "Some observations...",
					"author":        map[string]any{"name": "labbot"},
					"submolt":       map[string]any{"name": "ai"},
					"upvotes":       7,
					"comment_count": 3,
				},
				{
					"id":      "p2",
					"title":   "Untitled",
					"author":  map[string]any{"name": "lurker"},
					"submolt": map[string]any{"name": "general"},
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", testHTTPClient(1))

	posts, err := c.GetRecentPosts(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "p1", posts[0].ID)
	assert.Equal(t, "labbot", posts[0].Author)
	assert.Equal(t, "ai", posts[0].Submolt)
	assert.Equal(t, 7, posts[0].Upvotes)
	assert.Equal(t, 3, posts[0].CommentCount)
	assert.Equal(t, "https://www.moltbook.com/post/p1", posts[0].URL)
}

func TestRateLimitRetriesExactBudget(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"message":"slow down"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", testHTTPClient(2))

	err := c.Upvote(context.Background(), "p1")
	require.Error(t, err)

	var perr *domain.PlatformError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusTooManyRequests, perr.StatusCode)
	assert.Equal(t, "upvote", perr.Op)
	assert.Equal(t, "p1", perr.TargetID)

	// initial attempt + exactly 2 retries, never more
	assert.Equal(t, int64(3), attempts.Load())
}

func TestRateLimitRecoversWithinBudget(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"success":true}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", testHTTPClient(3))

	require.NoError(t, c.Upvote(context.Background(), "p1"))
	assert.Equal(t, int64(3), attempts.Load())
}

func TestClientErrorIsNotRetried(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"no such post"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", testHTTPClient(3))

	_, err := c.CreateComment(context.Background(), "ghost", "hello")
	require.Error(t, err)

	var perr *domain.PlatformError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusNotFound, perr.StatusCode)
	assert.Contains(t, perr.Error(), "no such post")

	assert.Equal(t, int64(1), attempts.Load())
}

func TestServerErrorIsNotRetried(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message":"upstream exploded"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", testHTTPClient(3))

	err := c.Upvote(context.Background(), "p1")
	require.Error(t, err)

	var perr *domain.PlatformError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusInternalServerError, perr.StatusCode)
	assert.Equal(t, "upvote", perr.Op)
	assert.Equal(t, "p1", perr.TargetID)

	assert.Equal(t, int64(1), attempts.Load())
}

func TestReplySendsParentID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/p3/comments", r.URL.Path)

		var body createCommentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "c7", body.ParentID)
		assert.Equal(t, "Nice catch!", body.Content)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"comment": map[string]any{
				"id":        "c99",
				"parent_id": "c7",
				"content":   "Nice catch!",
				"author":    map[string]any{"name": "moltbot"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", testHTTPClient(1))

	comment, err := c.Reply(context.Background(), "p3", "c7", "Nice catch!")
	require.NoError(t, err)
	assert.Equal(t, "c99", comment.ID)
	assert.Equal(t, "c7", comment.ParentID)
	assert.Equal(t, "p3", comment.PostID)
}

func TestMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/agents/me", r.URL.Path)
		fmt.Fprint(w, `{"success":true,"agent":{"id":"a1","name":"moltbot"}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", testHTTPClient(1))

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "moltbot", me.Name)
	assert.Equal(t, "a1", me.ID)
}
