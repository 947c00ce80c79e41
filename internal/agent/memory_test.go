package agent

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"moltbot/internal/core/domain"
)

func TestMemoryEngagementDedupe(t *testing.T) {
	m := NewMemory()

	assert.True(t, m.ShouldEngage("p1"))
	m.MarkEngaged("p1", "ai")
	assert.False(t, m.ShouldEngage("p1"))

	m.MarkOwnPost("p9")
	assert.False(t, m.ShouldEngage("p9"))

	assert.False(t, m.ShouldEngage(""))
}

func TestMemoryTrimsOldestEngagements(t *testing.T) {
	m := NewMemory()
	for i := 0; i <= memoryCap; i++ {
		m.MarkEngaged(fmt.Sprintf("p%d", i), "")
	}

	assert.Equal(t, memoryTrimTo, len(m.engaged))
	// oldest entries are forgotten, newest survive
	assert.True(t, m.ShouldEngage("p0"))
	assert.False(t, m.ShouldEngage(fmt.Sprintf("p%d", memoryCap)))
}

func TestMemoryInterests(t *testing.T) {
	m := NewMemory()
	assert.Equal(t, []string{"ai", "technology", "crypto"}, m.Interests())

	m.MarkEngaged("p1", "finance")
	m.MarkEngaged("p2", "finance")
	m.MarkEngaged("p3", "daily")
	m.MarkEngaged("p4", "tech")
	m.MarkEngaged("p5", "tech")
	m.MarkEngaged("p6", "tech")

	assert.Equal(t, []string{"tech", "finance", "daily"}, m.Interests())
}

func TestMemoryStrategyFollowsReplyRate(t *testing.T) {
	m := NewMemory()
	m.BeginCycle()
	assert.Equal(t, "quality_focused", m.Stats().Strategy)

	for i := 0; i < 10; i++ {
		m.Record(domain.ActionComment)
	}
	for i := 0; i < 4; i++ {
		m.Record(domain.ActionReply)
	}
	m.BeginCycle()
	assert.Equal(t, "aggressive", m.Stats().Strategy)
}

func TestMemoryRecordTallies(t *testing.T) {
	m := NewMemory()
	m.Record(domain.ActionCreatePost)
	m.Record(domain.ActionUpvote)
	m.Record(domain.ActionUpvote)

	stats := m.Stats()
	assert.Equal(t, 1, stats.Posts)
	assert.Equal(t, 2, stats.Upvotes)
	assert.Equal(t, 0, stats.Comments)
}

func TestMemoryReplyDedupe(t *testing.T) {
	m := NewMemory()
	assert.False(t, m.HasReplied("c7"))
	m.MarkReplied("c7")
	assert.True(t, m.HasReplied("c7"))
}
