package agent

import (
	"sort"

	"moltbot/internal/core/domain"
)

const (
	memoryCap    = 1000
	memoryTrimTo = 800
	startEnergy  = 100
	maxEnergy    = 150
	minEnergy    = 50
	baseStrategy = "balanced"
)

// Memory is the agent's ephemeral cross-cycle state: what it has already
// engaged with, its own posts, lifetime totals and the learned topic
// preferences. Nothing here ever touches disk; a restart starts blank.
// The orchestrator is strictly serial, so no locking.
type Memory struct {
	agentName string

	engaged      map[string]struct{}
	engagedOrder []string
	replied      map[string]struct{}
	ownPosts     map[string]struct{}

	cycles   int
	posts    int
	comments int
	upvotes  int
	replies  int

	topics     map[string]int
	energy     int
	strategy   string
	lastReport string
}

func NewMemory() *Memory {
	return &Memory{
		engaged:  make(map[string]struct{}),
		replied:  make(map[string]struct{}),
		ownPosts: make(map[string]struct{}),
		topics:   make(map[string]int),
		energy:   startEnergy,
		strategy: baseStrategy,
	}
}

func (m *Memory) AgentName() string        { return m.agentName }
func (m *Memory) SetAgentName(name string) { m.agentName = name }

// BeginCycle advances the cycle counter and refreshes the strategy and
// energy level before any decision is made.
func (m *Memory) BeginCycle() int {
	m.cycles++
	m.strategy = m.decideStrategy()
	m.adjustEnergy()
	return m.cycles
}

// ShouldEngage reports whether the post is fresh territory: not already
// engaged with and not the agent's own.
func (m *Memory) ShouldEngage(postID string) bool {
	if postID == "" {
		return false
	}
	if _, ok := m.engaged[postID]; ok {
		return false
	}
	if _, ok := m.ownPosts[postID]; ok {
		return false
	}
	return true
}

// MarkEngaged remembers an engagement and trims the oldest entries once
// the memory grows past its cap.
func (m *Memory) MarkEngaged(postID, submolt string) {
	if postID != "" {
		if _, ok := m.engaged[postID]; !ok {
			m.engaged[postID] = struct{}{}
			m.engagedOrder = append(m.engagedOrder, postID)
		}
	}
	if submolt != "" {
		m.topics[submolt]++
	}

	if len(m.engagedOrder) > memoryCap {
		drop := m.engagedOrder[:len(m.engagedOrder)-memoryTrimTo]
		for _, id := range drop {
			delete(m.engaged, id)
		}
		m.engagedOrder = append([]string(nil), m.engagedOrder[len(m.engagedOrder)-memoryTrimTo:]...)
	}
}

func (m *Memory) MarkOwnPost(postID string) {
	if postID != "" {
		m.ownPosts[postID] = struct{}{}
	}
}

func (m *Memory) HasReplied(commentID string) bool {
	_, ok := m.replied[commentID]
	return ok
}

func (m *Memory) MarkReplied(commentID string) {
	if commentID != "" {
		m.replied[commentID] = struct{}{}
	}
}

// Record tallies one succeeded action into the lifetime totals.
func (m *Memory) Record(kind domain.ActionKind) {
	switch kind {
	case domain.ActionCreatePost:
		m.posts++
	case domain.ActionComment:
		m.comments++
	case domain.ActionUpvote:
		m.upvotes++
	case domain.ActionReply:
		m.replies++
	}
}

func (m *Memory) LastReport() string          { return m.lastReport }
func (m *Memory) SetLastReport(report string) { m.lastReport = report }

func (m *Memory) Stats() domain.AgentStats {
	return domain.AgentStats{
		Cycles:     m.cycles,
		Posts:      m.posts,
		Comments:   m.comments,
		Upvotes:    m.upvotes,
		Replies:    m.replies,
		Energy:     m.energy,
		Strategy:   m.strategy,
		MemorySize: len(m.engaged),
	}
}

// Interests returns the submolts the agent has engaged with most, or a
// default set before any engagement has happened.
func (m *Memory) Interests() []string {
	if len(m.topics) == 0 {
		return []string{"ai", "technology", "crypto"}
	}

	type topicCount struct {
		name  string
		count int
	}
	counts := make([]topicCount, 0, len(m.topics))
	for name, count := range m.topics {
		counts = append(counts, topicCount{name, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].name < counts[j].name
	})

	top := counts
	if len(top) > 3 {
		top = top[:3]
	}
	names := make([]string, len(top))
	for i, tc := range top {
		names[i] = tc.name
	}
	return names
}

func (m *Memory) adjustEnergy() {
	if m.replies > 5 {
		m.energy = min(maxEnergy, m.energy+10)
	}
	if m.cycles%5 == 0 && m.replies == 0 {
		m.energy = max(minEnergy, m.energy-10)
	}
}

func (m *Memory) decideStrategy() string {
	denom := m.comments
	if denom == 0 {
		denom = 1
	}
	rate := float64(m.replies) / float64(denom)

	switch {
	case rate > 0.3:
		return "aggressive"
	case rate > 0.15:
		return "balanced"
	default:
		return "quality_focused"
	}
}
