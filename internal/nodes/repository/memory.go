package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/owenjoycecoughlan/Offsets/internal/nodes/domain"
)

// Memory is a mutex-guarded in-memory Store used by tests and local
// development. It honors the same compare-and-swap semantics as the
// Postgres implementation.
type Memory struct {
	mu    sync.Mutex
	nodes map[string]*domain.Node
}

func NewMemory() *Memory {
	return &Memory{nodes: make(map[string]*domain.Node)}
}

// Put stores a node as-is, bypassing submission validation. Test seeding
// helper.
func (m *Memory) Put(n domain.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := n
	m.nodes[n.ID] = &copied
}

func (m *Memory) CreateNode(ctx context.Context, n *domain.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Status == "" {
		n.Status = domain.StatusPending
	}
	if _, exists := m.nodes[n.ID]; exists {
		return fmt.Errorf("node %s already exists", n.ID)
	}
	copied := *n
	m.nodes[n.ID] = &copied
	return nil
}

func (m *Memory) GetNode(ctx context.Context, id string) (*domain.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(id)
}

func (m *Memory) getLocked(id string) (*domain.Node, error) {
	n, ok := m.nodes[id]
	if !ok {
		return nil, domain.ErrNodeNotFound
	}
	copied := *n
	return &copied, nil
}

func (m *Memory) LiveNodes(ctx context.Context, iterationID string) ([]domain.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.collectLocked(func(n *domain.Node) bool {
		return n.IterationID == iterationID && n.Status == domain.StatusLive
	})
	sortByPublished(out, false)
	return out, nil
}

func (m *Memory) VisibleNodes(ctx context.Context, iterationID string) ([]domain.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.collectLocked(func(n *domain.Node) bool {
		return n.IterationID == iterationID && visible(n.Status)
	})
	sortByPublished(out, true)
	return out, nil
}

func (m *Memory) PendingNodes(ctx context.Context, iterationID string) ([]domain.PendingNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pending := make([]domain.PendingNode, 0, 8)
	for _, n := range m.nodes {
		if n.IterationID != iterationID || n.Status != domain.StatusPending {
			continue
		}
		entry := domain.PendingNode{Node: *n}
		if n.ParentID != nil {
			if p, ok := m.nodes[*n.ParentID]; ok {
				copied := *p
				entry.Parent = &copied
			}
		}
		pending = append(pending, entry)
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending, nil
}

func (m *Memory) Children(ctx context.Context, nodeID string) ([]domain.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.collectLocked(func(n *domain.Node) bool {
		return n.ParentID != nil && *n.ParentID == nodeID && visible(n.Status)
	})
	sortByPublished(out, false)
	return out, nil
}

func (m *Memory) Approve(ctx context.Context, nodeID string, now time.Time) (*domain.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[nodeID]
	if !ok {
		return nil, domain.ErrNodeNotFound
	}
	if !n.Status.CanTransitionTo(domain.StatusLive) {
		return nil, fmt.Errorf("%w: node is %s", domain.ErrInvalidState, n.Status)
	}

	n.Status = domain.StatusLive
	ts := now
	n.PublishedAt = &ts
	if n.ParentID != nil {
		if p, ok := m.nodes[*n.ParentID]; ok {
			bumped := now
			p.LastResponseAt = &bumped
		}
	}
	copied := *n
	return &copied, nil
}

func (m *Memory) Reject(ctx context.Context, nodeID string) (*domain.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[nodeID]
	if !ok {
		return nil, domain.ErrNodeNotFound
	}
	if !n.Status.CanTransitionTo(domain.StatusRejected) {
		return nil, fmt.Errorf("%w: node is %s", domain.ErrInvalidState, n.Status)
	}
	n.Status = domain.StatusRejected
	copied := *n
	return &copied, nil
}

func (m *Memory) WitherNodes(ctx context.Context, ids []string, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	withered := 0
	for _, id := range ids {
		n, ok := m.nodes[id]
		if !ok || n.Status != domain.StatusLive {
			continue
		}
		n.Status = domain.StatusWithered
		ts := now
		n.WitheredAt = &ts
		withered++
	}
	return withered, nil
}

func (m *Memory) Search(ctx context.Context, query string, statuses []domain.Status, limit int) ([]domain.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wanted := make(map[domain.Status]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}
	needle := strings.ToLower(query)

	out := m.collectLocked(func(n *domain.Node) bool {
		if !wanted[n.Status] {
			return false
		}
		return strings.Contains(strings.ToLower(n.Content), needle) ||
			strings.Contains(strings.ToLower(n.AuthorName), needle)
	})
	sortByPublished(out, false)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Stats(ctx context.Context, iterationID string) (*domain.IterationStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &domain.IterationStats{}
	authors := make(map[string]bool)
	var most *domain.Node

	for _, n := range m.nodes {
		if n.IterationID != iterationID {
			continue
		}
		switch n.Status {
		case domain.StatusLive:
			stats.LiveNodes++
		case domain.StatusWithered:
			stats.WitheredNodes++
			authors[n.AuthorName] = true
		default:
			continue
		}
		stats.TotalNodes++
		if n.ParentID == nil {
			stats.RootNodes++
		}
		if d := m.depthLocked(n.ID); d > stats.DeepestBranch {
			stats.DeepestBranch = d
		}
		copied := *n
		copied.ChildCount = m.visibleChildCountLocked(n.ID)
		if most == nil || copied.ChildCount > most.ChildCount {
			most = &copied
		}
	}
	stats.DistinctAuthors = len(authors)
	stats.MostResponded = most
	return stats, nil
}

func (m *Memory) collectLocked(keep func(*domain.Node) bool) []domain.Node {
	out := make([]domain.Node, 0, 8)
	for _, n := range m.nodes {
		if keep(n) {
			copied := *n
			copied.ChildCount = m.visibleChildCountLocked(n.ID)
			out = append(out, copied)
		}
	}
	return out
}

func (m *Memory) visibleChildCountLocked(id string) int {
	count := 0
	for _, c := range m.nodes {
		if c.ParentID != nil && *c.ParentID == id && visible(c.Status) {
			count++
		}
	}
	return count
}

func (m *Memory) depthLocked(id string) int {
	depth := 0
	for cur, ok := m.nodes[id]; ok; {
		depth++
		if cur.ParentID == nil || depth > len(m.nodes) {
			break
		}
		cur, ok = m.nodes[*cur.ParentID]
	}
	return depth
}

func visible(s domain.Status) bool {
	return s == domain.StatusLive || s == domain.StatusWithered
}

func sortByPublished(nodes []domain.Node, ascending bool) {
	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i].PublishedAt, nodes[j].PublishedAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		if ascending {
			return a.Before(*b)
		}
		return a.After(*b)
	})
}
