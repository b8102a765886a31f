package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owenjoycecoughlan/Offsets/internal/nodes/domain"
)

func TestMemory_ApproveIsCompareAndSwap(t *testing.T) {
	ctx := context.Background()

	t.Run("concurrent approvals have exactly one winner", func(t *testing.T) {
		m := NewMemory()
		m.Put(domain.Node{ID: "d", IterationID: "iter-1", AuthorName: "a", Content: "c", Status: domain.StatusPending})

		const workers = 16
		var wg sync.WaitGroup
		successes := make(chan struct{}, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := m.Approve(ctx, "d", time.Now()); err == nil {
					successes <- struct{}{}
				} else {
					assert.ErrorIs(t, err, domain.ErrInvalidState)
				}
			}()
		}
		wg.Wait()
		close(successes)

		assert.Len(t, successes, 1)
	})

	t.Run("approving a missing node is not-found", func(t *testing.T) {
		m := NewMemory()
		_, err := m.Approve(ctx, "ghost", time.Now())
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	})
}

func TestMemory_ApproveBumpsParentClock(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	published := time.Now().Add(-48 * time.Hour)
	parentID := "parent"
	m.Put(domain.Node{ID: parentID, IterationID: "iter-1", AuthorName: "a", Content: "p",
		Status: domain.StatusLive, PublishedAt: &published})
	m.Put(domain.Node{ID: "child", ParentID: &parentID, IterationID: "iter-1",
		AuthorName: "b", Content: "c", Status: domain.StatusPending})

	before := time.Now()
	_, err := m.Approve(ctx, "child", time.Now())
	require.NoError(t, err)

	parent, err := m.GetNode(ctx, parentID)
	require.NoError(t, err)
	require.NotNil(t, parent.LastResponseAt)
	assert.False(t, parent.LastResponseAt.Before(before))
}

func TestMemory_WitherNodesRechecksStatus(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	published := time.Now().Add(-96 * time.Hour)
	m.Put(domain.Node{ID: "stale", IterationID: "iter-1", AuthorName: "a", Content: "x",
		Status: domain.StatusLive, PublishedAt: &published})
	m.Put(domain.Node{ID: "already", IterationID: "iter-1", AuthorName: "b", Content: "y",
		Status: domain.StatusWithered, PublishedAt: &published})

	count, err := m.WitherNodes(ctx, []string{"stale", "already", "ghost"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	n, err := m.GetNode(ctx, "stale")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWithered, n.Status)
	assert.NotNil(t, n.WitheredAt)
}

func TestMemory_Ordering(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Now().Add(-10 * time.Hour)
	for i, id := range []string{"first", "second", "third"} {
		ts := base.Add(time.Duration(i) * time.Hour)
		m.Put(domain.Node{ID: id, IterationID: "iter-1", AuthorName: "a", Content: "x",
			Status: domain.StatusLive, PublishedAt: &ts, CreatedAt: ts})
	}

	t.Run("live nodes newest first", func(t *testing.T) {
		live, err := m.LiveNodes(ctx, "iter-1")
		require.NoError(t, err)
		require.Len(t, live, 3)
		assert.Equal(t, "third", live[0].ID)
		assert.Equal(t, "first", live[2].ID)
	})

	t.Run("tree export oldest first", func(t *testing.T) {
		visible, err := m.VisibleNodes(ctx, "iter-1")
		require.NoError(t, err)
		require.Len(t, visible, 3)
		assert.Equal(t, "first", visible[0].ID)
	})

	t.Run("pending queue oldest first", func(t *testing.T) {
		m.Put(domain.Node{ID: "p2", IterationID: "iter-1", AuthorName: "a", Content: "x",
			Status: domain.StatusPending, CreatedAt: base.Add(2 * time.Minute)})
		m.Put(domain.Node{ID: "p1", IterationID: "iter-1", AuthorName: "a", Content: "x",
			Status: domain.StatusPending, CreatedAt: base.Add(1 * time.Minute)})

		pending, err := m.PendingNodes(ctx, "iter-1")
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, "p1", pending[0].ID)
	})
}

func TestMemory_ChildrenVisibility(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	published := time.Now().Add(-time.Hour)
	parentID := "root"
	m.Put(domain.Node{ID: parentID, IterationID: "iter-1", AuthorName: "a", Content: "r",
		Status: domain.StatusLive, PublishedAt: &published})

	for id, status := range map[string]domain.Status{
		"live-child":     domain.StatusLive,
		"withered-child": domain.StatusWithered,
		"pending-child":  domain.StatusPending,
		"rejected-child": domain.StatusRejected,
	} {
		ts := published.Add(time.Minute)
		m.Put(domain.Node{ID: id, ParentID: &parentID, IterationID: "iter-1",
			AuthorName: "b", Content: "c", Status: status, PublishedAt: &ts})
	}

	children, err := m.Children(ctx, parentID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	for _, c := range children {
		assert.Contains(t, []domain.Status{domain.StatusLive, domain.StatusWithered}, c.Status)
	}

	root, err := m.GetNode(ctx, parentID)
	require.NoError(t, err)
	assert.Zero(t, root.ChildCount, "GetNode does not compute counts")

	live, err := m.LiveNodes(ctx, "iter-1")
	require.NoError(t, err)
	require.Len(t, live, 2)
	for _, n := range live {
		if n.ID == parentID {
			assert.Equal(t, 2, n.ChildCount, "only visible children counted")
		}
	}
}

func TestMemory_Search(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	published := time.Now()
	m.Put(domain.Node{ID: "a", IterationID: "iter-1", AuthorName: "Quiet Author",
		Content: "the garden grows", Status: domain.StatusLive, PublishedAt: &published})
	m.Put(domain.Node{ID: "b", IterationID: "iter-1", AuthorName: "other",
		Content: "GARDEN walls", Status: domain.StatusWithered, PublishedAt: &published})
	m.Put(domain.Node{ID: "c", IterationID: "iter-1", AuthorName: "nobody",
		Content: "garden gate", Status: domain.StatusPending, PublishedAt: &published})

	results, err := m.Search(ctx, "garden", domain.VisibleStatuses(), 50)
	require.NoError(t, err)
	assert.Len(t, results, 2, "pending nodes stay out of search")

	byAuthor, err := m.Search(ctx, "quiet", domain.VisibleStatuses(), 50)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "a", byAuthor[0].ID)
}
