package http

import (
	"time"

	"github.com/owenjoycecoughlan/Offsets/internal/nodes/domain"
)

type createNodeReq struct {
	AuthorName  string  `json:"author_name"`
	Content     string  `json:"content"`
	ParentID    *string `json:"parent_id"`
	IterationID string  `json:"iteration_id"`
}

// nodeView is the public shape of a node. The author's name is revealed
// only once the node has withered; live contributions stay anonymous.
type nodeView struct {
	ID          string        `json:"id"`
	ParentID    *string       `json:"parent_id"`
	IterationID string        `json:"iteration_id"`
	AuthorName  *string       `json:"author_name"`
	Content     string        `json:"content"`
	Status      domain.Status `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	PublishedAt *time.Time    `json:"published_at"`
	WitheredAt  *time.Time    `json:"withered_at"`
	ChildCount  int           `json:"child_count"`
}

func newNodeView(n domain.Node) nodeView {
	v := nodeView{
		ID:          n.ID,
		ParentID:    n.ParentID,
		IterationID: n.IterationID,
		Content:     n.Content,
		Status:      n.Status,
		CreatedAt:   n.CreatedAt,
		PublishedAt: n.PublishedAt,
		WitheredAt:  n.WitheredAt,
		ChildCount:  n.ChildCount,
	}
	if n.Status == domain.StatusWithered {
		v.AuthorName = &n.AuthorName
	}
	return v
}

func newNodeViews(nodes []domain.Node) []nodeView {
	out := make([]nodeView, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, newNodeView(n))
	}
	return out
}

type nodeContextView struct {
	nodeView
	Parent   *nodeView  `json:"parent"`
	Children []nodeView `json:"children"`
}

func newNodeContextView(nc *domain.NodeContext) nodeContextView {
	v := nodeContextView{
		nodeView: newNodeView(nc.Node),
		Children: newNodeViews(nc.Children),
	}
	if nc.Parent != nil {
		p := newNodeView(*nc.Parent)
		v.Parent = &p
	}
	return v
}
