package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/owenjoycecoughlan/Offsets/internal/nodes/domain"
	"github.com/owenjoycecoughlan/Offsets/internal/nodes/repository"
	"github.com/owenjoycecoughlan/Offsets/internal/notify"
)

const (
	// maxAncestryDepth bounds the upward walk; a chain this long only
	// exists if data integrity is broken.
	maxAncestryDepth = 512

	excerptLength     = 300
	searchResultLimit = 50
)

// NodeService handles submission and read paths over the node forest.
type NodeService struct {
	store    repository.Store
	notifier notify.Notifier
}

func NewNodeService(store repository.Store, notifier notify.Notifier) *NodeService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &NodeService{store: store, notifier: notifier}
}

// Create submits a node into the moderation queue. The parent, when given,
// must exist and be LIVE; withered and unapproved nodes cannot gain new
// children.
func (s *NodeService) Create(ctx context.Context, req domain.NewNode) (*domain.Node, error) {
	authorName := strings.TrimSpace(req.AuthorName)
	content := strings.TrimSpace(req.Content)

	if authorName == "" {
		return nil, fmt.Errorf("%w: author name is required", domain.ErrValidation)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrValidation)
	}
	if req.IterationID == "" {
		return nil, fmt.Errorf("%w: iteration is required", domain.ErrValidation)
	}

	if req.ParentID != nil {
		parent, err := s.store.GetNode(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.Status != domain.StatusLive {
			return nil, fmt.Errorf("%w: cannot respond to a %s node", domain.ErrInvalidState, parent.Status)
		}
	}

	node := &domain.Node{
		ParentID:    req.ParentID,
		IterationID: req.IterationID,
		AuthorName:  authorName,
		Content:     content,
		Status:      domain.StatusPending,
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreateNode(ctx, node); err != nil {
		return nil, err
	}

	// Fire-and-forget: a lost alert must never fail the submission.
	alert := notify.Submission{
		NodeID:      node.ID,
		AuthorName:  node.AuthorName,
		Excerpt:     excerpt(node.Content),
		SubmittedAt: node.CreatedAt,
	}
	if err := s.notifier.SubmissionReceived(ctx, alert); err != nil {
		log.Printf("[warn] operation=create_node moderation alert failed: %v", err)
	}

	return node, nil
}

// Ancestry walks parent references upward and returns the chain from root
// to the given node, root first. A visited set guards against parent
// cycles, which would indicate corrupted data.
func (s *NodeService) Ancestry(ctx context.Context, nodeID string) ([]domain.Node, error) {
	chain := make([]domain.Node, 0, 8)
	visited := make(map[string]bool)

	id := nodeID
	for depth := 0; depth < maxAncestryDepth; depth++ {
		if visited[id] {
			return nil, fmt.Errorf("ancestry cycle detected at node %s", id)
		}
		visited[id] = true

		n, err := s.store.GetNode(ctx, id)
		if err != nil {
			return nil, err
		}
		chain = append(chain, *n)
		if n.ParentID == nil {
			// Root first.
			reverse(chain)
			return chain, nil
		}
		id = *n.ParentID
	}
	return nil, fmt.Errorf("ancestry walk exceeded %d levels at node %s", maxAncestryDepth, nodeID)
}

// Live returns the iteration's LIVE nodes, newest publication first.
func (s *NodeService) Live(ctx context.Context, iterationID string) ([]domain.Node, error) {
	return s.store.LiveNodes(ctx, iterationID)
}

// Pending returns the iteration's moderation queue, oldest first.
func (s *NodeService) Pending(ctx context.Context, iterationID string) ([]domain.PendingNode, error) {
	return s.store.PendingNodes(ctx, iterationID)
}

// Children returns the node's publicly visible children, newest first.
func (s *NodeService) Children(ctx context.Context, nodeID string) ([]domain.Node, error) {
	return s.store.Children(ctx, nodeID)
}

// Context returns a node with its parent and visible children attached.
func (s *NodeService) Context(ctx context.Context, nodeID string) (*domain.NodeContext, error) {
	n, err := s.store.GetNode(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	out := &domain.NodeContext{Node: *n}

	if n.ParentID != nil {
		parent, err := s.store.GetNode(ctx, *n.ParentID)
		if err == nil {
			out.Parent = parent
		} else if !errors.Is(err, domain.ErrNodeNotFound) {
			return nil, err
		}
	}

	children, err := s.store.Children(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	out.Children = children
	return out, nil
}

// Tree returns the iteration's visible nodes shaped for tree export,
// oldest publication first.
func (s *NodeService) Tree(ctx context.Context, iterationID string) ([]domain.Node, error) {
	return s.store.VisibleNodes(ctx, iterationID)
}

// Search matches content or author name. An empty status filter defaults
// to the publicly visible statuses.
func (s *NodeService) Search(ctx context.Context, query string, status domain.Status) ([]domain.Node, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", domain.ErrValidation)
	}
	statuses := domain.VisibleStatuses()
	if status != "" {
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
		}
		statuses = []domain.Status{status}
	}
	return s.store.Search(ctx, query, statuses, searchResultLimit)
}

// Stats summarizes the iteration's forest.
func (s *NodeService) Stats(ctx context.Context, iterationID string) (*domain.IterationStats, error) {
	return s.store.Stats(ctx, iterationID)
}

func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLength {
		return content
	}
	return string(runes[:excerptLength]) + "..."
}

func reverse(nodes []domain.Node) {
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}
