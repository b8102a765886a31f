package repository

import (
	"context"
	"time"

	"github.com/owenjoycecoughlan/Offsets/internal/nodes/domain"
)

// Store is the persistence collaborator for nodes. Implementations must
// make Approve and Reject compare-and-swap on status, commit the approve
// side effects (child transition + parent clock bump) atomically, and
// re-check status at write time in WitherNodes.
type Store interface {
	CreateNode(ctx context.Context, n *domain.Node) error
	GetNode(ctx context.Context, id string) (*domain.Node, error)
	LiveNodes(ctx context.Context, iterationID string) ([]domain.Node, error)
	PendingNodes(ctx context.Context, iterationID string) ([]domain.PendingNode, error)
	Children(ctx context.Context, nodeID string) ([]domain.Node, error)
	VisibleNodes(ctx context.Context, iterationID string) ([]domain.Node, error)
	Approve(ctx context.Context, nodeID string, now time.Time) (*domain.Node, error)
	Reject(ctx context.Context, nodeID string) (*domain.Node, error)
	WitherNodes(ctx context.Context, ids []string, now time.Time) (int, error)
	Search(ctx context.Context, query string, statuses []domain.Status, limit int) ([]domain.Node, error)
	Stats(ctx context.Context, iterationID string) (*domain.IterationStats, error)
}
