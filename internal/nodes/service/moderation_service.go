package service

import (
	"context"
	"log"
	"time"

	"github.com/owenjoycecoughlan/Offsets/internal/nodes/domain"
	"github.com/owenjoycecoughlan/Offsets/internal/nodes/repository"
)

// ModerationService applies approve/reject decisions to PENDING
// submissions. Both operations are compare-and-swap on status: re-approval
// of an already-decided node is an error, never a silent no-op.
type ModerationService struct {
	store repository.Store
}

func NewModerationService(store repository.Store) *ModerationService {
	return &ModerationService{store: store}
}

// Approve publishes a pending node. The node's transition to LIVE and the
// parent's lastResponseAt bump commit as one unit; the bump is what resets
// the parent's withering clock.
func (s *ModerationService) Approve(ctx context.Context, nodeID string) (*domain.Node, error) {
	n, err := s.store.Approve(ctx, nodeID, time.Now())
	if err != nil {
		return nil, err
	}
	log.Printf("[info] operation=approve node=%s parent=%v", n.ID, n.ParentID)
	return n, nil
}

// Reject discards a pending node. Rejection never touches the parent.
func (s *ModerationService) Reject(ctx context.Context, nodeID string) (*domain.Node, error) {
	n, err := s.store.Reject(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	log.Printf("[info] operation=reject node=%s", n.ID)
	return n, nil
}
