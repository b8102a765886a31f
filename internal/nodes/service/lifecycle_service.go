package service

import (
	"context"
	"log"
	"time"

	"github.com/owenjoycecoughlan/Offsets/internal/nodes/domain"
	"github.com/owenjoycecoughlan/Offsets/internal/nodes/repository"
)

// LifecycleService runs the withering sweep: LIVE nodes whose withering
// clock has gone silent for the threshold number of whole days transition
// to WITHERED. The sweep is idempotent because withered nodes drop out of
// the LIVE set.
type LifecycleService struct {
	store      repository.Store
	witherDays int
}

func NewLifecycleService(store repository.Store, witherDays int) *LifecycleService {
	if witherDays < 1 {
		witherDays = domain.DefaultWitherDays
	}
	return &LifecycleService{store: store, witherDays: witherDays}
}

// Sweep withers the iteration's stale LIVE nodes in a single batch and
// returns how many changed. Eligibility is computed against a snapshot
// read; the store re-checks status at write time, so a node that gained an
// approved response mid-sweep survives.
func (s *LifecycleService) Sweep(ctx context.Context, iterationID string) (int, error) {
	now := time.Now()

	live, err := s.store.LiveNodes(ctx, iterationID)
	if err != nil {
		return 0, err
	}

	stale := make([]string, 0, len(live))
	for i := range live {
		if live[i].ShouldWither(now, s.witherDays) {
			stale = append(stale, live[i].ID)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	withered, err := s.store.WitherNodes(ctx, stale, now)
	if err != nil {
		return 0, err
	}
	log.Printf("[info] operation=sweep iteration=%s withered=%d", iterationID, withered)
	return withered, nil
}
