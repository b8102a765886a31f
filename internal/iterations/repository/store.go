package repository

import (
	"context"
	"time"

	"github.com/owenjoycecoughlan/Offsets/internal/iterations/domain"
)

// Store is the persistence collaborator for iterations. StartNew must be
// atomic: a concurrent reader never observes zero or two active
// iterations.
type Store interface {
	Active(ctx context.Context) (*domain.Iteration, error)
	Get(ctx context.Context, id string) (*domain.Iteration, error)
	List(ctx context.Context) ([]domain.Iteration, error)
	StartNew(ctx context.Context, name string, description *string, now time.Time) (*domain.Iteration, error)
}
