package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/owenjoycecoughlan/Offsets/internal/iterations/domain"
	"github.com/owenjoycecoughlan/Offsets/internal/iterations/repository"
)

// IterationService tracks the single active epoch of the project.
type IterationService struct {
	store repository.Store
}

func NewIterationService(store repository.Store) *IterationService {
	return &IterationService{store: store}
}

// Active returns the current active iteration, or ErrIterationNotFound
// before the very first iteration exists (a bootstrap condition).
func (s *IterationService) Active(ctx context.Context) (*domain.Iteration, error) {
	return s.store.Active(ctx)
}

func (s *IterationService) Get(ctx context.Context, id string) (*domain.Iteration, error) {
	return s.store.Get(ctx, id)
}

func (s *IterationService) List(ctx context.Context) ([]domain.Iteration, error) {
	return s.store.List(ctx)
}

// StartNew archives the current iteration and starts a new active one.
// Existing nodes stay bound to the iteration they were created under.
func (s *IterationService) StartNew(ctx context.Context, name string, description *string) (*domain.Iteration, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if trimmed == "" {
			description = nil
		} else {
			description = &trimmed
		}
	}

	it, err := s.store.StartNew(ctx, name, description, time.Now())
	if err != nil {
		return nil, err
	}
	log.Printf("[info] operation=start_iteration iteration=%s name=%q", it.ID, it.Name)
	return it, nil
}
