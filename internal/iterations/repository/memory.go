package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/owenjoycecoughlan/Offsets/internal/iterations/domain"
)

// Memory is a mutex-guarded in-memory Store used by tests and local
// development. Node counts are not tracked here.
type Memory struct {
	mu         sync.Mutex
	iterations map[string]*domain.Iteration
}

func NewMemory() *Memory {
	return &Memory{iterations: make(map[string]*domain.Iteration)}
}

func (m *Memory) Active(ctx context.Context) (*domain.Iteration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, it := range m.iterations {
		if it.IsActive {
			copied := *it
			return &copied, nil
		}
	}
	return nil, domain.ErrIterationNotFound
}

func (m *Memory) Get(ctx context.Context, id string) (*domain.Iteration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.iterations[id]
	if !ok {
		return nil, domain.ErrIterationNotFound
	}
	copied := *it
	return &copied, nil
}

func (m *Memory) List(ctx context.Context) ([]domain.Iteration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Iteration, 0, len(m.iterations))
	for _, it := range m.iterations {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out, nil
}

func (m *Memory) StartNew(ctx context.Context, name string, description *string, now time.Time) (*domain.Iteration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, it := range m.iterations {
		if it.IsActive {
			it.IsActive = false
			ended := now
			it.EndDate = &ended
		}
	}

	created := &domain.Iteration{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		StartDate:   now,
		IsActive:    true,
	}
	m.iterations[created.ID] = created
	copied := *created
	return &copied, nil
}
