package settings

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-memory settings store for tests and local development.
type Memory struct {
	mu sync.Mutex
	s  Settings
}

func NewMemory() *Memory {
	return &Memory{s: Settings{
		HeroTitle:    defaultHeroTitle,
		HeroSubtitle: defaultHeroSubtitle,
		HowItWorks:   defaultHowItWorks,
		Rules:        defaultRules,
	}}
}

func (m *Memory) Get(ctx context.Context) (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := m.s
	return &copied, nil
}

func (m *Memory) Update(ctx context.Context, u Update) (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u.HeroTitle != nil {
		m.s.HeroTitle = *u.HeroTitle
	}
	if u.HeroSubtitle != nil {
		m.s.HeroSubtitle = *u.HeroSubtitle
	}
	if u.HowItWorks != nil {
		m.s.HowItWorks = *u.HowItWorks
	}
	if u.Rules != nil {
		m.s.Rules = *u.Rules
	}
	m.s.UpdatedAt = time.Now()
	copied := m.s
	return &copied, nil
}
