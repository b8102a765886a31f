package settings

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository provides Postgres persistence for site settings.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the settings row, creating it with defaults if missing.
func (r *Repository) Get(ctx context.Context) (*Settings, error) {
	const q = `
INSERT INTO site_settings (id, hero_title, hero_subtitle, how_it_works, rules)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET id = site_settings.id
RETURNING hero_title, hero_subtitle, how_it_works, rules, updated_at;
`
	var s Settings
	err := r.db.QueryRowContext(ctx, q, settingsRowID,
		defaultHeroTitle, defaultHeroSubtitle, defaultHowItWorks, defaultRules).
		Scan(&s.HeroTitle, &s.HeroSubtitle, &s.HowItWorks, &s.Rules, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load site settings: %w", err)
	}
	return &s, nil
}

// Update applies a partial change; nil fields keep their current value.
func (r *Repository) Update(ctx context.Context, u Update) (*Settings, error) {
	if _, err := r.Get(ctx); err != nil {
		return nil, err
	}

	const q = `
UPDATE site_settings SET
  hero_title    = COALESCE($2, hero_title),
  hero_subtitle = COALESCE($3, hero_subtitle),
  how_it_works  = COALESCE($4, how_it_works),
  rules         = COALESCE($5, rules),
  updated_at    = now()
WHERE id = $1
RETURNING hero_title, hero_subtitle, how_it_works, rules, updated_at;
`
	var s Settings
	err := r.db.QueryRowContext(ctx, q, settingsRowID,
		u.HeroTitle, u.HeroSubtitle, u.HowItWorks, u.Rules).
		Scan(&s.HeroTitle, &s.HeroSubtitle, &s.HowItWorks, &s.Rules, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update site settings: %w", err)
	}
	return &s, nil
}
