package settings

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	before, err := m.Get(ctx)
	require.NoError(t, err)

	title := "A New Season"
	after, err := m.Update(ctx, Update{HeroTitle: &title})
	require.NoError(t, err)

	assert.Equal(t, "A New Season", after.HeroTitle)
	assert.Equal(t, before.HeroSubtitle, after.HeroSubtitle)
	assert.Equal(t, before.Rules, after.Rules)
	assert.False(t, after.UpdatedAt.IsZero())
}

func TestRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{
		"hero_title", "hero_subtitle", "how_it_works", "rules", "updated_at",
	}).AddRow("Offsets", "sub", "how", "rules", time.Now())

	mock.ExpectQuery(`INSERT INTO site_settings`).
		WithArgs(settingsRowID, defaultHeroTitle, defaultHeroSubtitle, defaultHowItWorks, defaultRules).
		WillReturnRows(rows)

	s, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Offsets", s.HeroTitle)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	seeded := sqlmock.NewRows([]string{
		"hero_title", "hero_subtitle", "how_it_works", "rules", "updated_at",
	}).AddRow("Offsets", "sub", "how", "rules", time.Now())
	mock.ExpectQuery(`INSERT INTO site_settings`).
		WillReturnRows(seeded)

	updated := sqlmock.NewRows([]string{
		"hero_title", "hero_subtitle", "how_it_works", "rules", "updated_at",
	}).AddRow("Fresh Title", "sub", "how", "rules", time.Now())
	mock.ExpectQuery(`UPDATE site_settings SET`).
		WithArgs(settingsRowID, "Fresh Title", nil, nil, nil).
		WillReturnRows(updated)

	title := "Fresh Title"
	s, err := repo.Update(context.Background(), Update{HeroTitle: &title})
	require.NoError(t, err)
	assert.Equal(t, "Fresh Title", s.HeroTitle)

	require.NoError(t, mock.ExpectationsWereMet())
}
