package settings

import (
	"context"
	"time"
)

// Settings is the single-row editable site copy. A default row is created
// lazily on first read.
type Settings struct {
	HeroTitle    string    `json:"hero_title"`
	HeroSubtitle string    `json:"hero_subtitle"`
	HowItWorks   string    `json:"how_it_works"`
	Rules        string    `json:"rules"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Update carries a partial settings change; nil fields are left untouched.
type Update struct {
	HeroTitle    *string `json:"hero_title"`
	HeroSubtitle *string `json:"hero_subtitle"`
	HowItWorks   *string `json:"how_it_works"`
	Rules        *string `json:"rules"`
}

type Store interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, u Update) (*Settings, error)
}

const (
	settingsRowID = "default"

	defaultHeroTitle    = "Offsets"
	defaultHeroSubtitle = "Branches wither, but the tree remembers."
	defaultHowItWorks   = "Respond to any live branch. Approved responses keep their branch alive; silence lets it wither."
	defaultRules        = "Write with care. Responses are anonymous until their branch withers."
)
