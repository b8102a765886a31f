package notify

import (
	"context"
	"time"
)

// Submission is the moderation alert emitted after a node is created.
type Submission struct {
	NodeID      string    `json:"node_id"`
	AuthorName  string    `json:"author_name"`
	Excerpt     string    `json:"excerpt"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Notifier alerts a moderator that a submission awaits review. Callers
// treat delivery as fire-and-forget: errors are logged, never propagated.
type Notifier interface {
	SubmissionReceived(ctx context.Context, s Submission) error
}

// Noop is the notifier used when no alert channel is configured.
type Noop struct{}

func (Noop) SubmissionReceived(ctx context.Context, s Submission) error {
	return nil
}
