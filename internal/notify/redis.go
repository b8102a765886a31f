package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ModerationChannel is the pub/sub channel moderation alerts are published
// on; subscribers (admin dashboard, bots) pick them up from there.
const ModerationChannel = "offsets:moderation"

// Redis publishes moderation alerts on a Redis pub/sub channel.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) SubmissionReceived(ctx context.Context, s Submission) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal moderation alert: %w", err)
	}
	if err := r.client.Publish(ctx, ModerationChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish moderation alert: %w", err)
	}
	return nil
}
