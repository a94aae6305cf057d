package queue

import (
	"context"

	"github.com/kwybro/guilloteam/internal/application/ports"
)

// NoopEnqueuer is a no-op enqueuer when Redis/Asynq is not configured.
type NoopEnqueuer struct{}

func NewNoopEnqueuer() *NoopEnqueuer {
	return &NoopEnqueuer{}
}

func (q *NoopEnqueuer) EnqueueSendOneTimeCode(ctx context.Context, email, code string) error {
	return nil
}

func (q *NoopEnqueuer) EnqueueSendInvite(ctx context.Context, teamName, email, token string) error {
	return nil
}

func (q *NoopEnqueuer) EnqueueWebhook(ctx context.Context, event string, payload interface{}) error {
	return nil
}

var _ ports.TaskEnqueuer = (*NoopEnqueuer)(nil)
