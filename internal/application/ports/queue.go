package ports

import "context"

// TaskEnqueuer enqueues async deliveries (OTP and invite emails, webhooks).
type TaskEnqueuer interface {
	EnqueueSendOneTimeCode(ctx context.Context, email, code string) error
	EnqueueSendInvite(ctx context.Context, teamName, email, token string) error
	EnqueueWebhook(ctx context.Context, event string, payload interface{}) error
}
