package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/kwybro/guilloteam/internal/application/ports"
)

const (
	TypeSendOneTimeCode = "email:one_time_code"
	TypeSendInvite      = "email:invite"
	TypeWebhook         = "webhook:emit"
)

type TaskEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisClientOpt, log zerolog.Logger) (*TaskEnqueuer, error) {
	client := asynq.NewClient(redisOpt)
	return &TaskEnqueuer{client: client, log: log}, nil
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

func (q *TaskEnqueuer) EnqueueSendOneTimeCode(ctx context.Context, email, code string) error {
	payload, _ := json.Marshal(map[string]string{
		"email": email,
		"code":  code,
	})
	task := asynq.NewTask(TypeSendOneTimeCode, payload)
	_, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		q.log.Warn().Err(err).Str("email", email).Msg("enqueue one-time code email failed")
		return err
	}
	return nil
}

func (q *TaskEnqueuer) EnqueueSendInvite(ctx context.Context, teamName, email, token string) error {
	payload, _ := json.Marshal(map[string]string{
		"team_name": teamName,
		"email":     email,
		"token":     token,
	})
	task := asynq.NewTask(TypeSendInvite, payload)
	_, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		q.log.Warn().Err(err).Str("email", email).Msg("enqueue invite email failed")
		return err
	}
	return nil
}

func (q *TaskEnqueuer) EnqueueWebhook(ctx context.Context, event string, payload interface{}) error {
	body, _ := json.Marshal(struct {
		Event   string      `json:"event"`
		Payload interface{} `json:"payload"`
	}{Event: event, Payload: payload})
	task := asynq.NewTask(TypeWebhook, body)
	_, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		q.log.Warn().Err(err).Str("event", event).Msg("enqueue webhook failed")
		return err
	}
	return nil
}

var _ ports.TaskEnqueuer = (*TaskEnqueuer)(nil)
