package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// oneTimeCodePayload matches the JSON enqueued by TaskEnqueuer.EnqueueSendOneTimeCode.
type oneTimeCodePayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// invitePayload matches the JSON enqueued by TaskEnqueuer.EnqueueSendInvite.
type invitePayload struct {
	TeamName string `json:"team_name"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// Worker runs Asynq task handlers (e.g. send sign-in code email).
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
	log zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. Call Run() to start.
func NewWorker(redisOpt asynq.RedisClientOpt, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	mux := asynq.NewServeMux()
	w := &Worker{srv: srv, mux: mux, log: log}
	mux.HandleFunc(TypeSendOneTimeCode, w.handleSendOneTimeCode)
	mux.HandleFunc(TypeSendInvite, w.handleSendInvite)
	mux.HandleFunc(TypeWebhook, w.handleWebhook)
	return w
}

func (w *Worker) handleSendOneTimeCode(ctx context.Context, t *asynq.Task) error {
	var p oneTimeCodePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("one-time code task payload invalid")
		return err
	}
	// Dev: log the code; production would send email via SMTP/sendgrid etc.
	w.log.Info().
		Str("email", p.Email).
		Str("code", p.Code).
		Msg("sign-in code email (log only; configure SMTP for real email)")
	return nil
}

func (w *Worker) handleSendInvite(ctx context.Context, t *asynq.Task) error {
	var p invitePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("invite task payload invalid")
		return err
	}
	w.log.Info().
		Str("team_name", p.TeamName).
		Str("email", p.Email).
		Str("token", p.Token).
		Msg("invite email (log only; configure SMTP for real email)")
	return nil
}

func (w *Worker) handleWebhook(ctx context.Context, t *asynq.Task) error {
	w.log.Debug().Str("payload", string(t.Payload())).Msg("webhook task (noop)")
	return nil
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
