package scheduler

import (
	"context"
	"fmt"

	"registry_backend/internal/email"
	"registry_backend/platform/config"
	"registry_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes export email tasks and delivers them via the mail sender.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sender email.Sender
	log    *logger.Logger
}

// NewWorker creates an asynq worker bound to the configured queue.
func NewWorker(cfg config.SchedulerConfig, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		sender: sender,
		log:    log,
	}

	mux.HandleFunc(TaskExportEmail, w.handleExportEmail)

	return w, nil
}

func (w *Worker) handleExportEmail(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseExportEmailPayload(task)
	if err != nil {
		return err
	}

	err = w.sender.SendRosterExportEmail(ctx, payload.To, payload.RecipientName, email.Attachment{
		FileName: payload.FileName,
		Content:  payload.Attachment,
	})
	if err != nil {
		w.log.Error("roster export email delivery failed", "error", err, "to", payload.To)
		return err
	}

	w.log.Info("roster export email delivered", "to", payload.To, "file", payload.FileName)
	return nil
}

// Run starts the worker and blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
