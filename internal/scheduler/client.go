// Package scheduler provides the asynq task queue used to hand roster
// export emails off for asynchronous delivery. The API process enqueues;
// the worker process delivers. The enqueue is the fire-and-forget boundary:
// a successful enqueue tells the caller dispatch has started, nothing more.
package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"

	"registry_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues tasks onto the configured queue.
type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient creates an asynq client from the Redis configuration.
func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

// Close releases the underlying Redis connections.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EmitRosterExport enqueues an export email delivery task. The returned
// error reports enqueue failure only; delivery outcome is never visible to
// the caller.
func (c *Client) EmitRosterExport(ctx context.Context, to, recipientName, fileName string, attachment []byte) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("scheduler client not configured")
	}

	task, err := NewExportEmailTask(ExportEmailPayload{
		To:            to,
		RecipientName: recipientName,
		FileName:      fileName,
		Attachment:    attachment,
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
