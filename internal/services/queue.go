package services

import (
	"encoding/json"
	"time"

	"github.com/foundercrm/backend/internal/config"
	"github.com/foundercrm/backend/pkg/logger"
	"github.com/hibiken/asynq"
)

const TypeBeautifyStatus = "task:beautify_status"

// BeautifyJob is the payload for a status beautification request.
type BeautifyJob struct {
	TaskID    uint   `json:"task_id"`
	UserID    uint   `json:"user_id"`
	UserName  string `json:"user_name"`
	Title     string `json:"title"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// BeautifyQueue accepts beautification jobs. Enqueue must never block the
// caller's request path.
type BeautifyQueue interface {
	Enqueue(job *BeautifyJob) error
	Close() error
}

// AsyncQueue pushes jobs to Redis via asynq.
type AsyncQueue struct {
	client *asynq.Client
}

// NewAsyncQueue connects to Redis and verifies it is reachable. Callers
// fall back to a SyncQueue when this returns an error.
func NewAsyncQueue(cfg *config.RedisConfig) (*AsyncQueue, error) {
	opt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	inspector := asynq.NewInspector(opt)
	defer inspector.Close()
	if _, err := inspector.Queues(); err != nil {
		return nil, err
	}

	return &AsyncQueue{client: asynq.NewClient(opt)}, nil
}

func (q *AsyncQueue) Enqueue(job *BeautifyJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeBeautifyStatus, payload)
	_, err = q.client.Enqueue(task,
		asynq.MaxRetry(2),
		asynq.Timeout(30*time.Second),
	)
	return err
}

func (q *AsyncQueue) Close() error {
	return q.client.Close()
}

// SyncQueue runs jobs in a goroutine when no Redis is available. Jobs are
// processed best-effort with no retry.
type SyncQueue struct {
	handler func(*BeautifyJob)
}

func NewSyncQueue(handler func(*BeautifyJob)) *SyncQueue {
	return &SyncQueue{handler: handler}
}

func (q *SyncQueue) Enqueue(job *BeautifyJob) error {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().Interface("panic", r).Msg("beautify job panicked")
			}
		}()
		q.handler(job)
	}()
	return nil
}

func (q *SyncQueue) Close() error { return nil }
