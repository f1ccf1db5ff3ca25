package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/foundercrm/backend/internal/config"
	"github.com/foundercrm/backend/pkg/logger"
	"github.com/hibiken/asynq"
)

// Worker drains the beautification queue when Redis is enabled.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	processor func(context.Context, *BeautifyJob) error
	wg        sync.WaitGroup
	running   bool
	mu        sync.Mutex
}

func NewWorker(cfg *config.RedisConfig, processor func(context.Context, *BeautifyJob) error) *Worker {
	if !cfg.Enabled {
		return nil
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Warn().Err(err).Str("type", task.Type()).Msg("queue task failed")
			}),
		},
	)

	return &Worker{
		server:    server,
		mux:       asynq.NewServeMux(),
		processor: processor,
	}
}

func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	w.mux.HandleFunc(TypeBeautifyStatus, w.handleBeautify)
	w.running = true
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		logger.Info().Msg("starting beautification worker")
		if err := w.server.Run(w.mux); err != nil {
			logger.Error().Err(err).Msg("beautification worker stopped")
		}
	}()

	return nil
}

func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.server.Shutdown()
	w.wg.Wait()
	w.running = false
}

func (w *Worker) handleBeautify(ctx context.Context, t *asynq.Task) error {
	var job BeautifyJob
	if err := json.Unmarshal(t.Payload(), &job); err != nil {
		return err
	}
	return w.processor(ctx, &job)
}
