package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QueueConfig configures worker pool behaviour.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

type job struct {
	id      string
	msg     Message
	attempt int
}

// Queue decouples email delivery from the request path. Callers enqueue and
// move on; workers deliver with retries, and a message that exhausts its
// retries is logged and dropped.
type Queue struct {
	sender Sender

	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	jobs    chan job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

func NewQueue(sender Sender, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 8
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Queue{
		sender:     sender,
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
		jobs:       make(chan job, cfg.BufferSize),
	}
}

// Start begins worker consumption. Safe to call once.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.started = true
	q.logger.Info("notify queue started", zap.Int("workers", q.workers))
}

// Stop cancels workers and waits for them to exit.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()
	q.logger.Info("notify queue stopped")
}

// Enqueue hands a message to the workers. It never blocks the caller: a full
// buffer or stopped queue just logs and drops, matching the best-effort
// contract of this channel.
func (q *Queue) Enqueue(msg Message) {
	q.mu.Lock()
	started := q.started
	q.mu.Unlock()
	if !started {
		q.logger.Warn("notify queue not started, dropping message", zap.String("kind", string(msg.Kind)))
		return
	}
	j := job{id: uuid.NewString(), msg: msg}
	select {
	case q.jobs <- j:
	default:
		q.logger.Error("notify queue full, dropping message",
			zap.String("kind", string(msg.Kind)), zap.String("to", msg.To))
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case j := <-q.jobs:
			if err := q.sender.Send(q.ctx, j.msg); err != nil {
				q.handleFailure(j, err)
			}
		}
	}
}

func (q *Queue) handleFailure(j job, err error) {
	j.attempt++
	if j.attempt > q.maxRetries {
		q.logger.Error("email exceeded retries",
			zap.String("job_id", j.id), zap.String("kind", string(j.msg.Kind)), zap.Error(err))
		return
	}
	q.logger.Warn("email send failed, retrying",
		zap.String("job_id", j.id), zap.String("kind", string(j.msg.Kind)),
		zap.Int("attempt", j.attempt), zap.Error(err))

	go func(j job) {
		timer := time.NewTimer(q.retryDelay)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
		case <-timer.C:
			select {
			case q.jobs <- j:
			default:
				q.logger.Error("notify queue full, dropping retry", zap.String("job_id", j.id))
			}
		}
	}(j)
}
