package service

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/prepdrill/backend/internal/domain/result"
	"github.com/prepdrill/backend/internal/id"
	"github.com/prepdrill/backend/internal/worker"
)

// Persister stores a finished session. History satisfies it.
type Persister interface {
	PersistSessionResult(ctx context.Context, r result.SessionResult) (int64, error)
}

// PublisherConfig tunes result publishing.
type PublisherConfig struct {
	Workers int           // default 2
	Retries int           // extra attempts after the first, default 2
	Timeout time.Duration // per attempt, default 5s
	Backoff time.Duration // wait between attempts, grows linearly
}

func (c PublisherConfig) withDefaults() PublisherConfig {
	if c.Workers < 1 {
		c.Workers = 2
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	return c
}

type publishOutcome struct {
	ResultID int64
	Attempts int
	Err      error
}

// Publisher persists session results in the background. The user never
// waits on it and failures are logged and dropped.
type Publisher struct {
	persister Persister
	pool      *worker.Pool[publishOutcome]
	logger    *slog.Logger
	cfg       PublisherConfig

	published atomic.Int64
	failed    atomic.Int64
	done      chan struct{}
}

// NewPublisher starts the worker pool and its result collector.
func NewPublisher(p Persister, logger *slog.Logger, cfg PublisherConfig) *Publisher {
	cfg = cfg.withDefaults()
	pub := &Publisher{
		persister: p,
		pool:      worker.NewPool[publishOutcome](cfg.Workers, 16),
		logger:    logger,
		cfg:       cfg,
		done:      make(chan struct{}),
	}
	go pub.collect()
	return pub
}

// Publish queues r for persistence and returns immediately.
func (p *Publisher) Publish(r result.SessionResult) {
	jobID := id.GenerateID()
	err := p.pool.Submit(jobID, func() publishOutcome {
		return p.persist(r)
	})
	if err != nil {
		p.failed.Add(1)
		p.logger.Warn("result dropped", "job_id", jobID, "error", err)
	}
}

// persist uses context.Background because publishing outlives whatever
// request or screen produced the result.
func (p *Publisher) persist(r result.SessionResult) publishOutcome {
	var out publishOutcome
	for attempt := 0; attempt <= p.cfg.Retries; attempt++ {
		if attempt > 0 && p.cfg.Backoff > 0 {
			time.Sleep(time.Duration(attempt) * p.cfg.Backoff)
		}
		out.Attempts++

		ctx, cancel := context.WithTimeout(context.Background(), p.cfg.Timeout)
		resultID, err := p.persister.PersistSessionResult(ctx, r)
		cancel()

		if err == nil {
			out.ResultID = resultID
			out.Err = nil
			return out
		}
		out.Err = err
		if errors.Is(err, result.ErrInvalidResult) {
			break
		}
	}
	return out
}

func (p *Publisher) collect() {
	defer close(p.done)
	for res := range p.pool.Results() {
		if res.Output.Err != nil {
			p.failed.Add(1)
			p.logger.Error("failed to persist session result",
				"job_id", res.JobID,
				"attempts", res.Output.Attempts,
				"error", res.Output.Err,
			)
			continue
		}
		p.published.Add(1)
		p.logger.Info("session result persisted",
			"job_id", res.JobID,
			"result_id", res.Output.ResultID,
			"attempts", res.Output.Attempts,
		)
	}
}

// Close waits for queued results to be attempted. Results published
// after Close are counted as failed.
func (p *Publisher) Close() {
	p.pool.Close()
	<-p.done
}

// Published returns how many results were stored successfully.
func (p *Publisher) Published() int64 { return p.published.Load() }

// Failed returns how many results were given up on.
func (p *Publisher) Failed() int64 { return p.failed.Load() }
