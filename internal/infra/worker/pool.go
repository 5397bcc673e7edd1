package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"telegram-image-bot/internal/domain"
)

// A small worker pool that runs submitted generation tasks off the polling
// goroutines so a slow provider call never stalls update handling.

type Task func(ctx context.Context) error

type Pool struct {
	wg   sync.WaitGroup
	jobs chan Task
	quit chan struct{}
	n    int
	log  *zerolog.Logger
}

func NewPool(workers int, log *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}
	return &Pool{
		jobs: make(chan Task, workers*4),
		quit: make(chan struct{}),
		n:    workers,
		log:  log,
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-p.quit:
					return
				case task := <-p.jobs:
					if task == nil {
						continue
					}
					if err := task(ctx); err != nil {
						p.log.Error().Err(err).Int("worker", id).Msg("task error")
					}
				}
			}
		}(i)
	}
}

func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
}

// Submit never blocks: when the queue is saturated the task is rejected and
// the caller tells the user to retry instead of building back-pressure.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return domain.ErrInvalidArgument
	}
	select {
	case p.jobs <- task:
		return nil
	default:
		return domain.ErrQueueFull
	}
}
