// Package worker estimates audio features for tracks the API has none for.
package worker

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/ewilliams-labs/wrapped/internal/core/domain"
	"github.com/ewilliams-labs/wrapped/internal/core/ports"
)

// ErrPoolStopped is returned by Estimate once Stop has been called.
var ErrPoolStopped = errors.New("worker: pool stopped")

// Job represents one track to estimate.
type Job struct {
	TrackID    string
	PreviewURL string

	ctx    context.Context
	result chan domain.AudioFeatures
}

// Pool manages background workers that estimate features.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

var _ ports.FeatureEstimator = (*Pool)(nil)

// NewPool creates a worker pool with the given queue size.
func NewPool(queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{jobs: make(chan Job, queueSize)}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job.result <- p.processJob(job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue. It is safe to
// call more than once.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
}

// Estimate queues one job per request and returns the features in request
// order. It blocks until every job is done or ctx is cancelled.
func (p *Pool) Estimate(ctx context.Context, reqs []ports.EstimateRequest) ([]domain.AudioFeatures, error) {
	pending := make([]chan domain.AudioFeatures, len(reqs))
	for i, req := range reqs {
		job := Job{
			TrackID:    req.TrackID,
			PreviewURL: req.PreviewURL,
			ctx:        ctx,
			result:     make(chan domain.AudioFeatures, 1),
		}
		if err := p.submit(ctx, job); err != nil {
			return nil, err
		}
		pending[i] = job.result
	}

	out := make([]domain.AudioFeatures, len(reqs))
	for i, ch := range pending {
		select {
		case f := <-ch:
			out[i] = f
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return out, nil
}

// submit queues a job, waiting for room in the queue.
func (p *Pool) submit(ctx context.Context, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) processJob(job Job) domain.AudioFeatures {
	features := deterministicFeatures(job.TrackID)

	if job.PreviewURL == "" {
		log.Printf("WARN worker: no preview URL for track %s, using seeded estimate", job.TrackID)
		return features
	}
	if job.ctx.Err() != nil {
		return features
	}

	analysis, err := AnalyzePreviewFunc(job.ctx, job.PreviewURL)
	if err != nil {
		log.Printf("WARN worker: preview analysis failed for %s: %v", job.TrackID, err)
		return features
	}

	features.Energy = analysis.Energy
	features.Loudness = analysis.Loudness
	log.Printf("worker: analyzed preview for %s (energy %.2f, loudness %.1f dB)", job.TrackID, analysis.Energy, analysis.Loudness)
	return features
}
