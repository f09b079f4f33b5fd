// Package semantic ranks keyword candidates by embedding similarity to the
// whole document. Inference runs on a single actor goroutine (Worker) that
// owns the embedding model; Extractor is the session-scoped handle callers
// hold, and it switches itself off after a timeout or model failure.
package semantic

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/ats-matcher/internal/logger"
)

// Extractor defaults
const (
	DefaultTopN        = 20
	DefaultMinScore    = 0.3
	DefaultTimeout     = 60 * time.Second
	DefaultInitTimeout = 30 * time.Second
)

// Options tunes semantic extraction.
type Options struct {
	TopN        int
	// MinScore drops hits scoring below it. Zero keeps every candidate;
	// a negative value selects DefaultMinScore.
	MinScore    float64
	Timeout     time.Duration
	InitTimeout time.Duration
}

// DefaultOptions returns the default extraction options.
func DefaultOptions() Options {
	return Options{
		TopN:        DefaultTopN,
		MinScore:    DefaultMinScore,
		Timeout:     DefaultTimeout,
		InitTimeout: DefaultInitTimeout,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TopN <= 0 {
		o.TopN = d.TopN
	}
	if o.MinScore < 0 {
		o.MinScore = d.MinScore
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.InitTimeout <= 0 {
		o.InitTimeout = d.InitTimeout
	}
	return o
}

// Keyword is a semantic hit with its importance rescaled to 0-100 within
// its batch.
type Keyword struct {
	Keyword    string  `json:"keyword"`
	Score      float64 `json:"score"`
	Importance int     `json:"importance"`
}

// Extractor is the session handle for semantic extraction. Once disabled it
// stays disabled.
type Extractor struct {
	worker *Worker
	opts   Options
	log    *zap.Logger

	enabled atomic.Bool
	mu      sync.Mutex
	reason  error
}

// NewExtractor returns an enabled extractor using worker.
func NewExtractor(worker *Worker, opts Options, log *zap.Logger) *Extractor {
	e := &Extractor{
		worker: worker,
		opts:   opts.withDefaults(),
		log:    logger.OrNop(log).Named("semantic"),
	}
	e.enabled.Store(worker != nil)
	return e
}

// Enabled reports whether semantic extraction is still on for this session.
func (e *Extractor) Enabled() bool {
	return e != nil && e.enabled.Load()
}

// Disable switches semantic extraction off for the rest of the session.
func (e *Extractor) Disable(reason error) {
	if e.enabled.CompareAndSwap(true, false) {
		e.mu.Lock()
		e.reason = reason
		e.mu.Unlock()
		e.log.Warn("semantic extraction disabled for session", zap.Error(reason))
	}
}

// Extract returns semantic keywords for text. A timeout or model failure
// disables the extractor; caller cancellation does not.
func (e *Extractor) Extract(ctx context.Context, text string) ([]Keyword, error) {
	if !e.Enabled() {
		return nil, e.disabledError()
	}

	if err := e.worker.Ready(ctx, e.opts.InitTimeout); err != nil {
		e.disableOn(err)
		return nil, err
	}

	scored, err := e.worker.ExtractKeywords(ctx, text, e.opts.TopN, e.opts.Timeout)
	if err != nil {
		e.disableOn(err)
		return nil, err
	}
	return Rescale(scored, e.opts.MinScore), nil
}

// Close stops the underlying worker.
func (e *Extractor) Close() {
	if e != nil && e.worker != nil {
		e.worker.Close()
	}
}

func (e *Extractor) disableOn(err error) {
	var timeout *TimeoutError
	var model *ModelError
	if errors.As(err, &timeout) || errors.As(err, &model) || errors.Is(err, ErrWorkerClosed) {
		e.Disable(err)
	}
}

func (e *Extractor) disabledError() error {
	if e == nil {
		return &DisabledError{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return &DisabledError{Reason: e.reason}
}

// Rescale maps scores linearly onto 0-100 using the batch's own max and min
// (the first and last entries, since scored is sorted best first), then
// drops entries below minScore.
func Rescale(scored []ScoredKeyword, minScore float64) []Keyword {
	if len(scored) == 0 {
		return nil
	}
	high := scored[0].Score
	low := scored[len(scored)-1].Score
	span := high - low
	if span == 0 {
		span = 1
	}

	var out []Keyword
	for _, s := range scored {
		if s.Score < minScore {
			continue
		}
		out = append(out, Keyword{
			Keyword:    s.Keyword,
			Score:      s.Score,
			Importance: int(math.Round((s.Score - low) / span * 100)),
		})
	}
	return out
}
