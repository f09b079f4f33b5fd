package semantic

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/ats-matcher/internal/logger"
)

// Worker defaults
const (
	DefaultMailboxSize   = 16
	DefaultMaxCandidates = 100
	minSentenceLength    = 10
)

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	candidateRe   = regexp.MustCompile(`\b[A-Z][a-z]*(?:[A-Z][a-z]*)*\b|\b[a-z]{3,}\b`)

	candidateStopWords = map[string]bool{
		"the": true, "be": true, "to": true, "of": true, "and": true, "a": true, "in": true,
		"that": true, "have": true, "i": true, "it": true, "for": true, "not": true, "on": true,
		"with": true, "he": true, "as": true, "you": true, "do": true, "at": true, "this": true,
		"but": true, "his": true, "by": true, "from": true, "they": true, "we": true, "say": true,
		"her": true, "she": true, "or": true, "an": true, "will": true, "my": true, "one": true,
		"all": true, "would": true, "there": true, "their": true, "what": true, "are": true,
		"our": true, "your": true, "who": true, "can": true, "has": true, "was": true,
	}
)

// WorkerConfig tunes the inference worker.
type WorkerConfig struct {
	// MailboxSize bounds the number of queued requests.
	MailboxSize int
	// MaxCandidates bounds how many keyword candidates are embedded per request.
	MaxCandidates int
	// OnEvent receives Ready, LoadingProgress, and LoadFailed events. It is
	// called from the worker goroutine and must not block.
	OnEvent func(Event)
}

type envelope struct {
	id    string
	ctx   context.Context
	req   Request
	reply chan Response
}

// Worker is the single inference actor. Requests are queued on a bounded
// mailbox and handled one at a time; each carries a correlation id and gets
// exactly one Response.
type Worker struct {
	model   *Model
	cfg     WorkerConfig
	log     *zap.Logger
	mailbox chan envelope

	ready   chan struct{}
	loadErr error

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// StartWorker starts the worker goroutine, which loads the model and then
// serves requests until ctx ends or Close is called.
func StartWorker(ctx context.Context, model *Model, cfg WorkerConfig, log *zap.Logger) *Worker {
	if cfg.MailboxSize <= 0 {
		cfg.MailboxSize = DefaultMailboxSize
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = DefaultMaxCandidates
	}
	w := &Worker{
		model:   model,
		cfg:     cfg,
		log:     logger.OrNop(log).Named("semantic"),
		mailbox: make(chan envelope, cfg.MailboxSize),
		ready:   make(chan struct{}),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run(ctx)
	return w
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	if _, err := w.model.Get(ctx, func(p LoadingProgress) { w.emit(p) }); err != nil {
		w.loadErr = err
		w.log.Warn("embedding model failed to load", zap.Error(err))
		w.emit(LoadFailed{Err: err})
	} else {
		w.log.Debug("embedding model ready")
		w.emit(Ready{})
	}
	close(w.ready)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case env := <-w.mailbox:
			env.reply <- w.handle(env)
		}
	}
}

func (w *Worker) emit(e Event) {
	if w.cfg.OnEvent != nil {
		w.cfg.OnEvent(e)
	}
}

func (w *Worker) handle(env envelope) Response {
	if err := env.ctx.Err(); err != nil {
		return ErrorResult{ID: env.id, Err: err}
	}
	if w.loadErr != nil {
		return ErrorResult{ID: env.id, Err: w.loadErr}
	}

	switch req := env.req.(type) {
	case ExtractKeywords:
		emb, err := w.model.Get(env.ctx, nil)
		if err != nil {
			return ErrorResult{ID: env.id, Err: err}
		}
		keywords, err := rankCandidates(env.ctx, emb, req.Text, req.TopN, w.cfg.MaxCandidates)
		if err != nil {
			return ErrorResult{ID: env.id, Err: err}
		}
		return KeywordsResult{ID: env.id, Keywords: keywords}

	case GenerateEmbedding:
		emb, err := w.model.Get(env.ctx, nil)
		if err != nil {
			return ErrorResult{ID: env.id, Err: err}
		}
		vecs, err := emb.Embed(env.ctx, []string{req.Text})
		if err != nil {
			return ErrorResult{ID: env.id, Err: &ModelError{Message: "embedding failed", Cause: err}}
		}
		return EmbeddingResult{ID: env.id, Vector: vecs[0]}

	case CalculateSimilarity:
		return SimilarityResult{ID: env.id, Score: Cosine(req.A, req.B)}

	case UnloadModel:
		if err := w.model.Unload(); err != nil {
			return ErrorResult{ID: env.id, Err: &ModelError{Message: "unload failed", Cause: err}}
		}
		return UnloadComplete{ID: env.id}

	default:
		return ErrorResult{ID: env.id, Err: fmt.Errorf("unknown request kind %q", env.req.Kind())}
	}
}

// Ready waits for the model to finish loading, up to timeout.
func (w *Worker) Ready(ctx context.Context, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-w.ready:
		return w.loadErr
	case <-timer.C:
		return &TimeoutError{Op: "model load", Timeout: timeout}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Send validates req, queues it, and waits up to timeout for its response.
// An ErrorResult is returned as an error. When the caller's ctx ends first,
// ctx.Err() is returned; when timeout elapses, a *TimeoutError.
func (w *Worker) Send(ctx context.Context, req Request, timeout time.Duration) (Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	env := envelope{
		id:    uuid.NewString(),
		ctx:   reqCtx,
		req:   req,
		reply: make(chan Response, 1),
	}

	select {
	case w.mailbox <- env:
	case <-w.done:
		return nil, ErrWorkerClosed
	case <-reqCtx.Done():
		return nil, w.deadlineError(ctx, req, timeout)
	}

	select {
	case resp := <-env.reply:
		if er, ok := resp.(ErrorResult); ok {
			if errors.Is(er.Err, context.DeadlineExceeded) && ctx.Err() == nil {
				return nil, &TimeoutError{Op: string(req.Kind()), Timeout: timeout}
			}
			return nil, er.Err
		}
		return resp, nil
	case <-w.done:
		return nil, ErrWorkerClosed
	case <-reqCtx.Done():
		return nil, w.deadlineError(ctx, req, timeout)
	}
}

func (w *Worker) deadlineError(parent context.Context, req Request, timeout time.Duration) error {
	if err := parent.Err(); err != nil {
		return err
	}
	return &TimeoutError{Op: string(req.Kind()), Timeout: timeout}
}

// ExtractKeywords returns the topN candidates most similar to text.
func (w *Worker) ExtractKeywords(ctx context.Context, text string, topN int, timeout time.Duration) ([]ScoredKeyword, error) {
	resp, err := w.Send(ctx, ExtractKeywords{Text: text, TopN: topN}, timeout)
	if err != nil {
		return nil, err
	}
	return resp.(KeywordsResult).Keywords, nil
}

// GenerateEmbedding returns the embedding of text.
func (w *Worker) GenerateEmbedding(ctx context.Context, text string, timeout time.Duration) ([]float32, error) {
	resp, err := w.Send(ctx, GenerateEmbedding{Text: text}, timeout)
	if err != nil {
		return nil, err
	}
	return resp.(EmbeddingResult).Vector, nil
}

// CalculateSimilarity returns the cosine similarity of a and b.
func (w *Worker) CalculateSimilarity(ctx context.Context, a, b []float32, timeout time.Duration) (float64, error) {
	resp, err := w.Send(ctx, CalculateSimilarity{A: a, B: b}, timeout)
	if err != nil {
		return 0, err
	}
	return resp.(SimilarityResult).Score, nil
}

// Unload releases the model held by the worker.
func (w *Worker) Unload(ctx context.Context, timeout time.Duration) error {
	_, err := w.Send(ctx, UnloadModel{}, timeout)
	return err
}

// Close stops the worker and waits for its goroutine to exit. Queued
// requests fail with ErrWorkerClosed.
func (w *Worker) Close() {
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
}

// rankCandidates embeds the document and its candidates in one batch and
// returns the topN candidates by cosine similarity, best first.
func rankCandidates(ctx context.Context, emb Embedder, text string, topN, maxCandidates int) ([]ScoredKeyword, error) {
	sentences := Sentences(text)
	if len(sentences) == 0 {
		return nil, nil
	}
	candidates := Candidates(sentences, maxCandidates)
	if len(candidates) == 0 {
		return nil, nil
	}

	vecs, err := emb.Embed(ctx, append([]string{text}, candidates...))
	if err != nil {
		return nil, &ModelError{Message: "embedding failed", Cause: err}
	}
	if len(vecs) != len(candidates)+1 {
		return nil, &ModelError{Message: fmt.Sprintf("expected %d embeddings, got %d", len(candidates)+1, len(vecs))}
	}

	doc := vecs[0]
	scored := make([]ScoredKeyword, len(candidates))
	for i, c := range candidates {
		scored[i] = ScoredKeyword{Keyword: c, Score: Cosine(doc, vecs[i+1])}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) > topN {
		scored = scored[:topN]
	}
	return scored, nil
}

// Sentences splits text on sentence punctuation, keeping sentences longer
// than ten characters.
func Sentences(text string) []string {
	var out []string
	for _, s := range sentenceSplit.Split(text, -1) {
		s = strings.TrimSpace(s)
		if len(s) > minSentenceLength {
			out = append(out, s)
		}
	}
	return out
}

// Candidates returns distinct capitalized or lowercase words of at least
// three letters, in encounter order, up to limit.
func Candidates(sentences []string, limit int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range sentences {
		for _, word := range candidateRe.FindAllString(s, -1) {
			if len(word) < 3 || candidateStopWords[strings.ToLower(word)] || seen[word] {
				continue
			}
			seen[word] = true
			out = append(out, word)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}
