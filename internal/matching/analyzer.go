package matching

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ats-matcher/internal/extraction"
	"github.com/jonathan/ats-matcher/internal/logger"
	"github.com/jonathan/ats-matcher/internal/normalize"
	"github.com/jonathan/ats-matcher/internal/remote"
	"github.com/jonathan/ats-matcher/internal/semantic"
	"github.com/jonathan/ats-matcher/internal/types"
)

// Strategy names the extraction path that produced the job keywords.
type Strategy string

// Strategies
const (
	StrategyRemote        Strategy = "remote"
	StrategyLocal         Strategy = "local"
	StrategySemanticLocal Strategy = "semantic+local"
)

// RemoteExtractor is the hosted LLM strategy.
type RemoteExtractor interface {
	Extract(ctx context.Context, jobDescription, token string) (*types.ExtractionResult, error)
}

// SemanticExtractor is the embedding strategy.
type SemanticExtractor interface {
	Enabled() bool
	Extract(ctx context.Context, text string) ([]semantic.Keyword, error)
}

// Options selects strategies.
type Options struct {
	EnableRemote   bool
	PreferLocal    bool
	EnableSemantic bool
	// AuthToken is forwarded to the remote strategy; empty means anonymous.
	AuthToken string
}

// Analysis is a score plus the keyword sets and strategy behind it.
type Analysis struct {
	types.ATSScore
	Strategy       Strategy                `json:"strategy"`
	JobKeywords    *types.ExtractionResult `json:"jobKeywords"`
	ResumeKeywords []types.Keyword         `json:"resumeKeywords"`
	// RemoteError is set when the remote strategy failed with an auth or quota error.
	RemoteError string `json:"remoteError,omitempty"`

	remoteErr error
}

// RemoteErr returns the surfaced auth or quota error, if any.
func (a *Analysis) RemoteErr() error {
	return a.remoteErr
}

// Analyzer runs the extraction strategy chain and scores the result.
// Remote is preferred when enabled; any remote failure falls back to the
// rule-based strategy, optionally supplemented by semantic hits.
type Analyzer struct {
	local    *LocalExtractor
	remote   RemoteExtractor
	semantic SemanticExtractor
	opts     Options
	log      *zap.Logger
}

// NewAnalyzer builds an analyzer. remote and sem may be nil.
func NewAnalyzer(local *LocalExtractor, remoteExt RemoteExtractor, sem SemanticExtractor, opts Options, log *zap.Logger) *Analyzer {
	if local == nil {
		local = NewLocalExtractor(extraction.DefaultOptions(), nil)
	}
	return &Analyzer{
		local:    local,
		remote:   remoteExt,
		semantic: sem,
		opts:     opts,
		log:      logger.OrNop(log).Named("analyzer"),
	}
}

// Analyze scores resumeText against jobDescription.
func (a *Analyzer) Analyze(ctx context.Context, jobDescription, resumeText string) (*Analysis, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyJobDescription
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, ErrEmptyResume
	}
	return a.analyze(ctx, jobDescription, resumeText, nil)
}

// AnalyzeResume scores a structured resume. Listed skills count as resume
// keywords even when the extractor would not pick them out of prose.
func (a *Analyzer) AnalyzeResume(ctx context.Context, jobDescription string, resume *types.Resume) (*Analysis, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyJobDescription
	}
	if resume == nil || strings.TrimSpace(resume.SearchText()) == "" {
		return nil, ErrEmptyResume
	}
	return a.analyze(ctx, jobDescription, resume.SearchText(), resume.Sections.Skills)
}

func (a *Analyzer) analyze(ctx context.Context, jobDescription, resumeText string, skills []string) (*Analysis, error) {
	var (
		job       *JobExtraction
		resumeKws []types.Keyword
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		job, err = a.ExtractJob(gctx, jobDescription)
		return err
	})
	g.Go(func() error {
		var err error
		resumeKws, err = a.local.Keywords(resumeText)
		if err != nil {
			return ErrEmptyResume
		}
		resumeKws = appendSkills(resumeKws, skills)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	score := Score(job.Result.Keywords(), resumeKws)
	a.log.Debug("analysis complete",
		zap.String("strategy", string(job.Strategy)),
		zap.Int("score", score.Score),
		zap.Int("job_keywords", len(job.Result.HardSkills)+len(job.Result.SoftSkills)),
		zap.Int("resume_keywords", len(resumeKws)))

	analysis := &Analysis{
		ATSScore:       score,
		Strategy:       job.Strategy,
		JobKeywords:    job.Result,
		ResumeKeywords: resumeKws,
		remoteErr:      job.RemoteErr,
	}
	if job.RemoteErr != nil {
		analysis.RemoteError = job.RemoteErr.Error()
	}
	return analysis, nil
}

// JobExtraction is the outcome of the strategy chain for one job description.
type JobExtraction struct {
	Result   *types.ExtractionResult
	Strategy Strategy
	// RemoteErr is a remote auth or quota error that was recovered by
	// falling back; the caller decides whether to prompt the user.
	RemoteErr error
}

// ExtractJob runs the strategy chain over a job description.
func (a *Analyzer) ExtractJob(ctx context.Context, text string) (*JobExtraction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyJobDescription
	}

	var surfaced error
	if a.useRemote() {
		result, err := a.remote.Extract(ctx, text, a.opts.AuthToken)
		switch {
		case err == nil && !result.Empty():
			return &JobExtraction{Result: result, Strategy: StrategyRemote}, nil
		case err == nil:
			a.log.Warn("remote extraction returned no keywords, falling back to local")
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			if remote.IsTerminal(err) {
				surfaced = err
			}
			a.log.Warn("remote extraction failed, falling back to local", zap.Error(err))
		}
	}

	result, strategy, err := a.extractLocal(ctx, text)
	if err != nil {
		return nil, err
	}
	return &JobExtraction{Result: result, Strategy: strategy, RemoteErr: surfaced}, nil
}

func (a *Analyzer) useRemote() bool {
	return a.remote != nil && a.opts.EnableRemote && !a.opts.PreferLocal
}

func (a *Analyzer) useSemantic() bool {
	return a.semantic != nil && a.opts.EnableSemantic && a.semantic.Enabled()
}

// extractLocal runs the rule-based strategy, concurrently with the semantic
// strategy when it is on, and merges semantic hits ahead of rule hits.
func (a *Analyzer) extractLocal(ctx context.Context, text string) (*types.ExtractionResult, Strategy, error) {
	var (
		local    *types.ExtractionResult
		sem      []semantic.Keyword
		localErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		local, localErr = a.local.Extract(text)
		return nil
	})
	if a.useSemantic() {
		g.Go(func() error {
			var err error
			sem, err = a.semantic.Extract(gctx, text)
			if err != nil {
				a.log.Warn("semantic extraction failed, using rules only", zap.Error(err))
				sem = nil
			}
			return nil
		})
	}
	_ = g.Wait()

	if localErr != nil {
		var inputErr *extraction.InputError
		if errors.As(localErr, &inputErr) {
			return nil, StrategyLocal, ErrEmptyJobDescription
		}
		return nil, StrategyLocal, &ExtractionFailedError{Strategy: StrategyLocal, Cause: localErr}
	}
	if err := ctx.Err(); err != nil {
		return nil, StrategyLocal, err
	}

	strategy := StrategyLocal
	if len(sem) > 0 {
		local = a.mergeSemantic(text, sem, local)
		strategy = StrategySemanticLocal
	}
	if local.Empty() {
		return nil, strategy, &ExtractionFailedError{Strategy: strategy, Cause: errNoKeywords}
	}
	return local, strategy, nil
}

// mergeSemantic categorizes semantic hits and places them ahead of rule hits.
// A rule hit is appended only when no semantic hit shares its normalized key.
func (a *Analyzer) mergeSemantic(text string, hits []semantic.Keyword, rules *types.ExtractionResult) *types.ExtractionResult {
	annotator := extraction.NewAnnotator(text)
	seen := make(map[string]bool)
	var hard, soft []types.Keyword

	for _, hit := range hits {
		term := strings.TrimSpace(hit.Keyword)
		key := normalize.Normalize(term)
		if !types.ValidTerm(term) || key == "" || seen[key] {
			continue
		}
		d := a.local.categorizer.Categorize(term)
		if !d.Kept() {
			continue
		}
		seen[key] = true

		freq := max(extraction.CountOccurrences(text, term), 1)
		ann := annotator.Annotate(term, freq)
		kw := types.Keyword{
			Term:             term,
			NormalizedKey:    key,
			Category:         d.Category,
			RequirementLevel: ann.RequirementLevel,
			Importance:       hit.Importance,
			Section:          ann.Section,
			Frequency:        freq,
			Context:          ann.Context,
		}
		if d.Category == types.CategorySoft {
			soft = append(soft, kw)
		} else {
			hard = append(hard, kw)
		}
	}

	appendUnseen := func(dst, src []types.Keyword) []types.Keyword {
		for _, kw := range src {
			key := keyOf(kw)
			if seen[key] {
				continue
			}
			seen[key] = true
			dst = append(dst, kw)
		}
		return dst
	}

	return &types.ExtractionResult{
		HardSkills:             appendUnseen(nonNil(hard), rules.HardSkills),
		SoftSkills:             appendUnseen(nonNil(soft), rules.SoftSkills),
		ExperienceRequirements: rules.ExperienceRequirements,
		Certifications:         rules.Certifications,
	}
}

func appendSkills(keywords []types.Keyword, skills []string) []types.Keyword {
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		seen[keyOf(kw)] = true
	}
	for _, skill := range skills {
		term := strings.TrimSpace(skill)
		key := normalize.Normalize(term)
		if !types.ValidTerm(term) || key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keywords = append(keywords, types.Keyword{Term: term, NormalizedKey: key, Frequency: 1})
	}
	return keywords
}
