// Package pipeline runs a full resume check: ingest a job posting, score a
// resume against it, and generate edit suggestions for the resume text.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ats-matcher/internal/db"
	"github.com/jonathan/ats-matcher/internal/extraction"
	"github.com/jonathan/ats-matcher/internal/fetch"
	"github.com/jonathan/ats-matcher/internal/ingestion"
	"github.com/jonathan/ats-matcher/internal/logger"
	"github.com/jonathan/ats-matcher/internal/matching"
	"github.com/jonathan/ats-matcher/internal/suggestions"
	"github.com/jonathan/ats-matcher/internal/types"
)

// Step names reported through ProgressEvent.
const (
	StepIngest    = "ingest"
	StepPrefilter = "prefilter"
	StepScore     = "score"
	StepSuggest   = "suggest"
	StepSave      = "save"
)

// ProgressEvent represents a progress update during a run.
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when a step completes. Scoring and suggestion
// generation run concurrently, so it must be safe for concurrent use.
type ProgressCallback func(event ProgressEvent)

// RunOptions holds the inputs for Run. Exactly one of JobPath, JobURL, and
// JobText must be set.
type RunOptions struct {
	JobPath string
	JobURL  string
	JobText string
	Resume  *types.Resume

	// Fetch configures URL ingestion.
	Fetch fetch.JobOptions
	// Analyzer defaults to a local-only analyzer.
	Analyzer *matching.Analyzer
	// Store receives the score when set.
	Store db.Store

	OnProgress ProgressCallback
	Logger     *zap.Logger
}

// Result is everything a run produced.
type Result struct {
	Job         *types.JobPosting      `json:"job"`
	Metadata    *ingestion.Metadata    `json:"metadata"`
	Analysis    *matching.Analysis     `json:"analysis"`
	Suggestions []types.EditSuggestion `json:"suggestions"`
	// RecordID is the saved history record, empty when nothing was saved.
	RecordID string `json:"recordId,omitempty"`
}

// ErrNoJobSource is returned when RunOptions names no job posting, or more than one.
var ErrNoJobSource = errors.New("exactly one of job file, job URL, or job text is required")

func emitProgress(opts *RunOptions, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}

// Run ingests the job posting, then scores the resume and generates
// suggestions concurrently. A failed save is logged, not returned.
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	log := logger.OrNop(opts.Logger).Named("pipeline")
	if opts.Resume == nil {
		return nil, matching.ErrEmptyResume
	}
	if opts.Analyzer == nil {
		opts.Analyzer = matching.NewAnalyzer(nil, nil, nil, matching.Options{}, log)
	}

	posting, meta, err := ingest(ctx, &opts)
	if err != nil {
		return nil, err
	}
	emitProgress(&opts, StepIngest,
		fmt.Sprintf("Ingested job posting (%d chars)", len(posting.Description)), meta)

	jobText := extraction.PrioritizeSections(posting.Description)
	emitProgress(&opts, StepPrefilter, "Moved requirement sections ahead of company text", nil)

	result := &Result{Job: posting, Metadata: meta}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		analysis, err := opts.Analyzer.AnalyzeResume(gCtx, jobText, opts.Resume)
		if err != nil {
			return fmt.Errorf("scoring failed: %w", err)
		}
		result.Analysis = analysis
		emitProgress(&opts, StepScore,
			fmt.Sprintf("Score %d using %s extraction", analysis.Score, analysis.Strategy), analysis.ATSScore)
		return nil
	})

	g.Go(func() error {
		result.Suggestions = Suggest(opts.Resume)
		emitProgress(&opts, StepSuggest,
			fmt.Sprintf("Generated %d suggestions", len(result.Suggestions)), nil)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Store != nil {
		rec := db.NewScoreRecord(result.Analysis.ATSScore, string(result.Analysis.Strategy))
		rec.ResumeID = opts.Resume.ID
		rec.JobTitle = posting.Title
		rec.Company = posting.Company
		rec.JobURL = posting.URL
		if err := opts.Store.SaveScore(ctx, rec); err != nil {
			log.Warn("failed to save score history", zap.Error(err))
		} else {
			result.RecordID = rec.ID.String()
			emitProgress(&opts, StepSave, "Saved score to history", rec.ID.String())
		}
	}

	log.Debug("run complete",
		zap.String("job", posting.ID),
		zap.Int("score", result.Analysis.Score),
		zap.Int("suggestions", len(result.Suggestions)))
	return result, nil
}

// Suggest generates suggestions for the summary and for every experience
// bullet. Experience bullets are checked as one text, one bullet per line,
// so suggestion IDs stay unique across the resume.
func Suggest(resume *types.Resume) []types.EditSuggestion {
	out := []types.EditSuggestion{}
	if resume == nil {
		return out
	}
	if summary := strings.TrimSpace(resume.Sections.Summary); summary != "" {
		out = append(out, suggestions.Generate(summary, types.ResumeSummary)...)
	}
	var bullets []string
	for _, item := range resume.Sections.Experience {
		bullets = append(bullets, item.Description...)
	}
	if len(bullets) > 0 {
		out = append(out, suggestions.Generate(strings.Join(bullets, "\n"), types.ResumeExperience)...)
	}
	return out
}

func ingest(ctx context.Context, opts *RunOptions) (*types.JobPosting, *ingestion.Metadata, error) {
	sources := 0
	for _, s := range []string{opts.JobPath, opts.JobURL, opts.JobText} {
		if strings.TrimSpace(s) != "" {
			sources++
		}
	}
	if sources != 1 {
		return nil, nil, ErrNoJobSource
	}

	var (
		posting *types.JobPosting
		meta    *ingestion.Metadata
		err     error
	)
	switch {
	case opts.JobURL != "":
		fetchOpts := opts.Fetch
		if fetchOpts.Logger == nil {
			fetchOpts.Logger = opts.Logger
		}
		posting, meta, err = ingestion.FromURL(ctx, opts.JobURL, fetchOpts)
		if err != nil {
			return nil, nil, fmt.Errorf("job ingestion from URL failed: %w", err)
		}
	case opts.JobPath != "":
		posting, meta, err = ingestion.FromFile(opts.JobPath)
		if err != nil {
			return nil, nil, fmt.Errorf("job ingestion from file failed: %w", err)
		}
	default:
		posting, meta, err = ingestion.FromText(opts.JobText)
		if err != nil {
			return nil, nil, fmt.Errorf("job ingestion failed: %w", err)
		}
	}
	return posting, meta, nil
}
