package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-matcher/internal/fetch"
	"github.com/jonathan/ats-matcher/internal/ingestion"
	"github.com/jonathan/ats-matcher/internal/types"
)

// jobFlags names where a command reads the job posting from.
type jobFlags struct {
	path    string
	url     string
	text    string
	browser bool
}

func (f *jobFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "job", "j", "", "Path to a job posting text file")
	cmd.Flags().StringVar(&f.url, "job-url", "", "URL of a job posting to fetch")
	cmd.Flags().StringVar(&f.text, "job-text", "", "Job posting text")
	cmd.Flags().BoolVar(&f.browser, "browser", false, "Render --job-url with headless Chrome")
	cmd.MarkFlagsMutuallyExclusive("job", "job-url", "job-text")
	cmd.MarkFlagsOneRequired("job", "job-url", "job-text")
}

func (f *jobFlags) fetchOptions() fetch.JobOptions {
	return fetch.JobOptions{
		UseBrowser:           f.browser,
		AllowBrowserFallback: true,
		Logger:               log,
	}
}

func (f *jobFlags) read(ctx context.Context) (*types.JobPosting, error) {
	var (
		posting *types.JobPosting
		err     error
	)
	switch {
	case f.url != "":
		posting, _, err = ingestion.FromURL(ctx, f.url, f.fetchOptions())
	case f.path != "":
		posting, _, err = ingestion.FromFile(f.path)
	default:
		posting, _, err = ingestion.FromText(f.text)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read job posting: %w", err)
	}
	return posting, nil
}
