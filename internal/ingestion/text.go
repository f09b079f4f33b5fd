// Package ingestion turns job postings from files, URLs, or raw text into
// cleaned text ready for keyword extraction.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jonathan/ats-matcher/internal/fetch"
	"github.com/jonathan/ats-matcher/internal/types"
)

// ErrEmptyPosting is returned when a posting has no text after cleaning.
var ErrEmptyPosting = errors.New("job posting is empty")

var (
	innerSpace = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	blankRun   = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes line endings, collapses runs of spaces inside each
// line, and keeps at most one blank line between paragraphs. Markdown
// headings and bullet markers are kept.
func CleanText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}
	return strings.TrimSpace(blankRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

func cleanLine(line string) string {
	return strings.TrimSpace(innerSpace.ReplaceAllString(line, " "))
}

// FromText cleans pasted posting text.
func FromText(text string) (*types.JobPosting, *Metadata, error) {
	cleaned := CleanText(text)
	if cleaned == "" {
		return nil, nil, ErrEmptyPosting
	}
	posting := newPosting(cleaned, "text")
	return posting, NewMetadata(cleaned, "", ""), nil
}

// FromFile reads and cleans a posting stored as plain text.
func FromFile(path string) (*types.JobPosting, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	cleaned := CleanText(string(content))
	if cleaned == "" {
		return nil, nil, fmt.Errorf("%s: %w", path, ErrEmptyPosting)
	}
	posting := newPosting(cleaned, "file")
	meta := NewMetadata(cleaned, "", "")
	meta.Path = path
	return posting, meta, nil
}

// FromURL fetches a job page and cleans its description. Title and company
// come from the page when the platform selectors find them.
func FromURL(ctx context.Context, urlStr string, opts fetch.JobOptions) (*types.JobPosting, *Metadata, error) {
	posting, err := fetch.JobPosting(ctx, urlStr, opts)
	if err != nil {
		return nil, nil, err
	}
	posting.Description = CleanText(posting.Description)
	if posting.Description == "" {
		return nil, nil, fmt.Errorf("%s: %w", urlStr, ErrEmptyPosting)
	}
	return posting, NewMetadata(posting.Description, urlStr, posting.Source), nil
}

func newPosting(description, source string) *types.JobPosting {
	return &types.JobPosting{
		ID:          types.NewJobPostingID(),
		Description: description,
		Source:      source,
		DetectedAt:  now().UTC(),
	}
}
