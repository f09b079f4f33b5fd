package fetch

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jonathan/ats-matcher/internal/logger"
	"github.com/jonathan/ats-matcher/internal/types"
)

// JobOptions configures JobPosting.
type JobOptions struct {
	// UseBrowser always renders the page with headless Chrome.
	UseBrowser bool
	// AllowBrowserFallback renders with headless Chrome when the HTTP
	// fetch yields less than MinContentLength characters.
	AllowBrowserFallback bool
	Timeout              time.Duration
	HTTP                 *Options
	Logger               *zap.Logger
}

// render is replaced in tests.
var render = WithBrowser

// JobPosting fetches a job page and extracts its description, title, and
// company using the selectors for the detected platform.
func JobPosting(ctx context.Context, urlStr string, opts JobOptions) (*types.JobPosting, error) {
	log := logger.OrNop(opts.Logger)
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if err := validateURL(urlStr); err != nil {
		return nil, err
	}
	platform := DetectPlatform(urlStr)

	var posting *types.JobPosting
	if !opts.UseBrowser {
		res, err := URL(ctx, urlStr, opts.HTTP)
		if err != nil {
			if !opts.AllowBrowserFallback {
				return nil, err
			}
			log.Warn("http fetch failed, rendering with browser", zap.String("url", urlStr), zap.Error(err))
		} else {
			posting, err = ParseJobPage(res.HTML, urlStr, platform)
			if err != nil {
				return nil, err
			}
			if !opts.AllowBrowserFallback || !ShouldUseBrowser(posting.Description) {
				return posting, nil
			}
			log.Debug("description too short, rendering with browser",
				zap.String("url", urlStr), zap.Int("chars", len(posting.Description)))
		}
	}

	html, err := render(ctx, urlStr, opts.Timeout, log)
	if err != nil {
		if posting != nil {
			log.Warn("browser rendering failed, using http result", zap.Error(err))
			return posting, nil
		}
		return nil, &Error{URL: urlStr, Message: "browser rendering failed", Cause: err}
	}
	rendered, err := ParseJobPage(html, urlStr, platform)
	if err != nil {
		return nil, err
	}
	if posting != nil && len(posting.Description) > len(rendered.Description) {
		return posting, nil
	}
	return rendered, nil
}

// ParseJobPage extracts a job posting from HTML.
func ParseJobPage(html, urlStr string, platform Platform) (*types.JobPosting, error) {
	doc, err := parseHTML(html)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "invalid HTML", Cause: err}
	}

	// Title and company are read before noise removal strips headers.
	title := selectionText(doc.Find("title"))
	if sel := firstMatch(doc, PlatformTitleSelectors(platform)); sel != nil {
		title = selectionText(sel)
	}
	var company string
	if sel := firstMatch(doc, PlatformCompanySelectors(platform)); sel != nil {
		company = selectionText(sel)
	}

	description := mainText(doc, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform))
	return &types.JobPosting{
		ID:          types.NewJobPostingID(),
		Title:       title,
		Company:     company,
		Description: description,
		URL:         urlStr,
		Source:      string(platform),
		DetectedAt:  time.Now().UTC(),
	}, nil
}

func selectionText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}
