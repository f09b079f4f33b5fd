package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

// Known platforms
const (
	PlatformIndeed     Platform = "indeed"
	PlatformLinkedIn   Platform = "linkedin"
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformUnknown    Platform = "unknown"
)

// platformHosts maps host fragments to platforms, checked in order.
var platformHosts = []struct {
	fragment string
	platform Platform
}{
	{"indeed.", PlatformIndeed},
	{"linkedin.com", PlatformLinkedIn},
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"myworkdayjobs.com", PlatformWorkday},
	{"workday.com", PlatformWorkday},
}

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for _, h := range platformHosts {
		if strings.Contains(host, h.fragment) {
			return h.platform
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns description selectors for a platform,
// followed by the generic job posting selectors.
func PlatformContentSelectors(platform Platform) []string {
	var specific []string
	switch platform {
	case PlatformIndeed:
		specific = []string{
			"#jobDescriptionText",
			".jobsearch-jobDescriptionText",
			".jobsearch-RightPane #jobDescriptionText",
		}
	case PlatformLinkedIn:
		specific = []string{
			".show-more-less-html__markup",
			".description__text",
			".jobs-description__content",
			".jobs-box__html-content",
		}
	case PlatformGreenhouse:
		specific = []string{
			".job__description.body",
			".job__description",
			".job-description__content",
			".job-post-container",
		}
	case PlatformLever:
		specific = []string{
			".posting-page",
			".section-wrapper.page-full-width",
			".posting-description",
		}
	case PlatformWorkday:
		specific = []string{
			"[data-automation-id='jobPostingDescription']",
			"[data-automation-id='jobDescription']",
			".gwt-HTML",
		}
	}
	return append(specific, JobPostingSelectors()...)
}

// PlatformTitleSelectors returns job title selectors for a platform.
func PlatformTitleSelectors(platform Platform) []string {
	var specific []string
	switch platform {
	case PlatformIndeed:
		specific = []string{".jobsearch-JobInfoHeader-title", "h1[class*='jobTitle']", "h2.jobTitle"}
	case PlatformLinkedIn:
		specific = []string{".top-card-layout__title", ".topcard__title", ".job-details-jobs-unified-top-card__job-title"}
	case PlatformGreenhouse:
		specific = []string{".job__title h1", ".app-title"}
	case PlatformLever:
		specific = []string{".posting-headline h2"}
	case PlatformWorkday:
		specific = []string{"[data-automation-id='jobPostingHeader']"}
	}
	return append(specific, ".jobTitle", "h1")
}

// PlatformCompanySelectors returns company name selectors for a platform.
func PlatformCompanySelectors(platform Platform) []string {
	var specific []string
	switch platform {
	case PlatformIndeed:
		specific = []string{
			"[data-testid='inlineHeader-companyName']",
			".jobsearch-InlineCompanyRating",
			".companyName",
		}
	case PlatformLinkedIn:
		specific = []string{".topcard__org-name-link", ".top-card-layout__second-subline a"}
	case PlatformGreenhouse:
		specific = []string{".company-name"}
	}
	return append(specific, "[data-testid='company-name']", "[data-company-name]", ".company-name", ".company")
}

// PlatformNoiseSelectors returns elements to remove before text extraction.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		// Application forms
		"form",
		"#application-form",
		".application-form",
		".apply-button-container",
		"[data-testid='application-form']",

		// EEO and legal
		".eeo-statement",
		".eeo-section",
		".legal-disclosure",
		".voluntary-disclosure",

		// Social and share buttons
		".social-share",
		".share-buttons",
	}

	switch platform {
	case PlatformIndeed:
		return append(common, "#jobsearch-ViewJobButtons-container", ".jobsearch-CompanyReview")
	case PlatformLinkedIn:
		return append(common, ".show-more-less-html__button", ".jobs-apply-button")
	case PlatformGreenhouse:
		return append(common, ".application--wrapper", ".voluntary-self-id", "#usa_self_id_section")
	case PlatformLever:
		return append(common, ".apply-section", ".posting-apply")
	case PlatformWorkday:
		return append(common, "[data-automation-id='applyButton']")
	default:
		return common
	}
}
