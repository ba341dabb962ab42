package pageinsight

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Bahjat/phishguard/internal/platform/errs"
)

// Snapshot is one fetch of the target page. Document is nil unless the page
// answered 200 and parsed.
type Snapshot struct {
	StatusCode int
	Redirects  int
	Document   *Document
}

// OK reports whether the page answered 200 and was parsed.
func (s *Snapshot) OK() bool {
	return s != nil && s.Document != nil
}

// Engine fetches and parses a target page once so that every page-derived
// feature reads the same response.
type Engine struct {
	fetcher Fetcher
}

// NewEngine returns an Engine backed by the given Fetcher.
func NewEngine(fetcher Fetcher) *Engine {
	return &Engine{fetcher: fetcher}
}

// Inspect fetches targetURL, following redirects, and parses the body when the
// final status is 200. Transport failures return a nil Snapshot. A non-200
// status returns a Snapshot together with an HTTPNon200 error, and a parse
// failure returns a Snapshot together with a ParsingFailed error, so callers
// can still read the status and redirect count.
func (e *Engine) Inspect(ctx context.Context, targetURL string) (*Snapshot, error) {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return nil, &errs.AppError{
			Kind:    errs.MalformedURL,
			Message: "target URL could not be parsed",
			Cause:   err,
		}
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, &errs.AppError{
			Kind:    errs.MalformedURL,
			Message: "target URL is not an absolute http(s) URL",
		}
	}

	resp, err := e.fetcher.Fetch(ctx, targetURL)
	if err != nil {
		kind := errs.KindOf(err)
		if kind != errs.NetworkTimeout {
			kind = errs.NetworkUnreachable
		}
		return nil, &errs.AppError{
			Kind:    kind,
			Message: "target page could not be fetched",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	snap := &Snapshot{StatusCode: resp.StatusCode, Redirects: resp.Redirects}

	if resp.StatusCode != http.StatusOK {
		return snap, &errs.AppError{
			Kind:           errs.HTTPNon200,
			UpstreamStatus: resp.StatusCode,
			Message:        "target page returned a non-200 status",
		}
	}

	doc, err := Parse(resp.Body)
	if err != nil {
		return snap, &errs.AppError{
			Kind:    errs.ParsingFailed,
			Message: "target page could not be parsed",
			Cause:   err,
		}
	}

	snap.Document = doc
	return snap, nil
}
