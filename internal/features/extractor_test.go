package features

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Bahjat/phishguard/internal/domaininfo"
	"github.com/Bahjat/phishguard/internal/pageinsight"
	"github.com/Bahjat/phishguard/internal/platform/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePage struct {
	snap  *pageinsight.Snapshot
	err   error
	panic bool
}

func (f *fakePage) Inspect(_ context.Context, _ string) (*pageinsight.Snapshot, error) {
	if f.panic {
		panic("boom")
	}
	return f.snap, f.err
}

type fakeWHOIS struct {
	rec *domaininfo.Record
	err error
}

func (f *fakeWHOIS) Lookup(_ context.Context, _ string) (*domaininfo.Record, error) {
	return f.rec, f.err
}

type fakeResolver struct {
	err error
}

func (f *fakeResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []string{"93.184.216.34"}, nil
}

type recordingObserver struct {
	mu          sync.Mutex
	lookups     map[string]error
	extractions int
}

func (o *recordingObserver) ObserveLookup(source string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lookups == nil {
		o.lookups = make(map[string]error)
	}
	o.lookups[source] = err
}

func (o *recordingObserver) ObserveExtraction(time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.extractions++
}

var (
	errUnreachable = &errs.AppError{Kind: errs.NetworkUnreachable, Message: "connection refused"}
	errNoWHOIS     = &errs.AppError{Kind: errs.WHOISLookupFailure, Message: "no whois"}
	errNXDomain    = &errs.AppError{Kind: errs.DNSResolutionFailure, Message: "no such host"}
)

func offlineExtractor(opts ...Option) *Extractor {
	return NewExtractor(
		&fakePage{err: errUnreachable},
		&fakeWHOIS{err: errNoWHOIS},
		&fakeResolver{err: errNXDomain},
		append([]Option{WithClock(func() time.Time { return refNow })}, opts...)...,
	)
}

func assertWellFormed(t *testing.T, v Vector) {
	t.Helper()
	require.Len(t, v.Slice(), Size)
	for i, x := range v {
		assert.True(t, x == Safe || x == Suspicious, "%s = %v", Names[i], x)
	}
	for _, i := range unobservable {
		assert.InDelta(t, Safe, v[i], 0, Names[i])
	}
}

func TestExtract_UnreachableFallbacks(t *testing.T) {
	obs := &recordingObserver{}
	v := offlineExtractor(WithObserver(obs)).Extract(context.Background(), "http://unreachable.invalid")

	assertWellFormed(t, v)

	for _, i := range []int{
		Favicon, RequestURL, AnchorURL, LinksInScriptTags, ServerFormHandler, InfoEmail,
		AbnormalURL, WebsiteForwarding, IframeRedirection, AgeOfDomain, DNSRecording, DomainRegLen,
	} {
		assert.InDelta(t, Suspicious, v[i], 0, Names[i])
	}

	assert.Equal(t, 1, obs.extractions)
	assert.Len(t, obs.lookups, 3)
	assert.ErrorIs(t, obs.lookups[SourcePage], errUnreachable)
}

func TestExtract_MalformedAndEmptyInputs(t *testing.T) {
	for _, raw := range []string{"", "not a url", "http://[::1", "%%%"} {
		t.Run(raw, func(t *testing.T) {
			v := offlineExtractor().Extract(context.Background(), raw)
			assertWellFormed(t, v)
			assert.InDelta(t, Suspicious, v[HTTPS], 0)
			assert.InDelta(t, Suspicious, v[DNSRecording], 0)
		})
	}
}

func TestExtract_NewDomain(t *testing.T) {
	e := NewExtractor(
		&fakePage{err: errUnreachable},
		&fakeWHOIS{rec: &domaininfo.Record{
			DomainName:   "test-new-domain-xyz123.com",
			CreationDate: refNow.AddDate(0, 0, -10),
		}},
		&fakeResolver{},
		WithClock(func() time.Time { return refNow }),
	)

	v := e.Extract(context.Background(), "http://test-new-domain-xyz123.com")

	assertWellFormed(t, v)
	assert.InDelta(t, Suspicious, v[DomainRegLen], 0)
	assert.InDelta(t, Suspicious, v[AgeOfDomain], 0)
	assert.InDelta(t, Safe, v[AbnormalURL], 0)
	assert.InDelta(t, Safe, v[DNSRecording], 0)
	assert.InDelta(t, Suspicious, v[PrefixSuffix], 0)
}

func TestExtract_HealthySite(t *testing.T) {
	e := NewExtractor(
		&fakePage{snap: &pageinsight.Snapshot{StatusCode: 200, Document: &pageinsight.Document{
			FaviconHrefs: []string{"/favicon.ico", "https://example.com/favicon.ico"},
			AnchorHrefs:  []string{"https://example.com/about"},
			ScriptSrcs:   []string{"https://example.com/app.js"},
		}}},
		&fakeWHOIS{rec: &domaininfo.Record{DomainName: "example.com", CreationDate: refNow.AddDate(-25, 0, 0)}},
		&fakeResolver{},
		WithClock(func() time.Time { return refNow }),
	)

	v := e.Extract(context.Background(), "https://example.com")

	assertWellFormed(t, v)
	for i, x := range v {
		assert.InDelta(t, Safe, x, 0, Names[i])
	}
}

func TestExtract_Non200KeepsRedirectCount(t *testing.T) {
	e := NewExtractor(
		&fakePage{
			snap: &pageinsight.Snapshot{StatusCode: 404, Redirects: 3},
			err:  &errs.AppError{Kind: errs.HTTPNon200, UpstreamStatus: 404},
		},
		&fakeWHOIS{err: errNoWHOIS},
		&fakeResolver{},
	)

	v := e.Extract(context.Background(), "https://example.com/missing")

	assert.InDelta(t, Suspicious, v[WebsiteForwarding], 0)
	assert.InDelta(t, Safe, v[InfoEmail], 0)
	assert.InDelta(t, Suspicious, v[Favicon], 0)
}

func TestExtract_RecoversFromPanickingLookup(t *testing.T) {
	obs := &recordingObserver{}
	e := NewExtractor(&fakePage{panic: true}, &fakeWHOIS{err: errNoWHOIS}, &fakeResolver{}, WithObserver(obs))

	var v Vector
	assert.NotPanics(t, func() {
		v = e.Extract(context.Background(), "https://example.com")
	})

	assertWellFormed(t, v)
	assert.InDelta(t, Suspicious, v[Favicon], 0)
	assert.Error(t, obs.lookups[SourcePage])
}

func TestExtract_CancelledContextStillReturnsVector(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewExtractor(
		&fakePage{err: context.Canceled},
		&fakeWHOIS{err: context.Canceled},
		&fakeResolver{err: context.Canceled},
	)
	v := e.Extract(ctx, "http://bit.ly/x")

	assertWellFormed(t, v)
	assert.InDelta(t, Suspicious, v[ShortURL], 0)
	assert.True(t, errors.Is(ctx.Err(), context.Canceled))
}
