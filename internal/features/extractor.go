package features

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Bahjat/phishguard/internal/domaininfo"
	"github.com/Bahjat/phishguard/internal/pageinsight"
	"github.com/Bahjat/phishguard/internal/platform/errs"
	"github.com/Bahjat/phishguard/internal/platform/requestid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Lookup sources, used as metric labels and span names.
const (
	SourcePage  = "page"
	SourceWHOIS = "whois"
	SourceDNS   = "dns"
)

// PageInspector fetches and parses the target page once.
type PageInspector interface {
	Inspect(ctx context.Context, targetURL string) (*pageinsight.Snapshot, error)
}

// WHOISLookup returns the registration record for a host.
type WHOISLookup interface {
	Lookup(ctx context.Context, host string) (*domaininfo.Record, error)
}

// HostResolver resolves a host name to addresses.
type HostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Observer receives timings for each outbound lookup and for the whole
// extraction.
type Observer interface {
	ObserveLookup(source string, took time.Duration, err error)
	ObserveExtraction(took time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveLookup(string, time.Duration, error) {}
func (noopObserver) ObserveExtraction(time.Duration)            {}

// Extractor builds feature vectors. It holds no per-call state and is safe for
// concurrent use.
type Extractor struct {
	page     PageInspector
	whois    WHOISLookup
	resolver HostResolver

	logger   *slog.Logger
	observer Observer
	tracer   trace.Tracer
	now      func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for lookup fallbacks (debug level).
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// WithObserver sets the metrics hook.
func WithObserver(o Observer) Option {
	return func(e *Extractor) { e.observer = o }
}

// WithClock overrides time.Now for domain-age calculations.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// NewExtractor returns an Extractor backed by the given network collaborators.
func NewExtractor(page PageInspector, whois WHOISLookup, resolver HostResolver, opts ...Option) *Extractor {
	e := &Extractor{
		page:     page,
		whois:    whois,
		resolver: resolver,
		logger:   slog.New(slog.DiscardHandler),
		observer: noopObserver{},
		tracer:   otel.Tracer("github.com/Bahjat/phishguard/internal/features"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the feature vector for rawURL. It never fails: every lookup
// error is replaced by that feature's fallback value. The page fetch, WHOIS
// query and DNS lookup run concurrently and each is bounded by its client's
// timeout as well as by ctx.
func (e *Extractor) Extract(ctx context.Context, rawURL string) Vector {
	start := e.now()
	ctx, span := e.tracer.Start(ctx, "features.Extract")
	defer span.End()

	target := ParseTarget(rawURL)
	span.SetAttributes(attribute.String("url.host", target.Host))

	var v Vector
	lexical(&v, target)
	for _, i := range unobservable {
		v[i] = Safe
	}

	var (
		snap   *pageinsight.Snapshot
		record *domaininfo.Record
		dnsErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		_ = e.observe(ctx, SourcePage, target.Host, func(ctx context.Context) error {
			var err error
			snap, err = e.page.Inspect(ctx, rawURL)
			return err
		})
		return nil
	})
	g.Go(func() error {
		_ = e.observe(ctx, SourceWHOIS, target.Host, func(ctx context.Context) error {
			var err error
			record, err = e.whois.Lookup(ctx, target.Host)
			return err
		})
		return nil
	})
	g.Go(func() error {
		dnsErr = e.observe(ctx, SourceDNS, target.Host, func(ctx context.Context) error {
			_, err := e.resolver.LookupHost(ctx, target.Host)
			return err
		})
		return nil
	})
	_ = g.Wait()

	content(&v, target.Host, snap)
	registration(&v, target.Host, record, e.now())
	v[DNSRecording] = flag(dnsErr != nil)

	e.observer.ObserveExtraction(e.now().Sub(start))
	return v
}

// observe runs one lookup inside its own span, reports its timing, and turns a
// panic in a collaborator into an error so that Extract never fails outward.
func (e *Extractor) observe(ctx context.Context, source, host string, fn func(context.Context) error) (err error) {
	ctx, span := e.tracer.Start(ctx, "features.lookup."+source)
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s lookup panicked: %v", source, r)
		}

		e.observer.ObserveLookup(source, time.Since(started), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, errs.KindOf(err).String())
			e.logger.DebugContext(ctx, "lookup fell back",
				"source", source,
				"host", host,
				"kind", errs.KindOf(err).String(),
				"error", err,
				"request_id", requestid.FromContext(ctx),
			)
		}
		span.End()
	}()

	return fn(ctx)
}
