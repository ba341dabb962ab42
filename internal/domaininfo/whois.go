// Package domaininfo answers registration and resolution questions about a
// host: its WHOIS record and whether it resolves in DNS.
package domaininfo

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/Bahjat/phishguard/internal/platform/errs"
	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// Record is the subset of a WHOIS answer the features need.
type Record struct {
	// DomainName is the registered domain as reported by the registry, lower-cased.
	DomainName string
	// CreationDate is zero when the registry did not report a parseable date.
	CreationDate time.Time
}

// rawQuerier is the part of *whois.Client we depend on.
type rawQuerier interface {
	Whois(domain string, servers ...string) (string, error)
}

// WHOISClient looks up registration records, rate limited so that a burst of
// scoring requests does not get the service banned by registry servers.
type WHOISClient struct {
	client  rawQuerier
	limiter *rate.Limiter
	timeout time.Duration
}

// NewWHOISClient returns a client whose queries time out after timeout and
// which issues at most perSecond queries per second.
func NewWHOISClient(timeout time.Duration, perSecond int) *WHOISClient {
	return newWHOISClient(whois.NewClient().SetTimeout(timeout), timeout, perSecond)
}

func newWHOISClient(q rawQuerier, timeout time.Duration, perSecond int) *WHOISClient {
	return &WHOISClient{
		client:  q,
		limiter: rate.NewLimiter(rate.Limit(perSecond), perSecond),
		timeout: timeout,
	}
}

// creationLayouts are the date formats seen in registry answers.
var creationLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 MST",
	"2006-01-02",
	"02-Jan-2006",
	"02-Jan-2006 15:04:05 MST",
	"2006.01.02",
	"2006.01.02 15:04:05",
	"2006/01/02",
	"02.01.2006",
}

// Lookup queries WHOIS for the registrable domain of host. The call honours
// ctx and the client timeout, whichever is shorter.
func (c *WHOISClient) Lookup(ctx context.Context, host string) (*Record, error) {
	domain, err := RegistrableDomain(host)
	if err != nil {
		return nil, &errs.AppError{Kind: errs.WHOISLookupFailure, Message: "no registrable domain", Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &errs.AppError{Kind: errs.NetworkTimeout, Message: "whois rate limit wait", Cause: err}
	}

	type answer struct {
		raw string
		err error
	}
	done := make(chan answer, 1)
	go func() {
		raw, err := c.client.Whois(domain)
		done <- answer{raw: raw, err: err}
	}()

	var raw string
	select {
	case <-ctx.Done():
		return nil, &errs.AppError{Kind: errs.NetworkTimeout, Message: "whois query for " + domain, Cause: ctx.Err()}
	case a := <-done:
		if a.err != nil {
			return nil, &errs.AppError{Kind: errs.WHOISLookupFailure, Message: "whois query for " + domain, Cause: a.err}
		}
		raw = a.raw
	}

	return parseRecord(raw)
}

func parseRecord(raw string) (*Record, error) {
	info, err := whoisparser.Parse(raw)
	if err != nil {
		return nil, &errs.AppError{Kind: errs.WHOISLookupFailure, Message: "whois answer not understood", Cause: err}
	}
	if info.Domain == nil {
		return nil, &errs.AppError{Kind: errs.WHOISLookupFailure, Message: "whois answer has no domain section"}
	}

	rec := &Record{DomainName: strings.ToLower(strings.TrimSpace(info.Domain.Domain))}

	if t := info.Domain.CreatedDateInTime; t != nil && !t.IsZero() {
		rec.CreationDate = *t
		return rec, nil
	}

	// Some registries repeat the creation date; the first one wins.
	dates := append([]string{info.Domain.CreatedDate}, rawCreationDates(raw)...)
	for _, d := range dates {
		if t, ok := parseDate(d); ok {
			rec.CreationDate = t
			break
		}
	}

	return rec, nil
}

// rawCreationDates scans the raw answer for creation-date lines in the order
// they appear.
func rawCreationDates(raw string) []string {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "creation date", "created", "created on", "registered on", "registration time", "domain registration date":
			out = append(out, value)
		}
	}
	return out
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range creationLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var errIPHost = errors.New("host is an IP address")

// RegistrableDomain reduces host to the domain a registry knows about
// ("login.secure.example.co.uk" -> "example.co.uk").
func RegistrableDomain(host string) (string, error) {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if host == "" {
		return "", errors.New("empty host")
	}
	if _, err := netip.ParseAddr(host); err == nil {
		return "", fmt.Errorf("%w: %s", errIPHost, host)
	}
	return publicsuffix.EffectiveTLDPlusOne(host)
}
