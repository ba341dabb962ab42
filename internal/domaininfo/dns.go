package domaininfo

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/Bahjat/phishguard/internal/platform/errs"
)

// Resolver checks whether a host has address records, bounded by a timeout.
type Resolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// NewResolver returns a Resolver using the pure-Go resolver so that the
// timeout is enforced by context rather than by the system libc.
func NewResolver(timeout time.Duration) *Resolver {
	return &Resolver{
		resolver: &net.Resolver{PreferGo: true},
		timeout:  timeout,
	}
}

// LookupHost returns the addresses host resolves to.
func (r *Resolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	if host == "" {
		return nil, &errs.AppError{Kind: errs.DNSResolutionFailure, Message: "empty host"}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	addrs, err := r.resolver.LookupHost(ctx, host)
	if err != nil {
		kind := errs.DNSResolutionFailure
		var dnsErr *net.DNSError
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &dnsErr) && dnsErr.IsTimeout) {
			kind = errs.NetworkTimeout
		}
		return nil, &errs.AppError{Kind: kind, Message: "resolve " + host, Cause: err}
	}
	return addrs, nil
}
