package errs

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind categorizes application errors for HTTP status mapping and for
// labelling lookup failures inside the feature extractor.
type Kind int

const (
	// Unknown represents an unclassified error.
	Unknown Kind = iota
	// InvalidInput indicates the request was malformed (HTTP 400).
	InvalidInput
	// Timeout indicates the scoring request ran past its deadline (HTTP 504).
	Timeout
	// ParsingFailed indicates a fetched page could not be parsed.
	ParsingFailed
	// ModelFailure indicates the classifier could not produce a label (HTTP 500).
	ModelFailure

	// MalformedURL indicates the target URL could not be used for a request.
	MalformedURL
	// NetworkTimeout indicates an outbound call hit its deadline.
	NetworkTimeout
	// NetworkUnreachable indicates an outbound call failed to connect.
	NetworkUnreachable
	// DNSResolutionFailure indicates the target host did not resolve.
	DNSResolutionFailure
	// WHOISLookupFailure indicates the registry lookup failed or returned no record.
	WHOISLookupFailure
	// HTTPNon200 indicates the target page answered with a status other than 200.
	HTTPNon200
)

var kindNames = map[Kind]string{
	Unknown:              "unknown",
	InvalidInput:         "invalid_input",
	Timeout:              "timeout",
	ParsingFailed:        "parsing_failed",
	ModelFailure:         "model_failure",
	MalformedURL:         "malformed_url",
	NetworkTimeout:       "network_timeout",
	NetworkUnreachable:   "network_unreachable",
	DNSResolutionFailure: "dns_resolution_failure",
	WHOISLookupFailure:   "whois_lookup_failure",
	HTTPNon200:           "http_non_200",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// AppError carries a category, user message, and original cause.
type AppError struct {
	Kind           Kind
	UpstreamStatus int // HTTP status code returned by the target domain
	Message        string
	Cause          error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// KindOf classifies err. An *AppError anywhere in the chain wins; otherwise
// deadline and net errors are recognised, and everything else is Unknown.
func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NetworkTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return NetworkTimeout
		}
		return DNSResolutionFailure
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return NetworkTimeout
		}
		return NetworkUnreachable
	}

	return Unknown
}
