package features

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		raw  string
		want Target
	}{
		{
			raw:  "HTTPS://Login.Example.COM:8443/Path?q=1",
			want: Target{Raw: "HTTPS://Login.Example.COM:8443/Path?q=1", Scheme: "https", Host: "login.example.com", Port: 8443},
		},
		{
			raw:  "http://user@192.168.1.1/x",
			want: Target{Raw: "http://user@192.168.1.1/x", Scheme: "http", Host: "192.168.1.1"},
		},
		{
			raw:  "example.com/login",
			want: Target{Raw: "example.com/login"},
		},
		{raw: "", want: Target{}},
		{raw: "http://[::1", want: Target{Raw: "http://[::1"}},
		{raw: "%%%", want: Target{Raw: "%%%"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTarget(tt.raw))
		})
	}
}

func lexicalVector(raw string) Vector {
	var v Vector
	lexical(&v, ParseTarget(raw))
	return v
}

func TestLexical(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		index int
		want  float64
	}{
		{name: "ip host", url: "http://192.168.1.1/x", index: UsingIP, want: Suspicious},
		{name: "named host", url: "https://example.com", index: UsingIP, want: Safe},
		{name: "ip with port", url: "http://10.0.0.1:8000/", index: UsingIP, want: Suspicious},

		{name: "length 76", url: "http://example.com/" + strings.Repeat("a", 57), index: LongURL, want: Suspicious},
		{name: "length 75", url: "http://example.com/" + strings.Repeat("a", 56), index: LongURL, want: Safe},

		{name: "bit.ly", url: "http://bit.ly/abcd", index: ShortURL, want: Suspicious},
		{name: "tinyurl subdomain", url: "https://www.tinyurl.com/x", index: ShortURL, want: Suspicious},
		{name: "not a shortener", url: "https://example.com", index: ShortURL, want: Safe},

		{name: "at in path", url: "http://192.168.1.1/login@evil.com", index: SymbolAt, want: Suspicious},
		{name: "no at", url: "https://example.com", index: SymbolAt, want: Safe},

		{name: "embedded redirect", url: "http://example.com//http://evil.com", index: Redirecting, want: Suspicious},
		{name: "single double slash", url: "http://example.com/a/b", index: Redirecting, want: Safe},

		{name: "hyphen in host", url: "http://test-new-domain-xyz123.com", index: PrefixSuffix, want: Suspicious},
		{name: "hyphen in path only", url: "http://example.com/a-b", index: PrefixSuffix, want: Safe},

		{name: "four dots", url: "http://a.b.c.example.com", index: SubDomains, want: Suspicious},
		{name: "three dots", url: "http://b.c.example.com", index: SubDomains, want: Safe},
		{name: "one dot", url: "http://example.com", index: SubDomains, want: Safe},

		{name: "https scheme", url: "https://example.com", index: HTTPS, want: Safe},
		{name: "http scheme", url: "http://example.com", index: HTTPS, want: Suspicious},
		{name: "no scheme", url: "example.com", index: HTTPS, want: Suspicious},

		{name: "odd port", url: "http://example.com:8443/", index: NonStdPort, want: Suspicious},
		{name: "port 8080", url: "http://example.com:8080/", index: NonStdPort, want: Safe},
		{name: "port 443", url: "https://example.com:443/", index: NonStdPort, want: Safe},
		{name: "no port", url: "http://example.com/", index: NonStdPort, want: Safe},

		{name: "https token in host", url: "http://https-paypal.com.evil.net", index: HTTPSDomainURL, want: Suspicious},
		{name: "https only as scheme", url: "https://example.com", index: HTTPSDomainURL, want: Safe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lexicalVector(tt.url)
			assert.InDelta(t, tt.want, got[tt.index], 0, "%s[%s]", tt.url, Names[tt.index])
		})
	}
}

func TestLexical_LongURLBoundaryLengths(t *testing.T) {
	assert.Len(t, "http://example.com/"+strings.Repeat("a", 57), 76)
	assert.Len(t, "http://example.com/"+strings.Repeat("a", 56), 75)
}
