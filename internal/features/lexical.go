package features

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Target is the URL broken into the parts the lexical features read. Parts
// that cannot be recovered are left empty.
type Target struct {
	Raw    string
	Scheme string
	Host   string
	Port   int // 0 when absent
}

// ParseTarget decomposes raw without ever failing: a string url.Parse rejects
// yields a Target with only Raw set.
func ParseTarget(raw string) Target {
	t := Target{Raw: raw}

	u, err := url.Parse(raw)
	if err != nil {
		return t
	}

	t.Scheme = strings.ToLower(u.Scheme)
	t.Host = strings.ToLower(u.Hostname())
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			t.Port = n
		}
	}
	return t
}

var dottedQuad = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)

var shorteners = []string{
	"bit.ly", "goo.gl", "tinyurl.com", "ow.ly", "t.co", "is.gd", "buff.ly", "adf.ly",
}

var standardPorts = map[int]bool{80: true, 443: true, 8080: true}

// lexical fills the features computed from the URL string alone.
func lexical(v *Vector, t Target) {
	v[UsingIP] = flag(dottedQuad.MatchString(t.Host))
	v[LongURL] = flag(len(t.Raw) > 75)
	v[ShortURL] = flag(containsAny(t.Host, shorteners))
	v[SymbolAt] = flag(strings.Contains(t.Raw, "@"))
	v[Redirecting] = flag(strings.Count(t.Raw, "//") > 1)
	v[PrefixSuffix] = flag(strings.Contains(t.Host, "-"))
	v[SubDomains] = flag(subdomainCount(t.Host) > 2)
	v[HTTPS] = flag(t.Scheme != "https")
	v[NonStdPort] = flag(t.Port != 0 && !standardPorts[t.Port])
	v[HTTPSDomainURL] = flag(strings.Contains(t.Host, "https"))
}

func subdomainCount(host string) int {
	dots := strings.Count(host, ".")
	if dots > 1 {
		return dots - 1
	}
	return 0
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
