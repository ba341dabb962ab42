package features

import (
	"net/http"
	"strings"

	"github.com/Bahjat/phishguard/internal/pageinsight"
)

const (
	maxExternalResources = 5
	maxExternalScripts   = 3
	maxForeignRatio      = 0.5
)

// content fills the features read from the fetched page. snap may be nil
// (transport failure) or carry no Document (non-200 or unparseable); both
// fall back to Suspicious except where noted.
func content(v *Vector, host string, snap *pageinsight.Snapshot) {
	// Forwarding only needs the exchange to have completed.
	v[WebsiteForwarding] = Suspicious
	if snap != nil {
		v[WebsiteForwarding] = flag(snap.Redirects > 1)
	}

	if !snap.OK() {
		for _, i := range []int{Favicon, RequestURL, AnchorURL, LinksInScriptTags, ServerFormHandler, IframeRedirection} {
			v[i] = Suspicious
		}
		// A page that answered with an error status has no mailto; a failed
		// exchange or an unparseable 200 is suspicious.
		v[InfoEmail] = flag(snap == nil || snap.StatusCode == http.StatusOK)
		return
	}

	doc := snap.Document
	v[Favicon] = flag(!anyContains(doc.FaviconHrefs, host))
	v[RequestURL] = flag(countExternalResources(doc.ResourceSrcs) > maxExternalResources)
	v[AnchorURL] = flag(foreignAnchorRatio(doc.AnchorHrefs, host) > maxForeignRatio)
	v[LinksInScriptTags] = flag(countNotContaining(doc.ScriptSrcs, host) > maxExternalScripts)
	v[ServerFormHandler] = flag(foreignFormRatio(doc.FormActions, host) > maxForeignRatio)
	v[InfoEmail] = flag(doc.HasMailto)
	v[IframeRedirection] = flag(countNotContaining(doc.IframeSrcs, host) > 0)
}

func countExternalResources(srcs []string) int {
	var n int
	for _, s := range srcs {
		if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
			n++
		}
	}
	return n
}

// foreignAnchorRatio is the share of absolute http(s) anchors that point away
// from host. With no absolute anchors it is zero.
func foreignAnchorRatio(hrefs []string, host string) float64 {
	var total, foreign int
	for _, h := range hrefs {
		if !strings.HasPrefix(h, "http") {
			continue
		}
		total++
		if !containsHost(h, host) {
			foreign++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(foreign) / float64(total)
}

// foreignFormRatio is the share of form actions that are empty or post to
// another host. With no forms it is zero.
func foreignFormRatio(actions []string, host string) float64 {
	if len(actions) == 0 {
		return 0
	}
	var foreign int
	for _, a := range actions {
		if a == "" || (strings.HasPrefix(a, "http") && !containsHost(a, host)) {
			foreign++
		}
	}
	return float64(foreign) / float64(len(actions))
}

func countNotContaining(values []string, host string) int {
	var n int
	for _, v := range values {
		if !containsHost(v, host) {
			n++
		}
	}
	return n
}

func anyContains(values []string, host string) bool {
	for _, v := range values {
		if containsHost(v, host) {
			return true
		}
	}
	return false
}

// containsHost is substring containment; an empty host is contained in
// everything.
func containsHost(value, host string) bool {
	return strings.Contains(value, host)
}
