package features

import (
	"testing"

	"github.com/Bahjat/phishguard/internal/pageinsight"
	"github.com/stretchr/testify/assert"
)

var pageIndexes = []int{Favicon, RequestURL, AnchorURL, LinksInScriptTags, ServerFormHandler, InfoEmail, IframeRedirection}

func okSnapshot(doc pageinsight.Document) *pageinsight.Snapshot {
	return &pageinsight.Snapshot{StatusCode: 200, Document: &doc}
}

func TestContent_FetchFailure(t *testing.T) {
	var v Vector
	content(&v, "example.com", nil)

	for _, i := range pageIndexes {
		assert.InDelta(t, Suspicious, v[i], 0, Names[i])
	}
	assert.InDelta(t, Suspicious, v[WebsiteForwarding], 0)
}

func TestContent_Non200(t *testing.T) {
	var v Vector
	content(&v, "example.com", &pageinsight.Snapshot{StatusCode: 503, Redirects: 1})

	for _, i := range []int{Favicon, RequestURL, AnchorURL, LinksInScriptTags, ServerFormHandler, IframeRedirection} {
		assert.InDelta(t, Suspicious, v[i], 0, Names[i])
	}
	assert.InDelta(t, Safe, v[InfoEmail], 0)
	assert.InDelta(t, Safe, v[WebsiteForwarding], 0)
}

func TestContent_Unparseable200(t *testing.T) {
	var v Vector
	content(&v, "example.com", &pageinsight.Snapshot{StatusCode: 200})

	assert.InDelta(t, Suspicious, v[InfoEmail], 0)
}

func TestContent_CleanPage(t *testing.T) {
	var v Vector
	content(&v, "example.com", okSnapshot(pageinsight.Document{
		FaviconHrefs: []string{"https://example.com/favicon.ico"},
		ResourceSrcs: []string{"/a.js", "https://example.com/b.png"},
		AnchorHrefs:  []string{"https://example.com/a", "https://other.com/b", "/c"},
		ScriptSrcs:   []string{"https://example.com/a.js", "https://cdn.a.net/1.js", "https://cdn.b.net/2.js", "https://cdn.c.net/3.js"},
		FormActions:  []string{"/login", "https://example.com/post"},
		IframeSrcs:   []string{"https://example.com/frame"},
	}))

	for _, i := range pageIndexes {
		assert.InDelta(t, Safe, v[i], 0, Names[i])
	}
}

func TestContent_PhishyPage(t *testing.T) {
	var v Vector
	content(&v, "example.com", &pageinsight.Snapshot{StatusCode: 200, Redirects: 2, Document: &pageinsight.Document{
		FaviconHrefs: []string{"https://brand.com/favicon.ico"},
		ResourceSrcs: []string{
			"http://a.net/1", "https://b.net/2", "https://c.net/3",
			"https://d.net/4", "https://e.net/5", "https://f.net/6",
		},
		AnchorHrefs: []string{"https://brand.com/a", "https://brand.com/b", "https://example.com/c"},
		ScriptSrcs:  []string{"https://a.net/1.js", "https://b.net/2.js", "https://c.net/3.js", "https://d.net/4.js"},
		FormActions: []string{"", "https://collector.net/post", "/local"},
		IframeSrcs:  []string{"https://frames.net/f"},
		HasMailto:   true,
	}})

	for _, i := range append(pageIndexes, WebsiteForwarding) {
		assert.InDelta(t, Suspicious, v[i], 0, Names[i])
	}
}

func TestContent_EmptyPageEdgeCases(t *testing.T) {
	var v Vector
	content(&v, "example.com", okSnapshot(pageinsight.Document{}))

	assert.InDelta(t, Suspicious, v[Favicon], 0, "no favicon at all")
	assert.InDelta(t, Safe, v[AnchorURL], 0, "no anchors")
	assert.InDelta(t, Safe, v[ServerFormHandler], 0, "no forms")
	assert.InDelta(t, Safe, v[IframeRedirection], 0)
}

func TestForeignAnchorRatio_IgnoresRelativeLinks(t *testing.T) {
	hrefs := []string{"/a", "#top", "mailto:x@y.z", "https://other.com/x", "https://example.com/y"}

	assert.InDelta(t, 0.5, foreignAnchorRatio(hrefs, "example.com"), 1e-9)
	assert.InDelta(t, 0, foreignAnchorRatio([]string{"/only-relative"}, "example.com"), 0)
}

func TestForeignFormRatio(t *testing.T) {
	tests := []struct {
		name    string
		actions []string
		want    float64
	}{
		{name: "none", actions: nil, want: 0},
		{name: "empty action", actions: []string{""}, want: 1},
		{name: "relative", actions: []string{"/post"}, want: 0},
		{name: "external", actions: []string{"https://evil.net/p", "/ok"}, want: 0.5},
		{name: "same host absolute", actions: []string{"https://example.com/p"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, foreignFormRatio(tt.actions, "example.com"), 1e-9)
		})
	}
}
