package pageinsight

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document holds everything the phishing features read from one page. All
// attribute values are lower-cased and trimmed so that host containment
// checks are case-insensitive.
type Document struct {
	// FaviconHrefs lists hrefs of <link rel="shortcut icon">, or of
	// <link rel="icon"> when the page declares no shortcut icon.
	FaviconHrefs []string
	// ResourceSrcs lists every src attribute on the page, on any element.
	ResourceSrcs []string
	AnchorHrefs  []string
	ScriptSrcs   []string
	// FormActions lists the action attribute of forms that declare one; an
	// empty string means action="".
	FormActions []string
	IframeSrcs  []string
	HasMailto   bool
}

// Parse reads the whole body and extracts the phishing-relevant elements.
func Parse(body io.Reader) (*Document, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	result := &Document{
		FaviconHrefs: faviconHrefs(doc),
		ResourceSrcs: attrValues(doc, "[src]", "src"),
		AnchorHrefs:  attrValues(doc, "a[href]", "href"),
		ScriptSrcs:   attrValues(doc, "script[src]", "src"),
		FormActions:  attrValues(doc, "form[action]", "action"),
		IframeSrcs:   attrValues(doc, "iframe[src]", "src"),
		HasMailto:    bytes.Contains(bytes.ToLower(raw), []byte("mailto:")),
	}
	return result, nil
}

func attrValues(doc *goquery.Document, selector, attr string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr(attr); ok {
			out = append(out, normalize(v))
		}
	})
	return out
}

func faviconHrefs(doc *goquery.Document) []string {
	byRel := map[string][]string{}
	doc.Find("link[rel][href]").Each(func(_ int, s *goquery.Selection) {
		rel := normalize(s.AttrOr("rel", ""))
		byRel[rel] = append(byRel[rel], normalize(s.AttrOr("href", "")))
	})

	if hrefs := byRel["shortcut icon"]; len(hrefs) > 0 {
		return hrefs
	}
	return byRel["icon"]
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
