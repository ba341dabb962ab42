// Package features turns a URL into the fixed 30-value vector the phishing
// classifier was trained on.
//
// Every value is Suspicious (+1) or Safe (-1). The position of each feature is
// a contract with the trained model and must never change.
package features

// Size is the number of features in a Vector.
const Size = 30

const (
	// Suspicious marks a feature that points towards phishing.
	Suspicious = 1.0
	// Safe marks a feature that points towards a legitimate site.
	Safe = -1.0
)

// Vector is one URL's encoded feature values in model order.
type Vector [Size]float64

// Feature positions, zero-based.
const (
	UsingIP = iota
	LongURL
	ShortURL
	SymbolAt
	Redirecting
	PrefixSuffix
	SubDomains
	HTTPS
	DomainRegLen
	Favicon
	NonStdPort
	HTTPSDomainURL
	RequestURL
	AnchorURL
	LinksInScriptTags
	ServerFormHandler
	InfoEmail
	AbnormalURL
	WebsiteForwarding
	StatusBarCust
	DisableRightClick
	UsingPopupWindow
	IframeRedirection
	AgeOfDomain
	DNSRecording
	WebsiteTraffic
	PageRank
	GoogleIndex
	LinksPointingToPage
	StatsReport
)

// Names lists the canonical feature names in vector order.
var Names = [Size]string{
	UsingIP:             "using_ip",
	LongURL:             "long_url",
	ShortURL:            "short_url",
	SymbolAt:            "symbol_at",
	Redirecting:         "redirecting",
	PrefixSuffix:        "prefix_suffix",
	SubDomains:          "sub_domains",
	HTTPS:               "https",
	DomainRegLen:        "domain_reg_len",
	Favicon:             "favicon",
	NonStdPort:          "non_std_port",
	HTTPSDomainURL:      "https_domain_url",
	RequestURL:          "request_url",
	AnchorURL:           "anchor_url",
	LinksInScriptTags:   "links_in_script_tags",
	ServerFormHandler:   "server_form_handler",
	InfoEmail:           "info_email",
	AbnormalURL:         "abnormal_url",
	WebsiteForwarding:   "website_forwarding",
	StatusBarCust:       "status_bar_cust",
	DisableRightClick:   "disable_right_click",
	UsingPopupWindow:    "using_popup_window",
	IframeRedirection:   "iframe_redirection",
	AgeOfDomain:         "age_of_domain",
	DNSRecording:        "dns_recording",
	WebsiteTraffic:      "website_traffic",
	PageRank:            "page_rank",
	GoogleIndex:         "google_index",
	LinksPointingToPage: "links_pointing_to_page",
	StatsReport:         "stats_report",
}

// unobservable features cannot be measured from the server side or need a
// reputation source that is not integrated. They are pinned to Safe.
var unobservable = []int{
	StatusBarCust, DisableRightClick, UsingPopupWindow,
	WebsiteTraffic, PageRank, GoogleIndex, LinksPointingToPage, StatsReport,
}

// Slice returns the vector as a single classifier input row.
func (v Vector) Slice() []float64 {
	out := make([]float64, Size)
	copy(out, v[:])
	return out
}

func flag(suspicious bool) float64 {
	if suspicious {
		return Suspicious
	}
	return Safe
}
