package features

import (
	"strings"
	"time"

	"github.com/Bahjat/phishguard/internal/domaininfo"
)

const (
	minRegisteredMonths = 12
	minAgeDays          = 180
	daysPerMonth        = 30
)

// registration fills the WHOIS-derived features from a single record. A nil
// record (lookup failed) or a record without a creation date is Suspicious.
func registration(v *Vector, host string, rec *domaininfo.Record, now time.Time) {
	v[DomainRegLen] = Suspicious
	v[AgeOfDomain] = Suspicious
	v[AbnormalURL] = Suspicious

	if rec == nil {
		return
	}

	v[AbnormalURL] = flag(rec.DomainName == "" || !strings.Contains(host, rec.DomainName))

	if rec.CreationDate.IsZero() {
		return
	}
	ageDays := int(now.Sub(rec.CreationDate).Hours() / 24)
	v[DomainRegLen] = flag(float64(ageDays)/daysPerMonth <= minRegisteredMonths)
	v[AgeOfDomain] = flag(ageDays < minAgeDays)
}
