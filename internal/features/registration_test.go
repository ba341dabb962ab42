package features

import (
	"testing"
	"time"

	"github.com/Bahjat/phishguard/internal/domaininfo"
	"github.com/stretchr/testify/assert"
)

var refNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func TestRegistration(t *testing.T) {
	tests := []struct {
		name        string
		host        string
		rec         *domaininfo.Record
		wantRegLen  float64
		wantAge     float64
		wantAbnorml float64
	}{
		{
			name:       "lookup failed",
			host:       "example.com",
			rec:        nil,
			wantRegLen: Suspicious, wantAge: Suspicious, wantAbnorml: Suspicious,
		},
		{
			name:       "old matching domain",
			host:       "www.example.com",
			rec:        &domaininfo.Record{DomainName: "example.com", CreationDate: refNow.AddDate(-20, 0, 0)},
			wantRegLen: Safe, wantAge: Safe, wantAbnorml: Safe,
		},
		{
			name:       "ten days old",
			host:       "test-new-domain-xyz123.com",
			rec:        &domaininfo.Record{DomainName: "test-new-domain-xyz123.com", CreationDate: refNow.AddDate(0, 0, -10)},
			wantRegLen: Suspicious, wantAge: Suspicious, wantAbnorml: Safe,
		},
		{
			name:       "eight months old",
			host:       "example.com",
			rec:        &domaininfo.Record{DomainName: "example.com", CreationDate: refNow.AddDate(0, 0, -240)},
			wantRegLen: Suspicious, wantAge: Safe, wantAbnorml: Safe,
		},
		{
			name:       "exactly 360 days is 12 months, not more",
			host:       "example.com",
			rec:        &domaininfo.Record{DomainName: "example.com", CreationDate: refNow.AddDate(0, 0, -360)},
			wantRegLen: Suspicious, wantAge: Safe, wantAbnorml: Safe,
		},
		{
			name:       "no creation date",
			host:       "example.com",
			rec:        &domaininfo.Record{DomainName: "example.com"},
			wantRegLen: Suspicious, wantAge: Suspicious, wantAbnorml: Safe,
		},
		{
			name:       "registry names another domain",
			host:       "paypal.com.evil.net",
			rec:        &domaininfo.Record{DomainName: "evil.org", CreationDate: refNow.AddDate(-3, 0, 0)},
			wantRegLen: Safe, wantAge: Safe, wantAbnorml: Suspicious,
		},
		{
			name:       "registry omits domain name",
			host:       "example.com",
			rec:        &domaininfo.Record{CreationDate: refNow.AddDate(-3, 0, 0)},
			wantRegLen: Safe, wantAge: Safe, wantAbnorml: Suspicious,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Vector
			registration(&v, tt.host, tt.rec, refNow)

			assert.InDelta(t, tt.wantRegLen, v[DomainRegLen], 0, "domain_reg_len")
			assert.InDelta(t, tt.wantAge, v[AgeOfDomain], 0, "age_of_domain")
			assert.InDelta(t, tt.wantAbnorml, v[AbnormalURL], 0, "abnormal_url")
		})
	}
}
