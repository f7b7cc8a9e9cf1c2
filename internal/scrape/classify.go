package scrape

import "strings"

// Site identifies which extraction rule-set applies to a posting URL.
type Site string

// Supported job board platforms. SiteGeneric is the catch-all.
const (
	SiteGreenhouse Site = "greenhouse"
	SiteLinkedIn   Site = "linkedin"
	SiteIndeed     Site = "indeed"
	SiteHandshake  Site = "handshake"
	SiteGeneric    Site = "generic"
)

// siteRules is checked in order; the platforms are mutually exclusive by
// host, but the order is still part of the contract.
var siteRules = []struct {
	fragment string
	site     Site
}{
	{"greenhouse.io", SiteGreenhouse},
	{"linkedin.com", SiteLinkedIn},
	{"indeed.com", SiteIndeed},
	{"joinhandshake.com", SiteHandshake},
}

// Classify maps a posting URL to a Site. It never fails; URLs that match no
// rule fall through to SiteGeneric.
func Classify(rawURL string) Site {
	lower := strings.ToLower(rawURL)
	for _, rule := range siteRules {
		if strings.Contains(lower, rule.fragment) {
			return rule.site
		}
	}
	return SiteGeneric
}
