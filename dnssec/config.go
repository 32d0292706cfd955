package dnssec

import (
	"github.com/miekg/dns"
	"github.com/nsmithuk/dnssec-root-anchors-go/anchors"
)

const (
	DefaultRequireAllSignaturesValid = false
)

var (
	// rootTrustAnchorDS is the root zone's DS set, as published by IANA and vendored
	// by dnssec-root-anchors-go. It seeds the "." ZoneCut's TrustAnchor.
	rootTrustAnchorDS = anchors.GetValid()

	// RequireAllSignaturesValid
	// If false (default), then one or more RRSIG per RRSET must be valid for the overall state to be valid.
	// If true, _all_ RRSIGs returned must be valid for the overall state to be valid.
	//
	// Note:
	//  https://datatracker.ietf.org/doc/html/rfc4035#section-5.3.3
	//	If other RRSIG RRs also cover this RRset, the local resolver security
	//	policy determines whether the resolver also has to test these RRSIG
	//	RRs and how to resolve conflicts if these RRSIG RRs lead to differing
	//	results.
	RequireAllSignaturesValid = DefaultRequireAllSignaturesValid
)

// RootZoneCut returns a fresh "." zone cut seeded with the vendored root trust anchor.
// It has no Key yet - the first DNSKEY response for "." populates it via the key-set
// updater (spec.md §4.4).
func RootZoneCut() *ZoneCut {
	cut := NewZoneCut(".")
	if len(rootTrustAnchorDS) > 0 {
		rrs := make([]dns.RR, len(rootTrustAnchorDS))
		for i, ds := range rootTrustAnchorDS {
			rrs[i] = ds
		}
		cut.TrustAnchor = newRRSet(rrs)
	}
	return cut
}

type Logger func(string)

// Default logging functions just black-hole the input; resolver.init wires these up to
// a real logger (logrus-backed, see resolver/config.go) when this package is used as
// part of a full resolver rather than standalone.
var Debug Logger = func(s string) {}
var Info Logger = func(s string) {}
var Warn Logger = func(s string) {}
