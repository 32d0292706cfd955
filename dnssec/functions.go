package dnssec

import "github.com/miekg/dns"

func extractRecords[T dns.RR](rr []dns.RR) []T {
	r := make([]T, 0, len(rr))
	for _, record := range rr {
		if typedRecord, ok := record.(T); ok {
			r = append(r, typedRecord)
		}
	}
	return r
}

func recordsOfTypeExist(rr []dns.RR, t uint16) bool {
	for _, record := range rr {
		if record.Header().Rrtype == t {
			return true
		}
	}
	return false
}

func hasType(rrs []dns.RR, t uint16) bool {
	return recordsOfTypeExist(rrs, t)
}

// namesEqual compares two DNS names under canonicalization (case-folding, trailing dot).
func namesEqual(a, b string) bool {
	return dns.CanonicalName(a) == dns.CanonicalName(b)
}

// hasNSEC3 reports whether any NSEC3 record appears in any section of the message,
// per spec.md §4.1's has_nsec3 computation.
func hasNSEC3(msg *dns.Msg) bool {
	return recordsOfTypeExist(msg.Answer, dns.TypeNSEC3) ||
		recordsOfTypeExist(msg.Ns, dns.TypeNSEC3) ||
		recordsOfTypeExist(msg.Extra, dns.TypeNSEC3)
}

// aggregateRRsOfType merges every record of type t in rrs into one RRSet, combining
// rdata from records sharing an owner (spec.md §4.5 update_ds; also used by the
// key-set updater to gather DNSKEYs). Returns nil if none are found.
func aggregateRRsOfType(rrs []dns.RR, t uint16) *RRSet {
	var set *RRSet
	for _, rr := range rrs {
		if rr.Header().Rrtype != t {
			continue
		}
		if set == nil {
			set = newRRSet([]dns.RR{rr})
			continue
		}
		set.mergeRDATA(newRRSet([]dns.RR{rr}))
	}
	return set
}

// rrsFromSelected extracts the underlying dns.RR slice from a ranked-record list.
func rrsFromSelected(recs []*RankedRecord) []dns.RR {
	rrs := make([]dns.RR, len(recs))
	for i, r := range recs {
		rrs[i] = r.RR
	}
	return rrs
}

// rrsigsFromSelected extracts the RRSIG records from a ranked-record list that cover
// type t.
func rrsigsFromSelected(recs []*RankedRecord, t uint16) []*dns.RRSIG {
	var sigs []*dns.RRSIG
	for _, r := range recs {
		if sig, ok := r.RR.(*dns.RRSIG); ok && sig.TypeCovered == t {
			sigs = append(sigs, sig)
		}
	}
	return sigs
}

// matchedLabels returns the number of labels a and b share, counted from the root
// label inward (knot_dname_matched_labels in the C original).
func matchedLabels(a, b string) int {
	return dns.CompareDomainName(a, b)
}

// stripLeadingLabels removes the first n labels from name, returning the remaining
// suffix. Used by the missing-RRSIG handler (spec.md §4.7.2) to compute the owner
// name's candidate new zone-cut start.
func stripLeadingLabels(name string, n int) string {
	if n <= 0 {
		return dns.CanonicalName(name)
	}
	offsets := dns.Split(dns.CanonicalName(name))
	if n >= len(offsets) {
		return "."
	}
	return name[offsets[n]:]
}
