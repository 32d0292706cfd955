package dnssec

import "github.com/miekg/dns"

// RRSet is the "RRset ops" collaborator of spec.md §6: a named, typed, owned slice of
// dns.RR with copy/merge/equality helpers, generalizing the teacher's ad-hoc use of
// extractRecords/dns.CanonicalName into one small type shared by the key-set updater
// (spec.md §4.4) and the delegation updater (spec.md §4.5).
type RRSet struct {
	Owner string
	Type  uint16
	RRs   []dns.RR
}

// newRRSet builds an RRSet from a non-empty slice of same-owner, same-type records.
func newRRSet(rrs []dns.RR) *RRSet {
	if len(rrs) == 0 {
		return nil
	}
	cp := make([]dns.RR, len(rrs))
	for i, rr := range rrs {
		cp[i] = dns.Copy(rr)
	}
	return &RRSet{
		Owner: dns.CanonicalName(rrs[0].Header().Name),
		Type:  rrs[0].Header().Rrtype,
		RRs:   cp,
	}
}

// copy returns a deep copy of the set, independent of the receiver's backing array.
func (s *RRSet) copy() *RRSet {
	if s == nil {
		return nil
	}
	cp := make([]dns.RR, len(s.RRs))
	for i, rr := range s.RRs {
		cp[i] = dns.Copy(rr)
	}
	return &RRSet{Owner: s.Owner, Type: s.Type, RRs: cp}
}

// mergeRDATA appends other's records into s, skipping any already present by wire
// comparison. other must share s's owner and type.
func (s *RRSet) mergeRDATA(other *RRSet) {
	if other == nil {
		return
	}
outer:
	for _, incoming := range other.RRs {
		for _, existing := range s.RRs {
			if dns.IsDuplicate(existing, incoming) {
				continue outer
			}
		}
		s.RRs = append(s.RRs, dns.Copy(incoming))
	}
}

func (s *RRSet) ownerEquals(owner string) bool {
	if s == nil {
		return false
	}
	return dns.CanonicalName(s.Owner) == dns.CanonicalName(owner)
}
