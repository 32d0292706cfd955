package dnssec

import (
	"time"

	"github.com/miekg/dns"
)

// ZoneCut is the mutable node describing the currently trusted delegation point
// (spec.md §3 "Zone cut"). Nesting/retreat is modelled with a Parent pointer toward
// the root; the chain is strictly older-to-younger and never cyclic.
type ZoneCut struct {
	Name        string
	Key         *RRSet
	TrustAnchor *RRSet
	Parent      *ZoneCut
}

// NewZoneCut creates a cut at name with no key or trust anchor set.
func NewZoneCut(name string) *ZoneCut {
	return &ZoneCut{Name: dns.CanonicalName(name)}
}

// clone returns a shallow copy of the cut (same Key/TrustAnchor pointers, no parent),
// used when nesting a new, more specific cut on top of the current one.
func (z *ZoneCut) clone() *ZoneCut {
	cp := *z
	cp.Parent = nil
	return &cp
}

// RankedRecord is a single record selected from a response for this pass, carrying
// the mutable rank the validator assigns it (spec.md §3 "Ranked record").
type RankedRecord struct {
	RR      dns.RR
	Rank    Rank
	Yielded bool
}

// Query represents an in-flight question (spec.md §3 "Query").
type Query struct {
	SName  string
	SType  uint16
	SClass uint16

	ZoneCut *ZoneCut
	Flags   Flags

	// Parent is the query that spawned this one (DS/DNSKEY subqueries), or nil.
	Parent *Query

	// Timestamp is the reference time for signature inception/expiration checks.
	Timestamp time.Time

	// ID tags records for inclusion in the final wire response.
	ID uint16

	// Retried records whether this query has already returned Yield once against the
	// current zone cut. It is not one of the wire-visible Flags; it is how the re-entry
	// handlers (reentry.go) recognize "already in YIELD state" (spec.md §4.7) and
	// enforce the no-progress invariant (spec.md §8 invariant 5).
	Retried bool
}

// NewQuery builds a query with DNSSEC validation requested, timestamped now.
func NewQuery(sname string, stype uint16) *Query {
	return &Query{
		SName:     dns.CanonicalName(sname),
		SType:     stype,
		SClass:    dns.ClassINET,
		Flags:     FlagWant,
		Timestamp: time.Now(),
	}
}

// Request is a container owning the ranked record arrays for one response-processing
// pass plus the active query (spec.md §3 "Request").
type Request struct {
	AnswSelected []*RankedRecord
	AuthSelected []*RankedRecord
	Query        *Query
}

// NewRequest builds an empty request for q.
func NewRequest(q *Query) *Request {
	return &Request{Query: q}
}

func (req *Request) records(s Section) []*RankedRecord {
	if s == SectionAnswer {
		return req.AnswSelected
	}
	return req.AuthSelected
}

func (req *Request) setRecords(s Section, rr []*RankedRecord) {
	if s == SectionAnswer {
		req.AnswSelected = rr
	} else {
		req.AuthSelected = rr
	}
}

// selectSection appends newly-seen records from a wire section into the request's
// ranked-record array for that section, each starting at RankInitial. This is the
// bridging step that stands in for the "earlier layers" spec.md §3 says select ranked
// records before this layer runs; there is no separate selection layer in this repo.
func (req *Request) selectSection(s Section, rrs []dns.RR) {
	existing := req.records(s)
	for _, rr := range rrs {
		existing = append(existing, &RankedRecord{RR: rr})
	}
	req.setRecords(s, existing)
}
