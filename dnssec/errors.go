package dnssec

import "errors"

// Sentinel error kinds, matching the internal error kinds of spec.md §7. These never
// escape Consume directly (it returns a Verdict); they drive which Flags get set and
// are returned unwrapped, so callers compare against them directly or with errors.Is.
var (
	// ErrNoSignature means no RRSIG purporting to cover an RRset was present ("no-RRSIG").
	ErrNoSignature = errors.New("dnssec: no covering rrsig found")
	// ErrBadSignature means a covering RRSIG existed but none verified.
	ErrBadSignature = errors.New("dnssec: rrsig present but did not verify")
	// ErrBadDenial means an authenticated-denial proof (NSEC/NSEC3) failed.
	ErrBadDenial = errors.New("dnssec: denial of existence proof failed")
	// ErrChainBroken means the merged DNSKEY RRset could not be tied to the active
	// trust anchor (self-signature or digest mismatch).
	ErrChainBroken = errors.New("dnssec: dnskey set not covered by trust anchor")
	// ErrMalformed covers structurally invalid input the validator cannot reason about.
	ErrMalformed = errors.New("dnssec: malformed response")
	// ErrNoZoneKey means the record validator (validateRecords) was asked to validate a
	// response with no DNSKEY yet known for the current zone cut.
	ErrNoZoneKey = errors.New("dnssec: no dnskey for current zone cut")
	// ErrNoProgress names the no-progress condition (spec.md §8 invariant 5). No path
	// in this package returns it: a query that would yield a second time gets a Fail
	// verdict instead, tracked through Query.Retried.
	ErrNoProgress = errors.New("dnssec: no progress made since last yield")
)

// errNSEC3OptOut is not a failure: it's how the doe dispatcher signals that a
// NSEC3 NODATA/referral proof came back as an opt-out range rather than a direct
// covering proof. Callers translate it into "insecure" where opt-out is permitted
// (spec.md §4.6) and into a hard failure where it is not (NXDOMAIN).
var errNSEC3OptOut = errors.New("dnssec: nsec3 proof is an opt-out range")
