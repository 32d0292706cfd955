package resolver

import "github.com/sigcut/resolver/dnssec"

// authResult is the final, per-query DNSSEC classification surfaced on a Response,
// derived from the terminal Flags an authenticator's dnssec.Query ends up with.
type authResult uint8

const (
	authIndeterminate authResult = iota
	authSecure
	authInsecure
	authBogus
)

func (a authResult) String() string {
	switch a {
	case authSecure:
		return "secure"
	case authInsecure:
		return "insecure"
	case authBogus:
		return "bogus"
	default:
		return "indeterminate"
	}
}

// Combine folds the DNSSEC result of a CNAME target onto the result already held
// for the chain, biased towards the weaker of the two outcomes.
func (a authResult) Combine(other authResult) authResult {
	switch {
	case a == authBogus || other == authBogus:
		return authBogus
	case a == authInsecure || other == authInsecure:
		return authInsecure
	case a == authIndeterminate || other == authIndeterminate:
		return authIndeterminate
	default:
		return authSecure
	}
}

// resultFromFlags classifies a query's terminal Flags per spec.md §3: BOGUS wins
// outright, an insecure proof clears WANT while setting INSECURE, and WANT
// surviving untouched alongside a clean run means every record validated SECURE.
func resultFromFlags(f dnssec.Flags) authResult {
	switch {
	case f.Has(dnssec.FlagBogus):
		return authBogus
	case f.Has(dnssec.FlagInsecure):
		return authInsecure
	case f.Has(dnssec.FlagWant):
		return authSecure
	default:
		return authIndeterminate
	}
}
