package dnssec

// Verdict is the tagged variant a Layer.Consume call resolves to. It is a plain return
// value, never a suspended goroutine: YIELD means "the caller must fetch more and call
// Consume again", not "wait here".
type Verdict uint8

const (
	// Done means the response (or this pass over it) is fully validated; ranks are final.
	Done Verdict = iota
	// Yield means more data is required. The caller must re-dispatch according to the
	// mutated ZoneCut/Flags and call Consume again with the new response.
	Yield
	// Fail means this pass cannot be trusted. Flags.Bogus (or another fatal flag) is set
	// on the query.
	Fail
)

func (v Verdict) String() string {
	switch v {
	case Done:
		return "Done"
	case Yield:
		return "Yield"
	case Fail:
		return "Fail"
	default:
		return "Unknown"
	}
}

// Rank is the per-record trust classification produced by validation.
type Rank uint8

const (
	// RankInitial means the record has not yet been classified.
	RankInitial Rank = iota
	// RankSecure means a covering signature verified against a trusted key, or the
	// record rides along with one that did (RRSIG-on-itself, unsigned referral NS).
	RankSecure
	// RankInsecure means no covering signature exists; the record is provably outside
	// the signed tree.
	RankInsecure
	// RankBad means a covering signature exists but does not verify.
	RankBad
	// RankMismatch means a covering RRSIG's signer name lies outside the current zone
	// cut, forcing a cut change.
	RankMismatch
	// RankUnknown means verification failed for an unexpected reason.
	RankUnknown
)

func (r Rank) String() string {
	switch r {
	case RankInitial:
		return "INITIAL"
	case RankSecure:
		return "SECURE"
	case RankInsecure:
		return "INSECURE"
	case RankBad:
		return "BAD"
	case RankMismatch:
		return "MISMATCH"
	case RankUnknown:
		return "UNKNOWN"
	default:
		return "?"
	}
}

// Section identifies which part of a response a record (or validation pass) belongs to.
type Section uint8

const (
	SectionAnswer Section = iota
	SectionAuthority
)

// Flags is the bitmask carried on a Query, mirroring spec.md's {DNSSEC_WANT,
// DNSSEC_INSECURE, DNSSEC_BOGUS, DNSSEC_WEXPAND, CACHED, STUB, AWAIT_CUT}.
type Flags uint16

const (
	FlagWant Flags = 1 << iota
	FlagInsecure
	FlagBogus
	FlagWexpand
	FlagCached
	FlagStub
	FlagAwaitCut
)

func (f Flags) Has(bit Flags) bool {
	return f&bit != 0
}

func (f Flags) Set(bit Flags) Flags {
	return f | bit
}

func (f Flags) Clear(bit Flags) Flags {
	return f &^ bit
}
