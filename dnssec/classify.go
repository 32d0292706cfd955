package dnssec

import "github.com/miekg/dns"

// classification is the outcome of inspecting one ranked record: either its rank was
// decided outright, or it still needs RRset verification (spec.md §4.2).
type classification uint8

const (
	classifyRanked classification = iota
	classifyVerify
)

// classifyRecord inspects a single non-yielded record and either assigns it a final
// rank directly or defers it to §4.3.1 per-RRset verification. Grounded on the
// classification loop inside validate_section in the original layer/validate.c: an
// RRSIG is ranked by comparing its signer to the active zone name, an NS in the
// authority section rides the delegation unverified, and everything else is deferred.
func classifyRecord(rec *RankedRecord, section Section, zoneName string) classification {
	if rec.Yielded || rec.Rank == RankSecure {
		return classifyRanked
	}

	if rrsig, ok := rec.RR.(*dns.RRSIG); ok {
		if namesEqual(rrsig.SignerName, zoneName) {
			rec.Rank = RankSecure
		} else {
			rec.Rank = RankMismatch
		}
		return classifyRanked
	}

	if rec.RR.Header().Rrtype == dns.TypeNS && section == SectionAuthority {
		rec.Rank = RankSecure
		return classifyRanked
	}

	return classifyVerify
}
