package dnssec

import (
	"time"

	"github.com/miekg/dns"
)

// verifyOutcome is the result contract of §4.3.1: verified, no covering signature was
// present, a covering signature existed but none verified, or an unexpected failure.
type verifyOutcome uint8

const (
	verifyOK verifyOutcome = iota
	verifyNoSignature
	verifyBogus
	verifyUnknown
)

// verifyRRset checks rrs (a single same-owner, same-type RRset) against sigs, the
// RRSIG records selected from the same section, requiring a signer present in keys
// and a time-valid, cryptographically sound signature. Grounded on kr_rrset_validate
// in the original layer/validate.c, reduced to what dns.RRSIG.Verify needs.
//
// Returns wexpand=true when a verifying RRSIG's label count is fewer than the RRset
// owner's label count - the owner name was synthesized from a wildcard (spec.md §4.3.1).
func verifyRRset(rrs []dns.RR, sigs []*dns.RRSIG, keys *RRSet, ts time.Time) (verifyOutcome, bool) {
	if len(rrs) == 0 {
		return verifyUnknown, false
	}
	if keys == nil || len(keys.RRs) == 0 {
		return verifyNoSignature, false
	}

	owner := dns.CanonicalName(rrs[0].Header().Name)
	rtype := rrs[0].Header().Rrtype

	covering := make([]*dns.RRSIG, 0, len(sigs))
	for _, sig := range sigs {
		if sig.TypeCovered == rtype && namesEqual(sig.Header().Name, owner) {
			covering = append(covering, sig)
		}
	}
	if len(covering) == 0 {
		return verifyNoSignature, false
	}

	dnskeys := extractRecords[*dns.DNSKEY](keys.RRs)
	if len(dnskeys) == 0 {
		return verifyNoSignature, false
	}

	anyVerified := false
	allValid := true
	wexpand := false

	for _, sig := range covering {
		if !sig.ValidityPeriod(ts) {
			allValid = false
			continue
		}

		verifiedThisSig := false
		for _, key := range dnskeys {
			if key.Protocol != 3 || key.Algorithm != sig.Algorithm || key.KeyTag() != sig.KeyTag {
				continue
			}
			if err := sig.Verify(key, rrs); err == nil {
				verifiedThisSig = true
				break
			}
		}

		if !verifiedThisSig {
			allValid = false
			continue
		}

		anyVerified = true
		if int(sig.Labels) < dns.CountLabel(owner) {
			wexpand = true
		}
		if !RequireAllSignaturesValid {
			break
		}
	}

	if !anyVerified {
		return verifyBogus, false
	}
	if RequireAllSignaturesValid && !allValid {
		return verifyBogus, false
	}
	return verifyOK, wexpand
}
