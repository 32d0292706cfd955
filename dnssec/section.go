package dnssec

import (
	"time"

	"github.com/miekg/dns"
)

// sectionResult is what one pass over a section produced. noRRSIG is true when no
// RRSIG record at all (matched or mismatched signer) appeared among the section's
// records - this is the "rrsig_found" bookkeeping from validate_section in the
// original layer/validate.c, and is distinct from a single RRset's own no-signature
// outcome in §4.3.1.
type sectionResult struct {
	noRRSIG bool
	flags   Flags
}

type rrsetKey struct {
	owner string
	rtype uint16
}

// validateSection applies the classifier (classify.go) and the RRset verifier
// (verify_rrset.go) across one section's selected records, assigning each record's
// final rank as a side effect. Grounded on validate_section in layer/validate.c.
func validateSection(cut *ZoneCut, section Section, records []*RankedRecord, ts time.Time) sectionResult {
	var res sectionResult
	var sigs []*dns.RRSIG

	groups := map[rrsetKey][]*RankedRecord{}
	var order []rrsetKey

	for _, rec := range records {
		if rrsig, ok := rec.RR.(*dns.RRSIG); ok {
			res.noRRSIG = false
			sigs = append(sigs, rrsig)
		}

		switch classifyRecord(rec, section, cut.Name) {
		case classifyRanked:
			continue
		case classifyVerify:
			k := rrsetKey{dns.CanonicalName(rec.RR.Header().Name), rec.RR.Header().Rrtype}
			if _, seen := groups[k]; !seen {
				order = append(order, k)
			}
			groups[k] = append(groups[k], rec)
		}
	}

	if sigs == nil {
		res.noRRSIG = true
	}

	for _, k := range order {
		group := groups[k]
		rrs := make([]dns.RR, len(group))
		for i, r := range group {
			rrs[i] = r.RR
		}

		outcome, wexpand := verifyRRset(rrs, sigs, cut.Key, ts)
		switch outcome {
		case verifyOK:
			for _, r := range group {
				r.Rank = RankSecure
			}
			if wexpand {
				res.flags = res.flags.Set(FlagWexpand)
			}
		case verifyNoSignature:
			for _, r := range group {
				r.Rank = RankInsecure
			}
		case verifyBogus:
			for _, r := range group {
				r.Rank = RankBad
			}
		default:
			for _, r := range group {
				r.Rank = RankUnknown
			}
		}
	}

	return res
}

// sectionVerdict is the §4.3.2 two-pass scan over a section's already-ranked records.
// newZoneName is set only when the verdict is Yield due to a signer-name mismatch.
func sectionVerdict(req *Request, records []*RankedRecord, cut *ZoneCut) (verdict Verdict, newZoneName string) {
	for _, rec := range records {
		if rec.Rank == RankMismatch {
			if rrsig, ok := rec.RR.(*dns.RRSIG); ok {
				return Yield, dns.CanonicalName(rrsig.SignerName)
			}
		}
	}

	for _, rec := range records {
		switch rec.Rank {
		case RankSecure, RankMismatch:
			continue
		case RankInsecure:
			v := rrsigNotFound(req, rec, cut)
			if v != Done {
				return v, ""
			}
		default: // RankBad, RankUnknown, RankInitial
			req.Query.Flags = req.Query.Flags.Set(FlagBogus)
			return Fail, ""
		}
	}

	return Done, ""
}

// validateRecords runs §4.3 over the answer section, then the authority section,
// reconciling the two per the exact trace of validate_records in layer/validate.c:
// if either section saw an RRSIG at all, the overall result is OK even when the other
// saw none (an unsigned authority/answer can ride alongside a signed one); only when
// BOTH sections saw no RRSIG at all is ErrNoSignature propagated to the caller.
func validateRecords(req *Request, cut *ZoneCut) (Flags, error) {
	if cut.Key == nil || len(cut.Key.RRs) == 0 {
		return 0, ErrNoZoneKey
	}

	answRes := validateSection(cut, SectionAnswer, req.AnswSelected, req.Query.Timestamp)
	authRes := validateSection(cut, SectionAuthority, req.AuthSelected, req.Query.Timestamp)

	flags := answRes.flags.Set(authRes.flags)

	if answRes.noRRSIG && authRes.noRRSIG {
		return flags, ErrNoSignature
	}

	return flags, nil
}
