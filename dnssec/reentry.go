package dnssec

import "github.com/miekg/dns"

// signatureAuthority returns the signer name of the first non-yielded RRSIG in the
// answer section, falling back to the authority section. Grounded on
// find_first_signer in the original layer/validate.c.
func signatureAuthority(req *Request) (signer string, found bool) {
	for _, rec := range req.AnswSelected {
		if rec.Yielded {
			continue
		}
		if sig, ok := rec.RR.(*dns.RRSIG); ok {
			return dns.CanonicalName(sig.SignerName), true
		}
	}
	for _, rec := range req.AuthSelected {
		if rec.Yielded {
			continue
		}
		if sig, ok := rec.RR.(*dns.RRSIG); ok {
			return dns.CanonicalName(sig.SignerName), true
		}
	}
	return "", false
}

// checkSigner implements §4.7.1: compare the response's signature authority against
// the active trust anchor's owner, advancing, ascending, or simply re-yielding the
// zone cut as needed. Grounded on check_signer in layer/validate.c.
func checkSigner(req *Request, cut *ZoneCut) Verdict {
	if cut.TrustAnchor == nil {
		return Done
	}
	ta := dns.CanonicalName(cut.TrustAnchor.Owner)

	signer, found := signatureAuthority(req)
	if found && namesEqual(signer, ta) {
		return Done
	}

	if req.Query.Retried {
		req.Query.Flags = req.Query.Flags.Set(FlagBogus)
		return Fail
	}
	if !found {
		// No signer at all: leave the cut alone, the caller asks the parent for DS.
		return Done
	}

	switch {
	case dns.IsSubDomain(cut.Name, signer) && !namesEqual(signer, cut.Name):
		// Signer is a strict subname of the current cut: descend within it.
		cut.Name = signer
	case dns.IsSubDomain(signer, cut.Name) && !namesEqual(signer, cut.Name):
		// Signer is above the current cut: ascend, then re-anchor at the signer.
		if cut.Parent != nil {
			ascendCut(cut)
		} else {
			req.Query.Flags = req.Query.Flags.Set(FlagAwaitCut)
		}
		cut.Name = signer
	default:
		// Signer equals the current cut's name, but DS/DNSKEY disagree: just retry.
	}

	req.Query.Retried = true
	return Yield
}

// rrsigNotFound implements §4.7.2, the missing-RRSIG handler invoked per INSECURE
// record during §4.3.2's second pass. Grounded on rrsig_not_found in
// layer/validate.c.
func rrsigNotFound(req *Request, rec *RankedRecord, cut *ZoneCut) Verdict {
	owner := dns.CanonicalName(rec.RR.Header().Name)
	if namesEqual(owner, cut.Name) || req.Query.Retried {
		req.Query.Flags = req.Query.Flags.Set(FlagBogus)
		return Fail
	}

	skip := dns.CountLabel(owner) - matchedLabels(cut.Name, owner) - 1
	newCutStart := stripLeadingLabels(owner, skip)

	if dns.IsSubDomain(cut.Name, newCutStart) && !namesEqual(newCutStart, cut.Name) {
		descendCut(cut, newCutStart)
		req.Query.Flags = req.Query.Flags.Set(FlagAwaitCut)
	} else if ancestor := findAncestorCut(cut, newCutStart); ancestor != nil {
		reinitAt(cut, newCutStart, ancestor)
	} else {
		reinitAt(cut, newCutStart, nil)
		req.Query.Flags = req.Query.Flags.Set(FlagAwaitCut)
	}

	req.Query.Retried = true
	return Yield
}
