package dnssec

import (
	"time"

	"github.com/miekg/dns"
)

// updateKeySet merges DNSKEY records from the answer section at or below the current
// zone cut into cut.Key, then (unless the response is cached) verifies the merged key
// set against the active trust anchor. Grounded on update_parent_keys and the DNSKEY
// branch of validate() in layer/validate.c.
func updateKeySet(req *Request, cut *ZoneCut) error {
	incoming := aggregateRRsOfType(rrsFromSelected(req.AnswSelected), dns.TypeDNSKEY)
	if incoming == nil {
		return nil
	}
	if !dns.IsSubDomain(cut.Name, incoming.Owner) {
		return nil
	}

	updated := false
	if cut.Key == nil || !cut.Key.ownerEquals(incoming.Owner) {
		// The cut has descended (or is being populated for the first time).
		cut.Key = incoming.copy()
		updated = true
	} else {
		before := len(cut.Key.RRs)
		cut.Key.mergeRDATA(incoming)
		updated = len(cut.Key.RRs) != before
	}

	if !updated || req.Query.Flags.Has(FlagCached) {
		return nil
	}

	wexpand, err := dnskeysTrusted(cut.Key, cut.TrustAnchor, rrsigsFromSelected(req.AnswSelected, dns.TypeDNSKEY), req.Query.Timestamp)
	if err != nil {
		cut.Key = nil
		return err
	}
	if wexpand {
		req.Query.Flags = req.Query.Flags.Set(FlagWexpand)
	}
	return nil
}

// dnskeysTrusted verifies that keys contains a secure-entry-point key whose digest
// matches a DS in anchor, and that keys is self-signed by that key. Grounded on
// kr_dnskeys_trusted in layer/validate.c.
func dnskeysTrusted(keys, anchor *RRSet, sigs []*dns.RRSIG, ts time.Time) (wexpand bool, err error) {
	if keys == nil || len(keys.RRs) == 0 {
		return false, ErrChainBroken
	}
	if anchor == nil || len(anchor.RRs) == 0 {
		return false, ErrChainBroken
	}

	dnskeys := extractRecords[*dns.DNSKEY](keys.RRs)
	dses := extractRecords[*dns.DS](anchor.RRs)
	if len(dnskeys) == 0 || len(dses) == 0 {
		return false, ErrChainBroken
	}

	matched := false
	for _, key := range dnskeys {
		if key.Flags&dns.SEP == 0 {
			continue
		}
		for _, ds := range dses {
			candidate := key.ToDS(ds.DigestType)
			if candidate != nil && candidate.Digest == ds.Digest {
				matched = true
			}
		}
	}
	if !matched {
		return false, ErrChainBroken
	}

	rrs := make([]dns.RR, len(dnskeys))
	for i, key := range dnskeys {
		rrs[i] = key
	}

	outcome, w := verifyRRset(rrs, sigs, keys, ts)
	if outcome != verifyOK {
		return false, ErrChainBroken
	}
	return w, nil
}
