package dnssec

import "github.com/miekg/dns"

// Layer is the validator's single entry point, grounded on validate_layer /
// validate() in the original layer/validate.c. It holds no state of its own; all
// mutable state lives on the Request and its Query/ZoneCut.
type Layer struct{}

// NewLayer returns a ready-to-use Layer.
func NewLayer() *Layer {
	return &Layer{}
}

// Consume implements §4.1: it decides whether msg can be trusted relative to
// req.Query.ZoneCut, mutating ranks, flags and the zone cut as a side effect, and
// returns a Verdict. Guard 1 of the source ("pass through a still-CONSUME or already
// FAIL state") belongs to the generic packet-processing layer framework that this
// repo doesn't model; Consume is only ever invoked once a response is ready to judge.
func (l *Layer) Consume(req *Request, msg *dns.Msg) Verdict {
	q := req.Query
	cut := q.ZoneCut

	// Guard 2: pass-through if DNSSEC wasn't requested, or in stub mode.
	if !q.Flags.Has(FlagWant) || q.Flags.Has(FlagStub) {
		return Done
	}

	cached := q.Flags.Has(FlagCached)

	// Guard 3: an answer for RRSIG may omit the DNSSEC OK indicator but must still
	// validate; any other qtype without it is a bogus response outright.
	useSignatures := q.SType != dns.TypeRRSIG
	if !cached && useSignatures && !hasDNSSECIndicator(msg) {
		q.Flags = q.Flags.Set(FlagBogus)
		return Fail
	}

	hasNSEC3Proof := hasNSEC3(msg)

	// (a) DNSKEY answer.
	if msg.Authoritative && q.SType == dns.TypeDNSKEY {
		if !cached {
			if v := checkSigner(req, cut); v != Done {
				return v
			}
		}
		if err := updateKeySet(req, cut); err != nil {
			q.Flags = q.Flags.Set(FlagBogus)
			return Fail
		}
	}

	// (b) Negative proof: NXDOMAIN.
	if !cached && msg.Rcode == dns.RcodeNameError {
		var err error
		if !hasNSEC3Proof {
			err = nsecNameError(extractRecords[*dns.NSEC](msg.Ns), cut.Name, q.SName)
		} else {
			err = nsec3NameError(extractRecords[*dns.NSEC3](msg.Ns), cut.Name, q.SName)
		}
		if err != nil {
			q.Flags = q.Flags.Set(FlagBogus)
			return Fail
		}
	}

	// (c) NODATA.
	if !cached && msg.Rcode == dns.RcodeSuccess && len(msg.Answer) == 0 && msg.Authoritative {
		qname := dns.CanonicalName(msg.Question[0].Name)
		qtype := msg.Question[0].Qtype

		var err error
		if !hasNSEC3Proof {
			err = nsecExistenceDenial(extractRecords[*dns.NSEC](msg.Ns), cut.Name, qname, qtype)
		} else {
			err = nsec3NoData(extractRecords[*dns.NSEC3](msg.Ns), cut.Name, qname, qtype)
		}
		switch {
		case err == errNSEC3OptOut:
			q.Flags = q.Flags.Clear(FlagWant).Set(FlagInsecure)
		case err != nil:
			q.Flags = q.Flags.Set(FlagBogus)
			return Fail
		}
	}

	// (d) Positive validation.
	if !cached {
		flags, err := validateRecords(req, cut)
		q.Flags = q.Flags.Set(flags)
		if err != nil {
			if err == ErrNoSignature {
				return Yield
			}
			q.Flags = q.Flags.Set(FlagBogus)
			return Fail
		}

		if v, newZone := sectionVerdict(req, req.AnswSelected, cut); v != Done {
			if v == Yield && newZone != "" {
				cut.Name = newZone
			}
			return v
		}
		if v, newZone := sectionVerdict(req, req.AuthSelected, cut); v != Done {
			if v == Yield && newZone != "" {
				cut.Name = newZone
			}
			return v
		}
	}

	// (e) Housekeeping. WEXPAND on the final query would mark authority records for
	// inclusion in the wire response here; wire serialization is out of this layer's
	// scope (spec.md §1), so there is nothing further to mutate for that case.

	if err := updateDelegation(req, cut, msg, hasNSEC3Proof); err != nil {
		return Fail
	}

	if q.Parent != nil {
		propagateToParent(req, cut, q.SType)
	}

	return Done
}

// hasDNSSECIndicator reports whether msg carries the EDNS0 DO bit, standing in for
// knot_pkt_has_dnssec: the signal that the exchange was conducted with DNSSEC OK set.
func hasDNSSECIndicator(msg *dns.Msg) bool {
	opt := msg.IsEdns0()
	return opt != nil && opt.Do()
}

// propagateToParent implements §4.8: when the current query has a parent (a DS or
// DNSKEY subquery spawned to resolve this one), copy the result up before returning
// DONE. Grounded on update_parent_keys in layer/validate.c.
func propagateToParent(req *Request, cut *ZoneCut, qtype uint16) {
	parent := req.Query.Parent
	if parent == nil {
		return
	}

	switch qtype {
	case dns.TypeDNSKEY:
		parent.ZoneCut.Key = cut.Key
	case dns.TypeDS:
		if req.Query.Flags.Has(FlagInsecure) {
			parent.Flags = parent.Flags.Clear(FlagWant).Set(FlagInsecure)
		} else {
			parent.ZoneCut.TrustAnchor = cut.TrustAnchor
		}
	}
}
