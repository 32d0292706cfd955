package dnssec

import "github.com/miekg/dns"

// updateDelegation implements §4.5: per RFC 4035 §3.1.4, an authoritative delegation
// must carry either a DS RRset or an authenticated denial of DS. Grounded on
// update_delegation / update_ds in the original layer/validate.c.
func updateDelegation(req *Request, cut *ZoneCut, msg *dns.Msg, hasNSEC3 bool) error {
	q := req.Query

	var section []dns.RR
	switch {
	case !msg.Authoritative:
		section = msg.Ns
	case msg.Authoritative && q.SType == dns.TypeDS:
		section = msg.Answer
	default:
		return nil
	}

	if ds := aggregateRRsOfType(section, dns.TypeDS); ds != nil {
		cut.TrustAnchor = ds
		return nil
	}

	// Grounded on the original's use of the response's echoed qname here (not
	// qry->sname, which is reserved for the NXDOMAIN proof per spec.md §9).
	owner := dns.CanonicalName(msg.Question[0].Name)
	if !msg.Authoritative {
		if ns := aggregateRRsOfType(msg.Ns, dns.TypeNS); ns != nil {
			owner = ns.Owner
		}
	}

	var err error
	switch {
	case !hasNSEC3 && !msg.Authoritative:
		err = nsecRefToUnsigned(extractRecords[*dns.NSEC](msg.Ns), cut.Name, owner)
	case !hasNSEC3 && msg.Authoritative:
		err = nsecExistenceDenial(extractRecords[*dns.NSEC](msg.Ns), cut.Name, owner, dns.TypeDS)
	case hasNSEC3 && !msg.Authoritative:
		err = nsec3RefToUnsigned(extractRecords[*dns.NSEC3](msg.Ns), cut.Name, owner)
	default:
		err = nsec3NoData(extractRecords[*dns.NSEC3](msg.Ns), cut.Name, owner, dns.TypeDS)
	}

	if err == errNSEC3OptOut {
		q.Flags = q.Flags.Clear(FlagWant).Set(FlagInsecure)
		return nil
	}
	if err != nil {
		q.Flags = q.Flags.Set(FlagBogus)
		return err
	}

	q.Flags = q.Flags.Clear(FlagWant).Set(FlagInsecure)
	return nil
}
