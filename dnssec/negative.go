package dnssec

import (
	"context"

	"github.com/miekg/dns"

	"github.com/sigcut/resolver/dnssec/doe"
)

// The six primitive denial procedures named in spec.md §4.6, each grounded on a
// clause of RFC 4035 §5 (classic NSEC) or RFC 5155 (NSEC3), wrapping dnssec/doe's
// range-covering and type-bitmap primitives.

// nsecNameError implements RFC 4035 §5.4 qname non-existence for NXDOMAIN responses.
func nsecNameError(records []*dns.NSEC, zone, qname string) error {
	d := doe.NewDenialOfExistenceNSEC(context.Background(), zone, records)
	if !d.PerformQNameDoesNotExistProof(qname) {
		return ErrBadDenial
	}
	return nil
}

// nsecExistenceDenial implements RFC 4035 §5.4 type non-existence (NODATA): an NSEC
// matching owner must be present, and its type bitmap must not cover rtype.
func nsecExistenceDenial(records []*dns.NSEC, zone, owner string, rtype uint16) error {
	d := doe.NewDenialOfExistenceNSEC(context.Background(), zone, records)
	nameSeen, typeSeen := d.TypeBitMapContainsAnyOf(owner, []uint16{rtype})
	if !nameSeen || typeSeen {
		return ErrBadDenial
	}
	return nil
}

// nsecRefToUnsigned implements RFC 4035 §5.2 referral-to-unsigned: an NSEC matching
// the delegation owner must be present, with the NS bit set and the DS bit absent.
func nsecRefToUnsigned(records []*dns.NSEC, zone, owner string) error {
	d := doe.NewDenialOfExistenceNSEC(context.Background(), zone, records)
	nameSeen, dsSeen := d.TypeBitMapContainsAnyOf(owner, []uint16{dns.TypeDS})
	if !nameSeen || dsSeen {
		return ErrBadDenial
	}
	if _, nsSeen := d.TypeBitMapContainsAnyOf(owner, []uint16{dns.TypeNS}); !nsSeen {
		return ErrBadDenial
	}
	return nil
}

// nsec3NameError implements RFC 5155 §8.4 qname non-existence: the closest encloser,
// next-closer and wildcard-non-existence proofs must all hold. Opt-out has no bearing
// on NXDOMAIN (spec.md §9 flags this explicitly), so it is not consulted here.
func nsec3NameError(records []*dns.NSEC3, zone, qname string) error {
	d := doe.NewDenialOfExistenceNSEC3(context.Background(), zone, records)
	_, closestEncloser, nextCloser, wildcard := d.PerformClosestEncloserProof(qname)
	if !closestEncloser || !nextCloser || !wildcard {
		return ErrBadDenial
	}
	return nil
}

// nsec3NoData implements RFC 5155 §8.6 NODATA: a direct NSEC3 match for owner proves
// type non-existence; absent a direct match, an opt-out closest-encloser proof is the
// only other acceptable outcome and is reported as errNSEC3OptOut.
func nsec3NoData(records []*dns.NSEC3, zone, owner string, rtype uint16) error {
	d := doe.NewDenialOfExistenceNSEC3(context.Background(), zone, records)

	nameSeen, typeSeen := d.TypeBitMapContainsAnyOf(owner, []uint16{rtype})
	if nameSeen {
		if typeSeen {
			return ErrBadDenial
		}
		return nil
	}

	optedOut, closestEncloser, nextCloser, _ := d.PerformClosestEncloserProof(owner)
	if !closestEncloser || !nextCloser {
		return ErrBadDenial
	}
	if optedOut {
		return errNSEC3OptOut
	}
	return ErrBadDenial
}

// nsec3RefToUnsigned implements RFC 5155 §8.9 referral-to-unsigned: a direct NSEC3
// match for owner without the DS bit proves unsigned; absent a match, only an opt-out
// closest-encloser proof is acceptable.
func nsec3RefToUnsigned(records []*dns.NSEC3, zone, owner string) error {
	d := doe.NewDenialOfExistenceNSEC3(context.Background(), zone, records)

	nameSeen, dsSeen := d.TypeBitMapContainsAnyOf(owner, []uint16{dns.TypeDS})
	if nameSeen {
		if dsSeen {
			return ErrBadDenial
		}
		return nil
	}

	optedOut, closestEncloser, nextCloser, _ := d.PerformClosestEncloserProof(owner)
	if !closestEncloser || !nextCloser || !optedOut {
		return ErrBadDenial
	}
	return errNSEC3OptOut
}
