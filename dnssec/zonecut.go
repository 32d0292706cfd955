package dnssec

import "github.com/miekg/dns"

// Zone-cut chain operations (spec.md §9 "cyclic / back-pointer zone-cut chain").
// Parent always points toward the root and is never cyclic: descent pushes the
// pre-mutation cut onto Parent before reinitializing the receiver; ascent copies a
// parent's contents back over the receiver.

// descendCut nests a new, more specific cut at name on top of cut: the cut's current
// state is pushed onto Parent, and the receiver moves to name while inheriting Key and
// TrustAnchor from the pushed parent until a fresh DNSKEY/DS response replaces them.
func descendCut(cut *ZoneCut, name string) {
	parent := cut.clone()
	cut.Parent = parent
	cut.Name = dns.CanonicalName(name)
}

// ascendCut copies cut.Parent's contents over cut, dropping one level of nesting.
// Reports false if cut has no parent to ascend to.
func ascendCut(cut *ZoneCut) bool {
	if cut.Parent == nil {
		return false
	}
	p := cut.Parent
	cut.Name = p.Name
	cut.Key = p.Key
	cut.TrustAnchor = p.TrustAnchor
	cut.Parent = p.Parent
	return true
}

// findAncestorCut walks cut's Parent chain looking for a cut named exactly name.
func findAncestorCut(cut *ZoneCut, name string) *ZoneCut {
	for c := cut.Parent; c != nil; c = c.Parent {
		if namesEqual(c.Name, name) {
			return c
		}
	}
	return nil
}

// reinitAt moves cut to name, copying Key/TrustAnchor from src (nil clears both).
// The Parent chain is left untouched.
func reinitAt(cut *ZoneCut, name string, src *ZoneCut) {
	cut.Name = dns.CanonicalName(name)
	if src != nil {
		cut.Key = src.Key
		cut.TrustAnchor = src.TrustAnchor
	} else {
		cut.Key = nil
		cut.TrustAnchor = nil
	}
}
