package resolver

import (
	"slices"
	"strings"
	"sync"

	"github.com/miekg/dns"
)

// zoneStore is the lookup surface Resolver needs over the zones it has built up so
// far, kept as an interface so tests can substitute a mock (mock_test.go).
type zoneStore interface {
	get(name string) zone
	add(z zone)
	count() int
	getZoneList(name string) []zone
}

// zones is a thread-safe map of <zone name> -> zone.
type zones struct {
	lock  sync.RWMutex
	zones map[string]zone
}

func (zs *zones) get(name string) zone {
	name = canonicalName(name)
	zs.lock.RLock()
	defer zs.lock.RUnlock()
	if zs.zones == nil {
		return nil
	}

	z := zs.zones[name]

	if z != nil && z.expired() {
		// We could remove the expired zone from the map here, but realistically it's about to be replaced,
		// so we'll opt to keep things simple here (keeping get() read-only) and just return the result.
		return nil
	}

	return z
}

func (zs *zones) add(z zone) {
	name := canonicalName(z.name())
	zs.lock.Lock()
	if zs.zones == nil {
		zs.zones = make(map[string]zone)
	}
	zs.zones[name] = z
	zs.lock.Unlock()
}

func (zs *zones) count() int {
	zs.lock.RLock()
	defer zs.lock.RUnlock()
	return len(zs.zones)
}

// getZoneList returns the known zones between the root and name, most specific
// first, stopping at the first missing link in the chain - a gap never lets the
// list skip ahead to a zone that merely happens to share a deeper suffix.
func (zs *zones) getZoneList(name string) []zone {
	name = canonicalName(name)

	root := zs.get(".")
	if root == nil {
		return nil
	}

	chain := make([]zone, 0, dns.CountLabel(name)+1)
	chain = append(chain, root)

	labels := dns.SplitDomainName(name)
	for i := len(labels) - 1; i >= 0; i-- {
		suffix := dns.Fqdn(strings.Join(labels[i:], "."))
		z := zs.get(suffix)
		if z == nil {
			break
		}
		chain = append(chain, z)
	}

	slices.Reverse(chain)
	return chain
}
