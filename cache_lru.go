package resolver

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/miekg/dns"
)

// LRUCache is a CacheInterface backed by an in-memory, size-bounded LRU with a
// fixed expiry per entry. It's a reasonable default for a single-process resolver;
// anything wanting a shared cache across processes should implement CacheInterface
// against whatever store it already has (Redis, memcached, etc).
type LRUCache struct {
	entries *lru.LRU[string, *cacheEntry]
}

type cacheEntry struct {
	msg    *dns.Msg
	expiry time.Time
}

// NewLRUCache builds an LRUCache holding up to size entries, each evicted once
// its record's own TTL (capped at MaxAllowedTTL) has elapsed - whichever comes
// first, so the fixed ttl here is a ceiling, not the default.
func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	return &LRUCache{
		entries: lru.NewLRU[string, *cacheEntry](size, nil, ttl),
	}
}

func (c *LRUCache) Get(zone string, question dns.Question) (*dns.Msg, error) {
	entry, ok := c.entries.Get(cacheKey(zone, question))
	if !ok {
		return nil, nil
	}

	if time.Now().After(entry.expiry) {
		c.entries.Remove(cacheKey(zone, question))
		return nil, nil
	}

	return entry.msg, nil
}

func (c *LRUCache) Update(zone string, question dns.Question, msg *dns.Msg) error {
	ttl := MaxAllowedTTL
	for _, rr := range msg.Answer {
		ttl = min(ttl, rr.Header().Ttl)
	}

	c.entries.Add(cacheKey(zone, question), &cacheEntry{
		msg:    msg,
		expiry: time.Now().Add(time.Duration(ttl) * time.Second),
	})

	return nil
}

func cacheKey(zone string, question dns.Question) string {
	return fmt.Sprintf("%s|%s|%d|%d", zone, question.Name, question.Qtype, question.Qclass)
}
