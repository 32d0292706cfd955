package resolver

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/miekg/dns"

	"github.com/sigcut/resolver/dnssec"
)

// authenticator drives dnssec.Layer across every response gathered for one client
// query, one hop at a time, in the order resolver_exchange.go's descent down the
// QName encounters them. It owns a single running Query/ZoneCut pair; each queued
// message is a fresh Request built against that same pair, so state (the cut's Key,
// TrustAnchor, and the query's Flags) carries forward exactly the way it would if
// Consume were called directly in a tight loop.
type authenticator struct {
	ctx context.Context

	query *dnssec.Query
	layer *dnssec.Layer

	closeOnce  sync.Once
	queue      chan authenticatorInput
	finished   atomic.Bool
	processing *sync.WaitGroup

	mu   sync.Mutex
	soft *multierror.Error
}

type authenticatorInput struct {
	z   zone
	msg *dns.Msg
}

func newAuthenticator(ctx context.Context, question dns.Question) *authenticator {
	query := dnssec.NewQuery(question.Name, question.Qtype)
	query.ZoneCut = dnssec.RootZoneCut()

	a := &authenticator{
		ctx:        ctx,
		query:      query,
		layer:      dnssec.NewLayer(),
		queue:      make(chan authenticatorInput, 8),
		processing: &sync.WaitGroup{},
	}
	go a.start()
	return a
}

func (a *authenticator) close() {
	a.closeOnce.Do(func() {
		a.finished.Store(true)
		a.processing.Wait()
		close(a.queue)
		a.queue = nil
	})
}

// addDelegationSignerLink pre-fetches the DS record linking parent to child, ahead
// of the query's own descent reaching that hop, and queues the response as input
// once it's actually needed (the main descent still drives ordering). The exchange
// is retried a couple of times since a dropped DS lookup would otherwise turn a
// merely-slow nameserver into a spurious BOGUS result.
func (a *authenticator) addDelegationSignerLink(z zone, qname string) {
	if a.finished.Load() {
		return
	}
	a.processing.Add(1)
	go func() {
		defer a.processing.Done()

		go z.dnskeys(a.ctx)

		dsMsg := new(dns.Msg)
		dsMsg.SetQuestion(dns.Fqdn(qname), dns.TypeDS)
		dsMsg.SetEdns0(4096, true)
		dsMsg.RecursionDesired = false

		var response *Response
		err := retry.Do(
			func() error {
				response = z.exchange(a.ctx, dsMsg)
				if response.IsEmpty() || response.HasError() {
					if response.HasError() {
						return response.Err
					}
					return fmt.Errorf("empty response")
				}
				return nil
			},
			retry.Context(a.ctx),
			retry.Attempts(3),
			retry.Delay(20*time.Millisecond),
			retry.DelayType(retry.BackOffDelay),
			retry.LastErrorOnly(true),
		)

		if err != nil {
			a.appendSoft(fmt.Errorf("pre-fetching DS for [%s] from zone [%s]: %w", qname, z.name(), err))
			return
		}

		a.processing.Add(1)
		a.queue <- authenticatorInput{z, response.Msg}
	}()
}

func (a *authenticator) addResponse(z zone, msg *dns.Msg) error {
	if a.finished.Load() {
		return nil
	}
	a.processing.Add(1)
	a.queue <- authenticatorInput{z, msg}
	return nil
}

func (a *authenticator) appendSoft(err error) {
	a.mu.Lock()
	a.soft = multierror.Append(a.soft, err)
	a.mu.Unlock()
}

func (a *authenticator) start() {
	for in := range a.queue {
		req := dnssec.NewRequest(a.query)
		req.selectSection(dnssec.SectionAnswer, in.msg.Answer)
		req.selectSection(dnssec.SectionAuthority, in.msg.Ns)

		switch a.layer.Consume(req, in.msg) {
		case dnssec.Fail:
			// Flags.Bogus is already set on a.query; nothing further to do - a later
			// hop, if any arrives, still runs against the same (now BOGUS) query.
		case dnssec.Yield:
			// The next queued response - the next hop down, or a pre-fetched DS/DNSKEY -
			// is expected to supply what this pass was missing.
		case dnssec.Done:
		}

		a.processing.Done()
	}
}

// result blocks until every queued and in-flight response has been processed, then
// classifies the query's terminal Flags. The returned error, when non-nil, reports
// soft failures (e.g. a failed DS pre-fetch) that didn't stop the main descent but
// are worth logging.
func (a *authenticator) result() (authResult, error) {
	a.finished.Store(true)
	a.processing.Wait()
	a.close()

	a.mu.Lock()
	defer a.mu.Unlock()

	return resultFromFlags(a.query.Flags), a.soft.ErrorOrNil()
}
