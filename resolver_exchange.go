package resolver

import (
	"context"
	"fmt"
	"github.com/miekg/dns"
	"sync/atomic"
	"time"
)

// We have a public Exchange(), so people can call it.
// And a private exchange(), to meet the exchanger interface.

func (resolver *Resolver) Exchange(ctx context.Context, qmsg *dns.Msg) *Response {
	if !qmsg.RecursionDesired {
		return ResponseError(ErrNotRecursionDesired)
	}

	start := time.Now()
	metricQueriesTotal.Inc()

	// We'll copy the message as we'll want to amend some headers.
	response := resolver.exchange(ctx, qmsg.Copy())

	metricQueryDuration.Observe(time.Since(start).Seconds())
	if response.HasError() {
		metricQueryErrorsTotal.Inc()
	}

	return response
}

func (resolver *Resolver) exchange(ctx context.Context, qmsg *dns.Msg) *Response {

	//----------------------------------------------------------------------------
	// We setup our context

	start := time.Now()
	if v := ctx.Value(ctxStartTime); v == nil {
		ctx = context.WithValue(ctx, ctxStartTime, start)
	}

	//---

	trace, ok := ctx.Value(CtxTrace).(*Trace)
	if !ok {
		trace = newTraceWithStart(start)
		ctx = context.WithValue(ctx, CtxTrace, trace)
		Debug(fmt.Sprintf("New query started with Trace ID: %s", trace.ShortID()))
	}

	trace.Iterations.Add(1)

	//---

	// counter tracts the number of iterations we've seen of the main query loop - the one at the end of this function.
	// Its value persists across all call to resolver.exchange(), for a given query.
	// Its job is to detect/prevent infinite loops.
	counter, ok := ctx.Value(ctxSessionQueries).(*atomic.Uint32)
	if !ok {
		counter = new(atomic.Uint32)
		ctx = context.WithValue(ctx, ctxSessionQueries, counter)
	}

	//----------------------------------------------------------------------------
	// We setup the DNSSEC Authenticator

	// If the DO flag is set, we create a DNSSEC Authenticator.
	var auth *authenticator
	if isSetDO(qmsg) {
		auth = newAuthenticator(ctx, qmsg.Question[0])
		defer auth.close()
	}

	//----------------------------------------------------------------------------
	// We determine what zones we already know about for the QName

	// Returns a list zones that make up the QName that we already have nameservers for.
	// Items are only included is we have a valid chain from leaf to root.
	// They are ordered most specific (i.e. longest FQDN), to shortest.
	// The last element will always be the root (.).
	knownZones := resolver.zones.getZoneList(qmsg.Question[0].Name)

	if auth != nil {
		// Lookup the DNSSEC details for these zones.
		// We don't do this lookup for the root, thus len()-1.
		for i := 0; i < len(knownZones)-1; i++ {
			// We never look directly at the first zone.
			z := knownZones[i+1]
			dsName := knownZones[i].name()
			auth.addDelegationSignerLink(z, dsName)
		}
	}

	//----------------------------------------------------------------------------
	// We iterate through the QName labels, exchanging the question with each zone.

	d := newDomain(qmsg.Question[0].Name)

	// Wind past all the zones that we already know about (if any).
	if err := d.windTo(knownZones[0].name()); err != nil {
		return ResponseError(err)
	}

	var response *Response

	// We track the last zone, as that's were we pass the query for the next label.
	last := knownZones[0]

	for ; !d.end(); d.next() {
		if counter.Add(1) > MaxQueriesPerRequest {
			return ResponseError(ErrMaxQueriesPerRequestReached)
		}

		last, response = resolver.funcs.resolveLabel(ctx, &d, last, qmsg, auth)
		if response != nil {
			return response
		}
	}

	return ResponseError(ErrUnableToResolveAnswer)
}

func (resolver *Resolver) resolveLabel(ctx context.Context, d *domain, z zone, qmsg *dns.Msg, auth *authenticator) (zone, *Response) {
	c := d.current()

	// The root is always present in the zone store as our bootstrap zone; it never
	// counts as a delegation we can shortcut past.
	if c != "." {
		if next := resolver.zones.get(c); next != nil {
			// If we already know of the zone for the current name, and there are still more labels in the QName
			// to check, then we can return where.
			// Note that the DS records will already have been requested in Step 1.
			if d.more() {
				return next, nil
			}
		}
	}

	if z == nil {
		// This is a sense check; it _should_ never happen.
		return nil, ResponseError(fmt.Errorf("%w: zone cannot be nil at this point", ErrInternalError))
	}

	if auth != nil {
		// If we're going to need the DNSKEY, we can pre-fetch it.
		go z.dnskeys(ctx)
	}

	response := z.exchange(ctx, qmsg)

	if !response.IsEmpty() {
		response.Msg.RecursionAvailable = true
	}

	if response.HasError() {
		return nil, response
	}

	if response.IsEmpty() {
		return nil, ResponseError(ErrEmptyResponse)
	}

	//---

	z = resolver.funcs.checkForMissingZones(ctx, d, z, response.Msg, auth)

	if auth != nil {
		_ = auth.addResponse(z, response.Msg)
	}

	// A query is complete once it's returned an Answer, or the Authority section settles
	// on a SOA, or there are no NS records at all to delegate onward to.
	if len(response.Msg.Answer) > 0 || response.Msg.Authoritative ||
		recordsOfTypeExist(response.Msg.Ns, dns.TypeSOA) || !recordsOfTypeExist(response.Msg.Ns, dns.TypeNS) {
		response = resolver.funcs.finaliseResponse(ctx, auth, qmsg, response)
		return nil, response
	}

	//---

	return resolver.funcs.processDelegation(ctx, z, response.Msg)
}

// checkForMissingZones looks at the records returned alongside rmsg and works out
// whether any zones between z and the name they're owned by have been skipped over -
// i.e. the authoritative server jumped straight to a descendant without us ever
// seeing the intermediate cuts. Each candidate is confirmed by looking up its SOA;
// confirmed cuts are added to the zone store and wound past in d.
func (resolver *Resolver) checkForMissingZones(ctx context.Context, d *domain, z zone, rmsg *dns.Msg, auth *authenticator) zone {
	records := append(append([]dns.RR{}, rmsg.Ns...), rmsg.Answer...)
	if len(records) == 0 {
		return z
	}

	var nextRecordsOwner string
	for _, rr := range records {
		owner := canonicalName(rr.Header().Name)
		if !dns.IsSubDomain(z.name(), owner) {
			continue
		}
		if nextRecordsOwner == "" || dns.CountLabel(owner) > dns.CountLabel(nextRecordsOwner) {
			nextRecordsOwner = owner
		}
	}

	if nextRecordsOwner == "" {
		return z
	}

	missingZoneNames := d.gap(nextRecordsOwner)
	for _, missingDomain := range missingZoneNames {
		soa, err := z.soa(ctx, missingDomain)

		// If a SOA was found, then the missingDomain is its own zone.
		if err == nil && soa != nil {
			newZone := z.clone(missingDomain, z.name())

			if auth != nil {
				auth.addDelegationSignerLink(z, newZone.name())
			}

			resolver.zones.add(newZone)
			z = newZone
		}

		// We skip over these missing domains in our lookup loop.
		d.next()
	}

	return z
}

// processDelegation picks the onward nameservers out of rmsg's Authority section and
// creates the zone they serve, ready for the next hop down the QName.
func (resolver *Resolver) processDelegation(ctx context.Context, z zone, rmsg *dns.Msg) (zone, *Response) {
	nameservers := extractRecords[*dns.NS](rmsg.Ns)
	if len(nameservers) == 0 {
		return nil, ResponseError(ErrNextNameserversNotFound)
	}

	nextZoneName := canonicalName(nameservers[0].Header().Name)

	// We expect the delegation to point strictly below the current zone.
	if !dns.IsSubDomain(z.name(), nextZoneName) || nextZoneName == z.name() {
		return nil, ResponseError(ErrNextNameserversNotFound)
	}

	newZone, err := resolver.funcs.createZone(ctx, nextZoneName, z.name(), nameservers, rmsg.Extra, resolver.funcs.getExchanger())
	if err != nil {
		return nil, ResponseError(err)
	}
	resolver.zones.add(newZone)

	return newZone, nil
}

func (resolver *Resolver) finaliseResponse(ctx context.Context, auth *authenticator, qmsg *dns.Msg, response *Response) *Response {
	if auth != nil {
		authTime := time.Now()
		response.Auth, response.Err = auth.result()
		Info(fmt.Sprintf("DNSSEC took %s to return an answer of %s", time.Since(authTime), response.Auth.String()))
	}

	//---

	// Follow any CNAME, if needed.
	if qmsg.Question[0].Qtype != dns.TypeCNAME && recordsOfTypeExist(response.Msg.Answer, dns.TypeCNAME) {
		// The results from this are added to `response.Msg`.
		err := resolver.funcs.cname(ctx, qmsg, response, resolver.funcs.getExchanger())
		if err != nil {
			return ResponseError(err)
		}
	}

	// We'll consider both of these 'normal' responses.
	if !(response.Msg.Rcode == dns.RcodeSuccess || response.Msg.Rcode == dns.RcodeNameError) {
		response.Err = fmt.Errorf("unsuccessful response code %s (%d)", RcodeToString(response.Msg.Rcode), response.Msg.Rcode)
	}

	//---

	if RemoveAuthoritySectionForPositiveAnswers && len(response.Msg.Answer) > 0 && !recordsOfTypeExist(response.Msg.Ns, dns.TypeSOA) {
		response.Msg.Ns = []dns.RR{}
	}

	if RemoveAdditionalSectionForPositiveAnswers && len(response.Msg.Answer) > 0 && !recordsOfTypeExist(response.Msg.Ns, dns.TypeSOA) {
		var opt *dns.OPT
		for _, extra := range response.Msg.Extra {
			opt, _ = extra.(*dns.OPT)
		}

		if opt != nil {
			response.Msg.Extra = []dns.RR{opt}
		} else {
			response.Msg.Extra = []dns.RR{}
		}
	}

	dedup := make(map[string]dns.RR)
	if len(response.Msg.Answer) > 0 {
		response.Msg.Answer = dns.Dedup(response.Msg.Answer, dedup)
	}
	if len(response.Msg.Ns) > 0 {
		clear(dedup)
		response.Msg.Ns = dns.Dedup(response.Msg.Ns, dedup)
	}
	if len(response.Msg.Extra) > 0 {
		clear(dedup)
		response.Msg.Extra = dns.Dedup(response.Msg.Extra, dedup)
	}

	if auth != nil {
		// RFC 4035 §5.5: a resolver validating on the client's behalf sets AD only on a
		// SECURE answer, and on BOGUS substitutes a SERVFAIL with the sections stripped.
		if !qmsg.CheckingDisabled {
			response.Msg.AuthenticatedData = response.Auth == authSecure

			if response.Auth == authBogus {
				response.Msg.Rcode = dns.RcodeServerFailure
				if SuppressBogusResponseSections {
					response.Msg.Answer = []dns.RR{}
					response.Msg.Ns = []dns.RR{}
					response.Msg.Extra = []dns.RR{}
				}
			}
		}
	}

	start, _ := ctx.Value(ctxStartTime).(time.Time)
	response.Duration = time.Since(start)
	return response
}
