package resolver

import (
	"context"
	"time"

	"github.com/miekg/dns"
)

// Response carries the result of one exchange attempt, along with the DNSSEC
// verdict reached for it once an authenticator has run.
type Response struct {
	Msg      *dns.Msg
	Err      error
	Auth     authResult
	Duration time.Duration
}

func (r *Response) HasError() bool {
	return r.Err != nil
}

func (r *Response) IsEmpty() bool {
	return r.Msg == nil
}

func (r *Response) truncated() bool {
	if r.IsEmpty() {
		return false
	}
	return r.Msg.Truncated
}

func ResponseError(err error) *Response {
	return &Response{Err: err}
}

//---

type exchanger interface {
	exchange(context.Context, *dns.Msg) *Response
}

type expiringExchanger interface {
	exchanger
	expired() bool
}
