package dnssec

import (
	"testing"

	"github.com/miekg/dns"
)

func TestMatchedLabels(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"example.com.", "example.com.", 2},
		{"www.example.com.", "example.com.", 2},
		{"sub.www.example.com.", "example.com.", 2},
		{".", ".", 0},
		{"other.org.", "example.com.", 0},
	}
	for _, c := range cases {
		if got := matchedLabels(c.a, c.b); got != c.want {
			t.Errorf("matchedLabels(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestStripLeadingLabels(t *testing.T) {
	cases := []struct {
		name string
		n    int
		want string
	}{
		{"a.b.wild.test.", 1, "b.wild.test."},
		{"a.b.wild.test.", 0, "a.b.wild.test."},
		{"a.b.wild.test.", 3, "test."},
	}
	for _, c := range cases {
		if got := stripLeadingLabels(c.name, c.n); got != c.want {
			t.Errorf("stripLeadingLabels(%q, %d) = %q, want %q", c.name, c.n, got, c.want)
		}
	}
}

func TestAggregateRRsOfType(t *testing.T) {
	rrs := []dns.RR{
		newRR("example.com. 3600 IN DS 12345 8 2 0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789ABCD"),
		newRR("example.com. 3600 IN DS 54321 8 2 ABCD0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF012345678"),
		newRR("example.com. 3600 IN NS ns1.example.com."),
	}

	set := aggregateRRsOfType(rrs, dns.TypeDS)
	if set == nil || len(set.RRs) != 2 {
		t.Fatalf("expected 2 aggregated DS records, got %v", set)
	}

	// Order independence: aggregating in reverse yields the same rdata set.
	reversed := []dns.RR{rrs[1], rrs[0], rrs[2]}
	setRev := aggregateRRsOfType(reversed, dns.TypeDS)
	if setRev == nil || len(setRev.RRs) != 2 {
		t.Fatalf("expected 2 aggregated DS records regardless of order, got %v", setRev)
	}
}

func TestAggregateRRsOfTypeEmpty(t *testing.T) {
	if aggregateRRsOfType(nil, dns.TypeDS) != nil {
		t.Error("expected nil aggregate for no matching records")
	}
}
