package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/sigcut/resolver"
	"github.com/spf13/cobra"
)

// runQuery performs a single recursive, DNSSEC-validated lookup and prints
// the result, in the style of "dig". It's the default action when resolve
// is invoked with no subcommand.
func runQuery(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	name := dns.Fqdn(args[0])

	qtype := dns.TypeA
	if len(args) > 1 {
		t, ok := dns.StringToType[strings.ToUpper(args[1])]
		if !ok {
			return fmt.Errorf("unknown query type %q", args[1])
		}
		qtype = t
	}

	qmsg := new(dns.Msg)
	qmsg.SetQuestion(name, qtype)
	qmsg.RecursionDesired = true
	qmsg.SetEdns0(4096, true)
	if o := qmsg.IsEdns0(); o != nil {
		o.SetDo()
	}

	res := resolver.NewResolver()

	start := time.Now()
	response := res.Exchange(context.Background(), qmsg)
	elapsed := time.Since(start)

	if response.HasError() {
		return response.Err
	}

	fmt.Printf(";; took %s, dnssec: %s\n", elapsed, response.Auth.String())
	fmt.Println(response.Msg.String())

	return nil
}
