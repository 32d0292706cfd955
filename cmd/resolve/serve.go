package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/miekg/dns"
	"github.com/sigcut/resolver"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "start a long-lived recursive DNSSEC-validating listener",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	res := resolver.NewResolver()

	handler := dns.HandlerFunc(func(w dns.ResponseWriter, qmsg *dns.Msg) {
		defer w.Close()

		response := res.Exchange(context.Background(), qmsg)
		res.RecordZonesKnown()

		if response.HasError() || response.IsEmpty() {
			amsg := new(dns.Msg)
			amsg.SetRcode(qmsg, dns.RcodeServerFailure)
			_ = w.WriteMsg(amsg)
			return
		}

		_ = w.WriteMsg(response.Msg)
	})

	udp := &dns.Server{Addr: cfg.Serve.Address, Net: "udp", Handler: handler}
	tcp := &dns.Server{Addr: cfg.Serve.Address, Net: "tcp", Handler: handler}

	errs := make(chan error, 2)
	go func() { errs <- udp.ListenAndServe() }()
	go func() { errs <- tcp.ListenAndServe() }()

	mux := http.NewServeMux()
	mux.Handle("/metrics", resolver.MetricsHandler())
	metricsServer := &http.Server{Addr: cfg.Serve.MetricsAddress, Handler: mux}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	logrus.Infof("resolve: listening on %s (udp+tcp), metrics on %s", cfg.Serve.Address, cfg.Serve.MetricsAddress)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signals:
		logrus.Infof("resolve: received %s, shutting down", sig)
	case err := <-errs:
		logrus.Errorf("resolve: listener error: %v", err)
		return err
	}

	_ = udp.Shutdown()
	_ = tcp.Shutdown()
	_ = metricsServer.Shutdown(context.Background())

	return nil
}
