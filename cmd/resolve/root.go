package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sigcut/resolver"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        config
)

// newRootCommand builds the resolve command tree: a bare invocation performs
// a one-shot lookup (see query.go), "serve" runs a long-lived listener.
func newRootCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "resolve <domain> [type]",
		Short: "A recursive, DNSSEC-validating DNS resolver",
		Long: `resolve performs iterative, DNSSEC-validated DNS lookups.

Run with no subcommand to perform a single lookup and print the result.
Run "resolve serve" to start a long-lived listener.`,
		Args: cobra.RangeArgs(0, 2),
		RunE: runQuery,
	}

	c.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")

	c.AddCommand(newServeCommand())

	return c
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	var err error
	cfg, err = loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve: loading config %q: %v\n", configPath, err)
		os.Exit(1)
	}

	configureLogging(cfg)
	configureResolverDefaults(cfg)
}

func configureLogging(cfg config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	resolver.SetLogLevel(level)

	if cfg.Log.Format == "json" {
		resolver.SetLogFormatter(&logrus.JSONFormatter{})
	}
}

// configureResolverDefaults pushes the decoded config onto the resolver
// package's own tunable vars. The numeric limits are applied only when positive;
// the behaviour booleans are always copied, so they take defaultConfig's values
// unless the file sets them.
func configureResolverDefaults(cfg config) {
	if cfg.Limits.MaxAllowedTTL > 0 {
		resolver.MaxAllowedTTL = uint32(cfg.Limits.MaxAllowedTTL)
	}
	if cfg.Limits.MaxQueriesPerRequest > 0 {
		resolver.MaxQueriesPerRequest = uint32(cfg.Limits.MaxQueriesPerRequest)
	}
	if cfg.Limits.DesireNumberOfNameserversPerZone > 0 {
		resolver.DesireNumberOfNameserversPerZone = cfg.Limits.DesireNumberOfNameserversPerZone
	}

	resolver.LazyEnrichment = cfg.Behaviour.LazyEnrichment
	resolver.SuppressBogusResponseSections = cfg.Behaviour.SuppressBogusResponseSections
	resolver.RemoveAuthoritySectionForPositiveAnswers = cfg.Behaviour.RemoveAuthoritySectionForPositiveAnswers
	resolver.RemoveAdditionalSectionForPositiveAnswers = cfg.Behaviour.RemoveAdditionalSectionForPositiveAnswers

	if cfg.Cache.Enabled {
		ttl := cfg.Cache.TTL
		if ttl <= 0 {
			ttl = time.Hour
		}
		size := cfg.Cache.Size
		if size <= 0 {
			size = 10000
		}
		resolver.Cache = resolver.NewLRUCache(size, ttl)
	}
}

func execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
