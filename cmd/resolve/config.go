package main

import (
	"time"

	"github.com/BurntSushi/toml"
)

// config is the on-disk shape of the TOML file pointed to by --config. Every
// field is optional; anything left unset keeps its value from defaultConfig.
type config struct {
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`

	Limits struct {
		MaxAllowedTTL                    int `toml:"max-allowed-ttl-seconds"`
		MaxQueriesPerRequest             int `toml:"max-queries-per-request"`
		DesireNumberOfNameserversPerZone int `toml:"desired-nameservers-per-zone"`
	} `toml:"limits"`

	Behaviour struct {
		LazyEnrichment                             bool `toml:"lazy-enrichment"`
		SuppressBogusResponseSections              bool `toml:"suppress-bogus-response-sections"`
		RemoveAuthoritySectionForPositiveAnswers   bool `toml:"remove-authority-section-for-positive-answers"`
		RemoveAdditionalSectionForPositiveAnswers  bool `toml:"remove-additional-section-for-positive-answers"`
	} `toml:"behaviour"`

	Cache struct {
		Enabled bool          `toml:"enabled"`
		Size    int           `toml:"size"`
		TTL     time.Duration `toml:"ttl"`
	} `toml:"cache"`

	Serve struct {
		Address        string `toml:"address"`
		MetricsAddress string `toml:"metrics-address"`
	} `toml:"serve"`
}

// defaultConfig mirrors the resolver package's own Default* constants, with
// one exception: the response cache is enabled here, while the library's
// default Cache is nil (no caching).
func defaultConfig() config {
	var c config
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Limits.MaxAllowedTTL = 60 * 60 * 48
	c.Limits.MaxQueriesPerRequest = 100
	c.Limits.DesireNumberOfNameserversPerZone = 3
	c.Behaviour.SuppressBogusResponseSections = true
	c.Behaviour.RemoveAuthoritySectionForPositiveAnswers = true
	c.Behaviour.RemoveAdditionalSectionForPositiveAnswers = true
	c.Cache.Enabled = true
	c.Cache.Size = 10000
	c.Cache.TTL = time.Hour
	c.Serve.Address = ":53"
	c.Serve.MetricsAddress = ":9053"
	return c
}

// loadConfig reads and decodes a TOML file on top of defaultConfig. A path
// of "" returns the defaults untouched, so the CLI still works with no
// config file at all.
func loadConfig(path string) (config, error) {
	c := defaultConfig()
	if path == "" {
		return c, nil
	}

	if _, err := toml.DecodeFile(path, &c); err != nil {
		return c, err
	}

	return c, nil
}
