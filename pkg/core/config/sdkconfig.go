/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"time"

	"github.com/pkg/errors"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/retry"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/core"
	"github.com/bankledger/mortgage-sdk-go/pkg/core/config/lookup"
	"github.com/bankledger/mortgage-sdk-go/pkg/util/pathvar"
)

// Ledger types
const (
	MemoryLedger = "memory"
	FabricLedger = "fabric"
)

// Datastore types
const (
	MemoryStore   = "memory"
	FileStore     = "file"
	RedisStore    = "redis"
	PostgresStore = "postgres"
)

const (
	defaultChaincodeID   = "mortgage"
	defaultChannelID     = "mychannel"
	defaultAffiliation   = "group1"
	defaultRegistrarID   = "admin"
	defaultLedgerTimeout = 30 * time.Second
	defaultServerAddress = ":8080"
)

// RetryConfig holds the retry policy of ledger operations
type RetryConfig struct {
	Attempts    int
	Interval    time.Duration
	MaxInterval time.Duration
}

// RegistrarConfig identifies the user that registers new users
type RegistrarConfig struct {
	ID          string
	Secret      string
	Affiliation string
	Roles       []string
}

// LedgerConfig selects and tunes the ledger network
type LedgerConfig struct {
	Type         string
	Timeout      time.Duration
	FabricConfig string
	RateLimit    float64
	RateBurst    int
	Latency      time.Duration
}

// DatastoreConfig selects the mirror store
type DatastoreConfig struct {
	Type   string
	Path   string
	URL    string
	Prefix string
	TTL    time.Duration
}

// SDKConfig is the typed view of the configuration
type SDKConfig struct {
	ChaincodeID  string
	ChannelID    string
	Org          string
	Retry        RetryConfig
	Registrar    RegistrarConfig
	RequestAttrs []string
	Ledger       LedgerConfig
	Datastore    DatastoreConfig
	ServerAddr   string
}

// SDKConfigFromProvider loads the backends of provider and builds an SDKConfig
func SDKConfigFromProvider(provider core.ConfigProvider) (*SDKConfig, error) {
	if provider == nil {
		return nil, errors.New("config provider is required")
	}
	backends, err := provider()
	if err != nil {
		return nil, errors.WithMessage(err, "unable to load config backend")
	}
	return SDKConfigFromBackend(backends...)
}

// SDKConfigFromBackend builds an SDKConfig. Unset keys take their defaults.
func SDKConfigFromBackend(backends ...core.ConfigBackend) (*SDKConfig, error) {
	l := lookup.New(backends...)

	c := &SDKConfig{
		ChaincodeID: stringOrDefault(l, "chaincode.id", defaultChaincodeID),
		ChannelID:   stringOrDefault(l, "channel.id", defaultChannelID),
		Org:         l.GetString("org"),
		Retry: RetryConfig{
			Attempts:    retry.DefaultAttempts,
			Interval:    durationOrDefault(l, "retry.interval", retry.DefaultInitialBackoff),
			MaxInterval: l.GetDuration("retry.maxInterval"),
		},
		Registrar: RegistrarConfig{
			ID:          stringOrDefault(l, "registrar.id", defaultRegistrarID),
			Secret:      l.GetString("registrar.secret"),
			Affiliation: stringOrDefault(l, "registrar.affiliation", defaultAffiliation),
			Roles:       l.GetStringSlice("registrar.roles"),
		},
		RequestAttrs: l.GetStringSlice("request.attrs"),
		Ledger: LedgerConfig{
			Type:         stringOrDefault(l, "ledger.type", MemoryLedger),
			Timeout:      durationOrDefault(l, "ledger.timeout", defaultLedgerTimeout),
			FabricConfig: pathvar.Subst(l.GetString("ledger.fabricConfig")),
			RateLimit:    l.GetFloat64("ledger.rateLimit"),
			RateBurst:    l.GetInt("ledger.rateBurst"),
			Latency:      l.GetDuration("ledger.latency"),
		},
		Datastore: DatastoreConfig{
			Type:   stringOrDefault(l, "datastore.type", MemoryStore),
			Path:   pathvar.Subst(l.GetString("datastore.path")),
			URL:    l.GetString("datastore.url"),
			Prefix: l.GetString("datastore.prefix"),
			TTL:    l.GetDuration("datastore.ttl"),
		},
		ServerAddr: stringOrDefault(l, "server.address", defaultServerAddress),
	}
	if l.IsSet("retry.attempts") {
		c.Retry.Attempts = l.GetInt("retry.attempts")
	}
	if len(c.Registrar.Roles) == 0 {
		c.Registrar.Roles = []string{"client"}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *SDKConfig) validate() error {
	if c.Retry.Attempts < 0 {
		return errors.Errorf("retry.attempts must not be negative: %d", c.Retry.Attempts)
	}
	if c.Retry.Interval < 0 {
		return errors.Errorf("retry.interval must not be negative: %s", c.Retry.Interval)
	}
	switch c.Ledger.Type {
	case MemoryLedger:
	case FabricLedger:
		if c.Ledger.FabricConfig == "" {
			return errors.New("ledger.fabricConfig is required for the fabric ledger")
		}
		if c.Org == "" {
			return errors.New("org is required for the fabric ledger")
		}
	default:
		return errors.Errorf("unsupported ledger.type: %s", c.Ledger.Type)
	}
	switch c.Datastore.Type {
	case MemoryStore:
	case FileStore:
		if c.Datastore.Path == "" {
			return errors.New("datastore.path is required for the file datastore")
		}
	case RedisStore, PostgresStore:
		if c.Datastore.URL == "" {
			return errors.Errorf("datastore.url is required for the %s datastore", c.Datastore.Type)
		}
	default:
		return errors.Errorf("unsupported datastore.type: %s", c.Datastore.Type)
	}
	return nil
}

// RetryOpts returns the retry policy: constant backoff unless a larger
// retry.maxInterval is configured
func (c *SDKConfig) RetryOpts() retry.Opts {
	opts := retry.Opts{
		Attempts:       c.Retry.Attempts,
		InitialBackoff: c.Retry.Interval,
		MaxBackoff:     c.Retry.Interval,
		BackoffFactor:  retry.DefaultBackoffFactor,
	}
	if c.Retry.MaxInterval > c.Retry.Interval {
		opts.MaxBackoff = c.Retry.MaxInterval
		opts.BackoffFactor = 2
	}
	return opts
}

func stringOrDefault(l *lookup.ConfigLookup, key, def string) string {
	if v := l.GetString(key); v != "" {
		return v
	}
	return def
}

func durationOrDefault(l *lookup.ConfigLookup, key string, def time.Duration) time.Duration {
	if !l.IsSet(key) {
		return def
	}
	return l.GetDuration(key)
}
