/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package sdk assembles the ledger network, the mirror store and the domain
// clients from configuration.
//
//  Basic Flow:
//  1) Load configuration with config.FromFile (or FromRaw)
//  2) Create the SDK with New
//  3) Use Identity, Mortgage and PurchaseOrders
//  4) Close the SDK
package sdk

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/bankledger/mortgage-sdk-go/pkg/client/identity"
	"github.com/bankledger/mortgage-sdk-go/pkg/client/ledger"
	"github.com/bankledger/mortgage-sdk-go/pkg/client/ledger/invoke"
	"github.com/bankledger/mortgage-sdk-go/pkg/client/mortgage"
	"github.com/bankledger/mortgage-sdk-go/pkg/client/purchaseorder"
	"github.com/bankledger/mortgage-sdk-go/pkg/client/request"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/multi"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/logging"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/core"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/datastore"
	ledgerapi "github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger"
	"github.com/bankledger/mortgage-sdk-go/pkg/core/config"
	"github.com/bankledger/mortgage-sdk-go/pkg/datastore/filestore"
	"github.com/bankledger/mortgage-sdk-go/pkg/datastore/memory"
	"github.com/bankledger/mortgage-sdk-go/pkg/datastore/pgstore"
	"github.com/bankledger/mortgage-sdk-go/pkg/datastore/redisstore"
	"github.com/bankledger/mortgage-sdk-go/pkg/ledger/fabric"
	"github.com/bankledger/mortgage-sdk-go/pkg/ledger/memledger"
	"github.com/bankledger/mortgage-sdk-go/pkg/metrics"
)

var logger = logging.NewLogger("mortgagesdk/sdk")

const (
	connectTimeout         = 10 * time.Second
	defaultRegistrarSecret = "adminpw"
)

// SDK holds the assembled clients
type SDK struct {
	config   *config.SDKConfig
	network  ledgerapi.Network
	store    datastore.Store
	registry *prometheus.Registry
	metrics  *metrics.ClientMetrics
	ledger   *ledger.Client

	identity       *identity.Client
	mortgage       *mortgage.Client
	purchaseOrders *purchaseorder.Client
}

type options struct {
	network       ledgerapi.Network
	store         datastore.Store
	registry      *prometheus.Registry
	clientOptions []ledger.ClientOption
}

// Option configures the SDK
type Option func(opts *options) error

// WithNetwork uses network instead of the one named by ledger.type
func WithNetwork(network ledgerapi.Network) Option {
	return func(opts *options) error {
		opts.network = network
		return nil
	}
}

// WithStore uses store instead of the one named by datastore.type
func WithStore(store datastore.Store) Option {
	return func(opts *options) error {
		opts.store = store
		return nil
	}
}

// WithRegistry registers the SDK metrics with registry
func WithRegistry(registry *prometheus.Registry) Option {
	return func(opts *options) error {
		if registry == nil {
			return errors.New("registry is nil")
		}
		opts.registry = registry
		return nil
	}
}

// WithClientOptions appends options to the ledger client. They are applied
// after the configured ones.
func WithClientOptions(clientOptions ...ledger.ClientOption) Option {
	return func(opts *options) error {
		opts.clientOptions = append(opts.clientOptions, clientOptions...)
		return nil
	}
}

// New initializes the SDK
func New(configProvider core.ConfigProvider, opts ...Option) (*SDK, error) {
	cfg, err := config.SDKConfigFromProvider(configProvider)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to load SDK config")
	}

	o := options{}
	for _, option := range opts {
		if err := option(&o); err != nil {
			return nil, errors.WithMessage(err, "error in option passed to New")
		}
	}

	sdk := &SDK{config: cfg}
	if err := sdk.init(o); err != nil {
		sdk.Close()
		return nil, err
	}
	return sdk, nil
}

func (sdk *SDK) init(o options) error {
	var err error

	sdk.registry = o.registry
	if sdk.registry == nil {
		sdk.registry = prometheus.NewRegistry()
		sdk.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	sdk.metrics = metrics.NewPrometheus(sdk.registry)

	sdk.network = o.network
	if sdk.network == nil {
		if sdk.network, err = newNetwork(sdk.config); err != nil {
			return errors.WithMessage(err, "failed to create ledger network")
		}
	}

	sdk.store = o.store
	if sdk.store == nil {
		if sdk.store, err = newStore(sdk.config.Datastore); err != nil {
			return errors.WithMessage(err, "failed to create datastore")
		}
	}

	clientOptions := append([]ledger.ClientOption{
		ledger.WithDefaultRetry(sdk.config.RetryOpts()),
		ledger.WithDefaultTimeout(sdk.config.Ledger.Timeout),
		ledger.WithRegistration(invoke.RegistrationOpts{
			AffiliationGroup: sdk.config.Registrar.Affiliation,
			DefaultRoles:     sdk.config.Registrar.Roles,
		}),
		ledger.WithMetrics(sdk.metrics),
		ledger.WithRateLimit(sdk.config.Ledger.RateLimit, sdk.config.Ledger.RateBurst),
	}, o.clientOptions...)

	if sdk.ledger, err = ledger.New(sdk.network, clientOptions...); err != nil {
		return errors.WithMessage(err, "failed to create ledger client")
	}

	var builderOpts []request.BuilderOption
	if len(sdk.config.RequestAttrs) > 0 {
		builderOpts = append(builderOpts, request.WithDefaultAttrs(sdk.config.RequestAttrs...))
	}
	builder := request.NewBuilder(sdk.config.ChaincodeID, builderOpts...)

	if sdk.identity, err = identity.New(sdk.ledger, builder, sdk.config.Registrar.ID); err != nil {
		return errors.WithMessage(err, "failed to create identity client")
	}
	if sdk.mortgage, err = mortgage.New(sdk.ledger, builder); err != nil {
		return errors.WithMessage(err, "failed to create mortgage client")
	}
	if sdk.purchaseOrders, err = purchaseorder.New(sdk.ledger, builder, sdk.store, purchaseorder.WithMetrics(sdk.metrics)); err != nil {
		return errors.WithMessage(err, "failed to create purchase order client")
	}

	logger.Infof("SDK initialized: ledger [%s], datastore [%s], chaincode [%s]",
		sdk.config.Ledger.Type, sdk.config.Datastore.Type, sdk.config.ChaincodeID)
	return nil
}

func newNetwork(cfg *config.SDKConfig) (ledgerapi.Network, error) {
	if cfg.Ledger.Type == config.FabricLedger {
		n, err := fabric.New(cfg.Ledger.FabricConfig, fabric.Settings{
			ChannelID: cfg.ChannelID,
			Org:       cfg.Org,
			Registrar: cfg.Registrar.ID,
		})
		if err != nil {
			return nil, err
		}
		return n, nil
	}

	secret := cfg.Registrar.Secret
	if secret == "" {
		secret = defaultRegistrarSecret
	}
	n, err := memledger.New(
		memledger.WithChaincode(cfg.ChaincodeID, memledger.NewMortgageChaincode()),
		memledger.WithRegistrar(cfg.Registrar.ID, secret),
		memledger.WithLatency(cfg.Ledger.Latency),
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func newStore(cfg config.DatastoreConfig) (datastore.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	switch cfg.Type {
	case config.FileStore:
		s, err := filestore.New(&filestore.Options{Path: cfg.Path})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.RedisStore:
		var opts []redisstore.Option
		if cfg.Prefix != "" {
			opts = append(opts, redisstore.WithPrefix(cfg.Prefix))
		}
		if cfg.TTL > 0 {
			opts = append(opts, redisstore.WithTTL(cfg.TTL))
		}
		s, err := redisstore.New(cfg.URL, opts...)
		if err != nil {
			return nil, err
		}
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case config.PostgresStore:
		s, err := pgstore.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return memory.New(), nil
	}
}

// Config returns the effective configuration
func (sdk *SDK) Config() *config.SDKConfig {
	return sdk.config
}

// Network returns the ledger network
func (sdk *SDK) Network() ledgerapi.Network {
	return sdk.network
}

// Store returns the mirror store
func (sdk *SDK) Store() datastore.Store {
	return sdk.store
}

// Ledger returns the retrying ledger client
func (sdk *SDK) Ledger() *ledger.Client {
	return sdk.ledger
}

// Gatherer returns the registry holding the SDK metrics
func (sdk *SDK) Gatherer() prometheus.Gatherer {
	return sdk.registry
}

// Identity returns the user registration client
func (sdk *SDK) Identity() *identity.Client {
	return sdk.identity
}

// Mortgage returns the loan application client
func (sdk *SDK) Mortgage() *mortgage.Client {
	return sdk.mortgage
}

// PurchaseOrders returns the purchase order client
func (sdk *SDK) PurchaseOrders() *purchaseorder.Client {
	return sdk.purchaseOrders
}

// Close releases the store and the network
func (sdk *SDK) Close() error {
	var storeErr, networkErr error
	if sdk.store != nil {
		storeErr = errors.WithMessage(sdk.store.Close(), "closing datastore failed")
	}
	if sdk.network != nil {
		networkErr = errors.WithMessage(sdk.network.Close(), "closing network failed")
	}
	return multi.New(storeErr, networkErr)
}
