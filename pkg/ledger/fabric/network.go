/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package fabric adapts a Hyperledger Fabric network, reached through
// fabric-sdk-go, to the ledger.Network interface.
//
// Queries and invokes are run with the SDK's own retries disabled; retries
// belong to the caller. An invoke emits Submitted once the orderer accepted
// the transaction and Complete once the commit event arrived.
package fabric

import (
	"context"
	"sync"

	"github.com/hyperledger/fabric-sdk-go/pkg/client/channel"
	"github.com/hyperledger/fabric-sdk-go/pkg/client/msp"
	"github.com/hyperledger/fabric-sdk-go/pkg/common/providers/core"
	"github.com/hyperledger/fabric-sdk-go/pkg/core/config"
	"github.com/hyperledger/fabric-sdk-go/pkg/fabsdk"
	"github.com/pkg/errors"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/logging"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger"
)

var logger = logging.NewLogger("mortgagesdk/fabric")

// Settings of a Network
type Settings struct {
	ChannelID string
	Org       string
	// Registrar is the CA registrar configured for Org
	Registrar string
}

func (s Settings) validate() error {
	if s.ChannelID == "" {
		return errors.New("channel id is required")
	}
	if s.Org == "" {
		return errors.New("organization is required")
	}
	if s.Registrar == "" {
		return errors.New("registrar is required")
	}
	return nil
}

// Network is a ledger.Network backed by a Fabric channel
type Network struct {
	sdk      *fabsdk.FabricSDK
	settings Settings
	msp      *msp.Client

	mu       sync.Mutex
	channels map[string]*channel.Client
	closed   bool
}

// New creates a Network from the fabric-sdk-go configuration file at configPath
func New(configPath string, settings Settings) (*Network, error) {
	return NewFromProvider(config.FromFile(configPath), settings)
}

// NewFromProvider creates a Network from a fabric-sdk-go configuration provider
func NewFromProvider(configProvider core.ConfigProvider, settings Settings) (*Network, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}

	sdk, err := fabsdk.New(configProvider)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create fabric SDK")
	}

	mspClient, err := msp.New(sdk.Context(), msp.WithOrg(settings.Org))
	if err != nil {
		sdk.Close()
		return nil, errors.WithMessage(err, "failed to create MSP client")
	}

	logger.Infof("Connected to channel [%s] as organization [%s]", settings.ChannelID, settings.Org)
	return &Network{
		sdk:      sdk,
		settings: settings,
		msp:      mspClient,
		channels: make(map[string]*channel.Client),
	}, nil
}

// Member returns the handle of identity. The channel client of the identity
// is created on first use, since it requires an enrolled identity.
func (n *Network) Member(ctx context.Context, identity string) (ledger.Member, error) {
	if identity == "" {
		return nil, errors.New("identity is required")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil, status.Errorf(status.ClientStatus, status.ConnectionFailed, "network is closed")
	}
	return &member{network: n, identity: identity}, nil
}

// Registrar returns the configured CA registrar
func (n *Network) Registrar(ctx context.Context) (string, error) {
	return n.settings.Registrar, nil
}

// Close releases the SDK
func (n *Network) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true
	n.channels = nil
	n.sdk.Close()
	return nil
}

// channelClient returns the cached channel client of identity
func (n *Network) channelClient(identity string) (*channel.Client, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil, status.Errorf(status.ClientStatus, status.ConnectionFailed, "network is closed")
	}
	if c, ok := n.channels[identity]; ok {
		return c, nil
	}

	c, err := channel.New(n.sdk.ChannelContext(n.settings.ChannelID, fabsdk.WithUser(identity), fabsdk.WithOrg(n.settings.Org)))
	if err != nil {
		return nil, classify(errors.WithMessagef(err, "failed to create channel client for [%s]", identity))
	}
	n.channels[identity] = c
	return c, nil
}
