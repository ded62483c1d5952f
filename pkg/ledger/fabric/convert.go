/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fabric

import (
	"net/http"

	"github.com/hyperledger/fabric-sdk-go/pkg/client/channel"
	"github.com/hyperledger/fabric-sdk-go/pkg/client/msp"
	fabstatus "github.com/hyperledger/fabric-sdk-go/pkg/common/errors/status"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger"
)

func toChannelRequest(req ledger.Request) channel.Request {
	return channel.Request{
		ChaincodeID: req.ChaincodeID,
		Fcn:         req.Fcn,
		Args:        req.Args,
	}
}

// toRegistrationRequest maps a registration onto the Fabric CA. The first
// role becomes the identity type; Fabric CA has no role list.
func toRegistrationRequest(req *ledger.RegistrationRequest) *msp.RegistrationRequest {
	r := &msp.RegistrationRequest{
		Name:           req.Name,
		MaxEnrollments: req.MaxEnrollments,
		Affiliation:    req.Affiliation,
		Secret:         req.Secret,
		Type:           req.Type,
	}
	if r.Type == "" && len(req.Roles) > 0 {
		r.Type = req.Roles[0]
	}
	for _, a := range req.Attributes {
		r.Attributes = append(r.Attributes, msp.Attribute{Name: a.Name, Value: a.Value, ECert: a.ECert})
	}
	return r
}

// classify translates a fabric-sdk-go error into a status of this SDK
func classify(err error) error {
	if err == nil {
		return nil
	}

	s, ok := fabstatus.FromError(err)
	if !ok {
		return status.New(status.LedgerServerStatus, status.Unknown.ToInt32(), err.Error(), nil)
	}

	switch s.Group {
	case fabstatus.ChaincodeStatus:
		if s.Code == http.StatusNotFound {
			return status.Errorf(status.ChaincodeStatus, status.NotFound, "%s", s.Message)
		}
		return status.NewFromChaincodeError(int(s.Code), s.Message)
	case fabstatus.GRPCTransportStatus:
		return status.New(status.GRPCTransportStatus, s.Code, s.Message, s.Details)
	case fabstatus.FabricCAServerStatus:
		return status.New(status.CAServerStatus, status.Unknown.ToInt32(), s.Message, s.Details)
	case fabstatus.HTTPTransportStatus, fabstatus.EndorserClientStatus, fabstatus.OrdererClientStatus, fabstatus.DiscoveryServerStatus:
		return status.New(status.LedgerServerStatus, status.ServiceUnavailable.ToInt32(), s.Message, s.Details)
	default:
		return status.New(status.LedgerServerStatus, status.Unknown.ToInt32(), s.Message, s.Details)
	}
}
