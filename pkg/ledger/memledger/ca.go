/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package memledger

import (
	"sync"

	"github.com/cloudflare/cfssl/config"
	"github.com/cloudflare/cfssl/csr"
	"github.com/cloudflare/cfssl/helpers"
	"github.com/cloudflare/cfssl/initca"
	"github.com/cloudflare/cfssl/signer"
	"github.com/cloudflare/cfssl/signer/local"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger"
)

const (
	defaultMaxEnrollments = -1
	rootExpiry            = "87600h"
)

type caIdentity struct {
	name           string
	affiliation    string
	attributes     map[string]string
	roles          []string
	secretHash     []byte
	maxEnrollments int
	enrollments    int
	cert           []byte
}

// CA is an in-process certificate authority. Secrets are kept as bcrypt
// hashes and certificates are issued by a cfssl signer over a self-signed
// root.
type CA struct {
	mu         sync.RWMutex
	name       string
	rootCert   []byte
	signer     signer.Signer
	identities map[string]*caIdentity
	hashCost   int
}

// NewCA creates a CA with a freshly generated root certificate
func NewCA(name string) (*CA, error) {
	req := &csr.CertificateRequest{
		CN:         name,
		KeyRequest: csr.NewKeyRequest(),
		CA:         &csr.CAConfig{Expiry: rootExpiry},
	}
	certPEM, _, keyPEM, err := initca.New(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create CA root certificate")
	}

	priv, err := helpers.ParsePrivateKeyPEM(keyPEM)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse CA key")
	}
	cert, err := helpers.ParseCertificatePEM(certPEM)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse CA certificate")
	}

	s, err := local.NewSigner(priv, cert, signer.DefaultSigAlgo(priv), &config.Signing{Default: config.DefaultConfig()})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create CA signer")
	}

	return &CA{
		name:       name,
		rootCert:   certPEM,
		signer:     s,
		identities: make(map[string]*caIdentity),
		hashCost:   bcrypt.MinCost,
	}, nil
}

// RootCertificate returns the PEM encoded root certificate
func (ca *CA) RootCertificate() []byte {
	return ca.rootCert
}

// Register records a new identity and returns its enrollment secret
func (ca *CA) Register(req *ledger.RegistrationRequest) (string, error) {
	if req == nil || req.Name == "" {
		return "", status.Errorf(status.CAServerStatus, status.InvalidInput, "registration request requires a name")
	}

	ca.mu.Lock()
	defer ca.mu.Unlock()

	if req.Registrar != "" {
		registrar, ok := ca.identities[req.Registrar]
		if !ok || registrar.cert == nil {
			return "", status.Errorf(status.CAServerStatus, status.AccessDenied, "registrar [%s] is not enrolled", req.Registrar)
		}
	}
	if _, ok := ca.identities[req.Name]; ok {
		return "", status.Errorf(status.CAServerStatus, status.InvalidInput, "identity [%s] is already registered", req.Name)
	}

	secret := req.Secret
	if secret == "" {
		secret = uuid.New().String()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), ca.hashCost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash enrollment secret")
	}

	maxEnrollments := req.MaxEnrollments
	if maxEnrollments == 0 {
		maxEnrollments = defaultMaxEnrollments
	}
	attrs := make(map[string]string, len(req.Attributes))
	for _, a := range req.Attributes {
		attrs[a.Name] = a.Value
	}

	ca.identities[req.Name] = &caIdentity{
		name:           req.Name,
		affiliation:    req.Affiliation,
		attributes:     attrs,
		roles:          append([]string{}, req.Roles...),
		secretHash:     hash,
		maxEnrollments: maxEnrollments,
	}
	return secret, nil
}

// Enroll verifies secret and issues a certificate for name
func (ca *CA) Enroll(name, secret string) (*ledger.Enrollment, error) {
	ca.mu.Lock()
	defer ca.mu.Unlock()

	id, ok := ca.identities[name]
	if !ok {
		return nil, status.Errorf(status.CAServerStatus, status.AccessDenied, "identity [%s] is not registered", name)
	}
	if err := bcrypt.CompareHashAndPassword(id.secretHash, []byte(secret)); err != nil {
		return nil, status.Errorf(status.CAServerStatus, status.AccessDenied, "authentication failure for [%s]", name)
	}
	if id.maxEnrollments > 0 && id.enrollments >= id.maxEnrollments {
		return nil, status.Errorf(status.CAServerStatus, status.AccessDenied, "identity [%s] has reached its enrollment limit", name)
	}

	req := &csr.CertificateRequest{
		CN:         name,
		KeyRequest: csr.NewKeyRequest(),
		Names:      []csr.Name{{OU: id.affiliation}},
	}
	csrPEM, keyPEM, err := csr.ParseRequest(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate certificate request")
	}
	cert, err := ca.signer.Sign(signer.SignRequest{Request: string(csrPEM)})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to sign certificate for [%s]", name)
	}

	id.enrollments++
	id.cert = cert
	return &ledger.Enrollment{EnrollmentID: name, Cert: cert, Key: keyPEM}, nil
}

// IsRegistered returns true if name was registered
func (ca *CA) IsRegistered(name string) bool {
	ca.mu.RLock()
	defer ca.mu.RUnlock()
	_, ok := ca.identities[name]
	return ok
}

// IsEnrolled returns true if a certificate was issued to name
func (ca *CA) IsEnrolled(name string) bool {
	ca.mu.RLock()
	defer ca.mu.RUnlock()
	id, ok := ca.identities[name]
	return ok && id.cert != nil
}

// attributes returns a copy of the registered attributes of name
func (ca *CA) attributes(name string) map[string]string {
	ca.mu.RLock()
	defer ca.mu.RUnlock()
	id, ok := ca.identities[name]
	if !ok {
		return nil
	}
	attrs := make(map[string]string, len(id.attributes))
	for k, v := range id.attributes {
		attrs[k] = v
	}
	return attrs
}
