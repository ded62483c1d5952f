/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package httpapi exposes the domain operations over HTTP. Every response
// body is an outcome envelope and the HTTP status is its status code.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bankledger/mortgage-sdk-go/pkg/client/mortgage"
	"github.com/bankledger/mortgage-sdk-go/pkg/client/purchaseorder"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/logging"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/outcome"
)

var logger = logging.NewLogger("mortgagesdk/httpapi")

// Request headers naming the acting identities
const (
	UserHeader    = "X-User"
	CompanyHeader = "X-Company"
)

// requestTimeout bounds a request, retries included
const requestTimeout = 2 * time.Minute

// Identity registers and logs in users
type Identity interface {
	RegisterUser(ctx context.Context, username, affiliation string, roles ...string) *outcome.Outcome
	LoginUser(ctx context.Context, username, password string) *outcome.Outcome
	IsUserRegistered(ctx context.Context, username string) *outcome.Outcome
	IsUserEnrolled(ctx context.Context, username string) *outcome.Outcome
}

// Mortgages creates and reads loan applications
type Mortgages interface {
	Create(ctx context.Context, user, id string, application *mortgage.LoanApplication) *outcome.Outcome
	Get(ctx context.Context, user, id string) *outcome.Outcome
}

// PurchaseOrders writes and reads purchase orders
type PurchaseOrders interface {
	Create(ctx context.Context, user, company string, po *purchaseorder.PurchaseOrder) *outcome.Outcome
	Update(ctx context.Context, user, company string, po *purchaseorder.PurchaseOrder) *outcome.Outcome
	Get(ctx context.Context, user, id string) *outcome.Outcome
	GetFromLedger(ctx context.Context, user, id string) *outcome.Outcome
}

// Handler serves the API
type Handler struct {
	identity       Identity
	mortgages      Mortgages
	purchaseOrders PurchaseOrders
	gatherer       prometheus.Gatherer
}

// New returns the API router. A nil gatherer disables /metrics.
func New(identity Identity, mortgages Mortgages, purchaseOrders PurchaseOrders, gatherer prometheus.Gatherer) http.Handler {
	h := &Handler{
		identity:       identity,
		mortgages:      mortgages,
		purchaseOrders: purchaseOrders,
		gatherer:       gatherer,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.registerUser)
		r.Post("/{username}/login", h.loginUser)
		r.Get("/{username}/registered", h.isUserRegistered)
		r.Get("/{username}/enrolled", h.isUserEnrolled)
	})
	r.Route("/loan-applications", func(r chi.Router) {
		r.Put("/{id}", h.createLoanApplication)
		r.Get("/{id}", h.getLoanApplication)
	})
	r.Route("/purchase-orders", func(r chi.Router) {
		r.Post("/", h.createPurchaseOrder)
		r.Put("/{id}", h.updatePurchaseOrder)
		r.Get("/{id}", h.getPurchaseOrder)
		r.Get("/{id}/ledger", h.getPurchaseOrderFromLedger)
	})

	return r
}

type registration struct {
	Username    string   `json:"username"`
	Affiliation string   `json:"affiliation"`
	Roles       []string `json:"roles,omitempty"`
}

type login struct {
	Password string `json:"password"`
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registration
	if !decode(w, r, &req) {
		return
	}
	write(w, r, h.identity.RegisterUser(r.Context(), req.Username, req.Affiliation, req.Roles...))
}

func (h *Handler) loginUser(w http.ResponseWriter, r *http.Request) {
	var req login
	if !decode(w, r, &req) {
		return
	}
	write(w, r, h.identity.LoginUser(r.Context(), chi.URLParam(r, "username"), req.Password))
}

func (h *Handler) isUserRegistered(w http.ResponseWriter, r *http.Request) {
	write(w, r, h.identity.IsUserRegistered(r.Context(), chi.URLParam(r, "username")))
}

func (h *Handler) isUserEnrolled(w http.ResponseWriter, r *http.Request) {
	write(w, r, h.identity.IsUserEnrolled(r.Context(), chi.URLParam(r, "username")))
}

func (h *Handler) createLoanApplication(w http.ResponseWriter, r *http.Request) {
	var application mortgage.LoanApplication
	if !decode(w, r, &application) {
		return
	}
	write(w, r, h.mortgages.Create(r.Context(), r.Header.Get(UserHeader), chi.URLParam(r, "id"), &application))
}

func (h *Handler) getLoanApplication(w http.ResponseWriter, r *http.Request) {
	write(w, r, h.mortgages.Get(r.Context(), r.Header.Get(UserHeader), chi.URLParam(r, "id")))
}

func (h *Handler) createPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var po purchaseorder.PurchaseOrder
	if !decode(w, r, &po) {
		return
	}
	write(w, r, h.purchaseOrders.Create(r.Context(), r.Header.Get(UserHeader), r.Header.Get(CompanyHeader), &po))
}

func (h *Handler) updatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var po purchaseorder.PurchaseOrder
	if !decode(w, r, &po) {
		return
	}
	po.ID = chi.URLParam(r, "id")
	write(w, r, h.purchaseOrders.Update(r.Context(), r.Header.Get(UserHeader), r.Header.Get(CompanyHeader), &po))
}

func (h *Handler) getPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	write(w, r, h.purchaseOrders.Get(r.Context(), r.Header.Get(UserHeader), chi.URLParam(r, "id")))
}

func (h *Handler) getPurchaseOrderFromLedger(w http.ResponseWriter, r *http.Request) {
	write(w, r, h.purchaseOrders.GetFromLedger(r.Context(), r.Header.Get(UserHeader), chi.URLParam(r, "id")))
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Warnf("[%s] invalid request body: %s", middleware.GetReqID(r.Context()), err)
		write(w, r, outcome.Invalid("Invalid request body"))
		return false
	}
	return true
}

func write(w http.ResponseWriter, r *http.Request, o *outcome.Outcome) {
	if o == nil {
		o = outcome.Internal("No outcome", nil)
	}
	if !o.IsSuccess() {
		logger.Debugf("[%s] %s %s: %d %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, o.StatusCode, o.Body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(int(o.StatusCode))
	if err := json.NewEncoder(w).Encode(o); err != nil {
		logger.Errorf("[%s] response encode failed: %s", middleware.GetReqID(r.Context()), err)
	}
}
