/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankledger/mortgage-sdk-go/pkg/core/config"
	"github.com/bankledger/mortgage-sdk-go/pkg/sdk"
)

const testConfig = `
retry:
  attempts: 1
  interval: 1ms
`

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Body       json.RawMessage `json:"body"`
}

func setupServer(t *testing.T) *httptest.Server {
	s, err := sdk.New(config.FromRaw([]byte(testConfig), "yaml"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	srv := httptest.NewServer(New(s.Identity(), s.Mortgage(), s.PurchaseOrders(), s.Gatherer()))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string, headers map[string]string) (int, envelope) {
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, resp.StatusCode, env.StatusCode)
	return resp.StatusCode, env
}

func registerAndLogin(t *testing.T, srv *httptest.Server, username, affiliation string) {
	code, env := call(t, srv, http.MethodPost, "/users", `{"username":"`+username+`","affiliation":"`+affiliation+`"}`, nil)
	require.Equal(t, http.StatusOK, code, string(env.Body))

	var credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	require.NoError(t, json.Unmarshal(env.Body, &credentials))
	assert.Equal(t, username, credentials.Username)

	code, env = call(t, srv, http.MethodPost, "/users/"+username+"/login", `{"password":"`+credentials.Password+`"}`, nil)
	require.Equal(t, http.StatusOK, code, string(env.Body))
}

func TestRegisterInvalidInput(t *testing.T) {
	srv := setupServer(t)

	code, env := call(t, srv, http.MethodPost, "/users", `{"username":"","affiliation":"Bank_Admin"}`, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `"Could not register user. Invalid username"`, string(env.Body))

	code, env = call(t, srv, http.MethodPost, "/users", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `"Invalid request body"`, string(env.Body))
}

func TestUserStatus(t *testing.T) {
	srv := setupServer(t)

	_, env := call(t, srv, http.MethodGet, "/users/teller1/registered", "", nil)
	assert.JSONEq(t, `false`, string(env.Body))

	registerAndLogin(t, srv, "teller1", "Teller")

	_, env = call(t, srv, http.MethodGet, "/users/teller1/registered", "", nil)
	assert.JSONEq(t, `true`, string(env.Body))
	_, env = call(t, srv, http.MethodGet, "/users/teller1/enrolled", "", nil)
	assert.JSONEq(t, `true`, string(env.Body))
}

func TestLoanApplication(t *testing.T) {
	srv := setupServer(t)
	registerAndLogin(t, srv, "banker", "Bank_Admin")
	user := map[string]string{UserHeader: "banker"}

	code, env := call(t, srv, http.MethodPut, "/loan-applications/la42", `{"propertyId":"prop1","requestedAmount":100000}`, user)
	require.Equal(t, http.StatusOK, code, string(env.Body))

	code, env = call(t, srv, http.MethodGet, "/loan-applications/la42", "", user)
	require.Equal(t, http.StatusOK, code, string(env.Body))
	var application struct {
		ID         string `json:"id"`
		PropertyID string `json:"propertyId"`
	}
	require.NoError(t, json.Unmarshal(env.Body, &application))
	assert.Equal(t, "la42", application.ID)
	assert.Equal(t, "prop1", application.PropertyID)

	code, _ = call(t, srv, http.MethodGet, "/loan-applications/la42", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPurchaseOrders(t *testing.T) {
	srv := setupServer(t)
	registerAndLogin(t, srv, "acme", "Supplier")
	headers := map[string]string{UserHeader: "buyer", CompanyHeader: "acme"}

	code, env := call(t, srv, http.MethodPost, "/purchase-orders", `{"supplier":"globex","items":[{"sku":"sku1","quantity":3}]}`, headers)
	require.Equal(t, http.StatusOK, code, string(env.Body))
	var po struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Body, &po))
	assert.Equal(t, "Submitted", po.Status)

	code, env = call(t, srv, http.MethodPut, "/purchase-orders/"+po.ID, `{"supplier":"globex","status":"Approved"}`, headers)
	require.Equal(t, http.StatusOK, code, string(env.Body))

	code, env = call(t, srv, http.MethodGet, "/purchase-orders/"+po.ID, "", headers)
	require.Equal(t, http.StatusOK, code, string(env.Body))
	require.NoError(t, json.Unmarshal(env.Body, &po))
	assert.Equal(t, "Approved", po.Status)

	// ledger reads run as the user, who must be enrolled
	code, _ = call(t, srv, http.MethodGet, "/purchase-orders/"+po.ID+"/ledger", "", map[string]string{UserHeader: "acme"})
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, srv, http.MethodGet, "/purchase-orders/missing", "", headers)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMetricsAndHealth(t *testing.T) {
	srv := setupServer(t)
	registerAndLogin(t, srv, "teller2", "Teller")

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	metrics, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "mortgagesdk_ledger_attempts_total")
}
