package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tinyledger/tinyledger/internal/accountrepo"
	"github.com/tinyledger/tinyledger/internal/domain"
	"github.com/tinyledger/tinyledger/internal/entryrepo"
	"github.com/tinyledger/tinyledger/internal/events"
	"github.com/tinyledger/tinyledger/pkg/configpkg"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	server, err := New(
		accountrepo.NewRepoMem(),
		entryrepo.NewRepoMem(),
		events.Noop{},
		zerolog.Nop(),
		configpkg.Config{},
	)
	require.NoError(t, err)

	return server
}

func request(t *testing.T, server *Server, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder
}

func decodeAccount(t *testing.T, recorder *httptest.ResponseRecorder) domain.Account {
	t.Helper()

	var res struct {
		Data struct {
			Account domain.Account `json:"account"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))

	return res.Data.Account
}

func TestServer(t *testing.T) {
	server := newTestServer(t)

	// Create two accounts.
	recorder := request(t, server, http.MethodPost, "/accounts", map[string]string{"name": "alice"})
	require.Equal(t, http.StatusCreated, recorder.Code)
	alice := decodeAccount(t, recorder)
	require.True(t, alice.Balance.IsZero())

	recorder = request(t, server, http.MethodPost, "/accounts", map[string]string{"name": "alice"})
	require.Equal(t, http.StatusConflict, recorder.Code)

	recorder = request(t, server, http.MethodPost, "/accounts", map[string]string{"name": "bob"})
	require.Equal(t, http.StatusCreated, recorder.Code)
	bob := decodeAccount(t, recorder)

	// Fund alice and overdraw past the balance.
	recorder = request(t, server, http.MethodPost, "/accounts/1/transactions",
		map[string]string{"amount": "1000", "description": "initial deposit"})
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = request(t, server, http.MethodPatch, "/accounts/1/transactions",
		map[string]string{"amount": "1500"})
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	// Transfer part of the funds to bob.
	recorder = request(t, server, http.MethodPost, "/accounts/transfer",
		map[string]any{"from_account_id": alice.ID, "to_account_id": bob.ID, "amount": "100"})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = request(t, server, http.MethodGet, "/accounts/1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, decodeAccount(t, recorder).Balance.Equal(decimal.NewFromInt(900)))

	recorder = request(t, server, http.MethodGet, "/accounts/2", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, decodeAccount(t, recorder).Balance.Equal(decimal.NewFromInt(1100)))

	// The ledger keeps every movement.
	recorder = request(t, server, http.MethodGet, "/accounts/1/transactions", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var res struct {
		Data struct {
			Entries []domain.Entry `json:"entries"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
	require.Len(t, res.Data.Entries, 2)

	recorder = request(t, server, http.MethodGet, "/accounts/99/transactions", nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)
}
