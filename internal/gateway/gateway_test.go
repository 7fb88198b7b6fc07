package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"charge.success","data":{"reference":"FND_1"}}`)
	sig := Sign(body, "sk_test")

	assert.True(t, VerifySignature(body, sig, "sk_test"))
	assert.True(t, VerifySignature(body, strings.ToUpper(sig), "sk_test"))
	assert.False(t, VerifySignature(body, sig, "other"))
	assert.False(t, VerifySignature(append(body, ' '), sig, "sk_test"))
	assert.False(t, VerifySignature(body, "", "sk_test"))
	assert.False(t, VerifySignature(body, sig, ""))
	assert.Len(t, sig, 128)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(250050), ToMinor(decimal.RequireFromString("2500.50")))
	assert.True(t, decimal.RequireFromString("2500.5").Equal(FromMinor(250050)))
}

func TestClient_InitializeTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])
		assert.Equal(t, float64(500000), body["amount"])
		assert.Equal(t, "FND_1", body["reference"])

		w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.example/abc","access_code":"abc","reference":"FND_1"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, SecretKey: "sk_test", Timeout: time.Second}, log)
	init, err := c.InitializeTransaction(context.Background(), "ada@example.com", decimal.NewFromInt(5000), "FND_1")

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/abc", init.AuthorizationURL)
	assert.Equal(t, "FND_1", init.Reference)
	assert.NotEmpty(t, init.Raw)
}

func TestClient_InitializeTransaction_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":false,"message":"Duplicate Transaction Reference"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, SecretKey: "sk_test"}, log)
	_, err := c.InitializeTransaction(context.Background(), "ada@example.com", decimal.NewFromInt(5000), "FND_1")

	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "Duplicate Transaction Reference")
}
