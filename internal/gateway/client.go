// Package gateway talks to the Paystack-style card/bank payment processor
// that funds wallets.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

var ErrRejected = errors.New("gateway rejected request")

type Config struct {
	BaseURL     string
	SecretKey   string
	CallbackURL string
	Timeout     time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, log *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

type Initialization struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
	Raw              json.RawMessage
}

var koboPerNaira = decimal.NewFromInt(100)

// ToMinor converts naira to kobo, the unit the gateway exchanges amounts in.
func ToMinor(amount decimal.Decimal) int64 {
	return amount.Mul(koboPerNaira).Round(0).IntPart()
}

// FromMinor converts kobo back to naira.
func FromMinor(kobo int64) decimal.Decimal {
	return decimal.New(kobo, -2)
}

// InitializeTransaction opens a hosted checkout for amount under reference.
func (c *Client) InitializeTransaction(ctx context.Context, email string, amount decimal.Decimal, reference string) (*Initialization, error) {
	payload, err := json.Marshal(map[string]any{
		"email":        email,
		"amount":       ToMinor(amount),
		"reference":    reference,
		"callback_url": c.cfg.CallbackURL,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/transaction/initialize", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway initialize: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}

	var out struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			AuthorizationURL string `json:"authorization_url"`
			AccessCode       string `json:"access_code"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode gateway response (HTTP %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || !out.Status {
		c.log.Warn("gateway initialize rejected",
			slog.String("reference", reference),
			slog.Int("status", resp.StatusCode),
			slog.String("message", out.Message),
		)
		return nil, fmt.Errorf("%w: %s", ErrRejected, out.Message)
	}

	return &Initialization{
		AuthorizationURL: out.Data.AuthorizationURL,
		AccessCode:       out.Data.AccessCode,
		Reference:        out.Data.Reference,
		Raw:              json.RawMessage(body),
	}, nil
}
