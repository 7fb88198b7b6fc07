// Package biller talks to the VTPass-style bill payment API that fulfils
// airtime, data, TV, electricity, education and insurance purchases.
package biller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vtu-service/internal/models"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// ErrTimeout means the biller did not answer in time. The request may or may
// not have been applied; callers must leave the purchase pending.
var ErrTimeout = errors.New("biller request timed out")

// APIError is a non-2xx HTTP answer from the biller.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("biller returned HTTP %d: %s", e.StatusCode, e.Body)
}

type Config struct {
	BaseURL   string
	APIKey    string
	PublicKey string
	SecretKey string
	Timeout   time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, log *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

type PayRequest struct {
	RequestID     string
	ServiceID     string
	BillersCode   string
	VariationCode string
	Amount        decimal.Decimal
	Phone         string
}

// Pay submits a purchase. A non-nil Outcome is returned whenever the biller
// answered, even with a failure code.
func (c *Client) Pay(ctx context.Context, req PayRequest) (*Outcome, error) {
	form := url.Values{}
	form.Set("request_id", req.RequestID)
	form.Set("serviceID", req.ServiceID)
	form.Set("amount", req.Amount.StringFixed(2))
	form.Set("phone", req.Phone)
	if req.BillersCode != "" {
		form.Set("billersCode", req.BillersCode)
	}
	if req.VariationCode != "" {
		form.Set("variation_code", req.VariationCode)
	}

	var env Envelope
	if err := c.post(ctx, "/api/pay", form, &env); err != nil {
		return nil, err
	}
	out := env.Outcome()
	if out.RequestID == "" {
		out.RequestID = req.RequestID
	}
	return &out, nil
}

// Requery asks the biller for the current state of a previously submitted
// request.
func (c *Client) Requery(ctx context.Context, requestID string) (*Outcome, error) {
	form := url.Values{}
	form.Set("request_id", requestID)

	var env Envelope
	if err := c.post(ctx, "/api/requery", form, &env); err != nil {
		return nil, err
	}
	out := env.Outcome()
	if out.RequestID == "" {
		out.RequestID = requestID
	}
	return &out, nil
}

type VariationPayload struct {
	VariationCode   string `json:"variation_code"`
	Name            string `json:"name"`
	VariationAmount Amount `json:"variation_amount"`
}

func (v VariationPayload) Variation() models.Variation {
	return models.Variation{
		Code:   strings.TrimSpace(v.VariationCode),
		Name:   strings.TrimSpace(v.Name),
		Amount: v.VariationAmount.Decimal,
	}
}

type variationsResponse struct {
	ResponseDescription string `json:"response_description"`
	Content             struct {
		ServiceID  string             `json:"ServiceID"`
		Variations []VariationPayload `json:"variations"`
		// Some services spell it differently.
		VariationsAlt []VariationPayload `json:"varations"`
	} `json:"content"`
}

// ServiceVariations fetches the authoritative plan list for serviceID.
func (c *Client) ServiceVariations(ctx context.Context, serviceID string) ([]models.Variation, error) {
	endpoint := c.cfg.BaseURL + "/api/service-variations?serviceID=" + url.QueryEscape(serviceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(httpReq, false)

	var resp variationsResponse
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}

	payloads := resp.Content.Variations
	if len(payloads) == 0 {
		payloads = resp.Content.VariationsAlt
	}
	out := make([]models.Variation, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, p.Variation())
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.authorize(httpReq, true)
	return c.do(httpReq, out)
}

func (c *Client) authorize(req *http.Request, write bool) {
	req.Header.Set("api-key", c.cfg.APIKey)
	if write {
		req.Header.Set("secret-key", c.cfg.SecretKey)
	} else {
		req.Header.Set("public-key", c.cfg.PublicKey)
	}
}

func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.log.Warn("biller request timed out",
				slog.String("path", req.URL.Path),
				slog.Duration("elapsed", time.Since(start)),
			)
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("biller request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("read biller response: %w", err)
	}

	c.log.Debug("biller response",
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode biller response: %w", err)
	}
	return nil
}

// isTimeout covers every way a call can end without an answer. A cancelled
// context is included: the biller may still have processed the request.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var lagos = loadLagos()

func loadLagos() *time.Location {
	loc, err := time.LoadLocation("Africa/Lagos")
	if err != nil {
		return time.FixedZone("WAT", 60*60)
	}
	return loc
}

// NewRequestID builds a biller request id: the Africa/Lagos YYYYMMDDHHmm
// prefix the biller requires, followed by a lexically sortable unique suffix.
func NewRequestID(now time.Time) string {
	suffix := strings.ToLower(ulid.Make().String())
	return now.In(lagos).Format("200601021504") + suffix[len(suffix)-12:]
}
