// Package payment is the client for the external payment gateway. Calls are
// synchronous and fallible; nothing here retries — the enclosing operation
// decides what a failure means.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

type Charge struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type Refund struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

const StatusSucceeded = "succeeded"

// Gateway is the boundary the booking core talks to.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
	ListCharges(ctx context.Context, intentID string) ([]Charge, error)
	CreateRefund(ctx context.Context, intentID string) (*Refund, error)
}

type Client struct {
	hc      *http.Client
	baseURL string
	secret  string
	log     *zap.Logger
}

func NewClient(config utils.PaymentConfig, log *zap.Logger) *Client {
	return &Client{
		hc:      &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(config.APIURL, "/"),
		secret:  config.SecretKey,
		log:     log.With(zap.String("client", "payment")),
	}
}

func (c *Client) CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")

	var intent Intent
	if err := c.do(ctx, http.MethodPost, "/payment_intents", form, &intent); err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	c.log.Info("Payment intent created",
		zap.String("intent_id", intent.ID),
		zap.Int64("amount", amount),
		zap.String("currency", currency),
	)

	return &intent, nil
}

func (c *Client) GetIntent(ctx context.Context, id string) (*Intent, error) {
	var intent Intent
	if err := c.do(ctx, http.MethodGet, "/payment_intents/"+url.PathEscape(id), nil, &intent); err != nil {
		return nil, fmt.Errorf("get payment intent %s: %w", id, err)
	}
	return &intent, nil
}

func (c *Client) ListCharges(ctx context.Context, intentID string) ([]Charge, error) {
	path := "/charges?payment_intent=" + url.QueryEscape(intentID) + "&limit=1"

	var list struct {
		Data []Charge `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, fmt.Errorf("list charges for intent %s: %w", intentID, err)
	}
	return list.Data, nil
}

func (c *Client) CreateRefund(ctx context.Context, intentID string) (*Refund, error) {
	form := url.Values{}
	form.Set("payment_intent", intentID)

	var refund Refund
	if err := c.do(ctx, http.MethodPost, "/refunds", form, &refund); err != nil {
		return nil, fmt.Errorf("create refund for intent %s: %w", intentID, err)
	}

	c.log.Info("Refund issued",
		zap.String("refund_id", refund.ID),
		zap.String("intent_id", intentID),
	)

	return &refund, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secret)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read gateway response: %w", err)
	}

	if resp.StatusCode >= 400 {
		// Gateway errors carry a message field worth surfacing
		var e struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(raw, &e)
		if e.Error.Message != "" {
			return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, e.Error.Message)
		}
		return fmt.Errorf("gateway returned %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode gateway response: %w", err)
		}
	}

	return nil
}
