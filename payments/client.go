// Package payments is the client side of the external UPI payment-link
// service: link creation, status polling, and cancellation. The service owns
// link state; this process never mutates payment state locally beyond what a
// polled status reports.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrAlreadyPaid is returned when the service refuses to create a link
// because the reference was already settled. Callers treat it as success.
var ErrAlreadyPaid = errors.New("payment already completed")

type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
	StatusExpired  Status = "expired"
)

type CreateLinkParams struct {
	ReferenceID string  `json:"referenceId"`
	Amount      float64 `json:"amount"`
	Name        string  `json:"name,omitempty"`
	Email       string  `json:"email,omitempty"`
	Contact     string  `json:"contact,omitempty"`
	CallbackURL string  `json:"callbackUrl,omitempty"`
}

type PaymentLink struct {
	ID          string `json:"id"`
	ShortURL    string `json:"short_url"`
	Status      string `json:"status"`
	ReferenceID string `json:"reference_id"`
}

type PaymentStatus struct {
	ReferenceID string `json:"referenceId"`
	Status      Status `json:"status"`
	RawStatus   string `json:"rawStatus"`
	LinkID      string `json:"linkId,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the given service base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientFromEnv reads PAYMENTS_API_BASE.
func NewClientFromEnv() (*Client, error) {
	base := os.Getenv("PAYMENTS_API_BASE")
	if base == "" {
		return nil, fmt.Errorf("payments configuration missing: PAYMENTS_API_BASE not set")
	}
	return NewClient(base), nil
}

// CreateLink requests a payment link for an amount keyed by referenceId.
func (c *Client) CreateLink(ctx context.Context, params CreateLinkParams) (*PaymentLink, error) {
	body, _ := json.Marshal(params)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/payments/create-link", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var link PaymentLink
	if err := c.do(req, &link); err != nil {
		return nil, err
	}
	if link.ShortURL == "" {
		return nil, fmt.Errorf("payment service returned empty payment URL")
	}
	log.WithFields(log.Fields{"reference_id": params.ReferenceID, "link_id": link.ID}).Info("payment link created")
	return &link, nil
}

// FetchStatus polls the settlement status of a reference.
func (c *Client) FetchStatus(ctx context.Context, referenceID string) (*PaymentStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/payments/status/"+referenceID, nil)
	if err != nil {
		return nil, err
	}
	var st PaymentStatus
	if err := c.do(req, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// CancelPayment invalidates the live payment link for a reference.
func (c *Client) CancelPayment(ctx context.Context, referenceID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/payments/cancel/"+referenceID, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// CancelOrder is the alternate cancel path keyed by the pending order's id.
// The service treats it as equivalent to CancelPayment.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders/cancel/"+orderID, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// do executes the request and decodes the JSON body into out. Non-JSON
// bodies produce an error carrying a truncated preview; error payloads are
// mapped through their detail/error fields.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach payment service: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var probe map[string]json.RawMessage
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &probe); err != nil {
			preview := string(raw)
			if len(preview) > 180 {
				preview = preview[:180]
			}
			return fmt.Errorf("non-JSON response (%d): %s", resp.StatusCode, preview)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
		for _, key := range []string{"detail", "error"} {
			var s string
			if v, ok := probe[key]; ok && json.Unmarshal(v, &s) == nil && s != "" {
				msg = s
				break
			}
		}
		if strings.Contains(strings.ToLower(msg), "already_paid") {
			return ErrAlreadyPaid
		}
		return errors.New(msg)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to parse payment service response: %w", err)
		}
	}
	return nil
}
