// Package fraud wraps the external phone-history lookup used by the
// admin order view. The API reports how many past orders a phone number
// completed versus canceled across participating shops.
package fraud

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"deepshop/circuitbreaker"
)

type Report struct {
	Phone          string `json:"phone"`
	SuccessOrders  int    `json:"successOrders"`
	CanceledOrders int    `json:"canceledOrders"`
}

type Client struct {
	baseURL string
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: circuitbreaker.New(5, 30*time.Second),
	}
}

func (c *Client) Check(ctx context.Context, phone string) (*Report, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("fraud check not configured")
	}

	endpoint := fmt.Sprintf("%s?phone=%s", c.baseURL, url.QueryEscape(phone))

	var report Report
	err := c.breaker.Execute(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("fraud check request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("fraud check rejected: status %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
			return fmt.Errorf("failed to decode fraud report: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report.Phone = phone
	return &report, nil
}
