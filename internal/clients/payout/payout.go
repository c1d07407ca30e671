// server/internal/clients/payout/payout.go

// Package payout records payouts against the external ledger. Unlike notify,
// failures here are surfaced to the caller; payment registration must not
// claim success without a ledger record.
package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type Client struct {
	base string
	http *http.Client
}

func NewClient(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: base, http: httpClient}
}

// Record creates a payout entry and returns its id. Write-once: there is no
// update path, a retry creates a second entry.
func (c *Client) Record(ctx context.Context, quoteIDExt, method string, amount float64) (string, error) {
	raw, err := json.Marshal(map[string]interface{}{
		"quote_id_ext": quoteIDExt,
		"method":       method,
		"amount":       amount,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/payouts", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("payout ledger: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("payout ledger returned %d", res.StatusCode)
	}

	var body struct {
		ID  string `json:"_id"`
		Alt string `json:"id"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("payout ledger: %w", err)
	}
	if body.ID != "" {
		return body.ID, nil
	}
	return body.Alt, nil
}
