// server/internal/clients/quote/quote.go

// Package quote reads quote documents from the external valuation service and
// relays counter-offers to it.
package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ErrNotFound marks a quote id the upstream does not know.
var ErrNotFound = errors.New("quote not found upstream")

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

// GetByInternalID fetches a quote document by the upstream's own id. The
// document is returned as a raw map because historical quotes come in several
// shapes; normalization happens at the inspection layer.
func (c *Client) GetByInternalID(ctx context.Context, id string) (map[string]interface{}, error) {
	return c.get(ctx, c.base+"/quotes/"+url.PathEscape(id))
}

// GetByExternalID fetches a quote by the public external id.
func (c *Client) GetByExternalID(ctx context.Context, ext string) (map[string]interface{}, error) {
	return c.get(ctx, c.base+"/quotes/by-ext/"+url.PathEscape(ext))
}

func (c *Client) get(ctx context.Context, u string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote provider: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("quote provider returned %d", res.StatusCode)
	}

	var doc map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("quote provider: %w", err)
	}
	return doc, nil
}

// SendCounterOffer posts the new amount to the upstream's counter-offer
// endpoint, falling back from the admin path to the public path. Both paths
// answering 404 means the deployment has no such endpoint; that is reported as
// delivered=false with a nil error so the caller may proceed with its own
// user-facing notification.
func (c *Client) SendCounterOffer(ctx context.Context, ref string, amount float64) (bool, error) {
	paths := []string{
		c.base + "/admin/quotes/" + url.PathEscape(ref) + "/counter-offer",
		c.base + "/quotes/" + url.PathEscape(ref) + "/counter-offer",
	}

	var lastErr error
	missing := 0
	for _, p := range paths {
		status, err := c.post(ctx, p, map[string]interface{}{"amount": amount})
		if err != nil {
			lastErr = err
			continue
		}
		if status == http.StatusNotFound {
			missing++
			continue
		}
		if status >= 200 && status < 300 {
			return true, nil
		}
		lastErr = fmt.Errorf("counter-offer endpoint returned %d", status)
	}
	if missing == len(paths) {
		return false, nil
	}
	if lastErr == nil {
		lastErr = errors.New("counter-offer rejected upstream")
	}
	return false, fmt.Errorf("quote provider: %w", lastErr)
}

func (c *Client) post(ctx context.Context, u string, payload map[string]interface{}) (int, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(raw))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	return res.StatusCode, nil
}
