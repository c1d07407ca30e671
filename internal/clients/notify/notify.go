// server/internal/clients/notify/notify.go

// Package notify talks to the notification gateway. Callers treat delivery as
// best-effort; the workflow services log and swallow errors from here.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type Client struct {
	bases []string
	http  *http.Client
}

// NewClient builds a gateway client over the given base URLs. Bases are tried
// in order until one accepts the message.
func NewClient(bases []string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{bases: bases, http: httpClient}
}

// Send delivers a message to the user identified by toSub. Each base gets two
// chances: the push endpoint first, then the plain inbox endpoint, since older
// gateway deployments only expose the latter.
func (c *Client) Send(ctx context.Context, toSub, title, body string, meta map[string]interface{}) error {
	var lastErr error
	for _, base := range c.bases {
		err := c.post(ctx, base+"/send", map[string]interface{}{
			"to_sub": toSub,
			"title":  title,
			"body":   body,
			"meta":   meta,
		})
		if err == nil {
			return nil
		}
		lastErr = err

		err = c.post(ctx, base+"/inbox", map[string]interface{}{
			"user_sub": toSub,
			"title":    title,
			"body":     body,
			"link":     meta["link"],
		})
		if err == nil {
			return nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no notify bases configured")
	}
	return fmt.Errorf("notify gateway: %w", lastErr)
}

func (c *Client) post(ctx context.Context, url string, payload map[string]interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("%s returned %d", url, res.StatusCode)
	}
	return nil
}
