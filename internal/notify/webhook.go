package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Webhook posts events as JSON to the notification sender's endpoint.
type Webhook struct {
	hc  *http.Client
	url string
}

func NewWebhook(url string) *Webhook {
	return &Webhook{
		hc:  &http.Client{Timeout: 10 * time.Second},
		url: url,
	}
}

func (w *Webhook) Send(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		var r struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(b, &r)
		if r.Message != "" {
			return fmt.Errorf("notification endpoint: %s (status=%d)", r.Message, resp.StatusCode)
		}
		return fmt.Errorf("notification endpoint status=%d", resp.StatusCode)
	}
	return nil
}
