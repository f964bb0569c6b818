package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Config struct {
	URL        string
	AccountID  string
	AuthToken  string
	FromNumber string
}

// GatewayProvider posts messages to an HTTP SMS gateway using basic auth.
type GatewayProvider struct {
	cfg    Config
	client *http.Client
}

func NewGateway(cfg Config) *GatewayProvider {
	return &GatewayProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *GatewayProvider) Name() string { return "gateway" }

func (p *GatewayProvider) Send(ctx context.Context, to string, body string) error {
	payload, err := json.Marshal(map[string]string{
		"from": p.cfg.FromNumber,
		"to":   to,
		"body": body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(p.cfg.AccountID, p.cfg.AuthToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned %d", resp.StatusCode)
	}
	return nil
}
