// Package geoip implements the location providers.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bnema/geobadge/internal/application/port"
	"github.com/bnema/geobadge/internal/logging"
)

const maxResponseSize = 64 * 1024

// Options configures the network providers.
type Options struct {
	// Timeout bounds each request; zero means no timeout.
	Timeout   time.Duration
	IPAPIURL  string
	IPSBURL   string
	FakeDelay time.Duration
	UserAgent string
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// getJSON performs a GET and decodes the JSON body into v.
// Every failure is wrapped with port.ErrProvider.
func getJSON(ctx context.Context, client *http.Client, url, userAgent string, v any) error {
	log := logging.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: create request: %w", port.ErrProvider, err)
	}
	req.Header.Set("Accept", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", port.ErrProvider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("provider responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned status %d", port.ErrProvider, url, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(v); err != nil {
		return fmt.Errorf("%w: decode response: %w", port.ErrProvider, err)
	}
	return nil
}
