// Package httpclient provides HTTP request capabilities over a shared
// net/http client.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vk/capscope/internal/ctxlog"
	"github.com/vk/capscope/internal/facade"
	"github.com/vk/capscope/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// newSharedClient builds the client shared by every capability of one
// mounted implementation, with pooling configured for repeated calls.
func newSharedClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// New builds the httpclient implementation around client.
func New(client *http.Client) facade.Impl {
	return facade.Impl{
		"get": func(ctx context.Context, url string) (string, error) {
			logger := ctxlog.FromContext(ctx).With("url", url)
			logger.Debug("HTTP GET started.")

			resp, err := doGet(ctx, client, url)
			if err != nil {
				return "", err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return "", fmt.Errorf("failed to read response body from %s: %w", url, err)
			}
			if resp.StatusCode >= 400 {
				return "", fmt.Errorf("GET %s returned status %d", url, resp.StatusCode)
			}
			logger.Debug("HTTP GET finished.", "status", resp.StatusCode, "bytes", len(body))
			return string(body), nil
		},
		"status": func(ctx context.Context, url string) (float64, error) {
			resp, err := doGet(ctx, client, url)
			if err != nil {
				return 0, err
			}
			defer resp.Body.Close()
			io.Copy(io.Discard, resp.Body)
			return float64(resp.StatusCode), nil
		},
	}
}

func doGet(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	return client.Do(req)
}

// Register registers the implementation with the application registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterImpl("httpclient", &registry.RegisteredImpl{
		New:         func() any { return New(newSharedClient(30 * time.Second)) },
		Description: "Makes HTTP GET requests over a pooled client.",
	})
}
