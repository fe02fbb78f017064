// Package platform implements the outbound gateway to the external commerce
// platform that originates imported orders. Every call is best effort: the
// order pipeline never depends on the platform being reachable.
package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"codorders/internal/core/domain/model/kernel"

	"go.uber.org/zap"
)

const defaultRequestTimeout = 5 * time.Second

// HTTPGateway talks to the commerce platform's REST API.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPGateway creates a platform gateway rooted at baseURL.
// The API key is sent as a bearer token on every request.
func NewHTTPGateway(baseURL, apiKey string, logger *zap.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultRequestTimeout},
		logger:  logger,
	}
}

// HasActiveIntegration reports whether the tenant has a live platform
// connection. Any transport failure reads as "no integration": the caller
// skips the sync rather than failing the order operation.
func (g *HTTPGateway) HasActiveIntegration(ctx context.Context, tenantID kernel.UUID) bool {
	endpoint := fmt.Sprintf("%s/v1/integrations/%s", g.baseURL, url.PathEscape(tenantID.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		g.logger.Warn("failed to build integration check request", zap.Error(err))
		return false
	}
	g.authorize(req)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("platform integration check failed",
			zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	return resp.StatusCode == http.StatusOK
}

// CancelOrder tells the platform a previously imported order was cancelled
// or rejected on our side.
func (g *HTTPGateway) CancelOrder(ctx context.Context, externalRef string) error {
	endpoint := fmt.Sprintf("%s/v1/orders/%s/cancel", g.baseURL, url.PathEscape(externalRef))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}
	g.authorize(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("platform cancel for %q returned status %d", externalRef, resp.StatusCode)
	}

	return nil
}

func (g *HTTPGateway) authorize(req *http.Request) {
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}
}
