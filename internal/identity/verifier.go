package identity

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/PorePranav/CloudCart/internal/auth/models"
)

// Verifier calls the auth service's verify endpoint. The timeout bounds how
// long a protected request can stall on the auth service; on timeout the
// request is rejected, never let through.
type Verifier struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewVerifier builds a verifier against the given verify endpoint URL.
func NewVerifier(endpoint string, timeout time.Duration, logger *slog.Logger) *Verifier {
	return &Verifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type verifyResponse struct {
	Status string               `json:"status"`
	Data   *models.UserResponse `json:"data"`
}

// Verify resolves a token to its user via the auth service. Every failure
// mode returns ErrUnauthenticated; the cause is logged, not propagated, so
// downstream handlers cannot accidentally fail open.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*models.UserResponse, error) {
	u, err := url.Parse(v.endpoint)
	if err != nil {
		v.logger.ErrorContext(ctx, "bad verify endpoint", "endpoint", v.endpoint, "error", err)
		return nil, ErrUnauthenticated
	}
	q := u.Query()
	q.Set("token", tokenString)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.WarnContext(ctx, "verify call failed", "error", err)
		return nil, ErrUnauthenticated
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrUnauthenticated
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		v.logger.WarnContext(ctx, "verify response unreadable", "error", err)
		return nil, ErrUnauthenticated
	}
	if body.Status != "success" || body.Data == nil {
		return nil, ErrUnauthenticated
	}
	return body.Data, nil
}
