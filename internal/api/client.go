package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/sowlstudios/admin-console/internal/errors"
)

// SessionState is the slice of the session store the gateway needs: the
// current token read at call time, and teardown on auth rejection.
type SessionState interface {
	Token() string
	Clear()
}

// Client is the single chokepoint for every outbound request the console
// makes, against both the booking API and the actuator base.
type Client struct {
	baseURL     string
	actuatorURL string
	httpClient  *http.Client
	session     SessionState
	onExpire    func()
}

func NewClient(baseURL, actuatorURL string, timeout time.Duration, session SessionState) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		actuatorURL: strings.TrimRight(actuatorURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		session: session,
	}
}

// OnSessionExpired registers the hook fired after a 401 tears the session
// down. The console uses it to route back to login.
func (c *Client) OnSessionExpired(fn func()) {
	c.onExpire = fn
}

// Request performs an API call relative to the booking API base. A non-nil
// out receives the decoded JSON response body.
func (c *Client) Request(ctx context.Context, method, endpoint string, body any, out any) error {
	return c.do(ctx, method, c.baseURL+endpoint, body, out)
}

// Actuator performs a GET relative to the actuator base. Same chokepoint
// semantics as Request: auth header, 401 teardown, error normalization.
func (c *Client) Actuator(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, c.actuatorURL+endpoint, nil, out)
}

func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.Request(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body any, out any) error {
	return c.Request(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body any, out any) error {
	return c.Request(ctx, http.MethodPut, endpoint, body, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string) error {
	return c.Request(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (c *Client) do(ctx context.Context, method, url string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.Internal("failed to encode request body").WithCause(err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return apperrors.Internal("failed to create request").WithCause(err)
	}

	req.Header.Set("Content-Type", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	// The token is read at call time, never from a stale copy.
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		// Transport failures never take the 401 teardown path.
		log.Error().
			Err(err).
			Str("requestId", requestID).
			Str("method", method).
			Str("url", url).
			Dur("elapsed", elapsed).
			Msg("api request failed")
		return apperrors.Transport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		log.Warn().
			Str("requestId", requestID).
			Str("method", method).
			Str("url", url).
			Msg("api request unauthorized, clearing session")
		c.session.Clear()
		if c.onExpire != nil {
			c.onExpire()
		}
		return apperrors.SessionExpired()
	}

	var raw json.RawMessage
	decodeErr := json.NewDecoder(resp.Body).Decode(&raw)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := ""
		if decodeErr == nil {
			var errBody struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(raw, &errBody) == nil {
				message = errBody.Message
			}
		}
		log.Error().
			Str("requestId", requestID).
			Str("method", method).
			Str("url", url).
			Int("status", resp.StatusCode).
			Dur("elapsed", elapsed).
			Msg("api request returned error status")
		return apperrors.Upstream(resp.StatusCode, message)
	}

	log.Debug().
		Str("requestId", requestID).
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("api request completed")

	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return apperrors.Internal(fmt.Sprintf("failed to decode response from %s", url)).WithCause(decodeErr)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Internal(fmt.Sprintf("unexpected response shape from %s", url)).WithCause(err)
	}

	return nil
}
