package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/metrics"

	"go.uber.org/zap"
)

// TokenHeader carries the session token on authenticated requests.
const TokenHeader = "token"

var ErrMissingBaseURL = errors.New("api base url is required")

type Config struct {
	BaseURL string
	// Timeout of zero means no timeout.
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrMissingBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{baseURL: base, httpClient: hc}, nil
}

// Request describes one call. Path is relative to the base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Token  string
	Body   any
}

// Do sends req and decodes a 2xx JSON body into out (when out is non-nil).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "api"),
		zap.String("method", req.Method),
		zap.String("path", req.Path),
	)
	timer := metrics.StartTimer()
	metrics.RemoteCalls.Inc()

	err := c.do(ctx, req, out, log)
	if err != nil {
		metrics.RemoteFailures.Inc()
		return err
	}
	log.Debug("remote call finished", zap.Duration("duration", timer.Duration()))
	return nil
}

func (c *Client) do(ctx context.Context, req Request, out any, log *zap.Logger) error {
	endpoint := c.baseURL + "/" + strings.TrimPrefix(req.Path, "/")
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		jsonBody, err := json.Marshal(req.Body)
		if err != nil {
			log.Error("Failed to marshal request", zap.Error(err))
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		log.Error("Failed creating request", zap.Error(err))
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set(TokenHeader, req.Token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error("Remote request failed", zap.Error(err))
		return fmt.Errorf("remote request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return fmt.Errorf("failed to read remote response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode, Message: remoteMessage(bodyBytes)}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		log.Warn("Remote returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return apiErr
	}

	if out == nil || len(bodyBytes) == 0 {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		log.Error("Failed decoding response", zap.Error(err))
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func remoteMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
