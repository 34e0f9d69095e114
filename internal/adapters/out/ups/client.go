// Package ups implements ports.CarrierClient against the UPS REST APIs:
// OAuth client-credentials auth, Rating, Shipping, Void, Address Validation
// and Paperless Documents, plus the i-parcel pre-registration endpoint.
package ups

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
)

const (
	defaultTimeout        = 45 * time.Second
	defaultTransactionSrc = "shipping-service"
	defaultTokenTTL       = 3480 * time.Second

	// tokenTTLMargin is subtracted from the provider's expires_in so a
	// cached token is never presented moments before it expires.
	tokenTTLMargin = 120 * time.Second
	minTokenTTL    = 60 * time.Second

	// rawErrorLimit bounds how much of an unparseable error body is kept.
	rawErrorLimit = 300
)

// Config carries the credentials and endpoints for the carrier APIs.
// ClientID, ClientSecret, AccountNumber and the auth/rate/ship endpoints are
// mandatory; the remaining endpoints are checked when the corresponding
// operation is called.
type Config struct {
	ClientID      string
	ClientSecret  string
	AccountNumber string

	AuthEndpoint            string
	RateEndpoint            string
	ShipEndpoint            string
	VoidEndpoint            string
	AddressValidateEndpoint string
	PaperlessUploadEndpoint string
	PaperlessImageEndpoint  string
	PreRegisterEndpoint     string

	// TransactionSrc is sent in the transactionSrc header on every call.
	TransactionSrc string

	// LabelFormat is the requested label image format, GIF by default.
	LabelFormat string

	Timeout time.Duration
	Debug   bool
}

// Client talks to the carrier's HTTP APIs. Safe for concurrent use: all
// state is immutable after construction and the token cache handles its own
// synchronization.
type Client struct {
	cfg    Config
	http   *http.Client
	tokens ports.TokenCache
	logger *zap.Logger
}

// NewClient creates a carrier client. Missing mandatory credentials or
// endpoints fail fast with a ConfigError before any I/O happens.
func NewClient(cfg Config, tokens ports.TokenCache, logger *zap.Logger) (*Client, error) {
	switch {
	case cfg.ClientID == "":
		return nil, errs.NewConfigError("clientID")
	case cfg.ClientSecret == "":
		return nil, errs.NewConfigError("clientSecret")
	case cfg.AccountNumber == "":
		return nil, errs.NewConfigError("accountNumber")
	case cfg.AuthEndpoint == "":
		return nil, errs.NewConfigError("authEndpoint")
	case cfg.RateEndpoint == "":
		return nil, errs.NewConfigError("rateEndpoint")
	case cfg.ShipEndpoint == "":
		return nil, errs.NewConfigError("shipEndpoint")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.TransactionSrc == "" {
		cfg.TransactionSrc = defaultTransactionSrc
	}
	if cfg.LabelFormat == "" {
		cfg.LabelFormat = "GIF"
	}

	return &Client{
		cfg:    cfg,
		http:   &http.Client{},
		tokens: tokens,
		logger: logger.With(zap.String("component", "ups_client")),
	}, nil
}

var _ ports.CarrierClient = (*Client)(nil)

func (c *Client) tokenCacheKey() string {
	return "ups:token:" + c.cfg.ClientID
}

// token returns a cached access token or fetches a fresh one. The cached TTL
// is expires_in minus a safety margin, floored at one minute; responses
// without expires_in get the documented default lifetime.
func (c *Client) token(ctx context.Context) (string, error) {
	if cached, ok, err := c.tokens.Get(ctx, c.tokenCacheKey()); err != nil {
		c.logger.Warn("token cache read failed, fetching fresh token", zap.Error(err))
	} else if ok {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body := strings.NewReader(url.Values{"grant_type": {"client_credentials"}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthEndpoint, body)
	if err != nil {
		return "", errs.NewProviderErrorWithCause("auth", err)
	}

	basic := base64.StdEncoding.EncodeToString([]byte(c.cfg.ClientID + ":" + c.cfg.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("x-merchant-id", c.cfg.ClientID)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errs.NewProviderErrorWithCause("auth", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.NewProviderErrorWithCause("auth", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.unwrapAuthError(resp.StatusCode, raw)
	}

	var auth authResponse
	if err = json.Unmarshal(raw, &auth); err != nil || auth.AccessToken == "" {
		return "", errs.NewProviderError("auth", resp.StatusCode, "", "response carried no access token")
	}

	ttl := auth.ttl()
	if err = c.tokens.Set(ctx, c.tokenCacheKey(), auth.AccessToken, ttl); err != nil {
		c.logger.Warn("token cache write failed", zap.Error(err))
	}

	if c.cfg.Debug {
		c.logger.Debug("obtained fresh access token", zap.Duration("ttl", ttl))
	}
	return auth.AccessToken, nil
}

func (c *Client) unwrapAuthError(status int, raw []byte) error {
	var body struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.Unmarshal(raw, &body)

	description := body.ErrorDescription
	if description == "" {
		description = body.Error
	}
	if description == "" {
		description = truncate(string(raw), rawErrorLimit)
	}
	return errs.NewProviderError("auth", status, body.Error, description)
}

// doRequest performs one authenticated JSON call. Every request carries a
// fresh transId correlation header. Non-2xx responses are unwrapped into a
// ProviderError through the two carrier error envelope shapes, with the
// truncated raw body as the fallback.
func (c *Client) doRequest(
	ctx context.Context,
	operation, method, endpoint string,
	payload any,
	extraHeaders map[string]string,
) ([]byte, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		encoded, encErr := json.Marshal(payload)
		if encErr != nil {
			return nil, errs.NewProviderErrorWithCause(operation, encErr)
		}
		body = bytes.NewReader(encoded)
		if c.cfg.Debug {
			c.logger.Debug("carrier request",
				zap.String("operation", operation),
				zap.String("url", endpoint),
				zap.ByteString("body", encoded))
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errs.NewProviderErrorWithCause(operation, err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("transId", uuid.NewString())
	req.Header.Set("transactionSrc", c.cfg.TransactionSrc)
	for name, value := range extraHeaders {
		req.Header.Set(name, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.NewProviderErrorWithCause(operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.NewProviderErrorWithCause(operation, err)
	}

	if c.cfg.Debug {
		c.logger.Debug("carrier response",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, unwrapProviderError(operation, resp.StatusCode, raw)
	}

	return raw, nil
}

// unwrapProviderError extracts the carrier's error code and description from
// either error envelope shape the APIs use, falling back to the truncated
// raw body.
func unwrapProviderError(operation string, status int, raw []byte) *errs.ProviderError {
	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if code, description, ok := envelope.primaryError(); ok {
			return errs.NewProviderError(operation, status, code, description)
		}
		if envelope.Message != "" {
			return errs.NewProviderError(operation, status, "", envelope.Message)
		}
	}
	return errs.NewProviderError(operation, status, "", truncate(string(raw), rawErrorLimit))
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func parseAmount(operation, value string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, errs.NewProviderError(operation, http.StatusOK, "",
			fmt.Sprintf("unparseable monetary value %q", value))
	}
	return amount, nil
}
