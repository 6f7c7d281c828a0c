package ucloud

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/pratik-mahalle/mxcloud/internal/domain/account"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultEndpoint  = "https://api.ucloud.cn/"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "mxcloud/1.0"

	// maxBodySize caps how much of a response is read
	maxBodySize = 16 << 20
)

// Config contains client configuration
type Config struct {
	Endpoint string
	Timeout  time.Duration
	// ProxyURL, when set, sends every call as GET {ProxyURL}?url={Endpoint}&<params>
	ProxyURL   string
	UserAgent  string
	HTTPClient *http.Client
}

// Client performs signed GET calls against the provider API
type Client struct {
	endpoint   string
	proxyURL   string
	userAgent  string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new API client
func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		proxyURL:   cfg.ProxyURL,
		userAgent:  cfg.UserAgent,
		httpClient: httpClient,
		logger:     log.Component("ucloud"),
	}
}

// CloseIdleConnections releases pooled connections
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// BuildQuery adds Action and PublicKey to params, signs them and returns the query values.
func BuildQuery(creds account.Credentials, action string, params Params) (url.Values, error) {
	all := make(Params, len(params)+2)
	for k, v := range params {
		all[k] = v
	}
	all["Action"] = action
	all["PublicKey"] = creds.PublicKey
	delete(all, SignatureParam)

	sig, err := Sign(all, creds.PrivateKey)
	if err != nil {
		return nil, err
	}

	q := make(url.Values, len(all)+1)
	for k, v := range all {
		s, err := CanonicalValue(v)
		if err != nil {
			return nil, &SignError{Param: k, Reason: err.Error()}
		}
		q.Set(k, s)
	}
	q.Set(SignatureParam, sig)
	return q, nil
}

func (c *Client) requestURL(q url.Values) string {
	if c.proxyURL != "" {
		q.Set("url", c.endpoint)
		return c.proxyURL + "?" + q.Encode()
	}
	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	return c.endpoint + sep + q.Encode()
}

// call signs and sends one action and decodes the reply into out.
// A non-zero RetCode is returned as *APIError.
func (c *Client) call(ctx context.Context, creds account.Credentials, action string, params Params, out response) (err error) {
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
			if IsAPIError(err, -1) {
				status = "api_error"
			}
		}
		metrics.RecordProviderCall(action, status)
	}()

	q, err := BuildQuery(creds, action, params)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(q), nil)
	if err != nil {
		return fmt.Errorf("ucloud %s: build request: %w", action, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ucloud %s: %w", action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("ucloud %s: read body: %w", action, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ucloud %s: unexpected status %d", action, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("ucloud %s: decode response: %w", action, err)
	}

	h := out.header()
	if h.RetCode != 0 {
		return &APIError{Action: action, RetCode: h.RetCode, Message: h.Message}
	}
	if h.Action != "" && h.Action != action && h.Action != action+"Response" {
		return fmt.Errorf("ucloud %s: response is for action %q", action, h.Action)
	}
	if err := out.validate(); err != nil {
		return fmt.Errorf("ucloud %s: invalid response: %w", action, err)
	}
	return nil
}
