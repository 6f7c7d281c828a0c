package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pratik-mahalle/mxcloud/internal/pkg/errors"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/utils"
)

const maxProxyBody = 8 << 20

// ProxyHandler relays signed provider calls for browsers that cannot reach
// the provider directly: GET /api/proxy?url={endpoint}&<signed params>.
// Only hosts in the allowlist are reachable.
type ProxyHandler struct {
	client  *http.Client
	allowed map[string]bool
	logger  *logger.Logger
}

// NewProxyHandler creates a relay limited to the hosts of the given endpoints
func NewProxyHandler(endpoints []string, timeout time.Duration, log *logger.Logger) *ProxyHandler {
	allowed := make(map[string]bool, len(endpoints))
	for _, e := range endpoints {
		if u, err := url.Parse(e); err == nil && u.Host != "" {
			allowed[strings.ToLower(u.Host)] = true
		}
	}
	return &ProxyHandler{
		client:  &http.Client{Timeout: timeout},
		allowed: allowed,
		logger:  log.Component("proxy"),
	}
}

// Relay forwards the query to the target and mirrors its JSON reply
// @Summary CORS relay
// @Tags Proxy
// @Produce json
// @Param url query string true "Provider endpoint"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /proxy [get]
func (h *ProxyHandler) Relay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target, err := url.Parse(q.Get("url"))
	if err != nil || target.Host == "" || (target.Scheme != "https" && target.Scheme != "http") {
		utils.WriteError(w, errors.BadRequest("Missing or invalid url parameter"))
		return
	}
	if !h.allowed[strings.ToLower(target.Host)] {
		utils.WriteError(w, errors.Forbidden("Target host is not allowed"))
		return
	}

	q.Del("url")
	target.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid target"))
		return
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.With("host", target.Host).WithError(err).Warn("Relay request failed")
		utils.WriteError(w, errors.New(errors.ErrCodeProviderAPI, "Upstream request failed", http.StatusBadGateway))
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProxyBody))
	if err != nil || !json.Valid(body) {
		h.logger.With("host", target.Host).With("status", resp.StatusCode).Warn("Relay got a non-JSON reply")
		utils.WriteError(w, errors.New(errors.ErrCodeProviderAPI, "Upstream returned an invalid response", http.StatusBadGateway))
		return
	}

	utils.WriteRawJSON(w, resp.StatusCode, body)
}
