package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/pratik-mahalle/mxcloud/internal/pkg/errors"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/utils"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db       *sql.DB
	lastSync func() (time.Time, bool)
	logger   *logger.Logger
}

// NewHealthHandler creates a new health handler. lastSync reports the last
// completed full refresh and may be nil.
func NewHealthHandler(db *sql.DB, lastSync func() (time.Time, bool), log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:       db,
		lastSync: lastSync,
		logger:   log,
	}
}

// Healthz handles liveness probe
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Application is alive"
// @Router /health [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{"status": "ok"}
	if h.lastSync != nil {
		if ts, ok := h.lastSync(); ok {
			body["last_refresh"] = ts.UTC().Format(time.RFC3339)
		}
	}
	utils.WriteSuccess(w, http.StatusOK, body)
}

// Readyz handles readiness probe
// @Summary Readiness probe
// @Description Check if the database is reachable
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Application is ready"
// @Failure 503 {object} utils.ErrorResponse "Service unavailable"
// @Router /readyz [get]
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.ErrorWithErr(err, "Database ping failed")
		utils.WriteError(w, errors.ServiceUnavailable("Database connection failed"))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"database": "connected",
	})
}
