package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pratik-mahalle/mxcloud/internal/api/dto"
	"github.com/pratik-mahalle/mxcloud/internal/domain/alert"
	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/utils"
	"github.com/pratik-mahalle/mxcloud/internal/services"
)

// DataProvider is the refresh and read side of the account data orchestrator
type DataProvider interface {
	RefreshAll(ctx context.Context) (*services.RefreshReport, error)
	RefreshAccount(ctx context.Context, id string) (*snapshot.Balance, error)
	RefreshRegionCache(ctx context.Context, accountID string) (*services.RefreshReport, error)
	Snapshot(ctx context.Context, id string) (*snapshot.Snapshot, error)
	Dashboard(ctx context.Context) (*services.Dashboard, error)
}

type DataHandler struct {
	data        DataProvider
	alerts      alert.Service
	checkAlerts bool
	logger      *logger.Logger
}

// NewDataHandler creates a data handler. When checkAlerts is set a full
// refresh is followed by an alert check.
func NewDataHandler(data DataProvider, alerts alert.Service, checkAlerts bool, log *logger.Logger) *DataHandler {
	return &DataHandler{data: data, alerts: alerts, checkAlerts: checkAlerts, logger: log}
}

// RefreshAll refreshes every enabled account
// @Summary Full refresh
// @Tags Data
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.RefreshResponse}
// @Security BearerAuth
// @Router /refresh [post]
func (h *DataHandler) RefreshAll(w http.ResponseWriter, r *http.Request) {
	report, err := h.data.RefreshAll(r.Context())
	if err != nil {
		utils.WriteErr(w, err, "Refresh failed")
		return
	}

	resp := dto.RefreshResponse{Report: report}
	if h.checkAlerts && h.alerts != nil {
		fired, err := h.alerts.Check(r.Context())
		if err != nil {
			h.logger.ErrorWithErr(err, "Alert check after refresh failed")
		}
		resp.Triggered = len(fired)
	}

	utils.WriteSuccess(w, http.StatusOK, resp)
}

// RefreshAccount re-reads one account's balance
// @Summary Balance refresh
// @Tags Data
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} utils.SuccessResponse{data=snapshot.Balance}
// @Failure 502 {object} utils.ErrorResponse "Provider error"
// @Security BearerAuth
// @Router /accounts/{id}/refresh [post]
func (h *DataHandler) RefreshAccount(w http.ResponseWriter, r *http.Request) {
	bal, err := h.data.RefreshAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteErr(w, err, "Balance refresh failed")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, bal)
}

// RefreshRegions re-resolves regions and rebuilds the partition cache
// @Summary Region cache refresh
// @Tags Data
// @Produce json
// @Param account query string false "Limit to one account"
// @Success 200 {object} utils.SuccessResponse{data=services.RefreshReport}
// @Security BearerAuth
// @Router /regions/refresh [post]
func (h *DataHandler) RefreshRegions(w http.ResponseWriter, r *http.Request) {
	report, err := h.data.RefreshRegionCache(r.Context(), r.URL.Query().Get("account"))
	if err != nil {
		utils.WriteErr(w, err, "Region refresh failed")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, report)
}

// Snapshot returns the latest snapshot of an account
// @Summary Account snapshot
// @Tags Data
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} utils.SuccessResponse{data=snapshot.Snapshot}
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id}/snapshot [get]
func (h *DataHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.data.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteErr(w, err, "Failed to get snapshot")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, snap)
}

// Dashboard returns the aggregated view
// @Summary Dashboard
// @Tags Data
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.DashboardDTO}
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DataHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.data.Dashboard(r.Context())
	if err != nil {
		utils.WriteErr(w, err, "Failed to build dashboard")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromDashboard(d))
}
