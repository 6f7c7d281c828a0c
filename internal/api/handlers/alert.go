package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pratik-mahalle/mxcloud/internal/api/dto"
	"github.com/pratik-mahalle/mxcloud/internal/domain/alert"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/utils"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/validator"
)

type AlertHandler struct {
	service   alert.Service
	logger    *logger.Logger
	validator *validator.Validator
}

func NewAlertHandler(service alert.Service, log *logger.Logger, val *validator.Validator) *AlertHandler {
	return &AlertHandler{service: service, logger: log, validator: val}
}

// ListRules returns every alert rule
// @Summary List alert rules
// @Tags Alerts
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]alert.Rule}
// @Security BearerAuth
// @Router /alerts/rules [get]
func (h *AlertHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.service.ListRules(r.Context())
	if err != nil {
		utils.WriteErr(w, err, "Failed to list alert rules")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, rules)
}

// CreateRule adds an alert rule
// @Summary Create alert rule
// @Tags Alerts
// @Accept json
// @Produce json
// @Param request body alert.RuleInput true "Rule"
// @Success 201 {object} utils.SuccessResponse{data=alert.Rule}
// @Failure 400 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /alerts/rules [post]
func (h *AlertHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var in alert.RuleInput
	if !decodeJSON(w, r, h.validator, &in) {
		return
	}

	rule, err := h.service.CreateRule(r.Context(), in)
	if err != nil {
		utils.WriteErr(w, err, "Failed to create alert rule")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, rule)
}

// UpdateRule replaces an alert rule
// @Summary Update alert rule
// @Tags Alerts
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param request body alert.RuleInput true "Rule"
// @Success 200 {object} utils.SuccessResponse{data=alert.Rule}
// @Security BearerAuth
// @Router /alerts/rules/{id} [put]
func (h *AlertHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	var in alert.RuleInput
	if !decodeJSON(w, r, h.validator, &in) {
		return
	}

	rule, err := h.service.UpdateRule(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		utils.WriteErr(w, err, "Failed to update alert rule")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, rule)
}

// DeleteRule removes an alert rule
// @Summary Delete alert rule
// @Tags Alerts
// @Param id path string true "Rule ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /alerts/rules/{id} [delete]
func (h *AlertHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteRule(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteErr(w, err, "Failed to delete alert rule")
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Alert rule deleted", nil)
}

// Check evaluates the rules now
// @Summary Check alerts
// @Tags Alerts
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.CheckResultDTO}
// @Security BearerAuth
// @Router /alerts/check [post]
func (h *AlertHandler) Check(w http.ResponseWriter, r *http.Request) {
	fired, err := h.service.Check(r.Context())
	if err != nil {
		utils.WriteErr(w, err, "Alert check failed")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.CheckResultDTO{Triggered: len(fired), Notifications: fired})
}

// ListNotifications returns notifications newest first
// @Summary List notifications
// @Tags Alerts
// @Produce json
// @Param unread query bool false "Only unread"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} utils.SuccessResponse{data=dto.NotificationListDTO}
// @Security BearerAuth
// @Router /alerts/notifications [get]
func (h *AlertHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePage(r)

	items, total, err := h.service.ListNotifications(r.Context(), queryBool(r, "unread"), p.Size, p.Offset)
	if err != nil {
		utils.WriteErr(w, err, "Failed to list notifications")
		return
	}
	unread, err := h.service.UnreadCount(r.Context())
	if err != nil {
		utils.WriteErr(w, err, "Failed to count notifications")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.NotificationListDTO{
		PageMeta:      p.Meta(total),
		Notifications: items,
		Unread:        unread,
	})
}

// MarkRead marks one notification read
// @Summary Mark notification read
// @Tags Alerts
// @Param id path string true "Notification ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /alerts/notifications/{id}/read [post]
func (h *AlertHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteErr(w, err, "Failed to mark notification read")
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Notification marked read", nil)
}

// MarkAllRead marks every notification read
// @Summary Mark all notifications read
// @Tags Alerts
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /alerts/notifications/read-all [post]
func (h *AlertHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkAllRead(r.Context()); err != nil {
		utils.WriteErr(w, err, "Failed to mark notifications read")
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "All notifications marked read", nil)
}

// DeleteNotification removes one notification
// @Summary Delete notification
// @Tags Alerts
// @Param id path string true "Notification ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /alerts/notifications/{id} [delete]
func (h *AlertHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteNotification(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteErr(w, err, "Failed to delete notification")
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Notification deleted", nil)
}
