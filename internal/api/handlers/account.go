package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pratik-mahalle/mxcloud/internal/api/dto"
	"github.com/pratik-mahalle/mxcloud/internal/domain/account"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/utils"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/validator"
)

type AccountHandler struct {
	service   account.Service
	logger    *logger.Logger
	validator *validator.Validator
}

func NewAccountHandler(service account.Service, log *logger.Logger, val *validator.Validator) *AccountHandler {
	return &AccountHandler{service: service, logger: log, validator: val}
}

// List returns every account
// @Summary List accounts
// @Tags Accounts
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]dto.AccountDTO}
// @Security BearerAuth
// @Router /accounts [get]
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context())
	if err != nil {
		utils.WriteErr(w, err, "Failed to list accounts")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromAccounts(accounts))
}

// Create adds an account. With ?validate=true the credentials are checked first.
// @Summary Create account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param validate query bool false "Check credentials against the provider"
// @Param request body account.CreateInput true "Account"
// @Success 201 {object} utils.SuccessResponse{data=dto.AccountDTO}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse "Credentials rejected"
// @Failure 423 {object} utils.ErrorResponse "Session locked"
// @Security BearerAuth
// @Router /accounts [post]
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in account.CreateInput
	if !decodeJSON(w, r, h.validator, &in) {
		return
	}

	acc, err := h.service.Create(r.Context(), in, queryBool(r, "validate"))
	if err != nil {
		utils.WriteErr(w, err, "Failed to create account")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, dto.FromAccount(acc))
}

// Get returns one account
// @Summary Get account
// @Tags Accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.AccountDTO}
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	acc, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteErr(w, err, "Failed to get account")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromAccount(acc))
}

// Update changes an account; omitted fields are kept
// @Summary Update account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param validate query bool false "Check new credentials against the provider"
// @Param request body account.UpdateInput true "Changes"
// @Success 200 {object} utils.SuccessResponse{data=dto.AccountDTO}
// @Security BearerAuth
// @Router /accounts/{id} [put]
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in account.UpdateInput
	if !decodeJSON(w, r, h.validator, &in) {
		return
	}

	acc, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), in, queryBool(r, "validate"))
	if err != nil {
		utils.WriteErr(w, err, "Failed to update account")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromAccount(acc))
}

// Delete removes an account with its cached data and rules
// @Summary Delete account
// @Tags Accounts
// @Param id path string true "Account ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteErr(w, err, "Failed to delete account")
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Account deleted", nil)
}

// Enable includes the account in refreshes
// @Summary Enable account
// @Tags Accounts
// @Param id path string true "Account ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.AccountDTO}
// @Security BearerAuth
// @Router /accounts/{id}/enable [post]
func (h *AccountHandler) Enable(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, true)
}

// Disable excludes the account from refreshes
// @Summary Disable account
// @Tags Accounts
// @Param id path string true "Account ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.AccountDTO}
// @Security BearerAuth
// @Router /accounts/{id}/disable [post]
func (h *AccountHandler) Disable(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, false)
}

func (h *AccountHandler) setEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	acc, err := h.service.SetEnabled(r.Context(), chi.URLParam(r, "id"), enabled)
	if err != nil {
		utils.WriteErr(w, err, "Failed to update account")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromAccount(acc))
}
