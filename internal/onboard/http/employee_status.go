package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/talentwire/onboard/internal/onboard/domain"
	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/pkg/httpx"
	"github.com/talentwire/onboard/pkg/onboardapi"
	"github.com/talentwire/onboard/pkg/slogx"
)

type EmployeeStatusHandler struct {
	MasterService *service.MasterService
}

// ServeHTTP godoc
//
//	@Summary		Advance Employee Status
//	@Description	Move the record one step along the workflow (draft, submitted, verified, approved). Skipping steps or moving backwards is rejected.
//	@Tags			Employees
//	@Accept			json
//	@Produce		json
//	@Param			draftId	path		string							true	"Draft identifier"
//	@Param			request	body		onboardapi.StatusUpdateRequest	true	"Target status"
//	@Success		204		"status advanced"
//	@Failure		400		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/employees/{draftId}/status [post].
func (h *EmployeeStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req onboardapi.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Unknown status")
		return
	}

	if err := h.MasterService.AdvanceStatus(ctx, r.PathValue("draftId"), status, adminIDFromCtx(r)); err != nil {
		switch {
		case errors.Is(err, service.ErrEmployeeNotFound):
			writeError(w, http.StatusNotFound, onboardapi.ErrorCodeNotFound, "Employee record not found")
		case errors.Is(err, service.ErrInvalidTransition):
			writeError(w, http.StatusConflict, onboardapi.ErrorCodeConflict, err.Error())
		default:
			log.Error("failed to advance status", "err", err)
			writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to advance status")
		}
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
