package http

import (
	"io"
	"net/http"

	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/pkg/httpx"
	"github.com/talentwire/onboard/pkg/onboardapi"
	"github.com/talentwire/onboard/pkg/slogx"
)

type EmployeeOfficeHandler struct {
	MasterService *service.MasterService
}

// ServeHTTP godoc
//
//	@Summary		Apply Office Use Section
//	@Description	Write the HR-only office use section (employee ID, designation, joining date). The record advances to submitted and the acting admin is stamped as approver.
//	@Tags			Employees
//	@Accept			json
//	@Produce		json
//	@Param			draftId	path		string						true	"Draft identifier"
//	@Param			request	body		onboardapi.SectionPayload	true	"Office use fields"
//	@Success		204		"section applied"
//	@Failure		400		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/employees/{draftId}/office-use [put].
func (h *EmployeeOfficeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxSectionBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Failed to read body")
		return
	}

	if err := h.MasterService.ApplyOfficeUse(ctx, r.PathValue("draftId"), payload, adminIDFromCtx(r)); err != nil {
		if ve, ok := validationErrorOf(err); ok {
			writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, ve.Error())
			return
		}
		log.Error("failed to apply office use section", "err", err)
		writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to apply office use section")
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
