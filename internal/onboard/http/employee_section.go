package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/talentwire/onboard/internal/onboard/domain"
	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/pkg/httpx"
	"github.com/talentwire/onboard/pkg/onboardapi"
	"github.com/talentwire/onboard/pkg/slogx"
)

type EmployeeSectionHandler struct {
	MasterService *service.MasterService
}

// ServeHTTP godoc
//
//	@Summary		Correct Employee Section
//	@Description	Apply an HR correction to one section of the merged record. The record drops back to draft status and any prior submission timestamp is cleared.
//	@Tags			Employees
//	@Accept			json
//	@Produce		json
//	@Param			draftId	path		string						true	"Draft identifier"
//	@Param			section	path		string						true	"Section name"	Enums(personal, pf, academic, experience, family, declaration)
//	@Param			request	body		onboardapi.SectionPayload	true	"Section fields"
//	@Success		204		"section updated"
//	@Failure		400		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/employees/{draftId}/sections/{section} [put].
func (h *EmployeeSectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	section, err := domain.ParseSection(r.PathValue("section"))
	if err != nil {
		writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Unknown section")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxSectionBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Failed to read body")
		return
	}

	if err := h.MasterService.UpdateSection(ctx, r.PathValue("draftId"), section, payload); err != nil {
		if ve, ok := validationErrorOf(err); ok {
			writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, ve.Error())
			return
		}
		switch {
		case errors.Is(err, service.ErrSectionNotAllowed):
			writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Use the office-use endpoint for this section")
		case errors.Is(err, domain.ErrUnknownSection):
			writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Unknown section")
		default:
			log.Error("failed to update employee section", "err", err)
			writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to update section")
		}
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
