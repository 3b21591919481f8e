package http

import (
	"errors"
	"net/http"

	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/pkg/onboardapi"
	"github.com/talentwire/onboard/pkg/slogx"
)

type EmployeeDocumentHandler struct {
	MasterService *service.MasterService
}

// ServeHTTP godoc
//
//	@Summary		Render Onboarding Packet
//	@Description	Render the employee's completed onboarding packet as a printable HTML document.
//	@Tags			Employees
//	@Produce		html
//	@Param			draftId	path		string	true	"Draft identifier"
//	@Success		200		{string}	string						"HTML document"
//	@Failure		401		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/employees/{draftId}/document [get].
func (h *EmployeeDocumentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	doc, err := h.MasterService.RenderDocument(ctx, r.PathValue("draftId"))
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			writeError(w, http.StatusNotFound, onboardapi.ErrorCodeNotFound, "Employee record not found")
			return
		}
		log.Error("failed to render document", "err", err)
		writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to render document")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
