package http

import (
	"errors"
	"net/http"

	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/pkg/httpx"
	"github.com/talentwire/onboard/pkg/onboardapi"
	"github.com/talentwire/onboard/pkg/slogx"
)

type EmployeeGetHandler struct {
	MasterService *service.MasterService
}

// ServeHTTP godoc
//
//	@Summary		Get Employee Record
//	@Description	Return the merged employee record with all section data. Encrypted identifier fields are decrypted for display; a field that cannot be decrypted comes back blank.
//	@Tags			Employees
//	@Produce		json
//	@Param			draftId	path		string	true	"Draft identifier"
//	@Success		200		{object}	onboardapi.EmployeeDetail	"draft_id, status, sections"
//	@Failure		401		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/employees/{draftId} [get].
func (h *EmployeeGetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	detail, err := h.MasterService.GetEmployee(ctx, r.PathValue("draftId"))
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			writeError(w, http.StatusNotFound, onboardapi.ErrorCodeNotFound, "Employee record not found")
			return
		}
		log.Error("failed to load employee record", "err", err)
		writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to load employee record")
		return
	}

	resp := onboardapi.EmployeeDetail{
		DraftID:    detail.Master.DraftID,
		Status:     detail.Master.Status.String(),
		ApprovedBy: detail.Master.ApprovedBy,
		Sections:   detail.Sections,
	}
	if detail.Master.ApprovedAt != nil {
		resp.ApprovedAt = detail.Master.ApprovedAt.Unix()
	}
	if detail.Master.SubmittedAt != nil {
		resp.SubmittedAt = detail.Master.SubmittedAt.Unix()
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, resp)
}
