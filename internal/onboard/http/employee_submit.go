package http

import (
	"errors"
	"net/http"

	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/pkg/httpx"
	"github.com/talentwire/onboard/pkg/onboardapi"
	"github.com/talentwire/onboard/pkg/slogx"
)

type EmployeeSubmitHandler struct {
	MasterService *service.MasterService
}

// ServeHTTP godoc
//
//	@Summary		Finalize Employee Record
//	@Description	Merge the candidate's saved sections into the master record. All seven sections must be present; the error names any missing ones. On success the transient section data and progress are removed.
//	@Tags			Employees
//	@Produce		json
//	@Param			draftId	path		string	true	"Draft identifier"
//	@Success		200		{object}	onboardapi.EmployeeSummary	"draft_id, status"
//	@Failure		401		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/employees/{draftId}/submit [post].
func (h *EmployeeSubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	master, err := h.MasterService.FinalSubmit(ctx, r.PathValue("draftId"))
	if err != nil {
		if errors.Is(err, service.ErrMissingSections) {
			writeError(w, http.StatusConflict, onboardapi.ErrorCodeConflict, err.Error())
			return
		}
		log.Error("failed to finalize employee record", "err", err)
		writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to finalize employee record")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, onboardapi.EmployeeSummary{
		DraftID:   master.DraftID,
		FullName:  master.FullName,
		Email:     master.Email,
		Status:    master.Status.String(),
		UpdatedAt: master.UpdatedAt.Unix(),
	})
}
