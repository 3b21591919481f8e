package http

import (
	"errors"
	"net/http"

	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/pkg/httpx"
	"github.com/talentwire/onboard/pkg/onboardapi"
	"github.com/talentwire/onboard/pkg/slogx"
)

type EmployeeDeleteHandler struct {
	MasterService *service.MasterService
}

// ServeHTTP godoc
//
//	@Summary		Delete Employee Record
//	@Description	Remove the merged record along with any remaining transient section data for the draft.
//	@Tags			Employees
//	@Produce		json
//	@Param			draftId	path	string	true	"Draft identifier"
//	@Success		204		"record deleted"
//	@Failure		401		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/employees/{draftId} [delete].
func (h *EmployeeDeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.MasterService.DeleteEmployee(ctx, r.PathValue("draftId")); err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			writeError(w, http.StatusNotFound, onboardapi.ErrorCodeNotFound, "Employee record not found")
			return
		}
		log.Error("failed to delete employee record", "err", err)
		writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to delete employee record")
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
