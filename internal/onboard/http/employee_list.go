package http

import (
	"net/http"

	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/pkg/httpx"
	"github.com/talentwire/onboard/pkg/onboardapi"
	"github.com/talentwire/onboard/pkg/slogx"
)

type EmployeeListHandler struct {
	MasterService *service.MasterService
}

// ServeHTTP godoc
//
//	@Summary		List Employee Records
//	@Description	Page through merged employee records, newest first.
//	@Tags			Employees
//	@Produce		json
//	@Param			page		query		int		false	"Page number (1-based)"
//	@Param			per_page	query		int		false	"Page size (max 100)"
//	@Param			search		query		string	false	"Substring match on name or email"
//	@Success		200			{object}	onboardapi.EmployeeListResponse	"employees, total"
//	@Failure		401			{object}	onboardapi.ErrorResponse		"error, error_description"
//	@Failure		500			{object}	onboardapi.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/employees [get].
func (h *EmployeeListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	page, perPage := pageParams(r)
	search := r.URL.Query().Get("search")

	masters, total, err := h.MasterService.ListEmployees(ctx, perPage, (page-1)*perPage, search)
	if err != nil {
		log.Error("failed to list employees", "err", err)
		writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to list employees")
		return
	}

	employees := make([]onboardapi.EmployeeSummary, 0, len(masters))
	for _, m := range masters {
		employees = append(employees, onboardapi.EmployeeSummary{
			DraftID:   m.DraftID,
			FullName:  m.FullName,
			Email:     m.Email,
			Status:    m.Status.String(),
			UpdatedAt: m.UpdatedAt.Unix(),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, onboardapi.EmployeeListResponse{
		Employees: employees,
		Total:     total,
		Page:      page,
		PerPage:   perPage,
	})
}
