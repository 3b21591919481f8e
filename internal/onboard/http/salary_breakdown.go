package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/pkg/httpx"
	"github.com/talentwire/onboard/pkg/onboardapi"
	"github.com/talentwire/onboard/pkg/slogx"
)

type SalaryBreakdownHandler struct {
	SalaryService *service.SalaryService
}

// ServeHTTP godoc
//
//	@Summary		Salary Breakdown
//	@Description	Split an annual CTC into the configured component rows. Annual amounts sum exactly to the CTC; a trailing Fixed CTC row restates the full package.
//	@Tags			Salary
//	@Accept			json
//	@Produce		json
//	@Param			request	body		onboardapi.SalaryRequest	true	"Annual CTC"
//	@Success		200		{object}	onboardapi.SalaryResponse	"annual_ctc, rows"
//	@Failure		400		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/salary/breakdown [post].
func (h *SalaryBreakdownHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req onboardapi.SalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}

	rows, err := h.SalaryService.Breakdown(req.AnnualCTC)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "annual_ctc must be a positive number")
			return
		}
		log.Error("failed to compute breakdown", "err", err)
		writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to compute breakdown")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, onboardapi.SalaryResponse{
		AnnualCTC: req.AnnualCTC,
		Rows:      rows,
	})
}
