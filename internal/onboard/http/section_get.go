package http

import (
	"errors"
	"net/http"

	"github.com/talentwire/onboard/internal/onboard/domain"
	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/pkg/httpx"
	"github.com/talentwire/onboard/pkg/onboardapi"
	"github.com/talentwire/onboard/pkg/slogx"
)

type SectionGetHandler struct {
	SectionService *service.SectionService
}

// ServeHTTP godoc
//
//	@Summary		Get Saved Section
//	@Description	Return a previously saved section for form prefill. Encrypted identifier fields are decrypted; a field that cannot be decrypted comes back blank.
//	@Tags			Onboarding
//	@Produce		json
//	@Param			token	path		string	true	"Onboarding link token"
//	@Param			section	path		string	true	"Section name"	Enums(personal, pf, academic, experience, family, declaration)
//	@Success		200		{object}	onboardapi.SectionDataResponse	"section, data"
//	@Failure		400		{object}	onboardapi.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	onboardapi.ErrorResponse		"error, error_description"
//	@Failure		410		{object}	onboardapi.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	onboardapi.ErrorResponse		"error, error_description"
//	@Router			/v1/onboarding/{token}/sections/{section} [get].
func (h *SectionGetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	section, err := domain.ParseSection(r.PathValue("section"))
	if err != nil {
		writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Unknown section")
		return
	}

	data, err := h.SectionService.GetSection(ctx, r.PathValue("token"), section)
	if err != nil {
		if writeLinkError(w, err) {
			return
		}
		switch {
		case errors.Is(err, service.ErrSectionNotFound):
			writeError(w, http.StatusNotFound, onboardapi.ErrorCodeNotFound, "Section has not been filled in yet")
		case errors.Is(err, service.ErrSectionNotAllowed):
			writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Section cannot be read through this form")
		default:
			log.Error("failed to load section", "err", err)
			writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to load section")
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, onboardapi.SectionDataResponse{
		Section: section.String(),
		Data:    data,
	})
}
