package http

import (
	"net/http"

	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/pkg/httpx"
	"github.com/talentwire/onboard/pkg/onboardapi"
	"github.com/talentwire/onboard/pkg/slogx"
)

type OnboardingProgressHandler struct {
	SectionService *service.SectionService
}

// ServeHTTP godoc
//
//	@Summary		Onboarding Progress
//	@Description	Return the candidate's section completion map, percentage, and next section.
//	@Tags			Onboarding
//	@Produce		json
//	@Param			token	path		string	true	"Onboarding link token"
//	@Success		200		{object}	onboardapi.ProgressResponse	"percentage, next_section, completed"
//	@Failure		404		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		410		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Router			/v1/onboarding/{token}/progress [get].
func (h *OnboardingProgressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	progress, err := h.SectionService.Progress(ctx, r.PathValue("token"))
	if err != nil {
		if writeLinkError(w, err) {
			return
		}
		log.Error("failed to load progress", "err", err)
		writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to load progress")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, progressResponse(progress))
}
