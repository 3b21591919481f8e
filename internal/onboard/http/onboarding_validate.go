package http

import (
	"net/http"

	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/pkg/httpx"
	"github.com/talentwire/onboard/pkg/onboardapi"
	"github.com/talentwire/onboard/pkg/slogx"
)

type OnboardingValidateHandler struct {
	LinkService    *service.LinkService
	SectionService *service.SectionService
}

// ServeHTTP godoc
//
//	@Summary		Validate Onboarding Link
//	@Description	Called when a candidate opens their onboarding link. Returns their name and current progress so the form can resume at the right section.
//	@Tags			Onboarding
//	@Produce		json
//	@Param			token	path		string	true	"Onboarding link token"
//	@Success		200		{object}	onboardapi.ValidateResponse	"valid, email, progress"
//	@Failure		404		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		410		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Router			/v1/onboarding/{token} [get].
func (h *OnboardingValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	token := r.PathValue("token")

	link, err := h.LinkService.ValidateLink(ctx, token)
	if err != nil {
		if writeLinkError(w, err) {
			return
		}
		log.Error("failed to validate link", "err", err)
		writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to validate link")
		return
	}

	progress, err := h.SectionService.Progress(ctx, token)
	if err != nil {
		if writeLinkError(w, err) {
			return
		}
		log.Error("failed to load progress", "err", err)
		writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to load progress")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, onboardapi.ValidateResponse{
		Valid:     true,
		Email:     link.Email,
		FirstName: link.FirstName,
		LastName:  link.LastName,
		Progress:  progressResponse(progress),
	})
}
