package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/pkg/httpx"
	"github.com/talentwire/onboard/pkg/onboardapi"
	"github.com/talentwire/onboard/pkg/slogx"
)

type DeclarationSubmitHandler struct {
	SectionService *service.SectionService
}

// ServeHTTP godoc
//
//	@Summary		Submit Final Declaration
//	@Description	Store the signed declaration and close out the onboarding: all other sections must already be complete. On success the link is expired and no further writes are accepted under the token.
//	@Tags			Onboarding
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string						true	"Onboarding link token"
//	@Param			request	body		onboardapi.SectionPayload	true	"Declaration fields"
//	@Success		200		{object}	onboardapi.DeclarationResponse	"draft_id, link_expired, progress"
//	@Failure		400		{object}	onboardapi.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	onboardapi.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	onboardapi.ErrorResponse		"error, error_description"
//	@Failure		410		{object}	onboardapi.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	onboardapi.ErrorResponse		"error, error_description"
//	@Router			/v1/onboarding/{token}/declaration [post].
func (h *DeclarationSubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxSectionBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Failed to read body")
		return
	}

	result, err := h.SectionService.SubmitDeclaration(ctx, r.PathValue("token"), payload)
	if err != nil {
		if writeLinkError(w, err) {
			return
		}
		if ve, ok := validationErrorOf(err); ok {
			writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, ve.Error())
			return
		}
		switch {
		case errors.Is(err, service.ErrIncompleteSections):
			writeError(w, http.StatusConflict, onboardapi.ErrorCodeConflict, err.Error())
		case errors.Is(err, service.ErrPersonalRequired):
			writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Personal details must be submitted first")
		default:
			log.Error("failed to submit declaration", "err", err)
			writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to submit declaration")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, onboardapi.DeclarationResponse{
		DraftID:     result.Progress.DraftID,
		LinkExpired: true,
		Progress:    progressResponse(result.Progress),
	})
}
