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

type LinkIssueHandler struct {
	LinkService *service.LinkService
}

// ServeHTTP godoc
//
//	@Summary		Issue Onboarding Link
//	@Description	Issue a one-time onboarding link for a candidate email. Idempotent: while an active link exists for the email it is returned again instead of minting a new one.
//	@Tags			Links
//	@Accept			json
//	@Produce		json
//	@Param			request	body		onboardapi.LinkRequest	true	"Candidate details"
//	@Success		200		{object}	onboardapi.LinkResponse		"token, draft_id, onboarding_url, reissued"
//	@Failure		400		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/links [post].
func (h *LinkIssueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req onboardapi.LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}

	result, err := h.LinkService.IssueLink(ctx, req.Email, req.FirstName, req.LastName, adminIDFromCtx(r))
	if err != nil {
		if errors.Is(err, service.ErrInvalidLinkRequest) {
			writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, err.Error())
			return
		}
		log.Error("failed to issue link", "err", err)
		writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to issue onboarding link")
		return
	}

	resp := onboardapi.LinkResponse{
		Token:         result.Link.Token,
		Email:         result.Link.Email,
		DraftID:       result.DraftID,
		OnboardingURL: h.LinkService.OnboardingURL(result.Link.Token),
		Reissued:      result.Reissued,
	}
	if result.Link.ExpiresAt != nil {
		resp.ExpiresAt = result.Link.ExpiresAt.Unix()
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
