package http

import (
	"errors"
	"net/http"

	"github.com/talentwire/onboard/internal/onboard/domain"
	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/pkg/httpx"
	"github.com/talentwire/onboard/pkg/onboardapi"
)

func progressResponse(p domain.Progress) onboardapi.ProgressResponse {
	return onboardapi.ProgressResponse{
		DraftID:        p.DraftID,
		Percentage:     p.Percentage(),
		NextSection:    p.NextSection().String(),
		Completed:      p.CompletedMap(),
		FullyCompleted: p.FullyCompletedAt != nil,
	}
}

func writeError(w http.ResponseWriter, status int, code, desc string) {
	httpx.WriteJSON(w, status, onboardapi.ErrorResponse{
		Error:            code,
		ErrorDescription: desc,
	})
}

// writeLinkError maps the link sentinels shared by every candidate endpoint.
// Returns false if err was not a link error (caller handles the rest).
func writeLinkError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, service.ErrLinkNotFound):
		writeError(w, http.StatusNotFound, onboardapi.ErrorCodeNotFound, "Onboarding link not found")
	case errors.Is(err, service.ErrLinkExpired):
		writeError(w, http.StatusGone, onboardapi.ErrorCodeLinkExpired, "Onboarding link has expired")
	default:
		return false
	}
	return true
}

// validationErrorOf unwraps a normalization failure so handlers can surface
// the offending field and row.
func validationErrorOf(err error) (*service.ValidationError, bool) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func adminIDFromCtx(r *http.Request) string {
	id, _ := r.Context().Value(httpx.CtxKeyUserID).(string)
	return id
}
