package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/talentwire/onboard/internal/onboard/domain"
	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/pkg/httpx"
	"github.com/talentwire/onboard/pkg/onboardapi"
	"github.com/talentwire/onboard/pkg/slogx"
)

// maxSectionBody caps a section payload. Forms are small; anything past this
// is not a form.
const maxSectionBody = 1 << 20

type SectionSaveHandler struct {
	SectionService *service.SectionService
}

// ServeHTTP godoc
//
//	@Summary		Save Onboarding Section
//	@Description	Validate and store one section of the onboarding form. Alternate field names from older form revisions are accepted; identifier fields are encrypted before storage. The first personal save establishes the draft.
//	@Tags			Onboarding
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string						true	"Onboarding link token"
//	@Param			section	path		string						true	"Section name"	Enums(personal, pf, academic, experience, family)
//	@Param			request	body		onboardapi.SectionPayload	true	"Section fields"
//	@Success		200		{object}	onboardapi.SectionSaveResponse	"section, draft_id, progress"
//	@Failure		400		{object}	onboardapi.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	onboardapi.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	onboardapi.ErrorResponse		"error, error_description"
//	@Failure		410		{object}	onboardapi.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	onboardapi.ErrorResponse		"error, error_description"
//	@Router			/v1/onboarding/{token}/sections/{section} [put].
func (h *SectionSaveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	section, err := domain.ParseSection(r.PathValue("section"))
	if err != nil {
		writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Unknown section")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxSectionBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Failed to read body")
		return
	}

	result, err := h.SectionService.SaveSection(ctx, r.PathValue("token"), section, payload)
	if err != nil {
		h.writeSaveError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, onboardapi.SectionSaveResponse{
		Section:  result.Section.String(),
		DraftID:  result.Progress.DraftID,
		Progress: progressResponse(result.Progress),
	})
}

func (h *SectionSaveHandler) writeSaveError(w http.ResponseWriter, log *slog.Logger, err error) {
	if writeLinkError(w, err) {
		return
	}
	if ve, ok := validationErrorOf(err); ok {
		writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, ve.Error())
		return
	}
	switch {
	case errors.Is(err, service.ErrPersonalRequired):
		writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Personal details must be submitted first")
	case errors.Is(err, service.ErrSectionNotAllowed):
		writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Section cannot be submitted through this form")
	case errors.Is(err, domain.ErrUnknownSection):
		writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Unknown section")
	case errors.Is(err, service.ErrDuplicateIdentifier):
		writeError(w, http.StatusConflict, onboardapi.ErrorCodeConflict, "These identifiers already belong to another onboarding")
	default:
		log.Error("failed to save section", "err", err)
		writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to save section")
	}
}
