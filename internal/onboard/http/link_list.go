package http

import (
	"net/http"
	"strconv"

	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/pkg/httpx"
	"github.com/talentwire/onboard/pkg/onboardapi"
	"github.com/talentwire/onboard/pkg/slogx"
)

type LinkListHandler struct {
	LinkService *service.LinkService
}

// ServeHTTP godoc
//
//	@Summary		List Onboarding Links
//	@Description	Page through issued onboarding links, newest first, with each candidate's completion percentage.
//	@Tags			Links
//	@Produce		json
//	@Param			page	query		int		false	"Page number (1-based)"
//	@Param			per_page	query	int		false	"Page size (max 100)"
//	@Param			search	query		string	false	"Substring match on email or name"
//	@Success		200		{object}	onboardapi.LinkListResponse	"links, total"
//	@Failure		401		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/links [get].
func (h *LinkListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	page, perPage := pageParams(r)
	search := r.URL.Query().Get("search")

	items, total, err := h.LinkService.ListLinks(ctx, perPage, (page-1)*perPage, search)
	if err != nil {
		log.Error("failed to list links", "err", err)
		writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to list links")
		return
	}

	links := make([]onboardapi.LinkSummary, 0, len(items))
	for _, item := range items {
		summary := onboardapi.LinkSummary{
			Token:     item.Link.Token,
			Email:     item.Link.Email,
			FirstName: item.Link.FirstName,
			LastName:  item.Link.LastName,
			Expired:   item.Link.Expired,
			CreatedAt: item.Link.CreatedAt.Unix(),
		}
		if item.Progress != nil {
			summary.Percentage = item.Progress.Percentage()
			summary.CurrentSection = item.Progress.NextSection().String()
		}
		links = append(links, summary)
	}

	httpx.WriteJSON(w, http.StatusOK, onboardapi.LinkListResponse{
		Links:   links,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

func pageParams(r *http.Request) (page, perPage int) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(q.Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 50
	}
	return page, perPage
}
