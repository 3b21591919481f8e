package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/talentwire/onboard/internal/onboard/domain"
	"github.com/talentwire/onboard/internal/onboard/mail"
	"github.com/talentwire/onboard/internal/onboard/store"
	"github.com/talentwire/onboard/pkg/cryptox"
	"github.com/talentwire/onboard/pkg/idx"
	"github.com/talentwire/onboard/pkg/slogx"
)

var (
	ErrInvalidLinkRequest = errors.New("invalid link request")
	ErrLinkNotFound       = errors.New("onboarding link not found")
	ErrLinkExpired        = errors.New("onboarding link has expired")
)

// LinkIssueResult reports the outcome of IssueLink. Reissued is true when an
// active link for the email already existed and was returned instead of a
// fresh one. DraftID is the draft pinned to a reissued link, if the candidate
// has saved their personal section; fresh links have no draft yet.
type LinkIssueResult struct {
	Link     domain.Link
	DraftID  string
	Reissued bool
}

// LinkService issues and validates candidate onboarding links.
type LinkService struct {
	Store   store.Store
	Mail    mail.Dispatcher
	BaseURL string
	LinkTTL time.Duration
}

// IssueLink mints an onboarding link for a candidate email. Issuing is
// idempotent per email: while an active link exists it is returned as-is so
// resending the invitation never invalidates a candidate's session.
func (s *LinkService) IssueLink(ctx context.Context, email, firstName, lastName, createdBy string) (LinkIssueResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Normalise and validate the request.
	email = strings.ToLower(strings.TrimSpace(email))
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if email == "" || !strings.Contains(email, "@") {
		return LinkIssueResult{}, fmt.Errorf("%w: email is required", ErrInvalidLinkRequest)
	}
	if firstName == "" {
		return LinkIssueResult{}, fmt.Errorf("%w: first name is required", ErrInvalidLinkRequest)
	}

	// 2. Reuse an active link if one exists for this email.
	existing, err := s.Store.Links().GetActiveLinkByEmail(ctx, email)
	if err == nil {
		log.Info("reissued existing onboarding link",
			slog.String("link_id", existing.ID),
			slog.String("email", email),
		)
		s.sendInvitation(ctx, existing)
		result := LinkIssueResult{Link: existing, Reissued: true}
		progress, err := s.Store.Progress().GetProgressByToken(ctx, existing.Token)
		if err == nil {
			result.DraftID = progress.DraftID
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to fetch link progress", slog.Any("error", err))
			return LinkIssueResult{}, err
		}
		return result, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to look up active link", slog.Any("error", err))
		return LinkIssueResult{}, err
	}

	// 3. Mint a fresh token. The raw token is stored so reissue can hand the
	// same URL back later.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate link token", slog.Any("error", err))
		return LinkIssueResult{}, err
	}

	var expiresAt *time.Time
	if s.LinkTTL > 0 {
		t := time.Now().UTC().Add(s.LinkTTL)
		expiresAt = &t
	}

	link := domain.Link{
		ID:        idx.New().String(),
		Token:     token,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedBy: createdBy,
		ExpiresAt: expiresAt,
	}

	if err := s.Store.Links().CreateLink(ctx, link); err != nil {
		log.Error("failed to create onboarding link",
			slog.String("link_id", link.ID),
			slog.Any("error", err),
		)
		return LinkIssueResult{}, err
	}

	log.Info("issued onboarding link",
		slog.String("link_id", link.ID),
		slog.String("email", email),
		slog.String("token_fp", cryptox.FingerprintToken(token)),
	)

	// 4. Deliver the invitation out of band. A mail failure never fails the
	// issue call since the admin UI shows the URL anyway.
	s.sendInvitation(ctx, link)

	return LinkIssueResult{Link: link, Reissued: false}, nil
}

// OnboardingURL returns the candidate-facing URL for a link token.
func (s *LinkService) OnboardingURL(token string) string {
	return fmt.Sprintf("%s/onboarding/%s", strings.TrimRight(s.BaseURL, "/"), token)
}

func (s *LinkService) sendInvitation(ctx context.Context, link domain.Link) {
	if s.Mail == nil {
		return
	}
	log := slogx.FromContext(ctx)

	url := s.OnboardingURL(link.Token)
	msg := mail.Message{
		To:      link.Email,
		Subject: "Complete your onboarding",
		BodyText: fmt.Sprintf(
			"Hi %s,\n\nPlease complete your onboarding forms at the link below:\n\n%s\n\nThis link is personal to you, do not share it.\n",
			link.FirstName, url,
		),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := s.Mail.Send(ctx, msg); err != nil {
			log.Error("failed to send onboarding invitation",
				slog.String("link_id", link.ID),
				slog.Any("error", err),
			)
		}
	}()
}

// ValidateLink resolves a raw token to its link, distinguishing unknown
// tokens from ones that have been used or timed out.
func (s *LinkService) ValidateLink(ctx context.Context, token string) (domain.Link, error) {
	if token == "" {
		return domain.Link{}, ErrLinkNotFound
	}

	link, err := s.Store.Links().GetLinkByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Link{}, ErrLinkNotFound
		}
		slogx.FromContext(ctx).Error("failed to fetch link", slog.Any("error", err))
		return domain.Link{}, err
	}

	if !link.IsActive(time.Now()) {
		return domain.Link{}, ErrLinkExpired
	}
	return link, nil
}

// LinkWithProgress pairs a link with its candidate's completion state, when
// any sections have been started.
type LinkWithProgress struct {
	Link     domain.Link
	Progress *domain.Progress
}

// ListLinks pages through issued links, newest first, optionally filtered by
// a case-insensitive search over email and name.
func (s *LinkService) ListLinks(ctx context.Context, limit, offset int, search string) ([]LinkWithProgress, int, error) {
	log := slogx.FromContext(ctx)

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	links, total, err := s.Store.Links().ListLinks(ctx, limit, offset, search)
	if err != nil {
		log.Error("failed to list links", slog.Any("error", err))
		return nil, 0, err
	}

	out := make([]LinkWithProgress, 0, len(links))
	for _, link := range links {
		item := LinkWithProgress{Link: link}
		progress, err := s.Store.Progress().GetProgressByToken(ctx, link.Token)
		if err == nil {
			item.Progress = &progress
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to fetch link progress",
				slog.String("link_id", link.ID),
				slog.Any("error", err),
			)
			return nil, 0, err
		}
		out = append(out, item)
	}
	return out, total, nil
}
