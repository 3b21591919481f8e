package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/talentwire/onboard/internal/onboard/domain"
	"github.com/talentwire/onboard/internal/onboard/store"
	"github.com/talentwire/onboard/pkg/cryptox"
	"github.com/talentwire/onboard/pkg/idx"
	"github.com/talentwire/onboard/pkg/jwtx"
	"github.com/talentwire/onboard/pkg/slogx"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// AdminService authenticates HR operators and issues their session tokens.
type AdminService struct {
	Store      store.Store
	Signer     jwtx.Signer
	Issuer     string
	SessionTTL time.Duration
}

// LoginResult is a freshly minted admin session.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Admin     domain.Admin
}

// Login verifies credentials and returns a signed session token carrying the
// admin scopes.
func (s *AdminService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	admin, err := s.Store.Admins().GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same error as a bad password so login probes learn nothing.
			return LoginResult{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch admin", slog.Any("error", err))
		return LoginResult{}, err
	}

	if err := cryptox.VerifyPassword(password, admin.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Warn("admin login rejected", slog.String("email", email))
			return LoginResult{}, ErrInvalidCredentials
		}
		log.Error("failed to verify password", slog.Any("error", err))
		return LoginResult{}, err
	}

	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	now := time.Now().UTC()
	claims := jwtx.NewSessionClaims(admin.ID, domain.AdminScopes, ttl, s.Issuer, admin.Email, admin.Name, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return LoginResult{}, err
	}

	log.Info("admin logged in", slog.String("admin_id", admin.ID))
	return LoginResult{Token: token, ExpiresAt: now.Add(ttl), Admin: admin}, nil
}

// EnsureBootstrap seeds the first admin account when the table is empty.
// Called once at startup; a no-op on every later boot.
func (s *AdminService) EnsureBootstrap(ctx context.Context, email, name, password string) error {
	log := slogx.FromContext(ctx)

	empty, err := s.Store.Admins().IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}
	if email == "" || password == "" {
		log.Warn("no admins exist and no bootstrap credentials configured")
		return nil
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	admin := domain.Admin{
		ID:           idx.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         name,
		PasswordHash: hash,
	}
	if err := s.Store.Admins().CreateAdmin(ctx, admin); err != nil {
		// Another replica won the race.
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil
		}
		return err
	}

	log.Info("bootstrap admin created",
		slog.String("admin_id", admin.ID),
		slog.String("email", admin.Email),
	)
	return nil
}
