package domain

import "time"

// Admin is an HR operator account.
type Admin struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AdminScopes are the scopes granted to every admin session.
var AdminScopes = []string{"admin:read", "admin:write"}
