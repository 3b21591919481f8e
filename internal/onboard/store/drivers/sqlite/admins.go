package sqlite

import (
	"context"

	"github.com/talentwire/onboard/internal/onboard/domain"
)

type adminsRepo struct {
	q dbtx
}

const adminColumns = `id, email, name, password_hash, created_at, updated_at`

func (r *adminsRepo) GetAdminByEmail(ctx context.Context, email string) (domain.Admin, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = ?`, email)
	return scanAdmin(row)
}

func (r *adminsRepo) GetAdminByID(ctx context.Context, id string) (domain.Admin, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = ?`, id)
	return scanAdmin(row)
}

func (r *adminsRepo) CreateAdmin(ctx context.Context, a domain.Admin) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO admins (id, email, name, password_hash) VALUES (?, ?, ?, ?)`,
		a.ID, a.Email, a.Name, a.PasswordHash,
	)
	return mapConflict(err)
}

func (r *adminsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func scanAdmin(row rowScanner) (domain.Admin, error) {
	var a domain.Admin
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Admin{}, mapNotFound(err)
	}
	return a, nil
}
