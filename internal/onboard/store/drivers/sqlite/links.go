package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/talentwire/onboard/internal/onboard/domain"
)

type linksRepo struct {
	q dbtx
}

const linkColumns = `id, token, email, first_name, last_name, created_by, expired, expires_at, created_at, updated_at`

func (r *linksRepo) CreateLink(ctx context.Context, l domain.Link) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO links (id, token, email, first_name, last_name, created_by, expired, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Token, l.Email, l.FirstName, l.LastName, l.CreatedBy, l.Expired, mapOptionalTime(l.ExpiresAt),
	)
	return mapConflict(err)
}

func (r *linksRepo) GetLinkByToken(ctx context.Context, token string) (domain.Link, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM links WHERE token = ?`, token)
	return scanLink(row)
}

func (r *linksRepo) GetActiveLinkByEmail(ctx context.Context, email string) (domain.Link, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+linkColumns+` FROM links
		WHERE email = ? AND expired = 0
		  AND (expires_at IS NULL OR expires_at > CURRENT_TIMESTAMP)
		ORDER BY created_at DESC
		LIMIT 1`,
		email,
	)
	return scanLink(row)
}

func (r *linksRepo) MarkLinkExpired(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE links SET expired = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}

func (r *linksRepo) ListLinks(ctx context.Context, limit, offset int, search string) ([]domain.Link, int, error) {
	pattern := "%" + search + "%"

	var total int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM links
		WHERE email LIKE ? OR first_name LIKE ? OR last_name LIKE ?`,
		pattern, pattern, pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.q.QueryContext(ctx, `
		SELECT `+linkColumns+` FROM links
		WHERE email LIKE ? OR first_name LIKE ? OR last_name LIKE ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`,
		pattern, pattern, pattern, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

func (r *linksRepo) DeleteExpiredLinks(ctx context.Context, cutoff time.Time) error {
	_, err := r.q.ExecContext(ctx, `
		DELETE FROM links WHERE expired = 1 AND updated_at < ?`, cutoff)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (domain.Link, error) {
	var l domain.Link
	var expiresAt sql.NullTime
	err := row.Scan(
		&l.ID, &l.Token, &l.Email, &l.FirstName, &l.LastName,
		&l.CreatedBy, &l.Expired, &expiresAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return domain.Link{}, mapNotFound(err)
	}
	l.ExpiresAt = mapNullTimePtr(expiresAt)
	return l, nil
}
