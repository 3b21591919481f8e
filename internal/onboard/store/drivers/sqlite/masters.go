package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/talentwire/onboard/internal/onboard/domain"
)

type mastersRepo struct {
	q dbtx
}

const masterColumns = `draft_id, email, full_name, personal, pf_details, academic_details,
	experience_details, family_details, declaration_details, office_use_details,
	status, approved_by, approved_at, submitted_at, created_at, updated_at`

// masterSlotColumn maps a section to its master column. A closed switch so
// no caller-provided string ever reaches the SQL text.
func masterSlotColumn(s domain.Section) (string, error) {
	switch s {
	case domain.SectionPersonal:
		return "personal", nil
	case domain.SectionPF:
		return "pf_details", nil
	case domain.SectionAcademic:
		return "academic_details", nil
	case domain.SectionExperience:
		return "experience_details", nil
	case domain.SectionFamily:
		return "family_details", nil
	case domain.SectionDeclaration:
		return "declaration_details", nil
	case domain.SectionOffice:
		return "office_use_details", nil
	}
	return "", fmt.Errorf("sqlite: no master column for section %q", s)
}

func (r *mastersRepo) GetMasterByDraftID(ctx context.Context, draftID string) (domain.Master, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+masterColumns+` FROM masters WHERE draft_id = ?`, draftID)
	return scanMaster(row)
}

func (r *mastersRepo) UpsertMaster(ctx context.Context, m domain.Master) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO masters (draft_id, email, full_name, personal, pf_details,
			academic_details, experience_details, family_details,
			declaration_details, office_use_details, status, approved_by,
			approved_at, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (draft_id) DO UPDATE SET
			email = excluded.email,
			full_name = excluded.full_name,
			personal = excluded.personal,
			pf_details = excluded.pf_details,
			academic_details = excluded.academic_details,
			experience_details = excluded.experience_details,
			family_details = excluded.family_details,
			declaration_details = excluded.declaration_details,
			office_use_details = excluded.office_use_details,
			status = excluded.status,
			approved_by = excluded.approved_by,
			approved_at = excluded.approved_at,
			submitted_at = excluded.submitted_at,
			updated_at = CURRENT_TIMESTAMP`,
		m.DraftID, m.Email, m.FullName,
		mapOptionalBytes(m.Personal), mapOptionalBytes(m.PF),
		mapOptionalBytes(m.Academic), mapOptionalBytes(m.Experience),
		mapOptionalBytes(m.Family), mapOptionalBytes(m.Declaration),
		mapOptionalBytes(m.Office),
		m.Status.String(), m.ApprovedBy,
		mapOptionalTime(m.ApprovedAt), mapOptionalTime(m.SubmittedAt),
	)
	return err
}

func (r *mastersRepo) UpdateMasterSection(ctx context.Context, draftID string, section domain.Section, payload []byte) error {
	col, err := masterSlotColumn(section)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO masters (draft_id, %s) VALUES (?, ?)
		ON CONFLICT (draft_id)
		DO UPDATE SET %s = excluded.%s, updated_at = CURRENT_TIMESTAMP`, col, col, col)
	_, err = r.q.ExecContext(ctx, query, draftID, string(payload))
	return err
}

func (r *mastersRepo) SetMasterIdentity(ctx context.Context, draftID, email, fullName string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE masters SET email = ?, full_name = ?, updated_at = CURRENT_TIMESTAMP
		WHERE draft_id = ?`,
		email, fullName, draftID,
	)
	return err
}

func (r *mastersRepo) SetMasterStatus(ctx context.Context, draftID string, status domain.Status, approvedBy string, approvedAt *time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE masters
		SET status = ?, approved_by = ?, approved_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE draft_id = ?`,
		status.String(), approvedBy, mapOptionalTime(approvedAt), draftID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func (r *mastersRepo) SetMasterSubmitted(ctx context.Context, draftID string, at *time.Time) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE masters SET submitted_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE draft_id = ?`,
		mapOptionalTime(at), draftID,
	)
	return err
}

func (r *mastersRepo) ListMasters(ctx context.Context, limit, offset int, search string) ([]domain.Master, int, error) {
	pattern := "%" + search + "%"

	var total int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM masters
		WHERE full_name LIKE ? OR email LIKE ?`,
		pattern, pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.q.QueryContext(ctx, `
		SELECT `+masterColumns+` FROM masters
		WHERE full_name LIKE ? OR email LIKE ?
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?`,
		pattern, pattern, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Master
	for rows.Next() {
		m, err := scanMaster(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (r *mastersRepo) DeleteMaster(ctx context.Context, draftID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM masters WHERE draft_id = ?`, draftID)
	return err
}

func scanMaster(row rowScanner) (domain.Master, error) {
	var m domain.Master
	var personal, pf, academic, experience, family, declaration, office sql.NullString
	var status string
	var approvedAt, submittedAt sql.NullTime

	err := row.Scan(
		&m.DraftID, &m.Email, &m.FullName,
		&personal, &pf, &academic, &experience, &family, &declaration, &office,
		&status, &m.ApprovedBy, &approvedAt, &submittedAt,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return domain.Master{}, mapNotFound(err)
	}

	m.Personal = mapNullBytes(personal)
	m.PF = mapNullBytes(pf)
	m.Academic = mapNullBytes(academic)
	m.Experience = mapNullBytes(experience)
	m.Family = mapNullBytes(family)
	m.Declaration = mapNullBytes(declaration)
	m.Office = mapNullBytes(office)
	m.Status = domain.Status(status)
	m.ApprovedAt = mapNullTimePtr(approvedAt)
	m.SubmittedAt = mapNullTimePtr(submittedAt)
	return m, nil
}
