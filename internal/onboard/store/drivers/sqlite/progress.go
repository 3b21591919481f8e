package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/talentwire/onboard/internal/onboard/domain"
)

type progressRepo struct {
	q dbtx
}

const progressColumns = `token, draft_id, personal_done_at, pf_done_at, academic_done_at,
	experience_done_at, family_done_at, declaration_done_at, fully_completed_at,
	created_at, updated_at`

// sectionColumn maps a candidate section to its progress column. Keeping this
// a closed switch means no caller-provided string ever reaches the SQL text.
func sectionColumn(s domain.Section) (string, error) {
	switch s {
	case domain.SectionPersonal:
		return "personal_done_at", nil
	case domain.SectionPF:
		return "pf_done_at", nil
	case domain.SectionAcademic:
		return "academic_done_at", nil
	case domain.SectionExperience:
		return "experience_done_at", nil
	case domain.SectionFamily:
		return "family_done_at", nil
	case domain.SectionDeclaration:
		return "declaration_done_at", nil
	}
	return "", fmt.Errorf("sqlite: no progress column for section %q", s)
}

func (r *progressRepo) CreateProgress(ctx context.Context, p domain.Progress) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO progress (token, draft_id) VALUES (?, ?)`,
		p.Token, p.DraftID,
	)
	return mapConflict(err)
}

func (r *progressRepo) GetProgressByToken(ctx context.Context, token string) (domain.Progress, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+progressColumns+` FROM progress WHERE token = ?`, token)
	return scanProgress(row)
}

func (r *progressRepo) GetProgressByDraftID(ctx context.Context, draftID string) (domain.Progress, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+progressColumns+` FROM progress WHERE draft_id = ?`, draftID)
	return scanProgress(row)
}

func (r *progressRepo) SetDraftID(ctx context.Context, token, draftID string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE progress SET draft_id = ?, updated_at = CURRENT_TIMESTAMP WHERE token = ?`,
		draftID, token,
	)
	return err
}

func (r *progressRepo) MarkSectionDone(ctx context.Context, token string, section domain.Section, at time.Time) error {
	col, err := sectionColumn(section)
	if err != nil {
		return err
	}

	// COALESCE keeps the first completion timestamp; re-saving is a no-op.
	query := fmt.Sprintf(`
		UPDATE progress
		SET %s = COALESCE(%s, ?), updated_at = CURRENT_TIMESTAMP
		WHERE token = ?`, col, col)
	_, err = r.q.ExecContext(ctx, query, at, token)
	return err
}

func (r *progressRepo) MarkFullyCompleted(ctx context.Context, token string, at time.Time) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE progress
		SET fully_completed_at = COALESCE(fully_completed_at, ?), updated_at = CURRENT_TIMESTAMP
		WHERE token = ?`,
		at, token,
	)
	return err
}

func (r *progressRepo) DeleteProgressByDraftID(ctx context.Context, draftID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM progress WHERE draft_id = ?`, draftID)
	return err
}

func scanProgress(row rowScanner) (domain.Progress, error) {
	var p domain.Progress
	var personal, pf, academic, experience, family, declaration, fully sql.NullTime
	err := row.Scan(
		&p.Token, &p.DraftID, &personal, &pf, &academic,
		&experience, &family, &declaration, &fully,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Progress{}, mapNotFound(err)
	}
	p.PersonalDoneAt = mapNullTimePtr(personal)
	p.PFDoneAt = mapNullTimePtr(pf)
	p.AcademicDoneAt = mapNullTimePtr(academic)
	p.ExperienceDoneAt = mapNullTimePtr(experience)
	p.FamilyDoneAt = mapNullTimePtr(family)
	p.DeclarationDoneAt = mapNullTimePtr(declaration)
	p.FullyCompletedAt = mapNullTimePtr(fully)
	return p, nil
}
