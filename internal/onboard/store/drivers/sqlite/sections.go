package sqlite

import (
	"context"

	"github.com/talentwire/onboard/internal/onboard/domain"
)

type sectionsRepo struct {
	q dbtx
}

const sectionColumns = `draft_id, kind, seq, payload, created_at, updated_at`

func (r *sectionsRepo) GetDocument(ctx context.Context, draftID string, kind domain.Section) (domain.SectionDocument, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+sectionColumns+` FROM sections
		WHERE draft_id = ? AND kind = ? AND seq = 0`,
		draftID, kind.String(),
	)
	return scanSectionDocument(row)
}

func (r *sectionsRepo) UpsertDocument(ctx context.Context, doc domain.SectionDocument) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO sections (draft_id, kind, seq, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (draft_id, kind, seq)
		DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		doc.DraftID, doc.Kind.String(), doc.Seq, string(doc.Payload),
	)
	return err
}

func (r *sectionsRepo) ListDocuments(ctx context.Context, draftID string, kind domain.Section) ([]domain.SectionDocument, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+sectionColumns+` FROM sections
		WHERE draft_id = ? AND kind = ?
		ORDER BY seq`,
		draftID, kind.String(),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []domain.SectionDocument
	for rows.Next() {
		doc, err := scanSectionDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *sectionsRepo) ReplaceDocuments(ctx context.Context, draftID string, kind domain.Section, docs []domain.SectionDocument) error {
	if _, err := r.q.ExecContext(ctx, `
		DELETE FROM sections WHERE draft_id = ? AND kind = ?`,
		draftID, kind.String(),
	); err != nil {
		return err
	}

	for i, doc := range docs {
		if _, err := r.q.ExecContext(ctx, `
			INSERT INTO sections (draft_id, kind, seq, payload)
			VALUES (?, ?, ?, ?)`,
			draftID, kind.String(), i, string(doc.Payload),
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *sectionsRepo) DeleteAllForDraft(ctx context.Context, draftID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM sections WHERE draft_id = ?`, draftID)
	return err
}

func (r *sectionsRepo) DeleteOrphaned(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `
		DELETE FROM sections
		WHERE draft_id NOT IN (SELECT draft_id FROM progress WHERE draft_id != '')
		  AND draft_id NOT IN (SELECT draft_id FROM masters)`)
	return err
}

func scanSectionDocument(row rowScanner) (domain.SectionDocument, error) {
	var doc domain.SectionDocument
	var kind, payload string
	err := row.Scan(&doc.DraftID, &kind, &doc.Seq, &payload, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return domain.SectionDocument{}, mapNotFound(err)
	}
	doc.Kind = domain.Section(kind)
	doc.Payload = []byte(payload)
	return doc, nil
}
