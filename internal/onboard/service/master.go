package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/talentwire/onboard/internal/onboard/domain"
	"github.com/talentwire/onboard/internal/onboard/render"
	"github.com/talentwire/onboard/internal/onboard/store"
	"github.com/talentwire/onboard/pkg/cryptox"
	"github.com/talentwire/onboard/pkg/slogx"
)

var (
	ErrEmployeeNotFound  = errors.New("employee record not found")
	ErrMissingSections   = errors.New("required sections are missing")
	ErrInvalidTransition = errors.New("status transition is not allowed")
)

// EmployeeDetail is the merged record with decrypted section views.
type EmployeeDetail struct {
	Master   domain.Master
	Sections map[string]any
}

// MasterService owns the merged employee record and its workflow status.
type MasterService struct {
	Store    store.Store
	Cipher   *cryptox.FieldCipher
	Renderer render.Renderer
}

// UpdateSection applies an HR correction to one candidate section slot on the
// master record. Any such edit drops the record back to draft and clears a
// prior submission, so the review chain restarts from a known state.
func (s *MasterService) UpdateSection(ctx context.Context, draftID string, section domain.Section, payload []byte) error {
	log := slogx.FromContext(ctx)

	if section == domain.SectionOffice {
		return ErrSectionNotAllowed
	}

	// 1. Normalize and encrypt exactly like a candidate save, so the slot
	// shape stays identical regardless of who wrote it.
	var (
		doc      []byte
		identity *normalizedPersonal
	)
	switch section {
	case domain.SectionPersonal:
		n, err := normalizePersonal(payload)
		if err != nil {
			return err
		}
		if err := encryptPersonalFields(s.Cipher, &n); err != nil {
			log.Error("failed to encrypt personal fields", slog.Any("error", err))
			return err
		}
		identity = &n
		if doc, err = json.Marshal(n.Record); err != nil {
			return err
		}

	case domain.SectionPF:
		n, err := normalizePF(payload)
		if err != nil {
			return err
		}
		if err := encryptPFFields(s.Cipher, &n); err != nil {
			log.Error("failed to encrypt pf fields", slog.Any("error", err))
			return err
		}
		if doc, err = json.Marshal(n.Record); err != nil {
			return err
		}

	case domain.SectionAcademic:
		list, err := normalizeAcademic(payload)
		if err != nil {
			return err
		}
		if doc, err = json.Marshal(list); err != nil {
			return err
		}

	case domain.SectionExperience:
		list, err := normalizeExperience(payload)
		if err != nil {
			return err
		}
		if doc, err = json.Marshal(list); err != nil {
			return err
		}

	case domain.SectionFamily:
		list, err := normalizeFamily(payload)
		if err != nil {
			return err
		}
		if doc, err = json.Marshal(list); err != nil {
			return err
		}

	case domain.SectionDeclaration:
		rec, err := normalizeDeclaration(payload)
		if err != nil {
			return err
		}
		if doc, err = json.Marshal(rec); err != nil {
			return err
		}

	default:
		return domain.ErrUnknownSection
	}

	// 2. Write the slot and reset the workflow in one tx.
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Masters().UpdateMasterSection(ctx, draftID, section, doc); err != nil {
			return err
		}
		if identity != nil {
			fullName := strings.TrimSpace(identity.Record.FirstName + " " + identity.Record.LastName)
			if err := tx.Masters().SetMasterIdentity(ctx, draftID, identity.Record.Email, fullName); err != nil {
				return err
			}
		}
		if err := tx.Masters().SetMasterStatus(ctx, draftID, domain.StatusDraft, "", nil); err != nil {
			return err
		}
		return tx.Masters().SetMasterSubmitted(ctx, draftID, nil)
	})
	if err != nil {
		log.Error("failed to update master section",
			slog.String("draft_id", draftID),
			slog.String("section", section.String()),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("master section updated",
		slog.String("draft_id", draftID),
		slog.String("section", section.String()),
	)
	return nil
}

// ApplyOfficeUse writes the HR-only section and advances the record to
// submitted with the acting admin stamped as approver.
func (s *MasterService) ApplyOfficeUse(ctx context.Context, draftID string, payload []byte, approvedBy string) error {
	log := slogx.FromContext(ctx)

	rec, err := normalizeOffice(payload)
	if err != nil {
		return err
	}
	doc, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Masters().UpdateMasterSection(ctx, draftID, domain.SectionOffice, doc); err != nil {
			return err
		}
		return tx.Masters().SetMasterStatus(ctx, draftID, domain.StatusSubmitted, approvedBy, &now)
	})
	if err != nil {
		log.Error("failed to apply office use section",
			slog.String("draft_id", draftID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("office use section applied",
		slog.String("draft_id", draftID),
		slog.String("approved_by", approvedBy),
	)
	return nil
}

// FinalSubmit merges the candidate's temp section documents into the master
// record. All seven slots must be present afterwards; the error names every
// missing one. On success the temp documents and the progress row are removed
// in the same transaction, leaving the master as the single copy.
func (s *MasterService) FinalSubmit(ctx context.Context, draftID string) (domain.Master, error) {
	log := slogx.FromContext(ctx)

	// 1. Start from the existing master, if any. HR may already have filled
	// office use or corrected slots; those win only where the candidate has
	// no temp document.
	master, err := s.Store.Masters().GetMasterByDraftID(ctx, draftID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.Master{}, err
	}
	master.DraftID = draftID

	// 2. Pull each candidate section from the temp store.
	for _, section := range domain.CandidateSections {
		doc, err := s.loadTempSection(ctx, draftID, section)
		if err != nil {
			return domain.Master{}, err
		}
		if doc == nil {
			continue
		}
		s.setSlot(&master, section, doc)
	}

	// 3. Refuse a partial merge.
	if missing := master.MissingSections(); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, m := range missing {
			names = append(names, m.String())
		}
		return domain.Master{}, fmt.Errorf("%w: %s", ErrMissingSections, strings.Join(names, ", "))
	}

	// 4. Project identity from the personal slot for listings.
	var personal domain.PersonalRecord
	if err := json.Unmarshal(master.Personal, &personal); err == nil {
		master.Email = personal.Email
		master.FullName = strings.TrimSpace(personal.FirstName + " " + personal.LastName)
	}

	now := time.Now().UTC()
	master.Status = domain.StatusSubmitted
	master.SubmittedAt = &now

	// 5. Persist and drop the transient copies atomically.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Masters().UpsertMaster(ctx, master); err != nil {
			return err
		}
		if err := tx.Sections().DeleteAllForDraft(ctx, draftID); err != nil {
			return err
		}
		return tx.Progress().DeleteProgressByDraftID(ctx, draftID)
	})
	if err != nil {
		log.Error("failed to finalize employee record",
			slog.String("draft_id", draftID),
			slog.Any("error", err),
		)
		return domain.Master{}, err
	}

	log.Info("employee record finalized",
		slog.String("draft_id", draftID),
		slog.String("email", master.Email),
	)
	return master, nil
}

// AdvanceStatus moves the workflow one step forward. Skipping steps or
// moving backwards is rejected.
func (s *MasterService) AdvanceStatus(ctx context.Context, draftID string, next domain.Status, actor string) error {
	master, err := s.Store.Masters().GetMasterByDraftID(ctx, draftID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}

	if !master.Status.CanAdvanceTo(next) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, master.Status, next)
	}

	now := time.Now().UTC()
	if err := s.Store.Masters().SetMasterStatus(ctx, draftID, next, actor, &now); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("employee status advanced",
		slog.String("draft_id", draftID),
		slog.String("from", master.Status.String()),
		slog.String("to", next.String()),
		slog.String("actor", actor),
	)
	return nil
}

// GetEmployee returns the merged record with decrypted section views.
func (s *MasterService) GetEmployee(ctx context.Context, draftID string) (EmployeeDetail, error) {
	master, err := s.Store.Masters().GetMasterByDraftID(ctx, draftID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return EmployeeDetail{}, ErrEmployeeNotFound
		}
		return EmployeeDetail{}, err
	}

	sections := make(map[string]any, len(domain.AllSections))
	for _, section := range domain.AllSections {
		slot := master.SectionSlot(section)
		if len(slot) == 0 {
			continue
		}
		if section.IsList() {
			var rows []json.RawMessage
			if err := json.Unmarshal(slot, &rows); err != nil {
				return EmployeeDetail{}, err
			}
			sections[section.String()] = rows
			continue
		}
		view, err := decryptSectionView(ctx, s.Cipher, section, slot)
		if err != nil {
			return EmployeeDetail{}, err
		}
		sections[section.String()] = view
	}

	return EmployeeDetail{Master: master, Sections: sections}, nil
}

// ListEmployees pages through merged records, newest first.
func (s *MasterService) ListEmployees(ctx context.Context, limit, offset int, search string) ([]domain.Master, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Store.Masters().ListMasters(ctx, limit, offset, search)
}

// DeleteEmployee removes the merged record along with any remaining temp
// documents and progress for the draft.
func (s *MasterService) DeleteEmployee(ctx context.Context, draftID string) error {
	if _, err := s.Store.Masters().GetMasterByDraftID(ctx, draftID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Masters().DeleteMaster(ctx, draftID); err != nil {
			return err
		}
		if err := tx.Sections().DeleteAllForDraft(ctx, draftID); err != nil {
			return err
		}
		return tx.Progress().DeleteProgressByDraftID(ctx, draftID)
	})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to delete employee record",
			slog.String("draft_id", draftID),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// RenderDocument produces the printable onboarding packet for a record.
func (s *MasterService) RenderDocument(ctx context.Context, draftID string) ([]byte, error) {
	detail, err := s.GetEmployee(ctx, draftID)
	if err != nil {
		return nil, err
	}

	doc := render.Document{
		DraftID:     detail.Master.DraftID,
		FullName:    detail.Master.FullName,
		Email:       detail.Master.Email,
		Status:      detail.Master.Status.String(),
		SubmittedAt: detail.Master.SubmittedAt,
		Sections:    detail.Sections,
	}
	return s.Renderer.Render(ctx, doc)
}

// loadTempSection reads a section from the temp store as a master slot
// payload. List sections collapse to a JSON array; nil means no document.
func (s *MasterService) loadTempSection(ctx context.Context, draftID string, section domain.Section) ([]byte, error) {
	if section.IsList() {
		docs, err := s.Store.Sections().ListDocuments(ctx, draftID, section)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, nil
		}
		rows := make([]json.RawMessage, 0, len(docs))
		for _, d := range docs {
			rows = append(rows, d.Payload)
		}
		return json.Marshal(rows)
	}

	doc, err := s.Store.Sections().GetDocument(ctx, draftID, section)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return doc.Payload, nil
}

func (s *MasterService) setSlot(m *domain.Master, section domain.Section, doc []byte) {
	switch section {
	case domain.SectionPersonal:
		m.Personal = doc
	case domain.SectionPF:
		m.PF = doc
	case domain.SectionAcademic:
		m.Academic = doc
	case domain.SectionExperience:
		m.Experience = doc
	case domain.SectionFamily:
		m.Family = doc
	case domain.SectionDeclaration:
		m.Declaration = doc
	case domain.SectionOffice:
		m.Office = doc
	}
}
