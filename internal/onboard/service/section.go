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
	"github.com/talentwire/onboard/internal/onboard/store"
	"github.com/talentwire/onboard/pkg/cryptox"
	"github.com/talentwire/onboard/pkg/slogx"
)

var (
	ErrSectionNotAllowed   = errors.New("section cannot be submitted through this form")
	ErrPersonalRequired    = errors.New("personal details must be submitted first")
	ErrSectionNotFound     = errors.New("section has not been filled in yet")
	ErrIncompleteSections  = errors.New("onboarding sections are incomplete")
	ErrDuplicateIdentifier = errors.New("identifiers already belong to another onboarding")
)

// SaveResult reports the progress snapshot after a section write.
type SaveResult struct {
	Section  domain.Section
	Progress domain.Progress
}

// SectionService persists candidate section submissions against their draft
// and advances the per-token progress record.
type SectionService struct {
	Store     store.Store
	Cipher    *cryptox.FieldCipher
	DraftSalt string
}

// SaveSection validates, normalizes, and stores one section submitted under
// an onboarding link. Identifier-grade fields are encrypted before they touch
// the store. The first personal save derives the draft identifier and pins it
// to the token; every other section requires that pin to exist.
func (s *SectionService) SaveSection(ctx context.Context, token string, section domain.Section, payload []byte) (SaveResult, error) {
	log := slogx.FromContext(ctx)

	// 1. The link gates every candidate write.
	link, err := s.resolveLink(ctx, token)
	if err != nil {
		return SaveResult{}, err
	}

	// 2. Office use is HR's section, never the candidate's. The declaration
	// has its own endpoint because submitting it is the terminal transition,
	// not a plain save.
	if !section.IsCandidate() || section == domain.SectionDeclaration {
		return SaveResult{}, ErrSectionNotAllowed
	}

	// 3. Load or start the progress record for this token.
	progress, err := s.ensureProgress(ctx, token)
	if err != nil {
		return SaveResult{}, err
	}

	draftID := progress.DraftID
	if section != domain.SectionPersonal && draftID == "" {
		return SaveResult{}, ErrPersonalRequired
	}

	// 4. Normalize and encrypt. Personal additionally derives the draft
	// identifier from the two national ID numbers so a candidate restarting
	// under a fresh link lands on the same draft.
	var doc []byte
	var rows []domain.SectionDocument
	var identity *domain.PersonalRecord
	switch section {
	case domain.SectionPersonal:
		n, err := normalizePersonal(payload)
		if err != nil {
			return SaveResult{}, err
		}
		if n.Record.Email == "" {
			n.Record.Email = link.Email
		}
		if err := encryptPersonalFields(s.Cipher, &n); err != nil {
			log.Error("failed to encrypt personal fields", slog.Any("error", err))
			return SaveResult{}, err
		}
		if draftID == "" {
			draftID = cryptox.DeriveIdentifier(n.Aadhaar, n.PAN, s.DraftSalt)
			if err := s.ensureDraftIsFree(ctx, link, draftID); err != nil {
				return SaveResult{}, err
			}
		}
		identity = &n.Record
		doc, err = json.Marshal(n.Record)
		if err != nil {
			return SaveResult{}, err
		}

	case domain.SectionPF:
		n, err := normalizePF(payload)
		if err != nil {
			return SaveResult{}, err
		}
		if err := encryptPFFields(s.Cipher, &n); err != nil {
			log.Error("failed to encrypt pf fields", slog.Any("error", err))
			return SaveResult{}, err
		}
		doc, err = json.Marshal(n.Record)
		if err != nil {
			return SaveResult{}, err
		}

	case domain.SectionAcademic:
		list, err := normalizeAcademic(payload)
		if err != nil {
			return SaveResult{}, err
		}
		if doc, err = json.Marshal(list); err != nil {
			return SaveResult{}, err
		}
		rows, err = marshalRows(draftID, section, list)
		if err != nil {
			return SaveResult{}, err
		}

	case domain.SectionExperience:
		list, err := normalizeExperience(payload)
		if err != nil {
			return SaveResult{}, err
		}
		if doc, err = json.Marshal(list); err != nil {
			return SaveResult{}, err
		}
		rows, err = marshalRows(draftID, section, list)
		if err != nil {
			return SaveResult{}, err
		}

	case domain.SectionFamily:
		list, err := normalizeFamily(payload)
		if err != nil {
			return SaveResult{}, err
		}
		if doc, err = json.Marshal(list); err != nil {
			return SaveResult{}, err
		}
		rows, err = marshalRows(draftID, section, list)
		if err != nil {
			return SaveResult{}, err
		}

	default:
		return SaveResult{}, domain.ErrUnknownSection
	}

	// 5. Write the document, pin the draft, mark completion, and mirror the
	// slot onto the master record in one tx. Completion is sticky: re-saving
	// keeps the original timestamp. The master mirror is what lets HR watch
	// in-progress candidates; any candidate write drops it back to draft.
	now := time.Now().UTC()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if progress.DraftID == "" {
			if err := tx.Progress().SetDraftID(ctx, token, draftID); err != nil {
				return err
			}
		}
		if section.IsList() {
			if err := tx.Sections().ReplaceDocuments(ctx, draftID, section, rows); err != nil {
				return err
			}
		} else {
			d := domain.SectionDocument{DraftID: draftID, Kind: section, Payload: doc}
			if err := tx.Sections().UpsertDocument(ctx, d); err != nil {
				return err
			}
		}
		if err := tx.Progress().MarkSectionDone(ctx, token, section, now); err != nil {
			return err
		}
		return syncMasterSlot(ctx, tx, draftID, section, doc, identity)
	})
	if err != nil {
		log.Error("failed to save section",
			slog.String("section", section.String()),
			slog.Any("error", err),
		)
		return SaveResult{}, err
	}

	progress, err = s.Store.Progress().GetProgressByToken(ctx, token)
	if err != nil {
		return SaveResult{}, err
	}

	log.Info("saved onboarding section",
		slog.String("section", section.String()),
		slog.String("draft_id", draftID),
		slog.Int("percentage", progress.Percentage()),
	)
	return SaveResult{Section: section, Progress: progress}, nil
}

// GetSection returns the stored section for prefill, with encrypted fields
// decrypted. Decryption failures degrade to blank values so the form stays
// usable even if a field cannot be recovered.
func (s *SectionService) GetSection(ctx context.Context, token string, section domain.Section) (any, error) {
	if _, err := s.resolveLink(ctx, token); err != nil {
		return nil, err
	}
	if !section.IsCandidate() {
		return nil, ErrSectionNotAllowed
	}

	progress, err := s.Store.Progress().GetProgressByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	if progress.DraftID == "" {
		return nil, ErrSectionNotFound
	}

	return s.readSection(ctx, progress.DraftID, section)
}

// SubmitDeclaration is the terminal candidate transition: it stores the
// signed declaration, completes the progress record, and burns the link so no
// further writes are accepted under this token.
func (s *SectionService) SubmitDeclaration(ctx context.Context, token string, payload []byte) (SaveResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Gate on the link and an established draft.
	link, err := s.resolveLink(ctx, token)
	if err != nil {
		return SaveResult{}, err
	}

	progress, err := s.ensureProgress(ctx, token)
	if err != nil {
		return SaveResult{}, err
	}
	if progress.DraftID == "" {
		return SaveResult{}, ErrPersonalRequired
	}

	// 2. Every earlier section must already be complete.
	for _, sec := range domain.CandidateSections {
		if sec == domain.SectionDeclaration {
			break
		}
		if !progress.IsDone(sec) {
			return SaveResult{}, fmt.Errorf("%w: %s", ErrIncompleteSections, sec)
		}
	}

	rec, err := normalizeDeclaration(payload)
	if err != nil {
		return SaveResult{}, err
	}
	doc, err := json.Marshal(rec)
	if err != nil {
		return SaveResult{}, err
	}

	// 3. Store, complete, and expire atomically.
	now := time.Now().UTC()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		d := domain.SectionDocument{DraftID: progress.DraftID, Kind: domain.SectionDeclaration, Payload: doc}
		if err := tx.Sections().UpsertDocument(ctx, d); err != nil {
			return err
		}
		if err := syncMasterSlot(ctx, tx, progress.DraftID, domain.SectionDeclaration, doc, nil); err != nil {
			return err
		}
		if err := tx.Progress().MarkSectionDone(ctx, token, domain.SectionDeclaration, now); err != nil {
			return err
		}
		if err := tx.Progress().MarkFullyCompleted(ctx, token, now); err != nil {
			return err
		}
		return tx.Links().MarkLinkExpired(ctx, link.ID)
	})
	if err != nil {
		log.Error("failed to submit declaration", slog.Any("error", err))
		return SaveResult{}, err
	}

	progress, err = s.Store.Progress().GetProgressByToken(ctx, token)
	if err != nil {
		return SaveResult{}, err
	}

	log.Info("onboarding declaration submitted",
		slog.String("draft_id", progress.DraftID),
		slog.String("email", link.Email),
	)
	return SaveResult{Section: domain.SectionDeclaration, Progress: progress}, nil
}

// Progress returns the completion snapshot for a token, creating the record
// on first read so a fresh link reports zero percent rather than a miss.
func (s *SectionService) Progress(ctx context.Context, token string) (domain.Progress, error) {
	if _, err := s.resolveLink(ctx, token); err != nil {
		return domain.Progress{}, err
	}
	return s.ensureProgress(ctx, token)
}

func (s *SectionService) resolveLink(ctx context.Context, token string) (domain.Link, error) {
	if token == "" {
		return domain.Link{}, ErrLinkNotFound
	}
	link, err := s.Store.Links().GetLinkByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Link{}, ErrLinkNotFound
		}
		return domain.Link{}, err
	}
	if !link.IsActive(time.Now()) {
		return domain.Link{}, ErrLinkExpired
	}
	return link, nil
}

func (s *SectionService) ensureProgress(ctx context.Context, token string) (domain.Progress, error) {
	progress, err := s.Store.Progress().GetProgressByToken(ctx, token)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Progress{}, err
	}

	progress = domain.Progress{Token: token}
	if err := s.Store.Progress().CreateProgress(ctx, progress); err != nil {
		// Lost a race with a concurrent first save; read theirs.
		if errors.Is(err, store.ErrAlreadyExists) {
			return s.Store.Progress().GetProgressByToken(ctx, token)
		}
		return domain.Progress{}, err
	}
	return progress, nil
}

// ensureDraftIsFree checks whether the derived draft identifier already
// belongs to someone else. The same candidate restarting under a reissued
// link re-derives the same identifier; that is the supported resume path. A
// different candidate arriving at an identifier that is pinned to another
// token, or that has already been onboarded onto a master record, is a
// conflict and must not overwrite their data.
func (s *SectionService) ensureDraftIsFree(ctx context.Context, link domain.Link, draftID string) error {
	owner, err := s.Store.Progress().GetProgressByDraftID(ctx, draftID)
	if err == nil {
		if owner.Token == link.Token {
			return nil
		}
		prev, err := s.Store.Links().GetLinkByToken(ctx, owner.Token)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Orphaned pin with no link behind it; safe to take over.
				return nil
			}
			return err
		}
		if !strings.EqualFold(prev.Email, link.Email) {
			return ErrDuplicateIdentifier
		}
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if _, err := s.Store.Masters().GetMasterByDraftID(ctx, draftID); err == nil {
		return ErrDuplicateIdentifier
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

// syncMasterSlot mirrors a candidate section write onto the master record so
// HR sees in-progress drafts. Candidate writes always put the master back
// into draft and clear any earlier submission timestamp.
func syncMasterSlot(ctx context.Context, tx store.Tx, draftID string, section domain.Section, doc []byte, identity *domain.PersonalRecord) error {
	if err := tx.Masters().UpdateMasterSection(ctx, draftID, section, doc); err != nil {
		return err
	}
	if identity != nil {
		fullName := strings.TrimSpace(identity.FirstName + " " + identity.LastName)
		if err := tx.Masters().SetMasterIdentity(ctx, draftID, identity.Email, fullName); err != nil {
			return err
		}
	}
	if err := tx.Masters().SetMasterStatus(ctx, draftID, domain.StatusDraft, "", nil); err != nil {
		return err
	}
	return tx.Masters().SetMasterSubmitted(ctx, draftID, nil)
}

// encryptPersonalFields seals the identifier plaintexts into the record.
func encryptPersonalFields(c *cryptox.FieldCipher, n *normalizedPersonal) error {
	var err error
	if n.Record.Aadhaar, err = c.Encrypt(n.Aadhaar); err != nil {
		return err
	}
	if n.Record.PAN, err = c.Encrypt(n.PAN); err != nil {
		return err
	}
	if n.Record.BankAccount, err = c.Encrypt(n.BankAccount); err != nil {
		return err
	}
	return nil
}

func encryptPFFields(c *cryptox.FieldCipher, n *normalizedPF) error {
	var err error
	if n.Record.UAN, err = c.Encrypt(n.UAN); err != nil {
		return err
	}
	if n.Record.PFNumber, err = c.Encrypt(n.PFNumber); err != nil {
		return err
	}
	return nil
}

// readSection loads a temp section document and returns its decrypted view.
func (s *SectionService) readSection(ctx context.Context, draftID string, section domain.Section) (any, error) {
	if section.IsList() {
		docs, err := s.Store.Sections().ListDocuments(ctx, draftID, section)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, ErrSectionNotFound
		}
		rows := make([]json.RawMessage, 0, len(docs))
		for _, d := range docs {
			rows = append(rows, d.Payload)
		}
		return rows, nil
	}

	doc, err := s.Store.Sections().GetDocument(ctx, draftID, section)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	return decryptSectionView(ctx, s.Cipher, section, doc.Payload)
}

func marshalRows[T any](draftID string, kind domain.Section, rows []T) ([]domain.SectionDocument, error) {
	out := make([]domain.SectionDocument, 0, len(rows))
	for i, r := range rows {
		b, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.SectionDocument{DraftID: draftID, Kind: kind, Seq: i, Payload: b})
	}
	return out, nil
}
