package store

import (
	"context"
	"errors"
	"time"

	"github.com/talentwire/onboard/internal/onboard/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and to stop callers from accidentally nesting transactions.
type Store interface {
	Links() Links
	Progress() Progress
	Sections() Sections
	Masters() Masters
	Admins() Admins

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., the final
	// merge). The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Links interface {
	// CreateLink writes a new onboarding link (token stored as issued; it is
	// the candidate's capability and must be returnable on reissue).
	CreateLink(ctx context.Context, l domain.Link) error

	// GetLinkByToken returns a link regardless of expiry state.
	GetLinkByToken(ctx context.Context, token string) (domain.Link, error)

	// GetActiveLinkByEmail returns the non-expired link for an email, if any.
	GetActiveLinkByEmail(ctx context.Context, email string) (domain.Link, error)

	// MarkLinkExpired flips expired=1 and bumps updated_at.
	MarkLinkExpired(ctx context.Context, id string) error

	// ListLinks returns a page of links (newest first) plus the total count.
	// search matches email, first name, or last name as a substring.
	ListLinks(ctx context.Context, limit, offset int, search string) ([]domain.Link, int, error)

	// DeleteExpiredLinks removes links that expired before the cutoff
	// (housekeeping). Progress rows cascade with them.
	DeleteExpiredLinks(ctx context.Context, cutoff time.Time) error
}

type Progress interface {
	// CreateProgress inserts the empty progress row for a freshly issued link.
	CreateProgress(ctx context.Context, p domain.Progress) error

	// GetProgressByToken returns the progress row for a link token.
	GetProgressByToken(ctx context.Context, token string) (domain.Progress, error)

	// GetProgressByDraftID resolves progress via the pinned draft ID.
	GetProgressByDraftID(ctx context.Context, draftID string) (domain.Progress, error)

	// SetDraftID pins the derived draft identifier (first personal save).
	SetDraftID(ctx context.Context, token, draftID string) error

	// MarkSectionDone sets the section's completion timestamp if not already
	// set. Completion is sticky.
	MarkSectionDone(ctx context.Context, token string, section domain.Section, at time.Time) error

	// MarkFullyCompleted stamps fully_completed_at.
	MarkFullyCompleted(ctx context.Context, token string, at time.Time) error

	// DeleteProgressByDraftID removes the row after the final merge.
	DeleteProgressByDraftID(ctx context.Context, draftID string) error
}

type Sections interface {
	// GetDocument returns the seq-0 document of a single-document section.
	GetDocument(ctx context.Context, draftID string, kind domain.Section) (domain.SectionDocument, error)

	// UpsertDocument inserts or replaces one document by (draft, kind, seq).
	UpsertDocument(ctx context.Context, doc domain.SectionDocument) error

	// ListDocuments returns all documents of a list section ordered by seq.
	ListDocuments(ctx context.Context, draftID string, kind domain.Section) ([]domain.SectionDocument, error)

	// ReplaceDocuments atomically swaps a list section's rows (delete-all then
	// insert). Must be called inside a transaction.
	ReplaceDocuments(ctx context.Context, draftID string, kind domain.Section, docs []domain.SectionDocument) error

	// DeleteAllForDraft removes every temp document after the final merge.
	DeleteAllForDraft(ctx context.Context, draftID string) error

	// DeleteOrphaned removes documents whose draft no longer has a progress
	// row or a master record (housekeeping).
	DeleteOrphaned(ctx context.Context) error
}

type Masters interface {
	// GetMasterByDraftID returns the merged record.
	GetMasterByDraftID(ctx context.Context, draftID string) (domain.Master, error)

	// UpsertMaster inserts a full record or replaces an existing one.
	UpsertMaster(ctx context.Context, m domain.Master) error

	// UpdateMasterSection writes one section slot, creating the record if it
	// does not exist yet. Status handling is the caller's job via
	// SetMasterStatus.
	UpdateMasterSection(ctx context.Context, draftID string, section domain.Section, payload []byte) error

	// SetMasterIdentity refreshes the email / full-name listing projections
	// (derived from the personal section by the caller).
	SetMasterIdentity(ctx context.Context, draftID, email, fullName string) error

	// SetMasterStatus updates the workflow status and approver stamp.
	SetMasterStatus(ctx context.Context, draftID string, status domain.Status, approvedBy string, approvedAt *time.Time) error

	// SetMasterSubmitted stamps submitted_at during the final merge; a nil
	// time clears a previous submission (section edited after submit).
	SetMasterSubmitted(ctx context.Context, draftID string, at *time.Time) error

	// ListMasters returns a page (newest first) plus the total count.
	// search matches full name or email as a substring.
	ListMasters(ctx context.Context, limit, offset int, search string) ([]domain.Master, int, error)

	// DeleteMaster removes a record entirely.
	DeleteMaster(ctx context.Context, draftID string) error
}

type Admins interface {
	// GetAdminByEmail is used during login.
	GetAdminByEmail(ctx context.Context, email string) (domain.Admin, error)

	// GetAdminByID resolves the approver stamp to a display name.
	GetAdminByID(ctx context.Context, id string) (domain.Admin, error)

	// CreateAdmin inserts a new admin (id is provided by app via ULID).
	CreateAdmin(ctx context.Context, a domain.Admin) error

	// IsEmpty returns true if there are no admins (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}
