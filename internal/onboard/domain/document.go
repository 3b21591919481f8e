package domain

import (
	"encoding/json"
	"time"
)

// SectionDocument is one stored section payload during onboarding, before
// the final merge into the master record. Single-document sections live at
// Seq 0; list sections use Seq to preserve row order.
type SectionDocument struct {
	DraftID   string
	Kind      Section
	Seq       int
	Payload   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
