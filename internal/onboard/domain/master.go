package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// Status is the workflow state of a master record. Transitions are strictly
// linear; editing a candidate section resets the record to StatusDraft.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusVerified  Status = "verified"
	StatusApproved  Status = "approved"
)

var statusOrder = map[Status]int{
	StatusDraft:     0,
	StatusSubmitted: 1,
	StatusVerified:  2,
	StatusApproved:  3,
}

var ErrUnknownStatus = errors.New("unknown status")

// ParseStatus maps a request value to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := statusOrder[st]; !ok {
		return "", ErrUnknownStatus
	}
	return st, nil
}

// CanAdvanceTo reports whether next is the immediate successor of s.
func (s Status) CanAdvanceTo(next Status) bool {
	cur, ok := statusOrder[s]
	if !ok {
		return false
	}
	want, ok := statusOrder[next]
	if !ok {
		return false
	}
	return want == cur+1
}

func (s Status) String() string { return string(s) }

// Master is the merged employee record. Each section slot holds the stored
// JSON document for that section; a nil slot means the section was never
// provided.
type Master struct {
	DraftID  string
	Email    string
	FullName string

	Personal    json.RawMessage
	PF          json.RawMessage
	Academic    json.RawMessage
	Experience  json.RawMessage
	Family      json.RawMessage
	Declaration json.RawMessage
	Office      json.RawMessage

	Status      Status
	ApprovedBy  string
	ApprovedAt  *time.Time
	SubmittedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SectionSlot returns the stored document for a section.
func (m Master) SectionSlot(s Section) json.RawMessage {
	switch s {
	case SectionPersonal:
		return m.Personal
	case SectionPF:
		return m.PF
	case SectionAcademic:
		return m.Academic
	case SectionExperience:
		return m.Experience
	case SectionFamily:
		return m.Family
	case SectionDeclaration:
		return m.Declaration
	case SectionOffice:
		return m.Office
	}
	return nil
}

// MissingSections lists the sections a complete record still lacks.
func (m Master) MissingSections() []Section {
	var missing []Section
	for _, s := range AllSections {
		if len(m.SectionSlot(s)) == 0 {
			missing = append(missing, s)
		}
	}
	return missing
}
