package domain

import (
	"math"
	"time"
)

// Progress tracks how far one candidate has moved through their sections.
// A section is complete when its timestamp is non-nil; completion is sticky,
// re-saving a section never clears it.
type Progress struct {
	Token   string
	DraftID string // empty until the personal section pins it

	PersonalDoneAt    *time.Time
	PFDoneAt          *time.Time
	AcademicDoneAt    *time.Time
	ExperienceDoneAt  *time.Time
	FamilyDoneAt      *time.Time
	DeclarationDoneAt *time.Time

	FullyCompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DoneAt returns the completion timestamp for a candidate section.
func (p Progress) DoneAt(s Section) *time.Time {
	switch s {
	case SectionPersonal:
		return p.PersonalDoneAt
	case SectionPF:
		return p.PFDoneAt
	case SectionAcademic:
		return p.AcademicDoneAt
	case SectionExperience:
		return p.ExperienceDoneAt
	case SectionFamily:
		return p.FamilyDoneAt
	case SectionDeclaration:
		return p.DeclarationDoneAt
	}
	return nil
}

// IsDone reports whether a candidate section has been completed.
func (p Progress) IsDone(s Section) bool { return p.DoneAt(s) != nil }

// CompletedCount returns how many of the six candidate sections are done.
func (p Progress) CompletedCount() int {
	n := 0
	for _, s := range CandidateSections {
		if p.IsDone(s) {
			n++
		}
	}
	return n
}

// Percentage returns completion as a rounded whole percentage.
func (p Progress) Percentage() int {
	return int(math.Round(float64(p.CompletedCount()) / float64(len(CandidateSections)) * 100))
}

// NextSection returns the first incomplete section in order, or "" when
// everything is done.
func (p Progress) NextSection() Section {
	for _, s := range CandidateSections {
		if !p.IsDone(s) {
			return s
		}
	}
	return ""
}

// IsComplete reports whether all candidate sections are done.
func (p Progress) IsComplete() bool { return p.CompletedCount() == len(CandidateSections) }

// CompletedMap returns section name -> done, for API responses.
func (p Progress) CompletedMap() map[string]bool {
	m := make(map[string]bool, len(CandidateSections))
	for _, s := range CandidateSections {
		m[s.String()] = p.IsDone(s)
	}
	return m
}
