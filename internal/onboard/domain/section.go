package domain

import (
	"errors"
	"strings"
)

// Section identifies one step of the onboarding form.
type Section string

const (
	SectionPersonal    Section = "personal"
	SectionPF          Section = "pf"
	SectionAcademic    Section = "academic"
	SectionExperience  Section = "experience"
	SectionFamily      Section = "family"
	SectionDeclaration Section = "declaration"

	// SectionOffice is filled in by HR, never by the candidate.
	SectionOffice Section = "office"
)

// CandidateSections is the fixed order candidates walk through. Progress
// percentages and "next section" are computed against this list.
var CandidateSections = []Section{
	SectionPersonal,
	SectionPF,
	SectionAcademic,
	SectionExperience,
	SectionFamily,
	SectionDeclaration,
}

// AllSections is every section a completed master record must carry.
var AllSections = append(CandidateSections[:len(CandidateSections):len(CandidateSections)], SectionOffice)

var ErrUnknownSection = errors.New("unknown section")

// ParseSection maps a path parameter to a Section.
func ParseSection(s string) (Section, error) {
	switch Section(strings.ToLower(strings.TrimSpace(s))) {
	case SectionPersonal:
		return SectionPersonal, nil
	case SectionPF:
		return SectionPF, nil
	case SectionAcademic:
		return SectionAcademic, nil
	case SectionExperience:
		return SectionExperience, nil
	case SectionFamily:
		return SectionFamily, nil
	case SectionDeclaration:
		return SectionDeclaration, nil
	case SectionOffice:
		return SectionOffice, nil
	}
	return "", ErrUnknownSection
}

// IsList reports whether the section holds multiple rows. List sections are
// replaced wholesale on every save.
func (s Section) IsList() bool {
	switch s {
	case SectionAcademic, SectionExperience, SectionFamily:
		return true
	}
	return false
}

// IsCandidate reports whether candidates may save this section themselves.
func (s Section) IsCandidate() bool { return s != SectionOffice }

func (s Section) String() string { return string(s) }
