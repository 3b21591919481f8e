package domain

import "github.com/talentwire/onboard/pkg/cryptox"

// Section records as they are stored. Identifier-grade PII is held as
// cryptox.EncryptedField; everything else is plaintext. JSON tags define the
// storage document shape, so renaming a tag is a data migration.

// PersonalRecord is the candidate's identity, contact, and bank details.
type PersonalRecord struct {
	FirstName      string `json:"firstName"`
	MiddleName     string `json:"middleName,omitempty"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	AltPhone       string `json:"altPhone,omitempty"`
	DateOfBirth    string `json:"dateOfBirth"`
	Gender         string `json:"gender,omitempty"`
	MaritalStatus  string `json:"maritalStatus,omitempty"`
	BloodGroup     string `json:"bloodGroup,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	CurrentAddress string `json:"currentAddress"`
	PermanentAddr  string `json:"permanentAddress,omitempty"`

	Aadhaar     cryptox.EncryptedField `json:"aadhaar"`
	PAN         cryptox.EncryptedField `json:"pan"`
	BankAccount cryptox.EncryptedField `json:"bankAccount"`

	BankName string `json:"bankName,omitempty"`
	IFSC     string `json:"ifsc,omitempty"`

	EmergencyContactName  string `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string `json:"emergencyContactPhone,omitempty"`
}

// PFRecord is the provident fund section.
type PFRecord struct {
	UAN              cryptox.EncryptedField `json:"uan"`
	PFNumber         cryptox.EncryptedField `json:"pfNumber"`
	ESINumber        string                 `json:"esiNumber,omitempty"`
	PreviousPFMember bool                   `json:"previousPfMember"`
	NomineeName      string                 `json:"nomineeName"`
	NomineeRelation  string                 `json:"nomineeRelation,omitempty"`
}

// AcademicRow is one qualification in the academic history.
type AcademicRow struct {
	Qualification  string `json:"qualification"`
	Institution    string `json:"institution"`
	Board          string `json:"board,omitempty"`
	YearOfPassing  string `json:"yearOfPassing"`
	Percentage     string `json:"percentage,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// ExperienceRow is one previous employment.
type ExperienceRow struct {
	Company          string `json:"company"`
	Designation      string `json:"designation"`
	FromDate         string `json:"fromDate"`
	ToDate           string `json:"toDate,omitempty"`
	AnnualCTC        string `json:"annualCtc,omitempty"`
	ReasonForLeaving string `json:"reasonForLeaving,omitempty"`
}

// FamilyRow is one family member.
type FamilyRow struct {
	Name        string `json:"name"`
	Relation    string `json:"relation"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Occupation  string `json:"occupation,omitempty"`
	Dependent   bool   `json:"dependent"`
}

// DeclarationRecord is the candidate's final sign-off.
type DeclarationRecord struct {
	SignatureName string `json:"signatureName"`
	PlaceOfSign   string `json:"placeOfSigning"`
	DateOfSign    string `json:"dateOfSigning"`
	AgreedToTerms bool   `json:"agreedToTerms"`
}

// OfficeRecord is the HR-only section with employment particulars.
type OfficeRecord struct {
	EmployeeID       string `json:"employeeId"`
	Designation      string `json:"designation"`
	Department       string `json:"department"`
	DateOfJoining    string `json:"dateOfJoining"`
	Location         string `json:"location,omitempty"`
	ReportingManager string `json:"reportingManager,omitempty"`
	Grade            string `json:"grade,omitempty"`
	AnnualCTC        string `json:"annualCtc,omitempty"`
}
