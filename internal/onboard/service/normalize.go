package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/talentwire/onboard/internal/onboard/domain"
)

// ValidationError reports a missing or malformed field. Row is the 1-based
// row index for list sections, 0 otherwise.
type ValidationError struct {
	Field string
	Row   int
}

func (e *ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s is required at row %d", e.Field, e.Row)
	}
	return fmt.Sprintf("%s is required", e.Field)
}

func missingField(field string) error { return &ValidationError{Field: field} }

func missingRow(field string, row int) error { return &ValidationError{Field: field, Row: row} }

// Intake forms arrive from several frontend revisions which never agreed on
// key names. Each canonical field resolves from an explicit, ordered alias
// list; the first non-empty value wins.

func pickString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			return strings.TrimSpace(fmt.Sprintf("%v", t))
		}
	}
	return ""
}

func pickBool(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		switch t := m[k].(type) {
		case bool:
			return t
		case string:
			switch strings.ToLower(strings.TrimSpace(t)) {
			case "true", "yes", "y", "1":
				return true
			case "false", "no", "n", "0":
				return false
			}
		}
	}
	return false
}

func pickList(m map[string]any, keys ...string) []map[string]any {
	for _, k := range keys {
		raw, ok := m[k].([]any)
		if !ok || len(raw) == 0 {
			continue
		}
		rows := make([]map[string]any, 0, len(raw))
		for _, item := range raw {
			if row, ok := item.(map[string]any); ok {
				rows = append(rows, row)
			}
		}
		if len(rows) > 0 {
			return rows
		}
	}
	return nil
}

func decodePayload(payload []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, &ValidationError{Field: "payload"}
	}
	if m == nil {
		return nil, &ValidationError{Field: "payload"}
	}
	return m, nil
}

// normalizedPersonal keeps the identifier plaintexts alongside the record so
// the caller can encrypt them and derive the draft identifier; the plaintexts
// never leave the save path.
type normalizedPersonal struct {
	Record      domain.PersonalRecord
	Aadhaar     string
	PAN         string
	BankAccount string
}

func normalizePersonal(payload []byte) (normalizedPersonal, error) {
	m, err := decodePayload(payload)
	if err != nil {
		return normalizedPersonal{}, err
	}

	n := normalizedPersonal{
		Record: domain.PersonalRecord{
			FirstName:      pickString(m, "firstName", "first_name", "fname"),
			MiddleName:     pickString(m, "middleName", "middle_name", "mname"),
			LastName:       pickString(m, "lastName", "last_name", "lname", "surname"),
			Email:          strings.ToLower(pickString(m, "email", "emailId", "email_id")),
			Phone:          pickString(m, "phone", "mobile", "mobileNumber", "contact_no"),
			AltPhone:       pickString(m, "altPhone", "alternatePhone", "alternate_no"),
			DateOfBirth:    pickString(m, "dateOfBirth", "dob", "date_of_birth"),
			Gender:         pickString(m, "gender", "sex"),
			MaritalStatus:  pickString(m, "maritalStatus", "marital_status"),
			BloodGroup:     pickString(m, "bloodGroup", "blood_group"),
			Nationality:    pickString(m, "nationality"),
			CurrentAddress: pickString(m, "currentAddress", "presentAddress", "current_address", "address"),
			PermanentAddr:  pickString(m, "permanentAddress", "permanent_address"),
			BankName:       pickString(m, "bankName", "bank_name", "bank"),
			IFSC:           strings.ToUpper(pickString(m, "ifsc", "ifscCode", "ifsc_code")),

			EmergencyContactName:  pickString(m, "emergencyContactName", "emergency_contact_name"),
			EmergencyContactPhone: pickString(m, "emergencyContactPhone", "emergency_contact_no"),
		},
		Aadhaar:     pickString(m, "aadhaar", "aadhar", "aadhaarNumber", "aadhar_no"),
		PAN:         strings.ToUpper(pickString(m, "pan", "panNumber", "pan_no")),
		BankAccount: pickString(m, "bankAccount", "accountNumber", "account_no", "bank_account_no"),
	}

	switch {
	case n.Record.FirstName == "":
		return normalizedPersonal{}, missingField("firstName")
	case n.Record.LastName == "":
		return normalizedPersonal{}, missingField("lastName")
	case n.Record.Email == "" || !strings.Contains(n.Record.Email, "@"):
		return normalizedPersonal{}, missingField("email")
	case n.Record.Phone == "":
		return normalizedPersonal{}, missingField("phone")
	case n.Record.DateOfBirth == "":
		return normalizedPersonal{}, missingField("dateOfBirth")
	case n.Record.CurrentAddress == "":
		return normalizedPersonal{}, missingField("currentAddress")
	case n.Aadhaar == "":
		return normalizedPersonal{}, missingField("aadhaar")
	case n.PAN == "":
		return normalizedPersonal{}, missingField("pan")
	}
	return n, nil
}

type normalizedPF struct {
	Record   domain.PFRecord
	UAN      string
	PFNumber string
}

func normalizePF(payload []byte) (normalizedPF, error) {
	m, err := decodePayload(payload)
	if err != nil {
		return normalizedPF{}, err
	}

	n := normalizedPF{
		Record: domain.PFRecord{
			ESINumber:        pickString(m, "esiNumber", "esi_no", "esi"),
			PreviousPFMember: pickBool(m, "previousPfMember", "previous_pf_member", "isPfMember"),
			NomineeName:      pickString(m, "nomineeName", "nominee_name", "nominee"),
			NomineeRelation:  pickString(m, "nomineeRelation", "nominee_relation"),
		},
		UAN:      pickString(m, "uan", "uanNumber", "uan_no"),
		PFNumber: pickString(m, "pfNumber", "pf_no", "pfAccountNumber"),
	}

	if n.Record.NomineeName == "" {
		return normalizedPF{}, missingField("nomineeName")
	}
	if n.Record.PreviousPFMember && n.UAN == "" {
		return normalizedPF{}, missingField("uan")
	}
	return n, nil
}

func normalizeAcademic(payload []byte) ([]domain.AcademicRow, error) {
	m, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}

	raw := pickList(m, "academicDetails", "academic_details", "academics", "rows", "entries")
	if len(raw) == 0 {
		return nil, missingField("academicDetails")
	}

	rows := make([]domain.AcademicRow, 0, len(raw))
	for i, rm := range raw {
		row := domain.AcademicRow{
			Qualification:  pickString(rm, "qualification", "degree", "course"),
			Institution:    pickString(rm, "institution", "institute", "school", "college"),
			Board:          pickString(rm, "board", "university", "boardOrUniversity", "board_university"),
			YearOfPassing:  pickString(rm, "yearOfPassing", "passingYear", "year_of_passing", "year"),
			Percentage:     pickString(rm, "percentage", "marks", "cgpa"),
			Specialization: pickString(rm, "specialization", "stream", "major"),
		}

		// Validation reports the 1-based row so form errors line up with
		// what the candidate sees.
		switch {
		case row.Qualification == "":
			return nil, missingRow("qualification", i+1)
		case row.Institution == "":
			return nil, missingRow("institution", i+1)
		case row.Board == "":
			return nil, missingRow("board", i+1)
		case row.YearOfPassing == "":
			return nil, missingRow("yearOfPassing", i+1)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalizeExperience(payload []byte) ([]domain.ExperienceRow, error) {
	m, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}

	raw := pickList(m, "experienceDetails", "experience_details", "experiences", "rows", "entries")
	if len(raw) == 0 {
		return nil, missingField("experienceDetails")
	}

	rows := make([]domain.ExperienceRow, 0, len(raw))
	for i, rm := range raw {
		row := domain.ExperienceRow{
			Company:          pickString(rm, "company", "employer", "companyName", "organisation", "organization"),
			Designation:      pickString(rm, "designation", "role", "title"),
			FromDate:         pickString(rm, "fromDate", "from", "from_date", "startDate"),
			ToDate:           pickString(rm, "toDate", "to", "to_date", "endDate"),
			AnnualCTC:        pickString(rm, "annualCtc", "ctc", "annual_ctc", "salary"),
			ReasonForLeaving: pickString(rm, "reasonForLeaving", "reason_for_leaving", "reason"),
		}

		switch {
		case row.Company == "":
			return nil, missingRow("company", i+1)
		case row.Designation == "":
			return nil, missingRow("designation", i+1)
		case row.FromDate == "":
			return nil, missingRow("fromDate", i+1)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalizeFamily(payload []byte) ([]domain.FamilyRow, error) {
	m, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}

	raw := pickList(m, "familyDetails", "family_details", "familyMembers", "rows", "entries")
	if len(raw) == 0 {
		return nil, missingField("familyDetails")
	}

	rows := make([]domain.FamilyRow, 0, len(raw))
	for i, rm := range raw {
		row := domain.FamilyRow{
			Name:        pickString(rm, "name", "memberName", "member_name"),
			Relation:    pickString(rm, "relation", "relationship"),
			DateOfBirth: pickString(rm, "dateOfBirth", "dob", "date_of_birth"),
			Occupation:  pickString(rm, "occupation", "profession"),
			Dependent:   pickBool(rm, "dependent", "isDependent", "is_dependent"),
		}

		switch {
		case row.Name == "":
			return nil, missingRow("name", i+1)
		case row.Relation == "":
			return nil, missingRow("relation", i+1)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalizeDeclaration(payload []byte) (domain.DeclarationRecord, error) {
	m, err := decodePayload(payload)
	if err != nil {
		return domain.DeclarationRecord{}, err
	}

	rec := domain.DeclarationRecord{
		SignatureName: pickString(m, "signatureName", "signature", "signature_name", "name"),
		PlaceOfSign:   pickString(m, "placeOfSigning", "place", "place_of_signing"),
		DateOfSign:    pickString(m, "dateOfSigning", "date", "date_of_signing"),
		AgreedToTerms: pickBool(m, "agreedToTerms", "agreed", "accept", "accepted"),
	}

	switch {
	case rec.SignatureName == "":
		return domain.DeclarationRecord{}, missingField("signatureName")
	case rec.PlaceOfSign == "":
		return domain.DeclarationRecord{}, missingField("placeOfSigning")
	case rec.DateOfSign == "":
		return domain.DeclarationRecord{}, missingField("dateOfSigning")
	case !rec.AgreedToTerms:
		return domain.DeclarationRecord{}, missingField("agreedToTerms")
	}
	return rec, nil
}

func normalizeOffice(payload []byte) (domain.OfficeRecord, error) {
	m, err := decodePayload(payload)
	if err != nil {
		return domain.OfficeRecord{}, err
	}

	rec := domain.OfficeRecord{
		EmployeeID:       pickString(m, "employeeId", "employee_id", "empId", "emp_id"),
		Designation:      pickString(m, "designation", "role", "title"),
		Department:       pickString(m, "department", "dept"),
		DateOfJoining:    pickString(m, "dateOfJoining", "doj", "date_of_joining", "joiningDate"),
		Location:         pickString(m, "location", "workLocation", "branch"),
		ReportingManager: pickString(m, "reportingManager", "reporting_manager", "manager"),
		Grade:            pickString(m, "grade", "band", "level"),
		AnnualCTC:        pickString(m, "annualCtc", "ctc", "annual_ctc"),
	}

	switch {
	case rec.EmployeeID == "":
		return domain.OfficeRecord{}, missingField("employeeId")
	case rec.Designation == "":
		return domain.OfficeRecord{}, missingField("designation")
	case rec.Department == "":
		return domain.OfficeRecord{}, missingField("department")
	case rec.DateOfJoining == "":
		return domain.OfficeRecord{}, missingField("dateOfJoining")
	}
	return rec, nil
}
