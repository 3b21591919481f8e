package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/talentwire/onboard/internal/onboard/domain"
	"github.com/talentwire/onboard/internal/onboard/store"
	"github.com/talentwire/onboard/internal/onboard/store/drivers/sqlite"
	"github.com/talentwire/onboard/pkg/cryptox"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestCipher(t *testing.T) *cryptox.FieldCipher {
	t.Helper()

	cipher, err := cryptox.NewFieldCipher("test-field-key")
	require.NoError(t, err)
	return cipher
}

func newSectionService(t *testing.T, st store.Store) *SectionService {
	t.Helper()

	return &SectionService{
		Store:     st,
		Cipher:    newTestCipher(t),
		DraftSalt: "test-draft-salt",
	}
}

// issueTestLink mints a link directly through the link service so section
// tests exercise the same token path candidates use.
func issueTestLink(t *testing.T, st store.Store, email string) string {
	t.Helper()

	links := &LinkService{Store: st, BaseURL: "http://localhost:8080"}
	result, err := links.IssueLink(context.Background(), email, "Asha", "Rao", "admin-1")
	require.NoError(t, err)
	return result.Link.Token
}

// Canonical section payloads reused across tests.

var (
	personalPayload = []byte(`{
		"firstName": "Asha",
		"lastName": "Rao",
		"email": "asha@example.com",
		"phone": "9876543210",
		"dateOfBirth": "1994-02-11",
		"currentAddress": "12 MG Road, Bengaluru",
		"aadhaar": "123412341234",
		"pan": "abcde1234f",
		"bankAccount": "000111222333",
		"ifsc": "hdfc0001234",
		"bankName": "HDFC"
	}`)

	pfPayload = []byte(`{
		"nomineeName": "Ravi Rao",
		"nomineeRelation": "father",
		"previousPfMember": true,
		"uan": "100200300400",
		"pfNumber": "KA/BGE/12345"
	}`)

	academicPayload = []byte(`{
		"academicDetails": [
			{"qualification": "B.E.", "institution": "RVCE", "board": "VTU", "yearOfPassing": "2016", "percentage": "8.1"},
			{"qualification": "12th", "institution": "KV", "board": "CBSE", "yearOfPassing": "2012"}
		]
	}`)

	experiencePayload = []byte(`{
		"experienceDetails": [
			{"company": "Acme Corp", "designation": "Engineer", "fromDate": "2016-07-01", "toDate": "2020-03-31"}
		]
	}`)

	familyPayload = []byte(`{
		"familyDetails": [
			{"name": "Ravi Rao", "relation": "father", "dependent": true}
		]
	}`)

	declarationPayload = []byte(`{
		"signatureName": "Asha Rao",
		"placeOfSigning": "Bengaluru",
		"dateOfSigning": "2026-01-15",
		"agreedToTerms": true
	}`)
)

// personalPayloadAs builds a personal payload carrying a distinct identity,
// for tests that need more than one candidate in the same store.
func personalPayloadAs(email, aadhaar, pan string) []byte {
	return []byte(fmt.Sprintf(`{
		"firstName": "Asha",
		"lastName": "Rao",
		"email": %q,
		"phone": "9876543210",
		"dateOfBirth": "1994-02-11",
		"currentAddress": "12 MG Road, Bengaluru",
		"aadhaar": %q,
		"pan": %q
	}`, email, aadhaar, pan))
}

// completeCandidateSections walks a token through every section up to but not
// including the declaration.
func completeCandidateSections(t *testing.T, svc *SectionService, token string) {
	t.Helper()
	completeCandidateSectionsWith(t, svc, token, personalPayload)
}

func completeCandidateSectionsWith(t *testing.T, svc *SectionService, token string, personal []byte) {
	t.Helper()

	ctx := context.Background()
	for _, tc := range []struct {
		section domain.Section
		payload []byte
	}{
		{domain.SectionPersonal, personal},
		{domain.SectionPF, pfPayload},
		{domain.SectionAcademic, academicPayload},
		{domain.SectionExperience, experiencePayload},
		{domain.SectionFamily, familyPayload},
	} {
		_, err := svc.SaveSection(ctx, token, tc.section, tc.payload)
		require.NoError(t, err, "saving %s section", tc.section)
	}
}
