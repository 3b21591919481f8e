package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/talentwire/onboard/internal/onboard/domain"
	"github.com/talentwire/onboard/internal/onboard/render"
	"github.com/talentwire/onboard/internal/onboard/store"
)

var officePayload = []byte(`{
	"employeeId": "TW-1042",
	"designation": "Software Engineer",
	"department": "Platform",
	"dateOfJoining": "2026-02-02",
	"location": "Bengaluru"
}`)

func newMasterService(t *testing.T, st store.Store) *MasterService {
	t.Helper()

	return &MasterService{
		Store:    st,
		Cipher:   newTestCipher(t),
		Renderer: &render.HTMLRenderer{CompanyName: "TalentWire"},
	}
}

// submitFullDraft walks a candidate through every section plus the
// declaration and returns the pinned draft identifier.
func submitFullDraft(t *testing.T, st store.Store, email string) string {
	t.Helper()
	return submitFullDraftAs(t, st, email, personalPayload)
}

func submitFullDraftAs(t *testing.T, st store.Store, email string, personal []byte) string {
	t.Helper()

	ctx := context.Background()
	svc := newSectionService(t, st)
	token := issueTestLink(t, st, email)

	completeCandidateSectionsWith(t, svc, token, personal)
	result, err := svc.SubmitDeclaration(ctx, token, declarationPayload)
	require.NoError(t, err)
	return result.Progress.DraftID
}

func TestFinalSubmit(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	masters := newMasterService(t, st)

	draftID := submitFullDraft(t, st, "asha@example.com")

	t.Run("refuses without office use", func(t *testing.T) {
		_, err := masters.FinalSubmit(ctx, draftID)
		require.ErrorIs(t, err, ErrMissingSections)
		require.Contains(t, err.Error(), "office")
	})

	t.Run("merges once office use exists", func(t *testing.T) {
		require.NoError(t, masters.ApplyOfficeUse(ctx, draftID, officePayload, "admin-1"))

		master, err := masters.FinalSubmit(ctx, draftID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusSubmitted, master.Status)
		require.NotNil(t, master.SubmittedAt)
		require.Equal(t, "asha@example.com", master.Email)
		require.Equal(t, "Asha Rao", master.FullName)
		require.Empty(t, master.MissingSections())
	})

	t.Run("temp documents and progress are gone", func(t *testing.T) {
		docs, err := st.Sections().ListDocuments(ctx, draftID, domain.SectionAcademic)
		require.NoError(t, err)
		require.Empty(t, docs)

		_, err = st.Sections().GetDocument(ctx, draftID, domain.SectionPersonal)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = st.Progress().GetProgressByDraftID(ctx, draftID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestFinalSubmitNamesEveryMissingSection(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	masters := newMasterService(t, st)
	sections := newSectionService(t, st)
	token := issueTestLink(t, st, "partial@example.com")

	// Only personal and pf are in.
	_, err := sections.SaveSection(ctx, token, domain.SectionPersonal, personalPayload)
	require.NoError(t, err)
	result, err := sections.SaveSection(ctx, token, domain.SectionPF, pfPayload)
	require.NoError(t, err)

	_, err = masters.FinalSubmit(ctx, result.Progress.DraftID)
	require.ErrorIs(t, err, ErrMissingSections)
	require.Contains(t, err.Error(), "academic, experience, family, declaration, office")
}

func TestFinalSubmitTempWinsOverMasterSlot(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	masters := newMasterService(t, st)

	draftID := submitFullDraft(t, st, "asha@example.com")
	require.NoError(t, masters.ApplyOfficeUse(ctx, draftID, officePayload, "admin-1"))

	// HR corrects the pf slot on the master before the merge runs.
	correction := []byte(`{"nomineeName":"HR Edited","previousPfMember":false}`)
	require.NoError(t, masters.UpdateSection(ctx, draftID, domain.SectionPF, correction))

	_, err := masters.FinalSubmit(ctx, draftID)
	require.NoError(t, err)

	// The candidate's temp document overwrites the HR correction; the office
	// slot survives because candidates never write one.
	detail, err := masters.GetEmployee(ctx, draftID)
	require.NoError(t, err)

	pf := detail.Sections["pf"].(map[string]any)
	require.Equal(t, "Ravi Rao", pf["nomineeName"])

	office := detail.Sections["office"].(map[string]any)
	require.Equal(t, "TW-1042", office["employeeId"])
}

func TestUpdateSectionResetsWorkflow(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	masters := newMasterService(t, st)

	draftID := submitFullDraft(t, st, "asha@example.com")
	require.NoError(t, masters.ApplyOfficeUse(ctx, draftID, officePayload, "admin-1"))
	_, err := masters.FinalSubmit(ctx, draftID)
	require.NoError(t, err)

	require.NoError(t, masters.AdvanceStatus(ctx, draftID, domain.StatusVerified, "admin-1"))

	// An HR edit to any candidate slot drops the record back to draft.
	correction := []byte(`{"nomineeName":"Corrected Nominee","previousPfMember":false}`)
	require.NoError(t, masters.UpdateSection(ctx, draftID, domain.SectionPF, correction))

	master, err := st.Masters().GetMasterByDraftID(ctx, draftID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDraft, master.Status)
	require.Nil(t, master.SubmittedAt, "submission timestamp must be cleared")
	require.Empty(t, master.ApprovedBy)

	t.Run("personal edit refreshes identity", func(t *testing.T) {
		edited := []byte(`{
			"firstName": "Asha",
			"lastName": "Sharma",
			"email": "asha.sharma@example.com",
			"phone": "9876543210",
			"dateOfBirth": "1994-02-11",
			"currentAddress": "12 MG Road, Bengaluru",
			"aadhaar": "123412341234",
			"pan": "abcde1234f"
		}`)
		require.NoError(t, masters.UpdateSection(ctx, draftID, domain.SectionPersonal, edited))

		master, err := st.Masters().GetMasterByDraftID(ctx, draftID)
		require.NoError(t, err)
		require.Equal(t, "asha.sharma@example.com", master.Email)
		require.Equal(t, "Asha Sharma", master.FullName)
	})

	t.Run("office slot rejected here", func(t *testing.T) {
		err := masters.UpdateSection(ctx, draftID, domain.SectionOffice, officePayload)
		require.ErrorIs(t, err, ErrSectionNotAllowed)
	})
}

func TestAdvanceStatus(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	masters := newMasterService(t, st)

	draftID := submitFullDraft(t, st, "asha@example.com")
	require.NoError(t, masters.ApplyOfficeUse(ctx, draftID, officePayload, "admin-1"))
	_, err := masters.FinalSubmit(ctx, draftID)
	require.NoError(t, err)

	t.Run("cannot skip a stage", func(t *testing.T) {
		err := masters.AdvanceStatus(ctx, draftID, domain.StatusApproved, "admin-1")
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("advances one step at a time", func(t *testing.T) {
		require.NoError(t, masters.AdvanceStatus(ctx, draftID, domain.StatusVerified, "admin-1"))
		require.NoError(t, masters.AdvanceStatus(ctx, draftID, domain.StatusApproved, "admin-2"))

		master, err := st.Masters().GetMasterByDraftID(ctx, draftID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusApproved, master.Status)
		require.Equal(t, "admin-2", master.ApprovedBy)
		require.NotNil(t, master.ApprovedAt)
	})

	t.Run("cannot move backwards", func(t *testing.T) {
		err := masters.AdvanceStatus(ctx, draftID, domain.StatusVerified, "admin-1")
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("unknown record", func(t *testing.T) {
		err := masters.AdvanceStatus(ctx, "no-such-draft", domain.StatusVerified, "admin-1")
		require.ErrorIs(t, err, ErrEmployeeNotFound)
	})
}

func TestGetEmployeeDecryptsSections(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	masters := newMasterService(t, st)

	draftID := submitFullDraft(t, st, "asha@example.com")
	require.NoError(t, masters.ApplyOfficeUse(ctx, draftID, officePayload, "admin-1"))
	_, err := masters.FinalSubmit(ctx, draftID)
	require.NoError(t, err)

	detail, err := masters.GetEmployee(ctx, draftID)
	require.NoError(t, err)
	require.Len(t, detail.Sections, len(domain.AllSections))

	personal := detail.Sections["personal"].(map[string]any)
	require.Equal(t, "123412341234", personal["aadhaar"])
	require.Equal(t, "ABCDE1234F", personal["pan"])

	pf := detail.Sections["pf"].(map[string]any)
	require.Equal(t, "100200300400", pf["uan"])

	t.Run("unknown draft", func(t *testing.T) {
		_, err := masters.GetEmployee(ctx, "no-such-draft")
		require.ErrorIs(t, err, ErrEmployeeNotFound)
	})
}

func TestListEmployees(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	masters := newMasterService(t, st)

	for _, c := range []struct {
		email   string
		aadhaar string
		pan     string
	}{
		{"one@example.com", "111122223333", "AAAPA1111A"},
		{"two@example.com", "444455556666", "BBBPB2222B"},
	} {
		draftID := submitFullDraftAs(t, st, c.email, personalPayloadAs(c.email, c.aadhaar, c.pan))
		require.NoError(t, masters.ApplyOfficeUse(ctx, draftID, officePayload, "admin-1"))
		_, err := masters.FinalSubmit(ctx, draftID)
		require.NoError(t, err)
	}

	records, total, err := masters.ListEmployees(ctx, 10, 0, "")
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, records, 2)

	records, total, err = masters.ListEmployees(ctx, 10, 0, "one@")
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "one@example.com", records[0].Email)
}

func TestDeleteEmployee(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	masters := newMasterService(t, st)

	draftID := submitFullDraft(t, st, "asha@example.com")
	require.NoError(t, masters.ApplyOfficeUse(ctx, draftID, officePayload, "admin-1"))
	_, err := masters.FinalSubmit(ctx, draftID)
	require.NoError(t, err)

	require.NoError(t, masters.DeleteEmployee(ctx, draftID))

	_, err = masters.GetEmployee(ctx, draftID)
	require.ErrorIs(t, err, ErrEmployeeNotFound)

	require.ErrorIs(t, masters.DeleteEmployee(ctx, draftID), ErrEmployeeNotFound)
}

func TestRenderDocument(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	masters := newMasterService(t, st)

	draftID := submitFullDraft(t, st, "asha@example.com")
	require.NoError(t, masters.ApplyOfficeUse(ctx, draftID, officePayload, "admin-1"))
	_, err := masters.FinalSubmit(ctx, draftID)
	require.NoError(t, err)

	html, err := masters.RenderDocument(ctx, draftID)
	require.NoError(t, err)
	require.Contains(t, string(html), "Asha Rao")
	require.Contains(t, string(html), "asha@example.com")
	require.Contains(t, string(html), "TalentWire")
}
