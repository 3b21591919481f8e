package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/talentwire/onboard/internal/onboard/domain"
	"github.com/talentwire/onboard/internal/onboard/store"
)

func TestSaveSectionPersonalPinsDraft(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSectionService(t, st)
	token := issueTestLink(t, st, "asha@example.com")

	result, err := svc.SaveSection(ctx, token, domain.SectionPersonal, personalPayload)
	require.NoError(t, err)
	require.Equal(t, domain.SectionPersonal, result.Section)
	require.NotEmpty(t, result.Progress.DraftID)
	require.True(t, result.Progress.IsDone(domain.SectionPersonal))
	require.Equal(t, 17, result.Progress.Percentage())

	t.Run("re-saving keeps the same draft", func(t *testing.T) {
		again, err := svc.SaveSection(ctx, token, domain.SectionPersonal, personalPayload)
		require.NoError(t, err)
		require.Equal(t, result.Progress.DraftID, again.Progress.DraftID)
	})

	t.Run("identifiers are stored encrypted", func(t *testing.T) {
		doc, err := st.Sections().GetDocument(ctx, result.Progress.DraftID, domain.SectionPersonal)
		require.NoError(t, err)
		require.NotContains(t, string(doc.Payload), "123412341234")
		require.NotContains(t, string(doc.Payload), "ABCDE1234F")
	})

	t.Run("stored view decrypts for prefill", func(t *testing.T) {
		view, err := svc.GetSection(ctx, token, domain.SectionPersonal)
		require.NoError(t, err)

		m, ok := view.(map[string]any)
		require.True(t, ok)
		require.Equal(t, "123412341234", m["aadhaar"])
		require.Equal(t, "ABCDE1234F", m["pan"], "PAN should be uppercased")
		require.Equal(t, "000111222333", m["bankAccount"])
		require.Equal(t, "Asha", m["firstName"])
	})
}

func TestSaveSectionRequiresPersonalFirst(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSectionService(t, st)
	token := issueTestLink(t, st, "asha@example.com")

	_, err := svc.SaveSection(ctx, token, domain.SectionPF, pfPayload)
	require.ErrorIs(t, err, ErrPersonalRequired)

	_, err = svc.SaveSection(ctx, token, domain.SectionAcademic, academicPayload)
	require.ErrorIs(t, err, ErrPersonalRequired)
}

func TestSaveSectionGates(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSectionService(t, st)
	token := issueTestLink(t, st, "asha@example.com")

	t.Run("unknown token rejected", func(t *testing.T) {
		_, err := svc.SaveSection(ctx, "bogus", domain.SectionPersonal, personalPayload)
		require.ErrorIs(t, err, ErrLinkNotFound)
	})

	t.Run("office section rejected for candidates", func(t *testing.T) {
		_, err := svc.SaveSection(ctx, token, domain.SectionOffice, []byte(`{}`))
		require.ErrorIs(t, err, ErrSectionNotAllowed)
	})

	t.Run("declaration must use its own endpoint", func(t *testing.T) {
		_, err := svc.SaveSection(ctx, token, domain.SectionDeclaration, declarationPayload)
		require.ErrorIs(t, err, ErrSectionNotAllowed)
	})
}

func TestSaveSectionValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSectionService(t, st)
	token := issueTestLink(t, st, "asha@example.com")

	t.Run("missing field named in error", func(t *testing.T) {
		_, err := svc.SaveSection(ctx, token, domain.SectionPersonal, []byte(`{"firstName":"Asha"}`))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "lastName", verr.Field)
		require.Equal(t, "lastName is required", verr.Error())
	})

	t.Run("list rows reported 1-based", func(t *testing.T) {
		_, err := svc.SaveSection(ctx, token, domain.SectionPersonal, personalPayload)
		require.NoError(t, err)

		payload := []byte(`{"academicDetails":[
			{"qualification":"B.E.","institution":"RVCE","board":"VTU","yearOfPassing":"2016"},
			{"qualification":"12th","institution":"KV","board":"CBSE"}
		]}`)
		_, err = svc.SaveSection(ctx, token, domain.SectionAcademic, payload)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, 2, verr.Row)
		require.Equal(t, "yearOfPassing is required at row 2", verr.Error())
	})

	t.Run("garbage payload rejected", func(t *testing.T) {
		_, err := svc.SaveSection(ctx, token, domain.SectionPersonal, []byte(`not json`))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestSaveSectionAliases(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSectionService(t, st)
	token := issueTestLink(t, st, "asha@example.com")

	// Older form revisions used snake_case and different names entirely.
	legacy := []byte(`{
		"first_name": "Asha",
		"surname": "Rao",
		"email_id": "ASHA@Example.com",
		"contact_no": "9876543210",
		"dob": "1994-02-11",
		"address": "12 MG Road, Bengaluru",
		"aadhar_no": "123412341234",
		"pan_no": "abcde1234f"
	}`)

	result, err := svc.SaveSection(ctx, token, domain.SectionPersonal, legacy)
	require.NoError(t, err)

	view, err := svc.GetSection(ctx, token, domain.SectionPersonal)
	require.NoError(t, err)
	m := view.(map[string]any)
	require.Equal(t, "Asha", m["firstName"])
	require.Equal(t, "Rao", m["lastName"])
	require.Equal(t, "asha@example.com", m["email"], "email should be lowercased")
	require.Equal(t, "ABCDE1234F", m["pan"])

	// Alias spellings of the same identifiers must land on the same draft.
	canonical, err := svc.SaveSection(ctx, token, domain.SectionPersonal, personalPayload)
	require.NoError(t, err)
	require.Equal(t, result.Progress.DraftID, canonical.Progress.DraftID)
}

func TestSaveSectionListReplacedWholesale(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSectionService(t, st)
	token := issueTestLink(t, st, "asha@example.com")

	result, err := svc.SaveSection(ctx, token, domain.SectionPersonal, personalPayload)
	require.NoError(t, err)

	_, err = svc.SaveSection(ctx, token, domain.SectionAcademic, academicPayload)
	require.NoError(t, err)

	docs, err := st.Sections().ListDocuments(ctx, result.Progress.DraftID, domain.SectionAcademic)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// A second save replaces the rows rather than appending.
	shorter := []byte(`{"academicDetails":[
		{"qualification":"M.Tech","institution":"IISc","board":"IISc","yearOfPassing":"2018"}
	]}`)
	_, err = svc.SaveSection(ctx, token, domain.SectionAcademic, shorter)
	require.NoError(t, err)

	docs, err = st.Sections().ListDocuments(ctx, result.Progress.DraftID, domain.SectionAcademic)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	var row domain.AcademicRow
	require.NoError(t, json.Unmarshal(docs[0].Payload, &row))
	require.Equal(t, "M.Tech", row.Qualification)
}

func TestSaveSectionRejectsEmptyExperience(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSectionService(t, st)
	token := issueTestLink(t, st, "fresher@example.com")

	result, err := svc.SaveSection(ctx, token, domain.SectionPersonal, personalPayload)
	require.NoError(t, err)

	// An empty list would mark the section done while storing nothing, which
	// strands the candidate at final submission. Require at least one entry.
	_, err = svc.SaveSection(ctx, token, domain.SectionExperience, []byte(`{"experienceDetails":[]}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "experienceDetails", verr.Field)

	progress, err := st.Progress().GetProgressByToken(ctx, token)
	require.NoError(t, err)
	require.False(t, progress.IsDone(domain.SectionExperience))

	docs, err := st.Sections().ListDocuments(ctx, result.Progress.DraftID, domain.SectionExperience)
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestSaveSectionRejectsDuplicateIdentifiers(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSectionService(t, st)

	token := issueTestLink(t, st, "first@example.com")
	first, err := svc.SaveSection(ctx, token, domain.SectionPersonal, personalPayload)
	require.NoError(t, err)

	t.Run("another candidate cannot claim the same identifiers", func(t *testing.T) {
		other := issueTestLink(t, st, "other@example.com")
		_, err := svc.SaveSection(ctx, other, domain.SectionPersonal,
			personalPayloadAs("other@example.com", "123412341234", "abcde1234f"))
		require.ErrorIs(t, err, ErrDuplicateIdentifier)

		// The conflicting save must not pin the draft to the intruding token.
		progress, err := st.Progress().GetProgressByToken(ctx, other)
		require.NoError(t, err)
		require.Empty(t, progress.DraftID)

		// And the first candidate's document is untouched.
		doc, err := st.Sections().GetDocument(ctx, first.Progress.DraftID, domain.SectionPersonal)
		require.NoError(t, err)
		require.Contains(t, string(doc.Payload), "first@example.com")
	})

	t.Run("the same candidate may restart under a fresh link", func(t *testing.T) {
		link, err := st.Links().GetLinkByToken(ctx, token)
		require.NoError(t, err)
		require.NoError(t, st.Links().MarkLinkExpired(ctx, link.ID))

		reissued := issueTestLink(t, st, "first@example.com")
		require.NotEqual(t, token, reissued)

		result, err := svc.SaveSection(ctx, reissued, domain.SectionPersonal, personalPayload)
		require.NoError(t, err)
		require.Equal(t, first.Progress.DraftID, result.Progress.DraftID,
			"restart must land on the same draft")
	})
}

func TestCandidateSavesMirrorMaster(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSectionService(t, st)
	masters := newMasterService(t, st)
	token := issueTestLink(t, st, "asha@example.com")

	result, err := svc.SaveSection(ctx, token, domain.SectionPersonal, personalPayload)
	require.NoError(t, err)
	draftID := result.Progress.DraftID

	t.Run("first save creates a draft master", func(t *testing.T) {
		master, err := st.Masters().GetMasterByDraftID(ctx, draftID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusDraft, master.Status)
		require.Equal(t, "asha@example.com", master.Email)
		require.Equal(t, "Asha Rao", master.FullName)
		require.NotEmpty(t, master.Personal)
	})

	t.Run("list sections land on their slot", func(t *testing.T) {
		_, err := svc.SaveSection(ctx, token, domain.SectionAcademic, academicPayload)
		require.NoError(t, err)

		master, err := st.Masters().GetMasterByDraftID(ctx, draftID)
		require.NoError(t, err)
		require.NotEmpty(t, master.Academic)
	})

	t.Run("candidate save drops the master back to draft", func(t *testing.T) {
		require.NoError(t, masters.ApplyOfficeUse(ctx, draftID, officePayload, "admin-1"))
		master, err := st.Masters().GetMasterByDraftID(ctx, draftID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusSubmitted, master.Status)

		_, err = svc.SaveSection(ctx, token, domain.SectionPF, pfPayload)
		require.NoError(t, err)

		master, err = st.Masters().GetMasterByDraftID(ctx, draftID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusDraft, master.Status)
		require.Nil(t, master.SubmittedAt)
	})

	t.Run("declaration fills the final candidate slot", func(t *testing.T) {
		_, err := svc.SaveSection(ctx, token, domain.SectionExperience, experiencePayload)
		require.NoError(t, err)
		_, err = svc.SaveSection(ctx, token, domain.SectionFamily, familyPayload)
		require.NoError(t, err)
		_, err = svc.SubmitDeclaration(ctx, token, declarationPayload)
		require.NoError(t, err)

		master, err := st.Masters().GetMasterByDraftID(ctx, draftID)
		require.NoError(t, err)
		require.NotEmpty(t, master.Declaration)
		require.Empty(t, master.MissingSections(), "every slot should be mirrored")
	})
}

func TestSectionCompletionIsSticky(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSectionService(t, st)
	token := issueTestLink(t, st, "asha@example.com")

	first, err := svc.SaveSection(ctx, token, domain.SectionPersonal, personalPayload)
	require.NoError(t, err)
	firstDone := first.Progress.PersonalDoneAt
	require.NotNil(t, firstDone)

	again, err := svc.SaveSection(ctx, token, domain.SectionPersonal, personalPayload)
	require.NoError(t, err)
	require.NotNil(t, again.Progress.PersonalDoneAt)
	require.Equal(t, firstDone.Unix(), again.Progress.PersonalDoneAt.Unix(),
		"re-saving must keep the original completion timestamp")
}

func TestSubmitDeclaration(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSectionService(t, st)
	token := issueTestLink(t, st, "asha@example.com")

	t.Run("rejected while sections incomplete", func(t *testing.T) {
		_, err := svc.SaveSection(ctx, token, domain.SectionPersonal, personalPayload)
		require.NoError(t, err)

		_, err = svc.SubmitDeclaration(ctx, token, declarationPayload)
		require.ErrorIs(t, err, ErrIncompleteSections)
		require.Contains(t, err.Error(), "pf", "error should name the first incomplete section")
	})

	t.Run("accepted once everything is done", func(t *testing.T) {
		completeCandidateSections(t, svc, token)

		result, err := svc.SubmitDeclaration(ctx, token, declarationPayload)
		require.NoError(t, err)
		require.True(t, result.Progress.IsComplete())
		require.NotNil(t, result.Progress.FullyCompletedAt)
		require.Equal(t, 100, result.Progress.Percentage())
	})

	t.Run("submission burns the link", func(t *testing.T) {
		_, err := svc.SaveSection(ctx, token, domain.SectionPersonal, personalPayload)
		require.ErrorIs(t, err, ErrLinkExpired)

		_, err = svc.SubmitDeclaration(ctx, token, declarationPayload)
		require.ErrorIs(t, err, ErrLinkExpired)
	})

	t.Run("declaration must agree to terms", func(t *testing.T) {
		// Same candidate restarting after their first link was burned; the
		// canonical identifiers land back on the same draft.
		token2 := issueTestLink(t, st, "asha@example.com")
		completeCandidateSections(t, svc, token2)

		refused := []byte(`{
			"signatureName": "Asha Rao",
			"placeOfSigning": "Bengaluru",
			"dateOfSigning": "2026-01-15",
			"agreedToTerms": false
		}`)
		_, err := svc.SubmitDeclaration(ctx, token2, refused)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "agreedToTerms", verr.Field)
	})
}

func TestGetSection(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSectionService(t, st)
	token := issueTestLink(t, st, "asha@example.com")

	t.Run("unsaved section", func(t *testing.T) {
		_, err := svc.GetSection(ctx, token, domain.SectionPersonal)
		require.ErrorIs(t, err, ErrSectionNotFound)
	})

	t.Run("list section returns rows", func(t *testing.T) {
		_, err := svc.SaveSection(ctx, token, domain.SectionPersonal, personalPayload)
		require.NoError(t, err)
		_, err = svc.SaveSection(ctx, token, domain.SectionAcademic, academicPayload)
		require.NoError(t, err)

		view, err := svc.GetSection(ctx, token, domain.SectionAcademic)
		require.NoError(t, err)
		rows, ok := view.([]json.RawMessage)
		require.True(t, ok)
		require.Len(t, rows, 2)
	})
}

func TestProgressCreatesRecordOnFirstRead(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSectionService(t, st)
	token := issueTestLink(t, st, "asha@example.com")

	progress, err := svc.Progress(ctx, token)
	require.NoError(t, err)
	require.Equal(t, token, progress.Token)
	require.Equal(t, 0, progress.Percentage())

	// The row now exists in the store.
	_, err = st.Progress().GetProgressByToken(ctx, token)
	require.NoError(t, err)
	require.NotErrorIs(t, err, store.ErrNotFound)
}
