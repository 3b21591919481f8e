package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/talentwire/onboard/internal/onboard/domain"
)

func TestHousekeepingDefaults(t *testing.T) {
	t.Parallel()

	svc := NewHousekeepingService(nil, slog.New(slog.NewTextHandler(io.Discard, nil)), 0, 0)
	require.Equal(t, time.Hour, svc.Interval)
	require.Equal(t, 30*24*time.Hour, svc.Retention)
}

func TestHousekeepingCleanup(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	links := &LinkService{Store: st, BaseURL: "http://localhost:8080"}

	// An expired link old enough to cross the retention cutoff.
	stale, err := links.IssueLink(ctx, "stale@example.com", "Asha", "Rao", "admin-1")
	require.NoError(t, err)
	require.NoError(t, st.Links().MarkLinkExpired(ctx, stale.Link.ID))

	// A live link that must survive.
	live, err := links.IssueLink(ctx, "live@example.com", "Vikram", "Shah", "admin-1")
	require.NoError(t, err)

	svc := NewHousekeepingService(st, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour, time.Nanosecond)

	// Let the cutoff pass the expired link's updated_at.
	time.Sleep(5 * time.Millisecond)
	svc.cleanup()

	_, err = st.Links().GetLinkByToken(ctx, stale.Link.Token)
	require.Error(t, err, "stale expired link should be deleted")

	_, err = st.Links().GetLinkByToken(ctx, live.Link.Token)
	require.NoError(t, err, "live link should survive cleanup")
}

func TestHousekeepingStartStop(t *testing.T) {
	st := newTestStore(t)
	svc := NewHousekeepingService(st, slog.New(slog.NewTextHandler(io.Discard, nil)), 10*time.Millisecond, time.Hour)

	svc.Start()
	time.Sleep(30 * time.Millisecond)
	svc.Stop()
}

func TestHousekeepingRemovesOrphanedDocuments(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	require.NoError(t, st.Sections().UpsertDocument(ctx, domain.SectionDocument{
		DraftID: "orphan-draft",
		Kind:    domain.SectionPersonal,
		Payload: []byte(`{"firstName":"Ghost"}`),
	}))

	svc := NewHousekeepingService(st, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour, time.Hour)
	svc.cleanup()

	_, err := st.Sections().GetDocument(ctx, "orphan-draft", domain.SectionPersonal)
	require.Error(t, err, "document without a progress row or master should be removed")
}
