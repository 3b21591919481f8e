package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProgressTracking(t *testing.T) {
	t.Parallel()

	now := time.Now()

	t.Run("empty progress", func(t *testing.T) {
		var p Progress
		require.Equal(t, 0, p.CompletedCount())
		require.Equal(t, 0, p.Percentage())
		require.Equal(t, SectionPersonal, p.NextSection())
		require.False(t, p.IsComplete())
	})

	t.Run("partial progress", func(t *testing.T) {
		p := Progress{
			PersonalDoneAt: &now,
			PFDoneAt:       &now,
			AcademicDoneAt: &now,
		}
		require.Equal(t, 3, p.CompletedCount())
		require.Equal(t, 50, p.Percentage())
		require.Equal(t, SectionExperience, p.NextSection())
		require.False(t, p.IsComplete())
	})

	t.Run("out of order completion", func(t *testing.T) {
		// Next section is the first gap, not the section after the latest save.
		p := Progress{
			PersonalDoneAt: &now,
			AcademicDoneAt: &now,
			FamilyDoneAt:   &now,
		}
		require.Equal(t, SectionPF, p.NextSection())
	})

	t.Run("full progress", func(t *testing.T) {
		p := Progress{
			PersonalDoneAt:    &now,
			PFDoneAt:          &now,
			AcademicDoneAt:    &now,
			ExperienceDoneAt:  &now,
			FamilyDoneAt:      &now,
			DeclarationDoneAt: &now,
		}
		require.Equal(t, 6, p.CompletedCount())
		require.Equal(t, 100, p.Percentage())
		require.Equal(t, Section(""), p.NextSection())
		require.True(t, p.IsComplete())
	})

	t.Run("completed map covers candidate sections", func(t *testing.T) {
		p := Progress{PersonalDoneAt: &now}
		m := p.CompletedMap()
		require.Len(t, m, len(CandidateSections))
		require.True(t, m["personal"])
		require.False(t, m["declaration"])
		require.NotContains(t, m, "office")
	})
}

func TestProgressPercentageRounding(t *testing.T) {
	t.Parallel()

	now := time.Now()

	// 1/6 = 16.67 rounds to 17, 2/6 = 33.33 rounds to 33.
	p := Progress{PersonalDoneAt: &now}
	require.Equal(t, 17, p.Percentage())

	p.PFDoneAt = &now
	require.Equal(t, 33, p.Percentage())
}
