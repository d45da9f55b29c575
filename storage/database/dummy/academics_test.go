package dummydb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusight/edusight/core/academics"
)

func TestAcademicsRepository_CreateAttendance(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	repo := NewAcademicsRepository(db)
	ctx := context.Background()

	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	first, err := repo.CreateAttendance(ctx, academics.Attendance{StudentID: 1, Date: day, Status: academics.StatusPresent})
	require.NoError(t, err)

	t.Run("re-marking the same day updates in place", func(t *testing.T) {
		second, err := repo.CreateAttendance(ctx, academics.Attendance{StudentID: 1, Date: day, Status: academics.StatusAbsent})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		entries, err := repo.QueryStudentAttendance(ctx, 1, time.Time{}, time.Time{})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, academics.StatusAbsent, entries[0].Status)
	})

	t.Run("another day appends", func(t *testing.T) {
		_, err := repo.CreateAttendance(ctx, academics.Attendance{StudentID: 1, Date: day.AddDate(0, 0, 1), Status: academics.StatusPresent})
		require.NoError(t, err)

		entries, err := repo.QueryStudentAttendance(ctx, 1, time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("another student appends", func(t *testing.T) {
		other, err := repo.CreateAttendance(ctx, academics.Attendance{StudentID: 2, Date: day, Status: academics.StatusPresent})
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, other.ID)
	})
}
