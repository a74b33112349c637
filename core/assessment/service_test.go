package assessment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/assessment"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
)

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := assessment.NewService(inmemdb.NewAssessmentRepository(inmemdb.Open()))

	t.Run("date-only format", func(t *testing.T) {
		a, err := svc.Create(ctx, assessment.NewAssessment{
			StudentID: "std-1",
			Subject:   "Mathematics",
			Score:     48,
			Date:      "2025-01-15",
		})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), a.Date)
	})

	t.Run("RFC3339 format", func(t *testing.T) {
		a, err := svc.Create(ctx, assessment.NewAssessment{
			StudentID: "std-1",
			Subject:   "Mathematics",
			Score:     48,
			Date:      "2025-01-15T08:30:00Z",
		})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 15, 8, 30, 0, 0, time.UTC), a.Date)
	})

	t.Run("unparseable date", func(t *testing.T) {
		_, err := svc.Create(ctx, assessment.NewAssessment{
			StudentID: "std-1",
			Subject:   "Mathematics",
			Date:      "15/01/2025",
		})
		assert.Equal(t, assessment.ErrInvalidDate, err)
	})
}

func TestService_Query_filter(t *testing.T) {
	ctx := context.Background()
	svc := assessment.NewService(inmemdb.NewAssessmentRepository(inmemdb.Open()))

	for _, na := range []assessment.NewAssessment{
		{StudentID: "std-1", Subject: "Mathematics", Score: 48, Date: "2025-01-15"},
		{StudentID: "std-1", Subject: "English", Score: 62, Date: "2025-02-02"},
		{StudentID: "std-2", Subject: "English", Score: 76, Date: "2025-01-12"},
	} {
		_, err := svc.Create(ctx, na)
		require.NoError(t, err)
	}

	all, err := svc.Query(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	// newest date first
	assert.Equal(t, "English", all[0].Subject)
	assert.Equal(t, "std-1", all[0].StudentID)

	one, err := svc.Query(ctx, "std-2")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, float64(76), one[0].Score)
}
