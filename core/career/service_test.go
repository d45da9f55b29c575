package career_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusight/edusight/core/academics"
	"github.com/edusight/edusight/core/career"
	"github.com/edusight/edusight/core/notification"
	cachesvc "github.com/edusight/edusight/services/cache"
	dummydb "github.com/edusight/edusight/storage/database/dummy"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

type countingRepo struct {
	career.Repository
	careerQueries int
}

func (r *countingRepo) QueryActiveCareers(ctx context.Context, limit int) ([]career.Career, error) {
	r.careerQueries++
	return r.Repository.QueryActiveCareers(ctx, limit)
}

func newTestService(t *testing.T) (*career.Service, *countingRepo) {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	repo := &countingRepo{Repository: dummydb.NewCareerRepository(db)}
	academicsSvc := academics.NewService(dummydb.NewAcademicsRepository(db))
	notifier := notification.NewService(dummydb.NewNotificationRepository(db), nil, nopLogger{})
	svc := career.NewService(repo, cachesvc.NewInMemCache(), career.NewRecommender(nil, nopLogger{}), academicsSvc, notifier, nopLogger{})
	return svc, repo
}

func TestService_ActiveCareers(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddCareer(ctx, career.NewCareer{Name: "Software Engineer", Description: "Builds software", Category: "Tech"})
	require.NoError(t, err)

	careers, err := svc.ActiveCareers(ctx)
	require.NoError(t, err)
	require.Len(t, careers, 1)
	assert.Equal(t, 1, repo.careerQueries)

	t.Run("second read is served from the cache", func(t *testing.T) {
		careers, err := svc.ActiveCareers(ctx)
		require.NoError(t, err)
		require.Len(t, careers, 1)
		assert.Equal(t, 1, repo.careerQueries)
	})

	t.Run("adding a career drops the cached list", func(t *testing.T) {
		_, err := svc.AddCareer(ctx, career.NewCareer{Name: "Graphic Designer", Description: "Designs visuals", Category: "Creative"})
		require.NoError(t, err)

		careers, err := svc.ActiveCareers(ctx)
		require.NoError(t, err)
		require.Len(t, careers, 2)
		assert.Equal(t, 2, repo.careerQueries)
	})
}

func TestService_Results_readsCareersThroughCache(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	for _, nc := range []career.NewCareer{
		{Name: "Software Engineer", Description: "Builds software", Category: "Tech"},
		{Name: "Data Scientist", Description: "Analyzes data", Category: "Tech"},
		{Name: "Graphic Designer", Description: "Designs visuals", Category: "Creative"},
	} {
		_, err := svc.AddCareer(ctx, nc)
		require.NoError(t, err)
	}

	_, err := svc.ActiveCareers(ctx) // warm the cache
	require.NoError(t, err)
	require.Equal(t, 1, repo.careerQueries)

	// no answers yet, so the first active careers are returned
	res, err := svc.Results(ctx, 1)
	require.NoError(t, err)
	require.Len(t, res.Careers, 3)
	assert.Equal(t, "Software Engineer", res.Careers[0].Name)
	assert.Equal(t, 1, repo.careerQueries)
}
