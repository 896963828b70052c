package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-workers/internal/common/logger"
	"insurance-workers/internal/models"
)

// countingRepository records how often the backing store is hit.
type countingRepository struct {
	Repository
	policies  atomic.Int32
	features  atomic.Int32
	companies atomic.Int32
}

func (c *countingRepository) ListPolicies(ctx context.Context) ([]models.PolicyRecord, error) {
	c.policies.Add(1)
	return c.Repository.ListPolicies(ctx)
}

func (c *countingRepository) FeatureSets(ctx context.Context, names []string) (map[string]models.PolicyFeatureSet, error) {
	c.features.Add(1)
	return c.Repository.FeatureSets(ctx, names)
}

func (c *countingRepository) CompanyFinancials(ctx context.Context, company string) (*models.CompanyFinancials, error) {
	c.companies.Add(1)
	return c.Repository.CompanyFinancials(ctx, company)
}

func setupCache(t *testing.T) (*CachedRepository, *countingRepository, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	backing := &countingRepository{Repository: newSeed(t)}
	return NewCachedRepository(backing, client, time.Minute, logger.NewTestLogger(t)), backing, mr
}

func TestCachedRepository_ListPolicies(t *testing.T) {
	repo, backing, mr := setupCache(t)
	ctx := context.Background()

	first, err := repo.ListPolicies(ctx)
	require.NoError(t, err)
	second, err := repo.ListPolicies(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), backing.policies.Load())
	assert.True(t, mr.Exists("catalog:policies"))

	mr.FastForward(2 * time.Minute)
	_, err = repo.ListPolicies(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), backing.policies.Load())
}

func TestCachedRepository_FeatureSets_PartialHits(t *testing.T) {
	repo, backing, _ := setupCache(t)
	ctx := context.Background()

	_, err := repo.FeatureSets(ctx, []string{"Optima Secure"})
	require.NoError(t, err)

	sets, err := repo.FeatureSets(ctx, []string{"Optima Secure", "Care Supreme", "Ghost Plan"})
	require.NoError(t, err)
	assert.Len(t, sets, 2)
	assert.Equal(t, int32(2), backing.features.Load())

	sets, err = repo.FeatureSets(ctx, []string{"Care Supreme", "Optima Secure"})
	require.NoError(t, err)
	assert.Len(t, sets, 2)
	assert.Equal(t, int32(2), backing.features.Load(), "fully cached selection skips the store")
	assert.Equal(t, "Any Room (upgradable to suite)", sets["Care Supreme"].RoomRentLimit)
}

func TestCachedRepository_FeatureSets_CaseMatchesBackend(t *testing.T) {
	repo, backing, mr := setupCache(t)
	ctx := context.Background()

	cold, err := backing.Repository.FeatureSets(ctx, []string{"optima secure"})
	require.NoError(t, err)
	require.Empty(t, cold)

	_, err = repo.FeatureSets(ctx, []string{"Optima Secure"})
	require.NoError(t, err)
	assert.True(t, mr.Exists("catalog:features:Optima Secure"))

	warm, err := repo.FeatureSets(ctx, []string{"optima secure"})
	require.NoError(t, err)
	assert.Empty(t, warm, "a warm cache must not match names the store would not")
	assert.Equal(t, []string{"optima secure"}, MissingNames([]string{"optima secure"}, warm))
}

func TestCachedRepository_CompanyFinancials(t *testing.T) {
	repo, backing, _ := setupCache(t)
	ctx := context.Background()

	_, err := repo.CompanyFinancials(ctx, "Care Health")
	require.NoError(t, err)
	fin, err := repo.CompanyFinancials(ctx, "care health")
	require.NoError(t, err)
	assert.Equal(t, "Care Health", fin.Company)
	assert.Equal(t, int32(1), backing.companies.Load())

	_, err = repo.CompanyFinancials(ctx, "Nobody")
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestCachedRepository_CorruptEntryFallsThrough(t *testing.T) {
	repo, backing, mr := setupCache(t)
	require.NoError(t, mr.Set("catalog:policies", "{not json"))

	policies, err := repo.ListPolicies(context.Background())
	require.NoError(t, err)
	assert.Len(t, policies, 8)
	assert.Equal(t, int32(1), backing.policies.Load())
}

func TestCachedRepository_RedisDown(t *testing.T) {
	client, mock := redismock.NewClientMock()
	backing := &countingRepository{Repository: newSeed(t)}
	repo := NewCachedRepository(backing, client, time.Minute, logger.NewTestLogger(t))

	mock.ExpectGet("catalog:policies").SetErr(errors.New("connection refused"))
	mock.Regexp().ExpectSet("catalog:policies", `.*`, time.Minute).SetErr(errors.New("connection refused"))

	policies, err := repo.ListPolicies(context.Background())
	require.NoError(t, err)
	assert.Len(t, policies, 8)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedRepository_Invalidate(t *testing.T) {
	repo, backing, mr := setupCache(t)
	ctx := context.Background()

	_, _ = repo.ListPolicies(ctx)
	_, _ = repo.FeatureSets(ctx, []string{"Optima Secure"})
	require.NoError(t, mr.Set("session:abc", "keep"))

	require.NoError(t, repo.Invalidate(ctx))
	assert.False(t, mr.Exists("catalog:policies"))
	assert.True(t, mr.Exists("session:abc"))

	_, _ = repo.ListPolicies(ctx)
	assert.Equal(t, int32(2), backing.policies.Load())
}
