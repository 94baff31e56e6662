package refdata

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jipsalddae/backend/app/models"
	"github.com/jipsalddae/backend/internal/pkg/eligibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePolicies struct {
	mu      sync.Mutex
	loads   int
	rules   []models.PolicyRule
	outputs []models.PolicyOutput
	err     error
}

func (f *fakePolicies) GetAllRules(ctx context.Context) ([]models.PolicyRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.rules, f.err
}

func (f *fakePolicies) GetOutputByID(context.Context, int) (*models.PolicyOutput, error) {
	return nil, nil
}

func (f *fakePolicies) GetAllOutputs(context.Context) ([]models.PolicyOutput, error) {
	return f.outputs, nil
}

func (f *fakePolicies) GetIncomeRuleVariants(context.Context, int) (eligibility.RuleVariants, error) {
	return eligibility.RuleVariants{}, nil
}

type fakeStandards struct {
	rows []models.IncomeStandard
}

func (f *fakeStandards) GetStandard(context.Context, int) (int64, bool, error) {
	return 0, false, nil
}

func (f *fakeStandards) GetAll(context.Context) ([]models.IncomeStandard, error) {
	return f.rows, nil
}

func newTestCache() (*Cache, *fakePolicies) {
	p := &fakePolicies{
		rules:   []models.PolicyRule{{PolicyID: 1}, {PolicyID: 2}},
		outputs: []models.PolicyOutput{{PolicyID: 1, PolicyName: "디딤돌"}},
	}
	s := &fakeStandards{rows: []models.IncomeStandard{{HouseholdSize: 3, MonthlyIncome: 12_000_000}}}
	return New(p, s), p
}

func TestCacheLoadsOnceAndServesLookups(t *testing.T) {
	c, p := newTestCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Rules(ctx)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, p.loads)

	out, err := c.Output(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "디딤돌", out.PolicyName)

	missing, err := c.Output(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)

	std, ok, err := c.GetStandard(ctx, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(12_000_000), std)

	_, ok, err = c.GetStandard(ctx, 9)
	require.NoError(t, err)
	assert.False(t, ok)

	stats := c.Stats()
	assert.True(t, stats.Loaded)
	assert.Equal(t, 2, stats.Rules)
	assert.Equal(t, 1, stats.Standards)
}

func TestCacheInvalidateReloads(t *testing.T) {
	c, p := newTestCache()
	ctx := context.Background()

	_, err := c.Rules(ctx)
	require.NoError(t, err)
	c.Invalidate()
	assert.False(t, c.Stats().Loaded)

	_, err = c.Rules(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, p.loads)
}

func TestCacheDoesNotKeepFailedLoads(t *testing.T) {
	c, p := newTestCache()
	p.err = errors.New("db down")

	_, err := c.Rules(context.Background())
	require.Error(t, err)

	p.err = nil
	rules, err := c.Rules(context.Background())
	require.NoError(t, err)
	assert.Len(t, rules, 2)
}

func TestCacheSatisfiesStandardStore(t *testing.T) {
	c, _ := newTestCache()
	var store eligibility.StandardStore = c

	std, err := eligibility.NewResolver(store).Resolve(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(12_000_000), std)
}

func TestCacheLoadIgnoresCallerCancellation(t *testing.T) {
	c, p := newTestCache()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rules, err := c.Rules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 2)

	_, err = c.Rules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, p.loads)
}
