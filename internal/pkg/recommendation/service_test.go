package recommendation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jipsalddae/backend/app/models"
	"github.com/jipsalddae/backend/app/repository"
	"github.com/jipsalddae/backend/internal/pkg/eligibility"
	"github.com/jipsalddae/backend/internal/pkg/marketprice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

type fakeProfiles struct {
	infos map[string]*models.UserInfo
	err   error
}

func (f *fakeProfiles) Get(_ context.Context, userID string) (*models.UserInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.infos[userID], nil
}

func (f *fakeProfiles) Upsert(context.Context, *models.UserInfo) error { return nil }

func (f *fakeProfiles) Exists(_ context.Context, userID string) (bool, error) {
	return f.infos[userID] != nil, nil
}

type fakeRef struct {
	rules     []models.PolicyRule
	outputs   map[int]models.PolicyOutput
	standards map[int]int64
}

func (f *fakeRef) Rules(context.Context) ([]models.PolicyRule, error) { return f.rules, nil }

func (f *fakeRef) Output(_ context.Context, id int) (*models.PolicyOutput, error) {
	out, ok := f.outputs[id]
	if !ok {
		return nil, nil
	}
	return &out, nil
}

func (f *fakeRef) GetStandard(_ context.Context, size int) (int64, bool, error) {
	v, ok := f.standards[size]
	return v, ok, nil
}

type fakeRegions struct{}

func (fakeRegions) GetSidoNames(context.Context) ([]string, error) { return nil, nil }

func (fakeRegions) GetSigunguNames(context.Context, string) ([]string, error) { return nil, nil }

func (fakeRegions) GetRegionCode(_ context.Context, sido, sigungu string) (string, error) {
	if sido == "서울특별시" && sigungu == "종로구" {
		return "11110", nil
	}
	return "", repository.ErrRegionNotFound
}

type fakeTrades struct {
	trades []marketprice.TradeRecord
}

func (f *fakeTrades) GetRecentTrades(_ context.Context, _ string, ym string) ([]marketprice.TradeRecord, error) {
	if ym == "202503" {
		return f.trades, nil
	}
	return nil, errors.New("no data")
}

func ptrBool(b bool) *bool { return &b }

func newTestService() *Service {
	profiles := &fakeProfiles{infos: map[string]*models.UserInfo{
		"u-1": {
			UserID:        "u-1",
			BirthDate:     time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
			Income:        90_000_000,
			Asset:         50_000_000,
			HouseholdSize: 3,
		},
	}}
	ref := &fakeRef{
		rules: []models.PolicyRule{
			{PolicyID: 10, Income: 70, HouseOwnerAllowed: ptrBool(true)},
			{PolicyID: 20, Income: 70, HouseOwnerAllowed: ptrBool(true)},
			{PolicyID: 30, Income: 50_000_000, HouseOwnerAllowed: ptrBool(true)},
			{PolicyID: 40, Income: 70, HouseOwnerAllowed: ptrBool(true)},
		},
		outputs: map[int]models.PolicyOutput{
			10: {PolicyID: 10, PolicyName: "전국 정책", Region: "전국", MaxHousePrice: "6억"},
			20: {PolicyID: 20, PolicyName: "부산 정책", Region: "부산광역시", MaxHousePrice: "9억"},
			30: {PolicyID: 30, PolicyName: "소득 초과", Region: "전국"},
		},
		standards: map[int]int64{3: 12_000_000},
	}
	trades := &fakeTrades{trades: []marketprice.TradeRecord{
		{AptName: "래미안", AptDong: "101", DealAmount: "50,000"},
		{AptName: "래미안", AptDong: "101", DealAmount: "52,000"},
		{AptName: "래미안", AptDong: "102", DealAmount: "48,000"},
	}}
	return NewService(profiles, fakeRegions{}, ref, trades, 3).WithClock(func() time.Time { return fixedNow })
}

func TestRecommend(t *testing.T) {
	s := newTestService()

	res, err := s.Recommend(context.Background(), "u-1")
	require.NoError(t, err)
	// 40 matches but has no output record and is skipped
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, 10, res.Policies[0].PolicyID)
	assert.Equal(t, 20, res.Policies[1].PolicyID)
}

func TestRecommendErrors(t *testing.T) {
	s := newTestService()

	_, err := s.Recommend(context.Background(), "")
	assert.ErrorIs(t, err, eligibility.ErrUnauthenticated)

	_, err = s.Recommend(context.Background(), "u-without-profile")
	assert.ErrorIs(t, err, eligibility.ErrProfileMissing)
}

func TestRecommendEmptyResultIsNotProfileMissing(t *testing.T) {
	s := newTestService()
	s.ref.(*fakeRef).rules = nil

	res, err := s.Recommend(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.NotNil(t, res.Policies)
}

func TestRecommendMissingStandard(t *testing.T) {
	s := newTestService()
	s.ref.(*fakeRef).standards = map[int]int64{}

	_, err := s.Recommend(context.Background(), "u-1")
	assert.ErrorIs(t, err, eligibility.ErrMissingReferenceData)
}

func TestRecommendForApartment(t *testing.T) {
	s := newTestService()

	res, err := s.RecommendForApartment(context.Background(), "u-1", "서울특별시", "종로구", "래 미안")
	require.NoError(t, err)
	assert.InDelta(t, 480_000_000, res.MinimumObservedPrice, 0.001)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, 10, res.Policies[0].PolicyID)
}

func TestRecommendForApartmentErrors(t *testing.T) {
	s := newTestService()

	_, err := s.RecommendForApartment(context.Background(), "u-1", "서울특별시", "없는구", "래미안")
	assert.ErrorIs(t, err, repository.ErrRegionNotFound)

	_, err = s.RecommendForApartment(context.Background(), "u-1", "서울특별시", "종로구", "자이")
	assert.ErrorIs(t, err, marketprice.ErrApartmentNotFound)

	_, err = s.RecommendForApartment(context.Background(), "u-without-profile", "서울특별시", "종로구", "래미안")
	assert.ErrorIs(t, err, eligibility.ErrProfileMissing)
}

func TestApartmentNames(t *testing.T) {
	s := newTestService()

	names, err := s.ApartmentNames(context.Background(), "서울특별시", "종로구")
	require.NoError(t, err)
	assert.Equal(t, []string{"래미안"}, names)
}
