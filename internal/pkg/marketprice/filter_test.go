package marketprice

import (
	"testing"

	"github.com/jipsalddae/backend/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trade(name, section, amount string) TradeRecord {
	return TradeRecord{AptName: FlexString(name), AptDong: FlexString(section), DealAmount: FlexString(amount)}
}

func TestMinimumObservedPriceSectionAverages(t *testing.T) {
	trades := []TradeRecord{
		trade("래미안", "101", "50,000"),
		trade("래미안", "101", "52,000"),
		trade("래미안", "102", "48,000"),
		trade("자이", "101", "10,000"),
	}

	got, err := MinimumObservedPrice(trades, "래미안")
	require.NoError(t, err)
	assert.InDelta(t, 480_000_000, got, 0.001)
}

func TestMinimumObservedPriceStripsQueryWhitespace(t *testing.T) {
	trades := []TradeRecord{trade("래미안장전", "", " 70,500")}

	got, err := MinimumObservedPrice(trades, " 래미안 장전 ")
	require.NoError(t, err)
	assert.InDelta(t, 705_000_000, got, 0.001)
}

func TestMinimumObservedPriceSkipsCancelledDeals(t *testing.T) {
	cancelled := trade("래미안", "101", "10,000")
	cancelled.CdealType = "O"
	trades := []TradeRecord{cancelled, trade("래미안", "101", "60,000")}

	got, err := MinimumObservedPrice(trades, "래미안")
	require.NoError(t, err)
	assert.InDelta(t, 600_000_000, got, 0.001)

	_, err = MinimumObservedPrice([]TradeRecord{cancelled}, "래미안")
	assert.ErrorIs(t, err, ErrApartmentNotFound)
}

func TestMinimumObservedPriceNoMatch(t *testing.T) {
	_, err := MinimumObservedPrice([]TradeRecord{trade("래미안장전", "1", "1")}, "래미안")
	assert.ErrorIs(t, err, ErrApartmentNotFound)

	_, err = MinimumObservedPrice(nil, "래미안")
	assert.ErrorIs(t, err, ErrApartmentNotFound)
}

func TestMinimumObservedPriceRejectsMalformedAmount(t *testing.T) {
	_, err := MinimumObservedPrice([]TradeRecord{trade("래미안", "1", "n/a")}, "래미안")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrApartmentNotFound)
}

func TestRefinePolicies(t *testing.T) {
	policies := []models.PolicyOutput{
		{PolicyID: 1, Region: "전국", MaxHousePrice: "6억"},
		{PolicyID: 2, Region: "전국", MaxHousePrice: "4억"},
		{PolicyID: 3, Region: "서울특별시", MaxHousePrice: "9억 원"},
		{PolicyID: 4, Region: "부산광역시", MaxHousePrice: "9억"},
		{PolicyID: 5, Region: "전국", MaxHousePrice: "제한없음"},
		{PolicyID: 6, Region: "", MaxHousePrice: ""},
	}

	got := RefinePolicies(policies, 480_000_000, "서울특별시")
	ids := make([]int, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.PolicyID)
	}
	assert.Equal(t, []int{1, 3, 5, 6}, ids)
}

func TestApartmentNames(t *testing.T) {
	trades := []TradeRecord{
		trade("자이", "", "1"),
		trade("래미안", "", "1"),
		trade("자이", "", "1"),
		trade("", "", "1"),
	}
	assert.Equal(t, []string{"래미안", "자이"}, ApartmentNames(trades))
}
