package marketprice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	mu     sync.Mutex
	trades map[string][]TradeRecord
	fail   map[string]bool
	calls  []string
}

func (f *fakeProvider) GetRecentTrades(_ context.Context, region, ym string) ([]TradeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, region+"/"+ym)
	if f.fail[ym] {
		return nil, errors.New("upstream timeout")
	}
	return f.trades[ym], nil
}

func TestYearMonths(t *testing.T) {
	now := time.Date(2025, time.March, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"202503", "202502", "202501"}, YearMonths(now, 3))

	jan := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"202501", "202412", "202411"}, YearMonths(jan, 3))
}

func TestFetchRecentSkipsFailedMonths(t *testing.T) {
	p := &fakeProvider{
		trades: map[string][]TradeRecord{
			"202503": {trade("a", "1", "1")},
			"202502": {trade("b", "1", "1")},
			"202501": {trade("c", "1", "1")},
		},
		fail: map[string]bool{"202502": true},
	}
	now := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	got := FetchRecent(context.Background(), p, "11110", now, 3)
	assert.Len(t, p.calls, 3)
	assert.Equal(t, []string{"a", "c"}, []string{got[0].AptName.String(), got[1].AptName.String()})
}

func TestFetchRecentAllFailed(t *testing.T) {
	p := &fakeProvider{fail: map[string]bool{"202503": true, "202502": true, "202501": true}}
	now := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	got := FetchRecent(context.Background(), p, "11110", now, 3)
	assert.Empty(t, got)
}
