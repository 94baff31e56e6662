package marketprice

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/errgroup"
)

// TradeProvider returns the trades of one region for one contract month (YYYYMM).
type TradeProvider interface {
	GetRecentTrades(ctx context.Context, regionCode, yearMonth string) ([]TradeRecord, error)
}

// YearMonths lists the YYYYMM keys of the current month and the months-1 before it,
// newest first.
func YearMonths(now time.Time, months int) []string {
	out := make([]string, 0, months)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 0; i < months; i++ {
		out = append(out, first.AddDate(0, -i, 0).Format("200601"))
	}
	return out
}

// FetchRecent fetches every month concurrently. A month that fails is logged and
// contributes no trades; the result keeps newest-first month order.
func FetchRecent(ctx context.Context, provider TradeProvider, regionCode string, now time.Time, months int) []TradeRecord {
	yms := YearMonths(now, months)
	perMonth := make([][]TradeRecord, len(yms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)
	for i, ym := range yms {
		i, ym := i, ym
		g.Go(func() error {
			trades, err := provider.GetRecentTrades(gctx, regionCode, ym)
			if err != nil {
				log.Warnf("[TradeAPI] Skipping %s/%s: %v", regionCode, ym, err)
				return nil
			}
			perMonth[i] = trades
			return nil
		})
	}
	g.Wait()

	var all []TradeRecord
	for _, trades := range perMonth {
		all = append(all, trades...)
	}
	log.Debugf("[TradeAPI] Fetched %d trades for %s over %d months", len(all), regionCode, len(yms))
	return all
}
