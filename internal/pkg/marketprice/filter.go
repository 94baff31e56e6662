package marketprice

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/jipsalddae/backend/app/models"
	"github.com/samber/lo"
)

// ErrApartmentNotFound is returned when no non-cancelled trade matches the apartment name.
var ErrApartmentNotFound = errors.New("apartment not found in recent trades")

// PriceUnit converts deal amounts (10,000 won) to won.
const PriceUnit = 10000

// NormalizeName removes every whitespace rune from an apartment name.
func NormalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
}

// ParseDealAmount parses "50,000" style amounts in units of 10,000 won.
func ParseDealAmount(s string) (int64, error) {
	clean := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	v, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid deal amount %q: %w", s, err)
	}
	return v, nil
}

// MinimumObservedPrice returns, in won, the lowest per-section average deal amount of
// the apartment named aptQuery. Cancelled deals are ignored. Names are compared
// exactly after stripping whitespace from the query; when several name groups
// match, the first one encountered is used.
func MinimumObservedPrice(trades []TradeRecord, aptQuery string) (float64, error) {
	query := NormalizeName(aptQuery)

	var (
		groupOrder []string
		groups     = make(map[string][]TradeRecord)
	)
	for _, t := range trades {
		name := t.AptName.String()
		if name != query || t.IsCancelled() {
			continue
		}
		if _, ok := groups[name]; !ok {
			groupOrder = append(groupOrder, name)
		}
		groups[name] = append(groups[name], t)
	}
	if len(groupOrder) == 0 {
		return 0, ErrApartmentNotFound
	}
	selected := groups[groupOrder[0]]

	var (
		sectionOrder []string
		sums         = make(map[string]int64)
		counts       = make(map[string]int64)
	)
	for _, t := range selected {
		amount, err := ParseDealAmount(t.DealAmount.String())
		if err != nil {
			return 0, err
		}
		section := t.AptDong.String()
		if _, ok := counts[section]; !ok {
			sectionOrder = append(sectionOrder, section)
		}
		sums[section] += amount
		counts[section]++
	}

	means := lo.Map(sectionOrder, func(section string, _ int) float64 {
		return float64(sums[section]) / float64(counts[section])
	})
	return lo.Min(means) * PriceUnit, nil
}

// RefinePolicies keeps the policies available in the apartment's sido whose house
// price cap is at least minPrice. A cap that cannot be parsed means no cap.
func RefinePolicies(policies []models.PolicyOutput, minPrice float64, sido string) []models.PolicyOutput {
	return lo.Filter(policies, func(p models.PolicyOutput, _ int) bool {
		if !p.IsNationwide() && strings.TrimSpace(p.Region) != sido {
			return false
		}
		if maxPrice, ok := p.MaxHousePriceWon(); ok && float64(maxPrice) < minPrice {
			return false
		}
		return true
	})
}

// ApartmentNames returns the sorted distinct building names of the trades.
func ApartmentNames(trades []TradeRecord) []string {
	names := lo.Uniq(lo.FilterMap(trades, func(t TradeRecord, _ int) (string, bool) {
		n := t.AptName.String()
		return n, n != ""
	}))
	sort.Strings(names)
	return names
}
