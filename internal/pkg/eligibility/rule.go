package eligibility

// AbsoluteIncomeThreshold separates the two meanings of a rule's income column.
// Values above it are annual amounts; values at or below it are a percentage of
// the household income standard.
const AbsoluteIncomeThreshold = 1000

// Rule is one eligibility variant of a policy. A zero bound means "no bound".
type Rule struct {
	PolicyID          int
	Income            int64
	ReqNewborn        bool
	ReqNewlywed       bool
	HouseOwnerAllowed bool
	MinChildren       int
	MinAge            int
	MaxAge            int
	AssetLimit        int64
}

// IncomeLimit returns the annual income cap of the rule for a given monthly standard.
func (r Rule) IncomeLimit(standard int64) float64 {
	if r.Income > AbsoluteIncomeThreshold {
		return float64(r.Income)
	}
	return float64(r.Income) * 12 * float64(standard) / 100
}

// IsPercentage reports whether the income column is interpreted as a percentage.
func (r Rule) IsPercentage() bool {
	return r.Income <= AbsoluteIncomeThreshold
}
