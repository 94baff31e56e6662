package eligibility

import "sort"

type VariantKind int

const (
	VariantNone VariantKind = iota
	VariantSingle
	VariantKeyed
)

func (k VariantKind) String() string {
	switch k {
	case VariantSingle:
		return "single"
	case VariantKeyed:
		return "keyed"
	default:
		return "none"
	}
}

// IncomeVariant is one income cap of a policy, labelled by the target group it applies to.
type IncomeVariant struct {
	TargetType  string `json:"target_type"`
	IncomeLimit int64  `json:"income_limit"`
}

// RuleVariants holds either one income variant or several keyed by target type.
// Callers switch on Kind before reading.
type RuleVariants struct {
	kind   VariantKind
	single IncomeVariant
	keyed  map[string]IncomeVariant
}

func SingleVariant(v IncomeVariant) RuleVariants {
	return RuleVariants{kind: VariantSingle, single: v}
}

func KeyedVariants(m map[string]IncomeVariant) RuleVariants {
	if len(m) == 0 {
		return RuleVariants{}
	}
	return RuleVariants{kind: VariantKeyed, keyed: m}
}

// NewRuleVariants picks the shape from the row count.
func NewRuleVariants(rows []IncomeVariant) RuleVariants {
	switch len(rows) {
	case 0:
		return RuleVariants{}
	case 1:
		return SingleVariant(rows[0])
	}
	m := make(map[string]IncomeVariant, len(rows))
	for _, r := range rows {
		m[r.TargetType] = r
	}
	return KeyedVariants(m)
}

func (v RuleVariants) Kind() VariantKind {
	return v.kind
}

func (v RuleVariants) Single() (IncomeVariant, bool) {
	return v.single, v.kind == VariantSingle
}

func (v RuleVariants) Keyed() (map[string]IncomeVariant, bool) {
	return v.keyed, v.kind == VariantKeyed
}

// ResolvedLimit is an income variant with its cap converted to an annual amount.
type ResolvedLimit struct {
	TargetType   string  `json:"target_type"`
	RawLimit     int64   `json:"raw_limit"`
	IsPercentage bool    `json:"is_percentage"`
	AnnualLimit  float64 `json:"annual_limit"`
}

// Resolve converts every variant with the given monthly standard, sorted by target type.
func (v RuleVariants) Resolve(standard int64) []ResolvedLimit {
	resolve := func(iv IncomeVariant) ResolvedLimit {
		r := Rule{Income: iv.IncomeLimit}
		return ResolvedLimit{
			TargetType:   iv.TargetType,
			RawLimit:     iv.IncomeLimit,
			IsPercentage: r.IsPercentage(),
			AnnualLimit:  r.IncomeLimit(standard),
		}
	}

	switch v.kind {
	case VariantSingle:
		return []ResolvedLimit{resolve(v.single)}
	case VariantKeyed:
		out := make([]ResolvedLimit, 0, len(v.keyed))
		for _, iv := range v.keyed {
			out = append(out, resolve(iv))
		}
		sort.Slice(out, func(i, j int) bool { return out[i].TargetType < out[j].TargetType })
		return out
	default:
		return nil
	}
}

// All lists the raw variants sorted by target type.
func (v RuleVariants) All() []IncomeVariant {
	switch v.kind {
	case VariantSingle:
		return []IncomeVariant{v.single}
	case VariantKeyed:
		out := make([]IncomeVariant, 0, len(v.keyed))
		for _, iv := range v.keyed {
			out = append(out, iv)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].TargetType < out[j].TargetType })
		return out
	default:
		return nil
	}
}
