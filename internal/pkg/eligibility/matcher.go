package eligibility

import (
	"context"
	"sort"
)

// Predicate names reported by Evaluate, in evaluation order.
const (
	PredicateMinAge      = "min_age"
	PredicateMaxAge      = "max_age"
	PredicateAssetLimit  = "asset_limit"
	PredicateNewlywed    = "req_newlywed"
	PredicateNewborn     = "req_newborn"
	PredicateHouseOwner  = "house_owner_allowed"
	PredicateMinChildren = "min_children"
	PredicateIncome      = "income"
)

// Verdict is the outcome of a single rule. FailedOn is empty when the rule passed.
type Verdict struct {
	Passed   bool
	FailedOn string
}

func reject(predicate string) Verdict {
	return Verdict{FailedOn: predicate}
}

type Matcher struct {
	resolver *Resolver
}

func NewMatcher(resolver *Resolver) *Matcher {
	return &Matcher{resolver: resolver}
}

// Match returns the sorted distinct policy ids with at least one passing rule.
// The standard is resolved once for the whole rule set, even when it is empty.
func (m *Matcher) Match(ctx context.Context, profile Profile, rules []Rule) ([]int, error) {
	standard, err := m.resolver.Resolve(ctx, profile.HouseholdSize)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	ids := make([]int, 0)
	for _, rule := range rules {
		if _, ok := seen[rule.PolicyID]; ok {
			continue
		}
		if Evaluate(profile, rule, standard).Passed {
			seen[rule.PolicyID] = struct{}{}
			ids = append(ids, rule.PolicyID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

// Evaluate applies the predicates in order and stops at the first rejection.
func Evaluate(p Profile, r Rule, standard int64) Verdict {
	if r.MinAge != 0 && p.Age < r.MinAge {
		return reject(PredicateMinAge)
	}
	if r.MaxAge != 0 && p.Age > r.MaxAge {
		return reject(PredicateMaxAge)
	}
	if r.AssetLimit != 0 && p.Asset > r.AssetLimit {
		return reject(PredicateAssetLimit)
	}
	if r.ReqNewlywed && !p.IsNewlywed {
		return reject(PredicateNewlywed)
	}
	if r.ReqNewborn && !p.HasNewborn {
		return reject(PredicateNewborn)
	}
	if !r.HouseOwnerAllowed && p.IsHouseOwner {
		return reject(PredicateHouseOwner)
	}
	if r.MinChildren != 0 && p.ChildCount < r.MinChildren {
		return reject(PredicateMinChildren)
	}
	if r.IncomeLimit(standard) < float64(p.Income) {
		return reject(PredicateIncome)
	}
	return Verdict{Passed: true}
}
