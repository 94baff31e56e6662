package eligibility

import (
	"context"
	"fmt"
)

// StandardStore looks up the 100% monthly income standard for a household size.
// found is false when the table has no row for that size.
type StandardStore interface {
	GetStandard(ctx context.Context, householdSize int) (monthlyIncome int64, found bool, err error)
}

type Resolver struct {
	store StandardStore
}

func NewResolver(store StandardStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the monthly income standard. A missing row is a configuration
// error and never resolves to zero.
func (r *Resolver) Resolve(ctx context.Context, householdSize int) (int64, error) {
	income, found, err := r.store.GetStandard(ctx, householdSize)
	if err != nil {
		return 0, fmt.Errorf("failed to load income standard: %w", err)
	}
	if !found {
		return 0, &MissingStandardError{HouseholdSize: householdSize}
	}
	return income, nil
}
