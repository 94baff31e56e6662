package eligibility

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("login required")
	ErrProfileMissing  = errors.New("user profile has not been submitted yet")
	// ErrMissingReferenceData marks configuration gaps in the policy catalog or income standards.
	ErrMissingReferenceData = errors.New("missing reference data")
)

// MissingStandardError is returned when no income standard exists for a household size.
type MissingStandardError struct {
	HouseholdSize int
}

func (e *MissingStandardError) Error() string {
	return fmt.Sprintf("no income standard for household size %d", e.HouseholdSize)
}

func (e *MissingStandardError) Unwrap() error {
	return ErrMissingReferenceData
}
