/*
errors.go - Error types at the engine boundary

PURPOSE:

	The calculators themselves absorb data problems silently (bad dates are
	absence of data, duplicate cycles are warnings), so errors exist only where
	rows enter the system: validation before a write, and lookups that miss.
	Sentinels here are wrapped by the store and API layers and checked with
	errors.Is.
*/
package rotation

import (
	"errors"
	"fmt"
)

var (
	// ErrRowNotFound is returned when a referenced rotation row doesn't exist.
	ErrRowNotFound = errors.New("rotation row not found")

	// ErrInvalidCycleNumber is returned when a row's cycle number is outside
	// 1..MaxCycles.
	ErrInvalidCycleNumber = errors.New("invalid cycle number")

	// ErrTooManyMedevacDates is returned when a row carries more than
	// MaxMedevacDates medevac dates.
	ErrTooManyMedevacDates = errors.New("too many medevac dates")

	// ErrMissingCrew is returned when a row has no crew id or name.
	ErrMissingCrew = errors.New("row missing crew identity")
)

// ValidateRow checks the structural invariants a rotation row must satisfy
// before it is persisted. Dates are deliberately not validated: an
// unparseable date is data, interpreted downstream.
func ValidateRow(row RotationRow) error {
	if row.CrewID == "" || row.CrewName == "" {
		return ErrMissingCrew
	}
	if row.CycleNumber < 1 || row.CycleNumber > MaxCycles {
		return fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidCycleNumber, row.CycleNumber, MaxCycles)
	}
	if len(row.MedevacDates) > MaxMedevacDates {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyMedevacDates, len(row.MedevacDates), MaxMedevacDates)
	}
	return nil
}
