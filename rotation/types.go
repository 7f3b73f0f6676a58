/*
Package rotation provides the crew rotation-cycle pivot and allowance engine.

PURPOSE:

	This package contains the one piece of real computation in the crew-rotation
	system: reassembling flat per-crew rotation records into structured
	sign-on/sign-off cycles, detecting illegal overlapping deployments, and
	amortizing multi-type allowances across calendar-month boundaries into a
	payable statement.

KEY CONCEPTS IN THIS FILE (types.go):
  - RotationRow: One flat storage row per crew member and cycle number
  - CrewKey:     The (crew_id, crew_name) pivot key; relief variants are
    distinct keys sharing a base crew id
  - PivotedCrew: Per-crew map of cycle number -> CycleDetail
  - CycleDetail: The per-cycle subset of row fields, dates kept raw
  - Rates:       Policy allowance rates, configuration not literals

DESIGN PRINCIPLES:
 1. Purity: pivot and statement structures are projections, recomputed on
    every read, never persisted
 2. Precision: decimal.Decimal for every rate and amount, never float
 3. Tolerance: malformed dates are carried raw and interpreted (nulled)
    only by the interval utilities in dates.go

SEE ALSO:
  - pivot.go:     Cycle pivot builder
  - overlap.go:   Double-booking detector
  - statement.go: Monthly allowance calculator
  - dates.go:     Calendar date parsing and day counts
*/
package rotation

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// TRADE CLASSIFICATION
// =============================================================================

// Trade classifies a crew member's duty class. Offshore crew accrue the flat
// offshore daily allowance and participate in double-booking detection;
// escort crew accrue medevac allowances instead.
type Trade string

const (
	TradeOffshore Trade = "offshore"
	TradeEscort   Trade = "escort"
)

// ParseTrade normalizes a stored trade value, defaulting to offshore.
func ParseTrade(raw string) Trade {
	if raw == string(TradeEscort) {
		return TradeEscort
	}
	return TradeOffshore
}

// =============================================================================
// ROTATION ROW - Flat input record from the storage collaborator
// =============================================================================

// MaxCycles is the highest cycle number a single crew member can hold on one
// roster.
const MaxCycles = 24

// MaxMedevacDates caps the medevac date list carried on a single cycle.
const MaxMedevacDates = 5

// RotationRow is one flat record per crew-member-and-cycle-number combination.
// Sign-on/sign-off are kept as raw text: parse failures are data, not errors,
// and only downstream calculations decide what an unparseable date means.
type RotationRow struct {
	ID       string // storage row id; empty when synthesized in-UI before persistence
	RosterID string

	CrewID   string
	CrewName string // may carry a legacy relief suffix, e.g. "JOHN DOE (R1)"
	Trade    Trade

	Post     string
	Client   string
	Location string

	CycleNumber int // 1..MaxCycles, natural key within a crew
	SignOn      string
	SignOff     string

	ReliefRate  *decimal.Decimal // daily relief rate, nil when not set
	StandbyRate *decimal.Decimal
	ReliefDays  *int
	StandbyDays *int

	// IsOffshore defaults to true when absent. An explicit false suppresses
	// offshore allowance accrual for this cycle only.
	IsOffshore *bool

	MedevacDates []string // at most MaxMedevacDates, escort trade only
	Notes        string
}

// OffshoreEligible reports whether this cycle accrues the offshore allowance.
func (r RotationRow) OffshoreEligible() bool {
	return r.IsOffshore == nil || *r.IsOffshore
}

// =============================================================================
// PIVOTED STRUCTURES - Pure projections, recomputed on every read
// =============================================================================

// CrewKey identifies one pivot entry. A relief-suffixed name produces a
// separate key sharing the base crew id.
type CrewKey struct {
	CrewID   string
	CrewName string
}

// CycleDetail is the per-cycle subset of a rotation row. Dates stay raw here;
// interpretation happens in the calculators.
type CycleDetail struct {
	RowID       string // back-reference to the storage row, empty if synthesized
	CycleNumber int
	SignOn      string
	SignOff     string

	ReliefRate  *decimal.Decimal
	StandbyRate *decimal.Decimal
	ReliefDays  *int
	StandbyDays *int

	IsOffshore   *bool
	MedevacDates []string
	Notes        string
}

// OffshoreEligible reports whether this cycle accrues the offshore allowance.
func (c CycleDetail) OffshoreEligible() bool {
	return c.IsOffshore == nil || *c.IsOffshore
}

// PivotedCrew groups one crew member's cycles. Assignment fields come from the
// first row observed for the key.
type PivotedCrew struct {
	CrewID   string
	CrewName string
	Trade    Trade
	Post     string
	Client   string
	Location string

	// Structured relief disambiguation, parsed once from the legacy name
	// suffix so consumers never re-run suffix stripping.
	ReliefSequence int
	ReliefKind     ReliefKind

	Cycles map[int]CycleDetail
}

// CycleRef addresses a single cycle of a single crew member in detector
// output.
type CycleRef struct {
	CrewID      string
	CycleNumber int
}

// =============================================================================
// ALLOWANCE RATES - Policy values, exposed as configuration
// =============================================================================

// Rates holds the flat policy rates the statement calculator applies.
// These are payroll policy values subject to change independent of code, so
// they are injected rather than read from constants.
type Rates struct {
	OffshoreDaily decimal.Decimal // per billable offshore day
	MedevacPerDay decimal.Decimal // per in-month medevac date, escort trade
}

// DefaultRates returns the current contracted flat rates.
func DefaultRates() Rates {
	return Rates{
		OffshoreDaily: decimal.NewFromInt(135),
		MedevacPerDay: decimal.NewFromInt(250),
	}
}
