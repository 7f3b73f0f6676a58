/*
statement.go - Monthly allowance calculator

PURPOSE:

	Given a target calendar month and the pivoted crew set, produces one
	StatementRow per crew with at least one contributing cycle, plus aggregate
	totals across the emitted rows. Purely functional: no mutation of the input,
	no cross-call memory.

DAY-COUNT CONVENTION (applied uniformly, see DESIGN.md):

	A cycle occupies the half-open span [sign_on, sign_off). The sign-off day is
	a changeover day belonging to the relieving crew and is NOT billable. The
	same convention drives offshore-day counting and month clipping, which is
	what makes the continuity law hold: the January side plus the February side
	of a month-spanning cycle always sums to the full unclipped day count.

ALLOWANCE TYPES:

	offshore: clipped in-month days x flat daily rate, offshore trade only,
	          suppressed when the cycle's is_offshore flag is explicitly false
	relief:   day_relief x relief rate, taken verbatim from the cycle record
	          (not clipped), counted once per month-intersecting cycle
	standby:  identical pattern with day_standby / standby rate
	medevac:  in-month medevac dates x flat per-day rate, escort trade only

FAILURE SEMANTICS:

	None. Unparseable or missing dates exclude that cycle from the month's
	interval arithmetic; the function always returns a (possibly empty) row set.
*/
package rotation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CycleSummary records one cycle's contribution to a statement row.
type CycleSummary struct {
	CycleNumber int
	SignOn      string
	SignOff     string
	DaysInMonth int // clipped billable days, 0 for medevac-only contributions
}

// StatementRow is one crew member's payable allowances for the requested
// month. Relief/standby rates are derived (amount / days) for display and are
// zero when the day count is zero.
type StatementRow struct {
	CrewID   string
	CrewName string
	Trade    Trade
	Post     string
	Client   string
	Location string

	OffshoreDays  int
	OffshoreTotal decimal.Decimal

	ReliefDays   int
	ReliefRate   decimal.Decimal
	ReliefAmount decimal.Decimal

	StandbyDays   int
	StandbyRate   decimal.Decimal
	StandbyAmount decimal.Decimal

	MedevacDays  int
	MedevacTotal decimal.Decimal

	GrandTotal decimal.Decimal

	Cycles []CycleSummary
}

// StatementTotals are cross-crew sums over the emitted rows.
type StatementTotals struct {
	CrewCount int
	Offshore  decimal.Decimal
	Relief    decimal.Decimal
	Standby   decimal.Decimal
	Medevac   decimal.Decimal
	Grand     decimal.Decimal
}

// BuildStatement computes the month's allowance statement for every crew in
// the pivot. Crew with no contributing cycle are omitted entirely, not
// emitted with zero totals; callers wanting "grand total > 0 only" apply that
// filter on top.
func BuildStatement(pivot map[CrewKey]*PivotedCrew, year int, month time.Month, rates Rates) ([]StatementRow, StatementTotals) {
	period := MonthPeriod(year, month)
	monthStart := period.Start
	monthEndExclusive := period.End.AddDays(1)

	var rows []StatementRow
	for _, crew := range pivot {
		if row, ok := crewStatement(crew, period, monthStart, monthEndExclusive, rates); ok {
			rows = append(rows, row)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CrewName != rows[j].CrewName {
			return rows[i].CrewName < rows[j].CrewName
		}
		return rows[i].CrewID < rows[j].CrewID
	})

	totals := StatementTotals{
		CrewCount: len(rows),
		Offshore:  decimal.Zero,
		Relief:    decimal.Zero,
		Standby:   decimal.Zero,
		Medevac:   decimal.Zero,
		Grand:     decimal.Zero,
	}
	for _, row := range rows {
		totals.Offshore = totals.Offshore.Add(row.OffshoreTotal)
		totals.Relief = totals.Relief.Add(row.ReliefAmount)
		totals.Standby = totals.Standby.Add(row.StandbyAmount)
		totals.Medevac = totals.Medevac.Add(row.MedevacTotal)
		totals.Grand = totals.Grand.Add(row.GrandTotal)
	}
	return rows, totals
}

func crewStatement(crew *PivotedCrew, period Period, monthStart, monthEndExclusive Date, rates Rates) (StatementRow, bool) {
	row := StatementRow{
		CrewID:        crew.CrewID,
		CrewName:      crew.CrewName,
		Trade:         crew.Trade,
		Post:          crew.Post,
		Client:        crew.Client,
		Location:      crew.Location,
		OffshoreTotal: decimal.Zero,
		ReliefRate:    decimal.Zero,
		ReliefAmount:  decimal.Zero,
		StandbyRate:   decimal.Zero,
		StandbyAmount: decimal.Zero,
		MedevacTotal:  decimal.Zero,
		GrandTotal:    decimal.Zero,
	}

	contributed := false

	cycleNumbers := make([]int, 0, len(crew.Cycles))
	for n := range crew.Cycles {
		cycleNumbers = append(cycleNumbers, n)
	}
	sort.Ints(cycleNumbers)

	for _, n := range cycleNumbers {
		cycle := crew.Cycles[n]

		inMonthDays := 0
		on, okOn := ParseCalendarDate(cycle.SignOn)
		off, okOff := ParseCalendarDate(cycle.SignOff)
		if okOn && okOff {
			// Clip [sign_on, sign_off) to the month's half-open span.
			clippedStart := MaxDate(on, monthStart)
			clippedEnd := MinDate(off, monthEndExclusive)
			if clippedEnd.After(clippedStart) {
				inMonthDays = DaysBetween(clippedStart, clippedEnd)
			}
		}

		medevacInMonth := 0
		if crew.Trade == TradeEscort {
			for _, raw := range cycle.MedevacDates {
				if d, ok := ParseCalendarDate(raw); ok && period.Contains(d) {
					medevacInMonth++
				}
			}
		}

		// A cycle contributes when its span intersects the month, or, for
		// escort crew, when one of its medevac dates falls in the month.
		if inMonthDays == 0 && medevacInMonth == 0 {
			continue
		}
		contributed = true

		if inMonthDays > 0 {
			if crew.Trade == TradeOffshore && cycle.OffshoreEligible() {
				row.OffshoreDays += inMonthDays
			}

			// Relief/standby days come verbatim from the cycle record,
			// regardless of how much of the cycle falls in-month. The day
			// count and the rate are independently nullable: days accrue
			// on their own, the amount only when a rate is present.
			if cycle.ReliefDays != nil {
				row.ReliefDays += *cycle.ReliefDays
				if cycle.ReliefRate != nil {
					row.ReliefAmount = row.ReliefAmount.Add(
						decimal.NewFromInt(int64(*cycle.ReliefDays)).Mul(*cycle.ReliefRate))
				}
			}
			if cycle.StandbyDays != nil {
				row.StandbyDays += *cycle.StandbyDays
				if cycle.StandbyRate != nil {
					row.StandbyAmount = row.StandbyAmount.Add(
						decimal.NewFromInt(int64(*cycle.StandbyDays)).Mul(*cycle.StandbyRate))
				}
			}
		}

		row.MedevacDays += medevacInMonth

		row.Cycles = append(row.Cycles, CycleSummary{
			CycleNumber: n,
			SignOn:      cycle.SignOn,
			SignOff:     cycle.SignOff,
			DaysInMonth: inMonthDays,
		})
	}

	if !contributed {
		return StatementRow{}, false
	}

	row.OffshoreTotal = decimal.NewFromInt(int64(row.OffshoreDays)).Mul(rates.OffshoreDaily)
	row.MedevacTotal = decimal.NewFromInt(int64(row.MedevacDays)).Mul(rates.MedevacPerDay)
	row.ReliefRate = derivedRate(row.ReliefAmount, row.ReliefDays)
	row.StandbyRate = derivedRate(row.StandbyAmount, row.StandbyDays)
	row.GrandTotal = row.OffshoreTotal.
		Add(row.ReliefAmount).
		Add(row.StandbyAmount).
		Add(row.MedevacTotal)

	return row, true
}

// derivedRate is the display-only per-unit rate. Zero days yields zero, never
// a division by zero.
func derivedRate(amount decimal.Decimal, days int) decimal.Decimal {
	if days == 0 {
		return decimal.Zero
	}
	return amount.Div(decimal.NewFromInt(int64(days)))
}
