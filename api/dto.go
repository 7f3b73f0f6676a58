/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:

	JSON structures for API communication. Field names follow the storage
	collaborator's contract (crew_id, sign_on, relief_all, ...) so the existing
	UI binds without translation.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - rotation/:  The in-memory shapes these serialize
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/meridian/rotation-engine/rotation"
)

// RotationRowDTO mirrors one flat rotation row.
type RotationRowDTO struct {
	ID           string   `json:"id,omitempty"`
	RosterID     string   `json:"roster_id,omitempty"`
	CrewID       string   `json:"crew_id"`
	CrewName     string   `json:"crew_name"`
	Trade        string   `json:"trade,omitempty"`
	Post         string   `json:"post,omitempty"`
	Client       string   `json:"client,omitempty"`
	Location     string   `json:"location,omitempty"`
	CycleNumber  int      `json:"cycle_number"`
	SignOn       string   `json:"sign_on,omitempty"`
	SignOff      string   `json:"sign_off,omitempty"`
	ReliefAll    *float64 `json:"relief_all,omitempty"`
	StandbyAll   *float64 `json:"standby_all,omitempty"`
	DayRelief    *int     `json:"day_relief,omitempty"`
	DayStandby   *int     `json:"day_standby,omitempty"`
	IsOffshore   *bool    `json:"is_offshore,omitempty"`
	MedevacDates []string `json:"medevac_dates,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// CycleDetailDTO is one pivoted cycle.
type CycleDetailDTO struct {
	RowID        string   `json:"row_id,omitempty"`
	CycleNumber  int      `json:"cycle_number"`
	SignOn       string   `json:"sign_on,omitempty"`
	SignOff      string   `json:"sign_off,omitempty"`
	ReliefAll    *float64 `json:"relief_all,omitempty"`
	StandbyAll   *float64 `json:"standby_all,omitempty"`
	DayRelief    *int     `json:"day_relief,omitempty"`
	DayStandby   *int     `json:"day_standby,omitempty"`
	IsOffshore   *bool    `json:"is_offshore,omitempty"`
	MedevacDates []string `json:"medevac_dates,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// PivotedCrewDTO is one crew member's pivoted cycle map.
type PivotedCrewDTO struct {
	CrewID         string                 `json:"crew_id"`
	CrewName       string                 `json:"crew_name"`
	Trade          string                 `json:"trade"`
	Post           string                 `json:"post,omitempty"`
	Client         string                 `json:"client,omitempty"`
	Location       string                 `json:"location,omitempty"`
	ReliefSequence int                    `json:"relief_sequence,omitempty"`
	ReliefKind     string                 `json:"relief_kind,omitempty"`
	Cycles         map[int]CycleDetailDTO `json:"cycles"`
}

// WarningDTO is a pivot data-quality flag.
type WarningDTO struct {
	CrewID      string `json:"crew_id"`
	CrewName    string `json:"crew_name"`
	CycleNumber int    `json:"cycle_number"`
	Message     string `json:"message"`
}

// PivotResponse carries the full pivoted roster plus warnings.
type PivotResponse struct {
	Crew     []PivotedCrewDTO `json:"crew"`
	Warnings []WarningDTO     `json:"warnings"`
}

// ConflictDTO flags one double-booked cycle.
type ConflictDTO struct {
	CrewID       string   `json:"crew_id"`
	CycleNumber  int      `json:"cycle_number"`
	OverlapsWith []string `json:"overlaps_with"`
}

// CycleSummaryDTO is one cycle's contribution to a statement row.
type CycleSummaryDTO struct {
	CycleNumber int    `json:"cycle_number"`
	SignOn      string `json:"sign_on,omitempty"`
	SignOff     string `json:"sign_off,omitempty"`
	DaysInMonth int    `json:"days_in_month"`
}

// StatementRowDTO is one crew member's payable month.
type StatementRowDTO struct {
	CrewID   string `json:"crew_id"`
	CrewName string `json:"crew_name"`
	Trade    string `json:"trade"`
	Post     string `json:"post,omitempty"`
	Client   string `json:"client,omitempty"`
	Location string `json:"location,omitempty"`

	OffshoreDays  int     `json:"offshore_days"`
	OffshoreTotal float64 `json:"offshore_total"`
	ReliefDays    int     `json:"relief_days"`
	ReliefRate    float64 `json:"relief_rate"`
	ReliefAmount  float64 `json:"relief_amount"`
	StandbyDays   int     `json:"standby_days"`
	StandbyRate   float64 `json:"standby_rate"`
	StandbyAmount float64 `json:"standby_amount"`
	MedevacDays   int     `json:"medevac_days"`
	MedevacTotal  float64 `json:"medevac_total"`
	GrandTotal    float64 `json:"grand_total"`

	Cycles []CycleSummaryDTO `json:"cycles"`
}

// StatementTotalsDTO are cross-crew sums.
type StatementTotalsDTO struct {
	CrewCount int     `json:"crew_count"`
	Offshore  float64 `json:"offshore"`
	Relief    float64 `json:"relief"`
	Standby   float64 `json:"standby"`
	Medevac   float64 `json:"medevac"`
	Grand     float64 `json:"grand"`
}

// StatementResponse is the full month statement.
type StatementResponse struct {
	Year   int                `json:"year"`
	Month  int                `json:"month"`
	Rows   []StatementRowDTO  `json:"rows"`
	Totals StatementTotalsDTO `json:"totals"`
}

// PendingEditRequest stages an unsaved edit for one cycle.
type PendingEditRequest struct {
	CrewID      string   `json:"crew_id"`
	CycleNumber int      `json:"cycle_number"`
	Notes       *string  `json:"notes,omitempty"`
	ReliefAll   *float64 `json:"relief_all,omitempty"`
	StandbyAll  *float64 `json:"standby_all,omitempty"`
	DayRelief   *int     `json:"day_relief,omitempty"`
	DayStandby  *int     `json:"day_standby,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toRowDTO(r rotation.RotationRow) RotationRowDTO {
	return RotationRowDTO{
		ID:           r.ID,
		RosterID:     r.RosterID,
		CrewID:       r.CrewID,
		CrewName:     r.CrewName,
		Trade:        string(r.Trade),
		Post:         r.Post,
		Client:       r.Client,
		Location:     r.Location,
		CycleNumber:  r.CycleNumber,
		SignOn:       r.SignOn,
		SignOff:      r.SignOff,
		ReliefAll:    decimalPtrToFloat(r.ReliefRate),
		StandbyAll:   decimalPtrToFloat(r.StandbyRate),
		DayRelief:    r.ReliefDays,
		DayStandby:   r.StandbyDays,
		IsOffshore:   r.IsOffshore,
		MedevacDates: r.MedevacDates,
		Notes:        r.Notes,
	}
}

func fromRowDTO(d RotationRowDTO) rotation.RotationRow {
	return rotation.RotationRow{
		ID:           d.ID,
		RosterID:     d.RosterID,
		CrewID:       d.CrewID,
		CrewName:     d.CrewName,
		Trade:        rotation.ParseTrade(d.Trade),
		Post:         d.Post,
		Client:       d.Client,
		Location:     d.Location,
		CycleNumber:  d.CycleNumber,
		SignOn:       d.SignOn,
		SignOff:      d.SignOff,
		ReliefRate:   floatPtrToDecimal(d.ReliefAll),
		StandbyRate:  floatPtrToDecimal(d.StandbyAll),
		ReliefDays:   d.DayRelief,
		StandbyDays:  d.DayStandby,
		IsOffshore:   d.IsOffshore,
		MedevacDates: d.MedevacDates,
		Notes:        d.Notes,
	}
}

func toCycleDTO(c rotation.CycleDetail) CycleDetailDTO {
	return CycleDetailDTO{
		RowID:        c.RowID,
		CycleNumber:  c.CycleNumber,
		SignOn:       c.SignOn,
		SignOff:      c.SignOff,
		ReliefAll:    decimalPtrToFloat(c.ReliefRate),
		StandbyAll:   decimalPtrToFloat(c.StandbyRate),
		DayRelief:    c.ReliefDays,
		DayStandby:   c.StandbyDays,
		IsOffshore:   c.IsOffshore,
		MedevacDates: c.MedevacDates,
		Notes:        c.Notes,
	}
}

func toStatementRowDTO(r rotation.StatementRow) StatementRowDTO {
	cycles := make([]CycleSummaryDTO, len(r.Cycles))
	for i, c := range r.Cycles {
		cycles[i] = CycleSummaryDTO{
			CycleNumber: c.CycleNumber,
			SignOn:      c.SignOn,
			SignOff:     c.SignOff,
			DaysInMonth: c.DaysInMonth,
		}
	}
	return StatementRowDTO{
		CrewID:        r.CrewID,
		CrewName:      r.CrewName,
		Trade:         string(r.Trade),
		Post:          r.Post,
		Client:        r.Client,
		Location:      r.Location,
		OffshoreDays:  r.OffshoreDays,
		OffshoreTotal: r.OffshoreTotal.InexactFloat64(),
		ReliefDays:    r.ReliefDays,
		ReliefRate:    r.ReliefRate.InexactFloat64(),
		ReliefAmount:  r.ReliefAmount.InexactFloat64(),
		StandbyDays:   r.StandbyDays,
		StandbyRate:   r.StandbyRate.InexactFloat64(),
		StandbyAmount: r.StandbyAmount.InexactFloat64(),
		MedevacDays:   r.MedevacDays,
		MedevacTotal:  r.MedevacTotal.InexactFloat64(),
		GrandTotal:    r.GrandTotal.InexactFloat64(),
		Cycles:        cycles,
	}
}

func decimalPtrToFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

func floatPtrToDecimal(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}
