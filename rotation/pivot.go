/*
pivot.go - Cycle pivot builder

PURPOSE:

	Reassembles flat rotation rows into per-crew cycle structures. The pivot is
	a pure projection: it is recomputed on every read and never persisted.

KEY BEHAVIOR:
  - One PivotedCrew per distinct (crew_id, crew_name) pair; a relief-suffixed
    name is a separate entry sharing the base crew id
  - cycle_number is the natural key within a crew; a duplicate is
    last-write-wins by input order, surfaced as a Warning because two rows
    legitimately sharing a cycle number usually means a data-entry mistake
  - Malformed dates are preserved raw in CycleDetail and only interpreted by
    the calculators

SEE ALSO:
  - overlap.go, statement.go: Consumers of the pivoted structure
  - pending.go: Read-time merge of unsaved edits
*/
package rotation

import "fmt"

// Warning flags a suspect condition observed while pivoting. Warnings never
// block the pivot; they are surfaced to the caller for highlighting.
type Warning struct {
	CrewID      string
	CrewName    string
	CycleNumber int
	Message     string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s (%s) cycle %d: %s", w.CrewName, w.CrewID, w.CycleNumber, w.Message)
}

// BuildPivot groups rotation rows by (crew_id, crew_name) into per-crew cycle
// maps. Every row lands in exactly one CycleDetail. There are no error
// conditions: bad dates ride along raw, and duplicate cycle numbers overwrite
// with a warning.
func BuildPivot(rows []RotationRow) (map[CrewKey]*PivotedCrew, []Warning) {
	pivot := make(map[CrewKey]*PivotedCrew)
	var warnings []Warning

	for _, row := range rows {
		key := CrewKey{CrewID: row.CrewID, CrewName: row.CrewName}

		crew, ok := pivot[key]
		if !ok {
			_, seq, kind := ParseReliefTag(row.CrewName)
			crew = &PivotedCrew{
				CrewID:         row.CrewID,
				CrewName:       row.CrewName,
				Trade:          row.Trade,
				Post:           row.Post,
				Client:         row.Client,
				Location:       row.Location,
				ReliefSequence: seq,
				ReliefKind:     kind,
				Cycles:         make(map[int]CycleDetail),
			}
			pivot[key] = crew
		}

		if _, exists := crew.Cycles[row.CycleNumber]; exists {
			warnings = append(warnings, Warning{
				CrewID:      row.CrewID,
				CrewName:    row.CrewName,
				CycleNumber: row.CycleNumber,
				Message:     "duplicate cycle number, keeping last row",
			})
		}

		crew.Cycles[row.CycleNumber] = CycleDetail{
			RowID:        row.ID,
			CycleNumber:  row.CycleNumber,
			SignOn:       row.SignOn,
			SignOff:      row.SignOff,
			ReliefRate:   row.ReliefRate,
			StandbyRate:  row.StandbyRate,
			ReliefDays:   row.ReliefDays,
			StandbyDays:  row.StandbyDays,
			IsOffshore:   row.IsOffshore,
			MedevacDates: row.MedevacDates,
			Notes:        row.Notes,
		}
	}

	return pivot, warnings
}
