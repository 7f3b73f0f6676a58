package rotation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian/rotation-engine/rotation"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func row(id, crewID, crewName string, cycle int, signOn, signOff string) rotation.RotationRow {
	return rotation.RotationRow{
		ID:          id,
		RosterID:    "roster-1",
		CrewID:      crewID,
		CrewName:    crewName,
		Trade:       rotation.TradeOffshore,
		Post:        "MEDIC",
		Client:      "NORTHSTAR",
		Location:    "PLATFORM-A",
		CycleNumber: cycle,
		SignOn:      signOn,
		SignOff:     signOff,
	}
}

func intPtr(n int) *int { return &n }

func decPtr(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func boolPtr(b bool) *bool { return &b }

// =============================================================================
// PIVOT TESTS
// =============================================================================

func TestBuildPivot_EveryRowLandsExactlyOnce(t *testing.T) {
	// GIVEN: Rows for two crew members, one with two cycles
	rows := []rotation.RotationRow{
		row("r1", "c-1", "JOHN DOE", 1, "2024-01-05", "2024-01-19"),
		row("r2", "c-1", "JOHN DOE", 2, "2024-02-02", "2024-02-16"),
		row("r3", "c-2", "JANE ROE", 1, "2024-01-19", "2024-02-02"),
	}

	// WHEN: Pivoting
	pivot, warnings := rotation.BuildPivot(rows)

	// THEN: Each crew has its own entry, each row its own cycle
	require.Empty(t, warnings)
	require.Len(t, pivot, 2)

	john := pivot[rotation.CrewKey{CrewID: "c-1", CrewName: "JOHN DOE"}]
	require.NotNil(t, john)
	assert.Len(t, john.Cycles, 2)
	assert.Equal(t, "r1", john.Cycles[1].RowID)
	assert.Equal(t, "r2", john.Cycles[2].RowID)

	jane := pivot[rotation.CrewKey{CrewID: "c-2", CrewName: "JANE ROE"}]
	require.NotNil(t, jane)
	assert.Len(t, jane.Cycles, 1)
}

func TestBuildPivot_ReliefNameIsSeparateEntry(t *testing.T) {
	// GIVEN: The base crew member and a relief assignment sharing the crew id
	rows := []rotation.RotationRow{
		row("r1", "c-1", "JOHN DOE", 1, "2024-01-05", "2024-01-19"),
		row("r2", "c-1", "JOHN DOE (R1)", 1, "2024-01-19", "2024-02-02"),
	}

	pivot, warnings := rotation.BuildPivot(rows)

	// THEN: Two entries, no duplicate-cycle warning (distinct keys), and the
	// relief entry carries structured relief fields.
	require.Empty(t, warnings)
	require.Len(t, pivot, 2)

	relief := pivot[rotation.CrewKey{CrewID: "c-1", CrewName: "JOHN DOE (R1)"}]
	require.NotNil(t, relief)
	assert.Equal(t, 1, relief.ReliefSequence)
	assert.Equal(t, rotation.ReliefRelief, relief.ReliefKind)

	base := pivot[rotation.CrewKey{CrewID: "c-1", CrewName: "JOHN DOE"}]
	require.NotNil(t, base)
	assert.Equal(t, rotation.ReliefNone, base.ReliefKind)
}

func TestBuildPivot_DuplicateCycle_LastWinsWithWarning(t *testing.T) {
	// GIVEN: Two rows with the same crew key and cycle number
	rows := []rotation.RotationRow{
		row("r1", "c-1", "JOHN DOE", 1, "2024-01-05", "2024-01-19"),
		row("r2", "c-1", "JOHN DOE", 1, "2024-03-05", "2024-03-19"),
	}

	pivot, warnings := rotation.BuildPivot(rows)

	// THEN: Last write wins, and the collision is surfaced
	john := pivot[rotation.CrewKey{CrewID: "c-1", CrewName: "JOHN DOE"}]
	require.NotNil(t, john)
	assert.Equal(t, "r2", john.Cycles[1].RowID)
	assert.Equal(t, "2024-03-05", john.Cycles[1].SignOn)

	require.Len(t, warnings, 1)
	assert.Equal(t, "c-1", warnings[0].CrewID)
	assert.Equal(t, 1, warnings[0].CycleNumber)
}

func TestBuildPivot_MalformedDatesPreservedRaw(t *testing.T) {
	// Malformed dates ride along untouched; only the calculators null them.
	rows := []rotation.RotationRow{
		row("r1", "c-1", "JOHN DOE", 1, "not-a-date", ""),
	}

	pivot, _ := rotation.BuildPivot(rows)
	john := pivot[rotation.CrewKey{CrewID: "c-1", CrewName: "JOHN DOE"}]
	require.NotNil(t, john)
	assert.Equal(t, "not-a-date", john.Cycles[1].SignOn)
	assert.Equal(t, "", john.Cycles[1].SignOff)
}

// =============================================================================
// PENDING EDIT TESTS
// =============================================================================

func TestPendingEdits_MergedAtReadTime(t *testing.T) {
	// GIVEN: A pivot and a staged, unsaved notes/rate edit
	rows := []rotation.RotationRow{
		row("r1", "c-1", "JOHN DOE", 1, "2024-01-05", "2024-01-19"),
	}
	pivot, _ := rotation.BuildPivot(rows)

	pending := rotation.NewPendingEdits()
	notes := "swapped with relief"
	pending.Stage(
		rotation.PendingKey{CrewID: "c-1", CycleNumber: 1},
		rotation.PendingEdit{Notes: &notes, ReliefRate: decPtr("150"), ReliefDays: intPtr(2)},
	)

	// WHEN: Merging into the read view
	pending.MergeInto(pivot)

	// THEN: The view reflects the edit; a rebuilt pivot without the merge does not
	john := pivot[rotation.CrewKey{CrewID: "c-1", CrewName: "JOHN DOE"}]
	assert.Equal(t, "swapped with relief", john.Cycles[1].Notes)
	require.NotNil(t, john.Cycles[1].ReliefRate)
	assert.True(t, john.Cycles[1].ReliefRate.Equal(decimal.NewFromInt(150)))

	fresh, _ := rotation.BuildPivot(rows)
	assert.Equal(t, "", fresh[rotation.CrewKey{CrewID: "c-1", CrewName: "JOHN DOE"}].Cycles[1].Notes)
}

func TestPendingEdits_DiscardRestoresStorageView(t *testing.T) {
	rows := []rotation.RotationRow{
		row("r1", "c-1", "JOHN DOE", 1, "2024-01-05", "2024-01-19"),
	}

	pending := rotation.NewPendingEdits()
	notes := "draft"
	key := rotation.PendingKey{CrewID: "c-1", CycleNumber: 1}
	pending.Stage(key, rotation.PendingEdit{Notes: &notes})
	pending.Discard(key)

	pivot, _ := rotation.BuildPivot(rows)
	pending.MergeInto(pivot)

	john := pivot[rotation.CrewKey{CrewID: "c-1", CrewName: "JOHN DOE"}]
	assert.Equal(t, "", john.Cycles[1].Notes)
	assert.Equal(t, 0, pending.Len())
}
