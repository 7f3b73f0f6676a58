/*
overlap.go - Double-booking detector

PURPOSE:

	Flags pairs of different offshore crew members whose sign-on/sign-off
	intervals intersect while assigned to the same (post, location). An overlap
	indicates a data-entry error: two people cannot hold the same berth at once.

SEMANTICS:
  - Offshore trade only; escort crew work independent medevac assignments
  - Both endpoints of both cycles must parse; an in-progress cycle is excluded
  - The intersection test is strict: a sign-off equal to another crew's
    sign-on is a same-day changeover, not an overlap
  - Purely advisory. Nothing is rejected; flagged cycles are surfaced for
    highlighting

COMPLEXITY:

	O(n^2 * c^2) over offshore crew and cycles per crew. A roster is tens to low
	hundreds of crew with at most 24 cycles each, so no indexed variant is
	needed.
*/
package rotation

import "sort"

// span is one cycle with both endpoints resolved.
type span struct {
	cycleNumber int
	on, off     Date
}

// DetectOverlaps scans the pivot for double-booked offshore berths. The result
// maps each flagged (crew_id, cycle_number) to the names of the other crew
// members whose intervals intersect it. The relation is symmetric: if A's
// cycle lists B, B's overlapping cycle lists A.
func DetectOverlaps(pivot map[CrewKey]*PivotedCrew) map[CycleRef][]string {
	type berth struct {
		post, location string
	}

	// Group offshore crew by berth; only same-berth pairs can conflict.
	groups := make(map[berth][]*PivotedCrew)
	for _, crew := range pivot {
		if crew.Trade != TradeOffshore {
			continue
		}
		b := berth{post: crew.Post, location: crew.Location}
		groups[b] = append(groups[b], crew)
	}

	flags := make(map[CycleRef][]string)

	for _, crews := range groups {
		spans := make([][]span, len(crews))
		for i, crew := range crews {
			spans[i] = resolvedSpans(crew)
		}

		for i := 0; i < len(crews); i++ {
			for j := i + 1; j < len(crews); j++ {
				a, b := crews[i], crews[j]
				for _, sa := range spans[i] {
					for _, sb := range spans[j] {
						// Strict open-interval test: touching endpoints are a
						// changeover on the same day.
						if sa.on.Before(sb.off) && sa.off.After(sb.on) {
							addFlag(flags, CycleRef{CrewID: a.CrewID, CycleNumber: sa.cycleNumber}, b.CrewName)
							addFlag(flags, CycleRef{CrewID: b.CrewID, CycleNumber: sb.cycleNumber}, a.CrewName)
						}
					}
				}
			}
		}
	}

	for ref := range flags {
		sort.Strings(flags[ref])
	}
	return flags
}

func resolvedSpans(crew *PivotedCrew) []span {
	var spans []span
	for n, cycle := range crew.Cycles {
		on, okOn := ParseCalendarDate(cycle.SignOn)
		off, okOff := ParseCalendarDate(cycle.SignOff)
		if !okOn || !okOff {
			continue
		}
		spans = append(spans, span{cycleNumber: n, on: on, off: off})
	}
	return spans
}

func addFlag(flags map[CycleRef][]string, ref CycleRef, name string) {
	for _, existing := range flags[ref] {
		if existing == name {
			return
		}
	}
	flags[ref] = append(flags[ref], name)
}
