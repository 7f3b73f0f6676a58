package rotation

import (
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// RELIEF TAG PARSING
// =============================================================================
// Legacy rosters encode relief assignments in the display name: "JOHN DOE (R1)"
// is the first relief of John Doe's slot, "(S)" a standby cover. The pivot
// parses the tag once into structured fields so no consumer has to run suffix
// stripping of its own.

// ReliefKind classifies how a relief-suffixed pivot entry covers the base
// assignment.
type ReliefKind string

const (
	ReliefNone    ReliefKind = ""
	ReliefRelief  ReliefKind = "relief"
	ReliefStandby ReliefKind = "standby"
)

var reliefTagPattern = regexp.MustCompile(`\s*\((R|S)(\d*)\)\s*$`)

// ParseReliefTag splits a display name into its base name and structured
// relief fields. Names without a recognized trailing tag come back unchanged
// with sequence 0 and ReliefNone.
func ParseReliefTag(name string) (base string, sequence int, kind ReliefKind) {
	m := reliefTagPattern.FindStringSubmatch(name)
	if m == nil {
		return strings.TrimSpace(name), 0, ReliefNone
	}

	base = strings.TrimSpace(strings.TrimSuffix(name, m[0]))

	switch m[1] {
	case "R":
		kind = ReliefRelief
	case "S":
		kind = ReliefStandby
	}

	sequence = 1
	if m[2] != "" {
		n, err := strconv.Atoi(m[2])
		if err == nil {
			sequence = n
		}
	}
	return base, sequence, kind
}
