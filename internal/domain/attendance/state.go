package attendance

import (
	"fmt"
	"strings"

	"github.com/school-hub/attendance-regularity/internal/domain/shared"
)

// State is the attendance category recorded for one student on one day.
type State string

const (
	StatePresent             State = "present"
	StateAbsent              State = "absent"
	StateThreeQuarterAbsence State = "three_quarter_absence"
	StateHalfAbsence         State = "half_absence"
	StateQuarterAbsence      State = "quarter_absence"
	StateJustified           State = "justified"
	StateExcluded            State = "excluded"
)

// allStates lists the enumeration in canonical order.
var allStates = [...]State{
	StatePresent,
	StateAbsent,
	StateThreeQuarterAbsence,
	StateHalfAbsence,
	StateQuarterAbsence,
	StateJustified,
	StateExcluded,
}

// Codes written by the recording subsystem before the wire values were normalised.
var legacyStates = map[string]State{
	"presente":           StatePresent,
	"ausente":            StateAbsent,
	"tres_cuartos_falta": StateThreeQuarterAbsence,
	"media_falta":        StateHalfAbsence,
	"cuarto_falta":       StateQuarterAbsence,
	"justificada":        StateJustified,
	"no_computa":         StateExcluded,
}

// AllStates returns every state in canonical order.
func AllStates() []State {
	out := make([]State, len(allStates))
	copy(out, allStates[:])
	return out
}

// IsValid checks if the state belongs to the closed enumeration.
func (s State) IsValid() bool {
	switch s {
	case StatePresent, StateAbsent, StateThreeQuarterAbsence, StateHalfAbsence,
		StateQuarterAbsence, StateJustified, StateExcluded:
		return true
	}
	return false
}

// String returns the wire value.
func (s State) String() string {
	return string(s)
}

// CountsTowardDenominator reports whether a day in this state is computable.
func (s State) CountsTowardDenominator() bool {
	return s.IsValid() && s != StateExcluded
}

// NormalizeState maps a stored code to its State. Legacy codes are translated;
// unknown values are returned as-is so that aggregation can report them.
func NormalizeState(raw string) State {
	v := strings.ToLower(strings.TrimSpace(raw))
	if st, ok := legacyStates[v]; ok {
		return st
	}
	return State(v)
}

// ParseState parses a wire value or legacy code.
func ParseState(raw string) (State, error) {
	st := NormalizeState(raw)
	if !st.IsValid() {
		return "", shared.DataIntegrity("ParseState", fmt.Sprintf("unknown attendance state %q", raw))
	}
	return st, nil
}
