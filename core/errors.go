package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGasMix        = errors.New("invalid gas mix")
	ErrNoGasForDepth        = errors.New("no active gas for depth")
	ErrNoSetpointConfigured = errors.New("no setpoint configured")
	ErrPlanUnplannable      = errors.New("dive unplannable")
	ErrGasListEmpty         = errors.New("gas list must keep at least one gas")
	ErrSetPointsEmpty       = errors.New("setpoint list must keep at least one entry")
	ErrStopStepsEmpty       = errors.New("stop step list must keep at least one entry")
)

// UnplannableError reports an ascent that could not clear the next stop
// within the configured stop budget. It carries the offending tissue
// state for diagnostics.
type UnplannableError struct {
	StopDepthM  float64
	CeilingM    float64
	StopMinutes int
	Tissues     TissueState
}

func (e *UnplannableError) Error() string {
	return fmt.Sprintf("dive unplannable: %d min at %.0f m leaves ceiling at %.0f m",
		e.StopMinutes, e.StopDepthM, e.CeilingM)
}

func (e *UnplannableError) Unwrap() error { return ErrPlanUnplannable }

// assertHandler, when set, is invoked on internal invariant violations
// (e.g. negative tissue pressures) so test builds can fail loudly.
// Production builds leave it nil and carry on.
var assertHandler func(msg string)

// SetAssertHandler installs the invariant-violation hook. Passing nil
// disables it.
func SetAssertHandler(fn func(msg string)) { assertHandler = fn }

func assertf(cond bool, format string, args ...any) {
	if cond || assertHandler == nil {
		return
	}
	assertHandler(fmt.Sprintf(format, args...))
}
