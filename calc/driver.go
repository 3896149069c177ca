package calc

import (
	"context"
	"strings"
)

// DisplayStateKind is the state of the incremental evaluation driver.
type DisplayStateKind int

const (
	// NoResult means nothing valid has been evaluated yet.
	NoResult DisplayStateKind = iota
	// LiveResult means Result comes from evaluating the current text.
	LiveResult
	// StaleResult means the current text does not evaluate and Result
	// is the last value that did.
	StaleResult
)

func (k DisplayStateKind) String() string {
	switch k {
	case LiveResult:
		return "live"
	case StaleResult:
		return "stale"
	default:
		return "none"
	}
}

// DisplayState is what a front end shows: a formatted result, or an
// error message from an explicit evaluation, or neither.
type DisplayState struct {
	State  DisplayStateKind
	Result string
	Err    string
}

// Live reports whether the result reflects the current input text.
func (s DisplayState) Live() bool { return s.State == LiveResult }

// Driver re-runs the whole pipeline on every input change. It is
// stateless between calls except for the last good result, which it
// keeps showing while the user types through transiently invalid
// states. It is not safe for concurrent use; front ends own one
// driver per input field.
type Driver struct {
	reg  *Registry
	opts FormatOptions
	last DisplayState
}

// NewDriver builds a driver over the registry with the given display
// options.
func NewDriver(reg *Registry, opts FormatOptions) *Driver {
	return &Driver{reg: reg, opts: opts}
}

// OnInputChanged re-evaluates the full text, as on every keystroke.
// Incomplete or invalid input keeps the previous good result on
// display; clearing the input resets the driver.
func (d *Driver) OnInputChanged(ctx context.Context, text string) DisplayState {
	if strings.TrimSpace(text) == "" {
		d.last = DisplayState{State: NoResult}
		return d.last
	}
	formatted, err := d.run(ctx, text)
	if err != nil {
		if d.last.State == NoResult {
			return DisplayState{State: NoResult}
		}
		d.last = DisplayState{State: StaleResult, Result: d.last.Result}
		return d.last
	}
	d.last = DisplayState{State: LiveResult, Result: formatted}
	return d.last
}

// EvaluateNow is the explicit evaluation request: unlike auto-calc it
// surfaces the real error when the text does not evaluate.
func (d *Driver) EvaluateNow(ctx context.Context, text string) DisplayState {
	if strings.TrimSpace(text) == "" {
		d.last = DisplayState{State: NoResult}
		return d.last
	}
	formatted, err := d.run(ctx, text)
	if err != nil {
		state := DisplayState{State: d.last.State, Result: d.last.Result, Err: err.Error()}
		if state.State == LiveResult {
			state.State = StaleResult
		}
		d.last = state
		return state
	}
	d.last = DisplayState{State: LiveResult, Result: formatted}
	return d.last
}

func (d *Driver) run(ctx context.Context, text string) (string, error) {
	res, err := EvaluateString(ctx, d.reg, text)
	if err != nil {
		return "", err
	}
	return res.Format(ctx, d.reg, d.opts)
}
