package calc_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tovam/unacalc-go/calc"
)

// Simulates typing "5 m + 3 m" one keystroke at a time: the result
// must go live as soon as a prefix evaluates and stay on display,
// stale, through the incomplete states in between.
func TestDriverTyping(t *testing.T) {
	ctx := context.Background()
	d := calc.NewDriver(calc.NewRegistry(), calc.FormatOptions{})

	steps := []struct {
		text string
		want calc.DisplayState
	}{
		{"5", calc.DisplayState{State: calc.LiveResult, Result: "5"}},
		{"5 ", calc.DisplayState{State: calc.LiveResult, Result: "5"}},
		{"5 m", calc.DisplayState{State: calc.LiveResult, Result: "5 m"}},
		{"5 m ", calc.DisplayState{State: calc.LiveResult, Result: "5 m"}},
		{"5 m +", calc.DisplayState{State: calc.StaleResult, Result: "5 m"}},
		{"5 m + ", calc.DisplayState{State: calc.StaleResult, Result: "5 m"}},
		{"5 m + 3", calc.DisplayState{State: calc.StaleResult, Result: "5 m"}},
		{"5 m + 3 m", calc.DisplayState{State: calc.LiveResult, Result: "8 m"}},
	}
	for _, step := range steps {
		got := d.OnInputChanged(ctx, step.text)
		if diff := cmp.Diff(step.want, got); diff != "" {
			t.Errorf("OnInputChanged(%q) mismatch (-want +got):\n%s", step.text, diff)
		}
	}
}

// "5 m + 3" is stale because adding a bare number to a length is a
// dimension error, not just an incomplete expression. Auto-calc
// treats both the same way.
func TestDriverInvalidKeepsLastGood(t *testing.T) {
	ctx := context.Background()
	d := calc.NewDriver(calc.NewRegistry(), calc.FormatOptions{})

	d.OnInputChanged(ctx, "100 m in cm")
	got := d.OnInputChanged(ctx, "100 m in kg")
	want := calc.DisplayState{State: calc.StaleResult, Result: "10000 cm"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDriverNoResultBeforeFirstSuccess(t *testing.T) {
	ctx := context.Background()
	d := calc.NewDriver(calc.NewRegistry(), calc.FormatOptions{})

	for _, text := range []string{"5 +", "5 + (", "flurbs"} {
		got := d.OnInputChanged(ctx, text)
		if got.State != calc.NoResult {
			t.Errorf("OnInputChanged(%q) state = %v, want NoResult", text, got.State)
		}
	}
}

func TestDriverClearResets(t *testing.T) {
	ctx := context.Background()
	d := calc.NewDriver(calc.NewRegistry(), calc.FormatOptions{})

	d.OnInputChanged(ctx, "5 m")
	got := d.OnInputChanged(ctx, "   ")
	if diff := cmp.Diff(calc.DisplayState{State: calc.NoResult}, got); diff != "" {
		t.Errorf("clearing input (-want +got):\n%s", diff)
	}

	// After a reset the old result must not come back as stale.
	got = d.OnInputChanged(ctx, "nonsense$")
	if got.State != calc.NoResult {
		t.Errorf("state after reset = %v, want NoResult", got.State)
	}
}

func TestDriverEvaluateNowSurfacesError(t *testing.T) {
	ctx := context.Background()
	d := calc.NewDriver(calc.NewRegistry(), calc.FormatOptions{})

	d.OnInputChanged(ctx, "5 m")
	got := d.EvaluateNow(ctx, "5 m + 3 kg")
	if got.State != calc.StaleResult {
		t.Errorf("state = %v, want StaleResult", got.State)
	}
	if got.Result != "5 m" {
		t.Errorf("result = %q, want last good %q", got.Result, "5 m")
	}
	if got.Err == "" {
		t.Error("EvaluateNow swallowed the error")
	}

	// A later success clears the error.
	got = d.EvaluateNow(ctx, "5 m + 3 m")
	want := calc.DisplayState{State: calc.LiveResult, Result: "8 m"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDisplayStateKindString(t *testing.T) {
	tests := []struct {
		kind calc.DisplayStateKind
		want string
	}{
		{calc.NoResult, "none"},
		{calc.LiveResult, "live"},
		{calc.StaleResult, "stale"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
