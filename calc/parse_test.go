package calc

import (
	"context"
	"errors"
	"testing"
)

func evalToString(t *testing.T, input string) string {
	t.Helper()
	ctx := context.Background()
	reg := NewRegistry()
	res, err := EvaluateString(ctx, reg, input)
	if err != nil {
		t.Fatalf("evaluate %q: %v", input, err)
	}
	s, err := res.Format(ctx, reg, FormatOptions{})
	if err != nil {
		t.Fatalf("format %q: %v", input, err)
	}
	return s
}

func TestParseIncomplete(t *testing.T) {
	reg := NewRegistry()
	inputs := []string{
		"",
		"   ",
		"5 m +",
		"5 m *",
		"5 ^",
		"-",
		"(5",
		"(5 m + 3",
		"(",
		"5 m in",
		"100 W * 2 h in",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(reg, input)
			if !IsIncomplete(err) {
				t.Errorf("Parse(%q) err = %v, want ErrIncomplete", input, err)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	reg := NewRegistry()
	inputs := []string{
		"5 )",
		"(5 m + ) 3",
		"5 in m in km",
		"* 5",
		"+5",
		"5 m in km + 3",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(reg, input)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Parse(%q) err = %v, want ParseError", input, err)
			}
			if IsIncomplete(err) {
				t.Errorf("Parse(%q) reported incomplete, want hard error", input)
			}
		})
	}
}

// Precedence is easiest to pin down by evaluating: each pair must
// produce the same value.
func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"power before explicit multiplication", "2 * 3 ^ 2", "2 * (3 ^ 2)"},
		{"power right associative", "2 ^ 3 ^ 2", "2 ^ (3 ^ 2)"},
		{"unary minus above power", "-2 ^ 2", "(-2) ^ 2"},
		{"implicit above division", "9.81 m/s^2", "(9.81 m) / (s^2)"},
		{"implicit above explicit", "2 m * 3 s", "(2 m) * (3 s)"},
		{"sum last", "1 + 2 * 3", "1 + (2 * 3)"},
		{"number adjacency", "2(3+4)", "2 * (3+4)"},
		{"subtraction not adjacency", "5 - 3", "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evalToString(t, tt.a)
			want := evalToString(t, tt.b)
			if got != want {
				t.Errorf("%q = %q, %q = %q; want equal", tt.a, got, tt.b, want)
			}
		})
	}
}

func TestParseConversionTargetText(t *testing.T) {
	reg := NewRegistry()
	e, err := Parse(reg, "100 m in km")
	if err != nil {
		t.Fatal(err)
	}
	conv, ok := e.root.(*convert)
	if !ok {
		t.Fatalf("root = %T, want *convert", e.root)
	}
	if conv.targetText != "km" {
		t.Errorf("targetText = %q, want %q", conv.targetText, "km")
	}

	e, err = Parse(reg, "3 m/s in km / h")
	if err != nil {
		t.Fatal(err)
	}
	conv, ok = e.root.(*convert)
	if !ok {
		t.Fatalf("root = %T, want *convert", e.root)
	}
	if conv.targetText != "km / h" {
		t.Errorf("targetText = %q, want %q", conv.targetText, "km / h")
	}
}

func TestParseUnknownIdentifierDeferred(t *testing.T) {
	// Unknown words parse fine; only evaluation rejects them, with a
	// position.
	reg := NewRegistry()
	if _, err := Parse(reg, "5 flurbs"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
}
