package calc

import (
	"errors"
	"testing"
	"time"
)

type wantToken struct {
	kind tokenKind
	text string
}

func checkTokens(t *testing.T, input string, want []wantToken) {
	t.Helper()
	toks, err := tokenize(input, NewRegistry())
	if err != nil {
		t.Fatalf("tokenize(%q): %v", input, err)
	}
	// drop the trailing EOF
	toks = toks[:len(toks)-1]
	if len(toks) != len(want) {
		t.Fatalf("tokenize(%q) = %d tokens, want %d: %+v", input, len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].kind != w.kind || toks[i].text != w.text {
			t.Errorf("tokenize(%q)[%d] = {%v %q}, want {%v %q}",
				input, i, toks[i].kind, toks[i].text, w.kind, w.text)
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []wantToken
	}{
		{"3 * 5", []wantToken{
			{tokenNumber, "3"}, {tokenOp, "*"}, {tokenNumber, "5"},
		}},
		{"9.81 m/s^2", []wantToken{
			{tokenNumber, "9.81"}, {tokenUnit, "m"}, {tokenOp, "/"},
			{tokenUnit, "s"}, {tokenOp, "^"}, {tokenNumber, "2"},
		}},
		{"100 W * 2 h in Wh", []wantToken{
			{tokenNumber, "100"}, {tokenUnit, "W"}, {tokenOp, "*"},
			{tokenNumber, "2"}, {tokenUnit, "h"}, {tokenIn, "in"},
			{tokenUnit, "Wh"},
		}},
		// ** lexes as the ^ operator
		{"2 ** 3", []wantToken{{tokenNumber, "2"}, {tokenOp, "^"}, {tokenNumber, "3"}}},
		{"2 * * 3", []wantToken{{tokenNumber, "2"}, {tokenOp, "*"}, {tokenOp, "*"}, {tokenNumber, "3"}}},
		// the exponent e is only consumed when digits follow
		{"5e3", []wantToken{{tokenNumber, "5e3"}}},
		{"5e-3", []wantToken{{tokenNumber, "5e-3"}}},
		{"5eV", []wantToken{{tokenNumber, "5"}, {tokenUnit, "eV"}}},
		{"5e", []wantToken{{tokenNumber, "5"}, {tokenIdent, "e"}}},
		{".5", []wantToken{{tokenNumber, ".5"}}},
		// micro sign folds to the ASCII prefix
		{"3µs", []wantToken{{tokenNumber, "3"}, {tokenUnit, "us"}}},
		{"3μm", []wantToken{{tokenNumber, "3"}, {tokenUnit, "um"}}},
		{"now - 1 d", []wantToken{
			{tokenNow, "now"}, {tokenOp, "-"}, {tokenNumber, "1"}, {tokenUnit, "d"},
		}},
		{"frobs", []wantToken{{tokenIdent, "frobs"}}},
		{"(2+3)", []wantToken{
			{tokenOpen, "("}, {tokenNumber, "2"}, {tokenOp, "+"},
			{tokenNumber, "3"}, {tokenClose, ")"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			checkTokens(t, tt.input, tt.want)
		})
	}
}

func TestTokenizeDateTime(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-06-08", time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)},
		{"2024-06-08T19:45", time.Date(2024, 6, 8, 19, 45, 0, 0, time.UTC)},
		{"2024-06-08T19:45:10", time.Date(2024, 6, 8, 19, 45, 10, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, err := tokenize(tt.input, NewRegistry())
			if err != nil {
				t.Fatal(err)
			}
			if toks[0].kind != tokenDateTime {
				t.Fatalf("kind = %v, want tokenDateTime", toks[0].kind)
			}
			if !toks[0].when.Equal(tt.want) {
				t.Errorf("when = %v, want %v", toks[0].when, tt.want)
			}
		})
	}
}

// Digit runs that merely look date-shaped must stay arithmetic.
func TestTokenizeNotADate(t *testing.T) {
	tests := []struct {
		input string
		kinds []tokenKind
	}{
		// subtraction chain, not a date
		{"2024-13-40", []tokenKind{tokenNumber, tokenOp, tokenNumber, tokenOp, tokenNumber}},
		// five-digit run disqualifies the year
		{"20240-06-08", []tokenKind{tokenNumber, tokenOp, tokenNumber, tokenOp, tokenNumber}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, err := tokenize(tt.input, NewRegistry())
			if err != nil {
				t.Fatal(err)
			}
			toks = toks[:len(toks)-1]
			if len(toks) != len(tt.kinds) {
				t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(tt.kinds), toks)
			}
			for i, k := range tt.kinds {
				if toks[i].kind != k {
					t.Errorf("token %d kind = %v, want %v", i, toks[i].kind, k)
				}
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	for _, input := range []string{"5 # 3", "5 $", "."} {
		t.Run(input, func(t *testing.T) {
			_, err := tokenize(input, NewRegistry())
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("tokenize(%q) err = %v, want LexError", input, err)
			}
			if lexErr.Pos() < 1 {
				t.Errorf("LexError position = %d, want >= 1", lexErr.Pos())
			}
		})
	}
}
