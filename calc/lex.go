package calc

import (
	"time"
	"unicode"
)

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF marks the end of the input.
	tokenEOF
	// tokenNumber is an integer, decimal, or exponential literal.
	tokenNumber
	// tokenUnit is an identifier the registry resolves to a unit.
	tokenUnit
	// tokenIdent is an identifier the registry does not know. The
	// parser accepts it so the evaluator can report UnknownUnit with a
	// position.
	tokenIdent
	// tokenIn is the conversion keyword.
	tokenIn
	// tokenNow is the current-instant literal.
	tokenNow
	// tokenOp is one of + - * / ^.
	tokenOp
	tokenOpen
	tokenClose
	// tokenDateTime is an ISO date or date/time literal.
	tokenDateTime
)

type token struct {
	kind tokenKind
	text string
	// pos is the rune position of the token's first rune, starting
	// at 1.
	pos int

	unit *Unit     // tokenUnit only
	when time.Time // tokenDateTime only
}

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// tokenize scans text into tokens, consulting the registry to tell
// unit symbols from bare identifiers. The returned slice always ends
// with a tokenEOF.
func tokenize(text string, reg *Registry) ([]token, error) {
	rs := []rune(text)
	var toks []token
	i := 0
	for i < len(rs) {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r >= '0' && r <= '9' || r == '.':
			tok, next, err := scanNumberOrDate(rs, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = next
		case r == 'µ' || r == 'μ' || r == '_' || unicode.IsLetter(r):
			tok, next := scanIdent(rs, i, reg)
			toks = append(toks, tok)
			i = next
		case r == '*' && i+1 < len(rs) && rs[i+1] == '*':
			// ** is an alias for ^
			toks = append(toks, token{kind: tokenOp, text: "^", pos: i + 1})
			i += 2
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '^':
			toks = append(toks, token{kind: tokenOp, text: string(r), pos: i + 1})
			i++
		case r == '(':
			toks = append(toks, token{kind: tokenOpen, text: "(", pos: i + 1})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokenClose, text: ")", pos: i + 1})
			i++
		default:
			return nil, &LexError{Text: string(r), Col: i + 1}
		}
	}
	toks = append(toks, token{kind: tokenEOF, pos: len(rs) + 1})
	return toks, nil
}

// scanNumberOrDate scans a numeric literal, upgrading it to a
// date/time literal when the digits form an ISO date. The lookahead
// keeps "2024-06-08" from lexing as two subtractions.
func scanNumberOrDate(rs []rune, start int) (token, int, error) {
	if tok, next, ok := scanDateTime(rs, start); ok {
		return tok, next, nil
	}

	i := start
	digits := false
	for i < len(rs) && rs[i] >= '0' && rs[i] <= '9' {
		digits = true
		i++
	}
	if i < len(rs) && rs[i] == '.' {
		i++
		for i < len(rs) && rs[i] >= '0' && rs[i] <= '9' {
			digits = true
			i++
		}
	}
	if !digits {
		// a bare "." reaches here
		end := i
		if end < len(rs) {
			end++
		}
		return token{}, 0, &LexError{Text: string(rs[start:end]), Col: start + 1}
	}
	// Exponent suffix. "5e3" and "5e-3" are exponents; in "5eV" the e
	// belongs to the electronvolt, so only consume it when digits
	// follow.
	if i < len(rs) && (rs[i] == 'e' || rs[i] == 'E') {
		j := i + 1
		if j < len(rs) && (rs[j] == '+' || rs[j] == '-') {
			j++
		}
		if j < len(rs) && rs[j] >= '0' && rs[j] <= '9' {
			for j < len(rs) && rs[j] >= '0' && rs[j] <= '9' {
				j++
			}
			i = j
		}
	}
	return token{kind: tokenNumber, text: string(rs[start:i]), pos: start + 1}, i, nil
}

// scanDateTime matches YYYY-MM-DD with an optional THH:MM[:SS] tail.
func scanDateTime(rs []rune, start int) (token, int, bool) {
	n := func(at, count int) bool {
		if at+count > len(rs) {
			return false
		}
		for k := 0; k < count; k++ {
			if rs[at+k] < '0' || rs[at+k] > '9' {
				return false
			}
		}
		// reject a longer digit run, e.g. 20240 is a number
		return at+count == len(rs) || rs[at+count] < '0' || rs[at+count] > '9'
	}
	i := start
	if !n(i, 4) || i+4 >= len(rs) || rs[i+4] != '-' {
		return token{}, 0, false
	}
	if !n(i+5, 2) || i+7 >= len(rs) || rs[i+7] != '-' {
		return token{}, 0, false
	}
	if !n(i+8, 2) {
		return token{}, 0, false
	}
	end := i + 10
	if end < len(rs) && rs[end] == 'T' && n(end+1, 2) && end+3 < len(rs) && rs[end+3] == ':' && n(end+4, 2) {
		end += 6
		if end < len(rs) && rs[end] == ':' && n(end+1, 2) {
			end += 3
		}
	}
	text := string(rs[start:end])
	for _, layout := range dateTimeLayouts {
		if when, err := time.Parse(layout, text); err == nil {
			return token{kind: tokenDateTime, text: text, pos: start + 1, when: when}, end, true
		}
	}
	// shaped like a date but not a real one, e.g. 2024-13-40
	return token{}, 0, false
}

func scanIdent(rs []rune, start int, reg *Registry) (token, int) {
	i := start
	var b []rune
scan:
	for i < len(rs) {
		r := rs[i]
		switch {
		case r == 'µ' || r == 'μ':
			b = append(b, 'u')
		case r == '_' || unicode.IsLetter(r) || (i > start && unicode.IsDigit(r)):
			b = append(b, r)
		default:
			break scan
		}
		i++
	}
	tok := token{text: string(b), pos: start + 1}
	switch tok.text {
	case "in":
		tok.kind = tokenIn
	case "now":
		tok.kind = tokenNow
	default:
		if u, err := reg.Lookup(tok.text); err == nil {
			tok.kind = tokenUnit
			tok.unit = u
		} else {
			tok.kind = tokenIdent
		}
	}
	return tok, i
}
