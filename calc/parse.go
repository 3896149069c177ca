package calc

import "strings"

// Expr is a parsed expression ready for evaluation.
type Expr struct {
	root node
	src  string
}

// String returns the source text the expression was parsed from.
func (e Expr) String() string { return strings.TrimSpace(e.src) }

// Parse lexes and parses input against the registry's unit table.
//
// Precedence, tightest first: parentheses, unary minus,
// exponentiation (right-associative), implicit multiplication by
// adjacency, explicit multiplication and division, addition and
// subtraction, and finally a single trailing "in" conversion.
// Implicit multiplication binding tighter than the explicit operators
// is what makes "9.81 m/s^2" read as (9.81 m)/(s^2).
//
// A structurally valid prefix that ends too early — "5 m +", an
// unclosed parenthesis, a dangling "in" — fails with ErrIncomplete
// rather than a ParseError, so callers evaluating on every keystroke
// can tell "wait" from "wrong".
func Parse(reg *Registry, input string) (Expr, error) {
	toks, err := tokenize(input, reg)
	if err != nil {
		return Expr{}, err
	}
	p := &parser{toks: toks}
	if p.peek().kind == tokenEOF {
		return Expr{}, ErrIncomplete
	}
	root, err := p.parseSum()
	if err != nil {
		return Expr{}, err
	}
	if tok := p.peek(); tok.kind == tokenIn {
		p.next()
		if p.peek().kind == tokenEOF {
			return Expr{}, ErrIncomplete
		}
		at := tok.pos
		target, err := p.parseProduct()
		if err != nil {
			return Expr{}, err
		}
		root = &convert{
			expr:       root,
			target:     target,
			targetText: strings.TrimSpace(sliceSource(input, at+len("in"))),
			at:         at,
		}
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return Expr{}, &ParseError{Expected: "end of expression", Got: tok.text, Col: tok.pos}
	}
	return Expr{root: root, src: input}, nil
}

// MustParse is Parse for expressions known to be valid; it panics on
// error.
func MustParse(reg *Registry, input string) Expr {
	e, err := Parse(reg, input)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	tok := p.toks[p.i]
	if tok.kind != tokenEOF {
		p.i++
	}
	return tok
}

func (p *parser) parseSum() (node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenOp || (tok.text != "+" && tok.text != "-") {
			return left, nil
		}
		p.next()
		if p.peek().kind == tokenEOF {
			return nil, ErrIncomplete
		}
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = &binary{op: tok.text, left: left, right: right, at: tok.pos}
	}
}

func (p *parser) parseProduct() (node, error) {
	left, err := p.parseImplicit()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenOp || (tok.text != "*" && tok.text != "/") {
			return left, nil
		}
		p.next()
		if p.peek().kind == tokenEOF {
			return nil, ErrIncomplete
		}
		right, err := p.parseImplicit()
		if err != nil {
			return nil, err
		}
		left = &binary{op: tok.text, left: left, right: right, at: tok.pos}
	}
}

// parseImplicit folds adjacent operands into multiplications: "5 m",
// "kg m", "2(3+4)". Adjacency never starts at an operator, so "5 -3"
// stays a subtraction.
func (p *parser) parseImplicit() (node, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for startsOperand(p.peek()) {
		at := p.peek().pos
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &binary{op: "*", left: left, right: right, at: at}
	}
	return left, nil
}

func startsOperand(tok token) bool {
	switch tok.kind {
	case tokenNumber, tokenUnit, tokenIdent, tokenNow, tokenDateTime, tokenOpen:
		return true
	}
	return false
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.kind != tokenOp || tok.text != "^" {
		return base, nil
	}
	p.next()
	if p.peek().kind == tokenEOF {
		return nil, ErrIncomplete
	}
	exp, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return &binary{op: "^", left: base, right: exp, at: tok.pos}, nil
}

func (p *parser) parseUnary() (node, error) {
	tok := p.peek()
	if tok.kind == tokenOp && tok.text == "-" {
		p.next()
		if p.peek().kind == tokenEOF {
			return nil, ErrIncomplete
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unary{op: "-", x: x, at: tok.pos}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNumber:
		return &numberLit{text: tok.text, at: tok.pos}, nil
	case tokenUnit:
		return &unitLit{unit: tok.unit, at: tok.pos}, nil
	case tokenIdent:
		return &identLit{name: tok.text, at: tok.pos}, nil
	case tokenDateTime:
		return &dateTimeLit{when: tok.when, at: tok.pos}, nil
	case tokenNow:
		return &nowLit{at: tok.pos}, nil
	case tokenOpen:
		if p.peek().kind == tokenEOF {
			return nil, ErrIncomplete
		}
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		closing := p.peek()
		if closing.kind == tokenEOF {
			return nil, ErrIncomplete
		}
		if closing.kind != tokenClose {
			return nil, &ParseError{Expected: `")"`, Got: closing.text, Col: closing.pos}
		}
		p.next()
		return inner, nil
	case tokenEOF:
		return nil, ErrIncomplete
	default:
		return nil, &ParseError{Expected: "a value", Got: tok.text, Col: tok.pos}
	}
}

// sliceSource returns the input from rune position pos (1-based)
// onwards; the parser uses it to keep the user's spelling of the
// conversion target for display.
func sliceSource(input string, pos int) string {
	rs := []rune(input)
	if pos-1 >= len(rs) {
		return ""
	}
	return string(rs[pos-1:])
}
