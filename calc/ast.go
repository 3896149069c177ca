package calc

import "time"

// node is the interface of expression tree nodes. Trees are built
// fresh for every evaluation and never shared.
type node interface {
	pos() int
}

type numberLit struct {
	text string
	at   int
}

type unitLit struct {
	unit *Unit
	at   int
}

// identLit is an identifier that resolved to no unit. The parser keeps
// it so the evaluator can fail with UnknownUnit at the right position.
type identLit struct {
	name string
	at   int
}

type dateTimeLit struct {
	when time.Time
	at   int
}

type nowLit struct {
	at int
}

type unary struct {
	op string
	x  node
	at int
}

type binary struct {
	op          string
	left, right node
	at          int
}

// convert is the trailing "in" conversion. It only ever appears as the
// root of a tree.
type convert struct {
	expr       node
	target     node
	targetText string
	at         int
}

func (n *numberLit) pos() int   { return n.at }
func (n *unitLit) pos() int     { return n.at }
func (n *identLit) pos() int    { return n.at }
func (n *dateTimeLit) pos() int { return n.at }
func (n *nowLit) pos() int      { return n.at }
func (n *unary) pos() int       { return n.at }
func (n *binary) pos() int      { return n.at }
func (n *convert) pos() int     { return n.at }
