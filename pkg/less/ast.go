package less

import "strings"

// source is one parsed file.
type source struct {
	name string // as reported in errors
	path string // resolved filesystem path, empty for the entry stylesheet
	dir  string // directory used for relative imports
	text string
}

// lineCol converts a byte offset into a 1-based line and column.
func (s *source) lineCol(at int) (int, int) {
	if at > len(s.text) {
		at = len(s.text)
	}
	if at < 0 {
		at = 0
	}
	line := 1 + strings.Count(s.text[:at], "\n")
	col := at - strings.LastIndexByte(s.text[:at], '\n')
	return line, col
}

// pos locates a node inside its source.
type pos struct {
	src *source
	at  int
}

// Statements.

type node interface {
	position() pos
}

type comment struct {
	pos
	text string
}

type varDecl struct {
	pos
	name  string
	value expr
}

type declaration struct {
	pos
	name      string // may contain @{} interpolation
	value     expr
	important bool
}

type ruleset struct {
	pos
	selector string // raw, may contain @{} interpolation
	body     []node
	mixin    *mixinSig // set for definitions written with parentheses
	guard    *guard
}

type mixinSig struct {
	name     string
	params   []param
	variadic bool
	rest     string // name bound by @rest..., empty when unnamed
}

type param struct {
	name    string // without '@'; empty for pattern params
	value   expr   // default value, or the literal a pattern param must match
	pattern bool
}

type mixinCall struct {
	pos
	path      []string
	args      []arg
	important bool
}

type arg struct {
	name  string
	value expr
}

type mediaRule struct {
	pos
	name    string // "media" or "supports"
	prelude string
	body    []node
}

type atRule struct {
	pos
	name    string
	prelude string
	body    []node
	block   bool
}

type importRule struct {
	pos
	path    string
	raw     string // original statement, emitted for CSS imports
	options map[string]bool
	css     bool
}

// inlineCSS holds text pulled in by @import (inline).
type inlineCSS struct {
	pos
	text string
}

func (n *comment) position() pos     { return n.pos }
func (n *varDecl) position() pos     { return n.pos }
func (n *declaration) position() pos { return n.pos }
func (n *ruleset) position() pos     { return n.pos }
func (n *mixinCall) position() pos   { return n.pos }
func (n *mediaRule) position() pos   { return n.pos }
func (n *atRule) position() pos      { return n.pos }
func (n *importRule) position() pos  { return n.pos }
func (n *inlineCSS) position() pos   { return n.pos }

// Guards.

type guard struct {
	alternatives [][]condition // OR of ANDs
}

type condition struct {
	negate bool
	left   expr
	op     string // empty when the condition is a bare expression
	right  expr
}

// Expressions.

type expr interface {
	position() pos
}

type exprList struct {
	pos
	items []expr
}

type exprSeq struct {
	pos
	items []expr
}

type exprOp struct {
	pos
	op          byte
	left, right expr
	spaceBefore bool
	spaceAfter  bool
}

type exprParen struct {
	pos
	inner expr
}

type exprNeg struct {
	pos
	inner expr
}

type exprVar struct {
	pos
	name string
}

type exprCall struct {
	pos
	name string
	args []expr
}

type exprQuoted struct {
	pos
	quote   byte
	text    string
	escaped bool
}

type exprURL struct {
	pos
	raw    string
	quoted *exprQuoted
}

type exprLiteral struct {
	pos
	val value
}

func (x *exprList) position() pos    { return x.pos }
func (x *exprSeq) position() pos     { return x.pos }
func (x *exprOp) position() pos      { return x.pos }
func (x *exprParen) position() pos   { return x.pos }
func (x *exprNeg) position() pos     { return x.pos }
func (x *exprVar) position() pos     { return x.pos }
func (x *exprCall) position() pos    { return x.pos }
func (x *exprQuoted) position() pos  { return x.pos }
func (x *exprURL) position() pos     { return x.pos }
func (x *exprLiteral) position() pos { return x.pos }
