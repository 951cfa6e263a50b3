package less

import (
	"fmt"
	"regexp"
	"strings"
)

const maxMixinDepth = 10000

// frame is one lexical scope.
type frame struct {
	parent *frame
	caller *frame // fallback scope for mixin bodies

	vars     map[string]*varDecl
	bound    map[string]value // mixin arguments and @arguments
	rulesets []*ruleset
	cache    map[string]value
}

func newFrame(parent *frame, body []node) *frame {
	f := &frame{parent: parent, vars: map[string]*varDecl{}}
	for _, n := range body {
		switch t := n.(type) {
		case *varDecl:
			f.vars[t.name] = t
		case *ruleset:
			f.rulesets = append(f.rulesets, t)
		}
	}
	return f
}

// scope is the evaluation position.
type scope struct {
	frame     *frame
	selectors []string
	media     []string // enclosing @media queries, outermost first
	supports  []string
	sink      *[]cssNode // where rulesets are emitted
	rule      *cssRule   // receives declarations, nil at the top level
	important bool
	noMath    bool // inside calc()
}

func (sc scope) with(f *frame) scope {
	sc.frame = f
	return sc
}

type evaluator struct {
	root       []cssNode
	imports    []cssNode
	charset    []cssNode
	depth      int
	evaluating map[*varDecl]bool

	// inDefault is what default() returns while a mixin guard is being
	// evaluated; nil everywhere else.
	inDefault *bool
}

func newEvaluator() *evaluator {
	return &evaluator{evaluating: map[*varDecl]bool{}}
}

func (e *evaluator) run(nodes []node) error {
	sc := scope{frame: newFrame(nil, nodes), sink: &e.root}
	return e.evalBody(nodes, sc)
}

func (e *evaluator) evalBody(nodes []node, sc scope) error {
	for _, n := range nodes {
		if err := e.evalNode(n, sc); err != nil {
			return err
		}
	}
	return nil
}

func (e *evaluator) evalNode(n node, sc scope) error {
	switch t := n.(type) {
	case *comment:
		if sc.rule != nil {
			sc.rule.items = append(sc.rule.items, cssItem{comment: t.text})
		} else {
			*sc.sink = append(*sc.sink, &cssText{text: t.text})
		}
	case *varDecl:
		// Bound when the enclosing frame was built.
	case *declaration:
		return e.evalDeclaration(t, sc)
	case *ruleset:
		return e.evalRuleset(t, sc)
	case *mixinCall:
		return e.evalMixinCall(t, sc)
	case *mediaRule:
		return e.evalMedia(t, sc)
	case *atRule:
		return e.evalAtRule(t, sc)
	case *importRule:
		e.imports = append(e.imports, &cssText{text: t.raw})
	case *inlineCSS:
		*sc.sink = append(*sc.sink, &cssText{text: t.text})
	default:
		return newError(KindInternal, ErrInternal, n.position(), "unexpected node %T", n)
	}
	return nil
}

func (e *evaluator) evalDeclaration(d *declaration, sc scope) error {
	if sc.rule == nil {
		return newError(KindParse, ErrSyntax, d.pos, "properties must be inside selector blocks")
	}
	name, err := e.interpolate(d.name, d.pos, sc)
	if err != nil {
		return err
	}
	v, err := e.eval(d.value, sc, false)
	if err != nil {
		return err
	}
	sc.rule.items = append(sc.rule.items, cssItem{
		name:      name,
		value:     v.css(),
		important: d.important || sc.important,
	})
	return nil
}

func (e *evaluator) evalRuleset(r *ruleset, sc scope) error {
	if r.mixin != nil {
		return nil
	}
	if r.guard != nil {
		ok, err := e.evalGuard(r.guard, sc)
		if err != nil || !ok {
			return err
		}
	}
	raw, err := e.interpolate(r.selector, r.pos, sc)
	if err != nil {
		return err
	}
	selectors := joinSelectors(sc.selectors, splitSelectors(raw))

	rule := &cssRule{selectors: selectors}
	*sc.sink = append(*sc.sink, rule)

	inner := sc
	inner.frame = newFrame(sc.frame, r.body)
	inner.selectors = selectors
	inner.rule = rule
	return e.evalBody(r.body, inner)
}

func (e *evaluator) evalMedia(m *mediaRule, sc scope) error {
	query, err := e.interpolatePrelude(m.prelude, m.pos, sc)
	if err != nil {
		return err
	}

	inner := sc
	inner.frame = newFrame(sc.frame, m.body)
	var full string
	if m.name == "supports" {
		inner.supports = append(append([]string(nil), sc.supports...), query)
		full = strings.Join(inner.supports, " and ")
	} else {
		inner.media = append(append([]string(nil), sc.media...), query)
		full = strings.Join(inner.media, " and ")
	}

	block := &cssBlock{name: "@" + m.name, prelude: full}
	e.root = append(e.root, block)
	inner.sink = &block.children
	inner.rule = nil
	if len(sc.selectors) > 0 {
		inner.rule = &cssRule{selectors: sc.selectors}
		block.children = append(block.children, inner.rule)
	}
	return e.evalBody(m.body, inner)
}

func (e *evaluator) evalAtRule(a *atRule, sc scope) error {
	prelude, err := e.interpolatePrelude(a.prelude, a.pos, sc)
	if err != nil {
		return err
	}
	if !a.block {
		text := "@" + a.name
		if prelude != "" {
			text += " " + prelude
		}
		text += ";"
		if strings.EqualFold(a.name, "charset") {
			if len(e.charset) == 0 {
				e.charset = append(e.charset, &cssText{text: text})
			}
			return nil
		}
		*sc.sink = append(*sc.sink, &cssText{text: text})
		return nil
	}

	block := &cssBlock{name: "@" + a.name, prelude: prelude}
	if sc.rule != nil {
		e.root = append(e.root, block)
	} else {
		*sc.sink = append(*sc.sink, block)
	}
	body := &cssRule{}
	block.children = append(block.children, body)

	inner := scope{
		frame:     newFrame(sc.frame, a.body),
		sink:      &block.children,
		rule:      body,
		important: sc.important,
	}
	return e.evalBody(a.body, inner)
}

// Mixins.

type candidate struct {
	def     *ruleset
	lexical *frame
}

func (e *evaluator) evalMixinCall(c *mixinCall, sc scope) error {
	name := strings.Join(c.path, " > ")
	cands := findMixins(c.path, sc.frame)
	if len(cands) == 0 {
		return newError(KindName, ErrUndefined, c.pos, "%s is undefined", name)
	}

	args := make([]evaluatedArg, len(c.args))
	for i, a := range c.args {
		v, err := e.eval(a.value, sc, false)
		if err != nil {
			return err
		}
		args[i] = evaluatedArg{name: a.name, val: v}
	}

	e.depth++
	defer func() { e.depth-- }()
	if e.depth > maxMixinDepth {
		return newError(KindName, ErrRecursion, c.pos, "maximum call stack size exceeded in %s", name)
	}

	type match struct {
		cand  candidate
		frame *frame
	}
	var regular, fallback []match
	matched := false
	for _, cand := range cands {
		f, ok, err := e.bindMixin(cand, args, sc)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		matched = true

		if cand.def.guard == nil {
			regular = append(regular, match{cand, f})
			continue
		}
		// A guard is evaluated with default() false and true. Passing only
		// with true makes the candidate a fallback for when nothing else
		// matches.
		whenFalse, err := e.evalMixinGuard(cand.def.guard, sc.with(f), false)
		if err != nil {
			return err
		}
		if whenFalse {
			regular = append(regular, match{cand, f})
			continue
		}
		whenTrue, err := e.evalMixinGuard(cand.def.guard, sc.with(f), true)
		if err != nil {
			return err
		}
		if whenTrue {
			fallback = append(fallback, match{cand, f})
		}
	}
	if !matched {
		return newError(KindArgument, ErrNoMatch, c.pos, "no matching definition was found for `%s(%s)`", name, argsString(args))
	}

	run := regular
	if len(run) == 0 {
		run = fallback
	}
	for _, m := range run {
		inner := sc
		inner.frame = m.frame
		inner.important = sc.important || c.important
		for _, n := range m.cand.def.body {
			if d, ok := n.(*declaration); ok && inner.rule == nil {
				return newError(KindParse, ErrSyntax, d.pos, "mixin %s adds properties outside of a selector block", name)
			}
			if err := e.evalNode(n, inner); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *evaluator) evalMixinGuard(g *guard, sc scope, isDefault bool) (bool, error) {
	prev := e.inDefault
	e.inDefault = &isDefault
	defer func() { e.inDefault = prev }()
	return e.evalGuard(g, sc)
}

type evaluatedArg struct {
	name string
	val  value
}

func argsString(args []evaluatedArg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a.name != "" {
			parts[i] = "@" + a.name + ": " + a.val.css()
		} else {
			parts[i] = a.val.css()
		}
	}
	return strings.Join(parts, ", ")
}

// findMixins resolves a mixin path against the scope chain.
func findMixins(path []string, f *frame) []candidate {
	var found []candidate
	lookup := func(start *frame) bool {
		for cur := start; cur != nil; cur = cur.parent {
			for _, r := range cur.rulesets {
				if mixinMatches(r, path[0]) {
					found = append(found, candidate{def: r, lexical: cur})
				}
			}
			if len(found) > 0 {
				return true
			}
		}
		return false
	}
	if !lookup(f) {
		for cur := f; cur != nil; cur = cur.parent {
			if cur.caller != nil && lookup(cur.caller) {
				break
			}
		}
	}

	for _, seg := range path[1:] {
		var next []candidate
		for _, ns := range found {
			if ns.def.mixin != nil && len(ns.def.mixin.params) > 0 {
				continue
			}
			nsFrame := newFrame(ns.lexical, ns.def.body)
			for _, r := range nsFrame.rulesets {
				if mixinMatches(r, seg) {
					next = append(next, candidate{def: r, lexical: nsFrame})
				}
			}
		}
		found = next
	}
	return found
}

func mixinMatches(r *ruleset, name string) bool {
	if r.mixin != nil {
		return r.mixin.name == name
	}
	for _, sel := range splitSelectors(r.selector) {
		if sel == name {
			return true
		}
	}
	return false
}

// bindMixin creates the frame a candidate's body runs in. ok is false when
// the arguments do not fit the definition.
func (e *evaluator) bindMixin(c candidate, args []evaluatedArg, sc scope) (*frame, bool, error) {
	f := newFrame(c.lexical, c.def.body)
	f.caller = sc.frame
	f.bound = map[string]value{}

	sig := c.def.mixin
	if sig == nil {
		return f, len(args) == 0, nil
	}

	named := map[string]value{}
	var positional []value
	for _, a := range args {
		if a.name != "" {
			named[a.name] = a.val
		} else {
			positional = append(positional, a.val)
		}
	}
	for n := range named {
		if !sig.hasParam(n) {
			return nil, false, nil
		}
	}

	var all []value
	pi := 0
	for _, prm := range sig.params {
		if prm.pattern {
			if pi >= len(positional) {
				return nil, false, nil
			}
			want, err := e.eval(prm.value, sc.with(f), false)
			if err != nil {
				return nil, false, err
			}
			if text(want) != text(positional[pi]) {
				return nil, false, nil
			}
			all = append(all, positional[pi])
			pi++
			continue
		}

		var v value
		switch nv, ok := named[prm.name]; {
		case ok:
			v = nv
		case pi < len(positional):
			v = positional[pi]
			pi++
		case prm.value != nil:
			dv, err := e.eval(prm.value, sc.with(f), false)
			if err != nil {
				return nil, false, err
			}
			v = dv
		default:
			return nil, false, nil
		}
		f.bound[prm.name] = v
		all = append(all, v)
	}

	rest := positional[pi:]
	if len(rest) > 0 && !sig.variadic {
		return nil, false, nil
	}
	if sig.rest != "" {
		f.bound[sig.rest] = list{items: append([]value(nil), rest...)}
	}
	all = append(all, rest...)
	f.bound["arguments"] = list{items: all}
	return f, true, nil
}

func (s *mixinSig) hasParam(name string) bool {
	for _, p := range s.params {
		if p.name == name {
			return true
		}
	}
	return false
}

// Guards.

func (e *evaluator) evalGuard(g *guard, sc scope) (bool, error) {
	for _, alt := range g.alternatives {
		all := true
		for _, c := range alt {
			ok, err := e.evalCondition(c, sc)
			if err != nil {
				return false, err
			}
			if !ok {
				all = false
				break
			}
		}
		if all {
			return true, nil
		}
	}
	return false, nil
}

func (e *evaluator) evalCondition(c condition, sc scope) (bool, error) {
	left, err := e.eval(c.left, sc, true)
	if err != nil {
		return false, err
	}
	var result bool
	if c.op == "" {
		result = text(left) == "true"
	} else {
		right, err := e.eval(c.right, sc, true)
		if err != nil {
			return false, err
		}
		cmp, ok := compare(left, right)
		switch c.op {
		case "=":
			result = ok && cmp == 0
		case ">":
			result = ok && cmp > 0
		case "<":
			result = ok && cmp < 0
		case ">=":
			result = ok && cmp >= 0
		case "=<":
			result = ok && cmp <= 0
		}
	}
	if c.negate {
		result = !result
	}
	return result, nil
}

// Variables.

func (e *evaluator) lookup(name string, at pos, sc scope) (value, error) {
	v, found, err := e.lookupIn(name, sc.frame)
	if err != nil || found {
		return v, err
	}
	for cur := sc.frame; cur != nil; cur = cur.parent {
		if cur.caller == nil {
			continue
		}
		if v, found, err := e.lookupIn(name, cur.caller); err != nil || found {
			return v, err
		}
	}
	return nil, newError(KindName, ErrUndefined, at, "variable @%s is undefined", name)
}

func (e *evaluator) lookupIn(name string, f *frame) (value, bool, error) {
	for cur := f; cur != nil; cur = cur.parent {
		if v, ok := cur.bound[name]; ok {
			return v, true, nil
		}
		decl, ok := cur.vars[name]
		if !ok {
			continue
		}
		if v, ok := cur.cache[name]; ok {
			return v, true, nil
		}
		if e.evaluating[decl] {
			return nil, true, newError(KindName, ErrRecursion, decl.pos, "recursive variable definition for @%s", name)
		}
		e.evaluating[decl] = true
		v, err := e.eval(decl.value, scope{frame: cur}, false)
		delete(e.evaluating, decl)
		if err != nil {
			return nil, true, err
		}
		if cur.cache == nil {
			cur.cache = map[string]value{}
		}
		cur.cache[name] = v
		return v, true, nil
	}
	return nil, false, nil
}

var interpolation = regexp.MustCompile(`@\{([\w-]+)\}`)

// interpolate replaces @{name} references in s.
func (e *evaluator) interpolate(s string, at pos, sc scope) (string, error) {
	if !strings.Contains(s, "@{") {
		return s, nil
	}
	var firstErr error
	out := interpolation.ReplaceAllStringFunc(s, func(m string) string {
		if firstErr != nil {
			return m
		}
		v, err := e.lookup(m[2:len(m)-1], at, sc)
		if err != nil {
			firstErr = err
			return m
		}
		return text(v)
	})
	return out, firstErr
}

var bareVariable = regexp.MustCompile(`@([\w-]+)`)

// interpolatePrelude also substitutes bare @name references, as used in
// media queries such as "@media @phone".
func (e *evaluator) interpolatePrelude(s string, at pos, sc scope) (string, error) {
	s, err := e.interpolate(s, at, sc)
	if err != nil || !strings.Contains(s, "@") {
		return s, err
	}
	var firstErr error
	out := bareVariable.ReplaceAllStringFunc(s, func(m string) string {
		if firstErr != nil {
			return m
		}
		v, err := e.lookup(m[1:], at, sc)
		if err != nil {
			firstErr = err
			return m
		}
		return text(v)
	})
	return out, firstErr
}

// Expressions.

// eval evaluates x. math is true inside parentheses and function
// arguments, where division is performed.
func (e *evaluator) eval(x expr, sc scope, math bool) (value, error) {
	switch t := x.(type) {
	case *exprLiteral:
		return t.val, nil

	case *exprList:
		items := make([]value, len(t.items))
		for i, it := range t.items {
			v, err := e.eval(it, sc, math)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return list{items: items, comma: true}, nil

	case *exprSeq:
		items := make([]value, len(t.items))
		for i, it := range t.items {
			v, err := e.eval(it, sc, math)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return list{items: items}, nil

	case *exprParen:
		v, err := e.eval(t.inner, sc, true)
		if err != nil {
			return nil, err
		}
		if sc.noMath {
			return anonymous{s: "(" + v.css() + ")"}, nil
		}
		return v, nil

	case *exprNeg:
		v, err := e.eval(t.inner, sc, math)
		if err != nil {
			return nil, err
		}
		if n, ok := v.(number); ok && !sc.noMath {
			return number{v: -n.v, unit: n.unit}, nil
		}
		return anonymous{s: "-" + v.css()}, nil

	case *exprOp:
		return e.evalOp(t, sc, math)

	case *exprVar:
		return e.lookup(t.name, t.pos, sc)

	case *exprQuoted:
		s, err := e.interpolate(t.text, t.pos, sc)
		if err != nil {
			return nil, err
		}
		return quoted{quote: t.quote, s: s, escaped: t.escaped}, nil

	case *exprURL:
		if t.quoted != nil {
			v, err := e.eval(t.quoted, sc, false)
			if err != nil {
				return nil, err
			}
			return anonymous{s: "url(" + v.css() + ")"}, nil
		}
		s, err := e.interpolate(t.raw, t.pos, sc)
		if err != nil {
			return nil, err
		}
		return anonymous{s: "url(" + s + ")"}, nil

	case *exprCall:
		return e.evalCall(t, sc)
	}
	return nil, newError(KindInternal, ErrInternal, x.position(), "unexpected expression %T", x)
}

func (e *evaluator) evalOp(t *exprOp, sc scope, math bool) (value, error) {
	l, err := e.eval(t.left, sc, math)
	if err != nil {
		return nil, err
	}
	r, err := e.eval(t.right, sc, math)
	if err != nil {
		return nil, err
	}
	if sc.noMath || (t.op == '/' && !math) {
		var b strings.Builder
		b.WriteString(l.css())
		if t.spaceBefore {
			b.WriteByte(' ')
		}
		b.WriteByte(t.op)
		if t.spaceAfter {
			b.WriteByte(' ')
		}
		b.WriteString(r.css())
		return anonymous{s: b.String()}, nil
	}
	v, err := operate(t.op, l, r)
	if err != nil {
		return nil, newError(KindOperation, ErrOperation, t.pos, "%s", err)
	}
	return v, nil
}

func (e *evaluator) evalCall(t *exprCall, sc scope) (value, error) {
	name := strings.ToLower(t.name)
	if name == "default" && len(t.args) == 0 {
		if e.inDefault == nil {
			return nil, newError(KindArgument, ErrUnsupported, t.pos, "default() is only available in mixin guards")
		}
		if *e.inDefault {
			return keyword{s: "true"}, nil
		}
		return keyword{s: "false"}, nil
	}
	if fn, ok := builtins[name]; ok {
		argScope := sc
		argScope.noMath = false
		args := make([]value, len(t.args))
		for i, a := range t.args {
			v, err := e.eval(a, argScope, true)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		v, err := fn(args)
		if err != nil {
			return nil, newError(KindArgument, ErrArgument, t.pos, "error evaluating function `%s`: %s", t.name, err)
		}
		return v, nil
	}

	inner := sc
	if name == "calc" {
		inner.noMath = true
	}
	parts := make([]string, len(t.args))
	for i, a := range t.args {
		v, err := e.eval(a, inner, false)
		if err != nil {
			return nil, err
		}
		parts[i] = v.css()
	}
	return anonymous{s: fmt.Sprintf("%s(%s)", t.name, strings.Join(parts, ", "))}, nil
}
