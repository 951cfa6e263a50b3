package less

import (
	"regexp"
	"strconv"
	"strings"
)

// parser is a recursive descent parser over one source, or over a slice of
// it starting at base.
type parser struct {
	src  *source
	s    string
	i    int
	base int
}

func newParser(src *source) *parser {
	return &parser{src: src, s: src.text}
}

// sub returns a parser over p.s[start:end] that reports positions in the
// coordinates of the enclosing source.
func (p *parser) sub(start, end int) *parser {
	return &parser{src: p.src, s: p.s[start:end], base: p.base + start}
}

func (p *parser) pos(at int) pos {
	return pos{src: p.src, at: p.base + at}
}

func (p *parser) errorf(at int, format string, args ...any) error {
	return newError(KindParse, ErrSyntax, p.pos(at), format, args...)
}

func (p *parser) eof() bool { return p.i >= len(p.s) }

func (p *parser) peek() byte { return p.peekAt(0) }

func (p *parser) peekAt(k int) byte {
	if p.i+k < len(p.s) && p.i+k >= 0 {
		return p.s[p.i+k]
	}
	return 0
}

func (p *parser) hasPrefix(prefix string) bool {
	return strings.HasPrefix(p.s[p.i:], prefix)
}

func (p *parser) hasPrefixFold(prefix string) bool {
	return len(p.s)-p.i >= len(prefix) && strings.EqualFold(p.s[p.i:p.i+len(prefix)], prefix)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80 || c == '\\'
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c) || c == '-'
}

// entityEnd reports whether c terminates a value token.
func entityEnd(c byte) bool {
	return c == 0 || isSpace(c) || strings.IndexByte(";},)!/*+<>", c) >= 0
}

// skipSpace skips whitespace and comments. It reports whether anything was skipped.
func (p *parser) skipSpace() bool {
	start := p.i
	for !p.eof() {
		c := p.peek()
		switch {
		case isSpace(c):
			p.i++
		case c == '/' && p.peekAt(1) == '*':
			end := strings.Index(p.s[p.i+2:], "*/")
			if end < 0 {
				p.i = len(p.s)
			} else {
				p.i += end + 4
			}
		case c == '/' && p.peekAt(1) == '/':
			end := strings.IndexByte(p.s[p.i:], '\n')
			if end < 0 {
				p.i = len(p.s)
			} else {
				p.i += end + 1
			}
		default:
			return p.i > start
		}
	}
	return p.i > start
}

// skipStatementSpace is skipSpace that keeps block comments as nodes.
func (p *parser) skipStatementSpace() ([]node, error) {
	var out []node
	for !p.eof() {
		c := p.peek()
		switch {
		case isSpace(c):
			p.i++
		case c == '/' && p.peekAt(1) == '*':
			start := p.i
			end := strings.Index(p.s[p.i+2:], "*/")
			if end < 0 {
				return nil, p.errorf(start, "missing closing `*/`")
			}
			p.i += end + 4
			out = append(out, &comment{pos: p.pos(start), text: p.s[start:p.i]})
		case c == '/' && p.peekAt(1) == '/':
			end := strings.IndexByte(p.s[p.i:], '\n')
			if end < 0 {
				p.i = len(p.s)
			} else {
				p.i += end + 1
			}
		default:
			return out, nil
		}
	}
	return out, nil
}

// skipString moves past the quoted string starting at k and returns the
// index after the closing quote.
func skipString(s string, k int) int {
	q := s[k]
	for k++; k < len(s); k++ {
		switch s[k] {
		case '\\':
			k++
		case q:
			return k + 1
		}
	}
	return len(s)
}

// scanEnd finds the first ';', '{' or '}' at nesting depth zero from k.
func (p *parser) scanEnd(k int) (int, byte) {
	depth := 0
	for k < len(p.s) {
		c := p.s[k]
		switch {
		case c == '"' || c == '\'':
			k = skipString(p.s, k)
			continue
		case c == '/' && k+1 < len(p.s) && p.s[k+1] == '*':
			end := strings.Index(p.s[k+2:], "*/")
			if end < 0 {
				return len(p.s), 0
			}
			k += end + 4
			continue
		case c == '/' && k+1 < len(p.s) && p.s[k+1] == '/' && depth == 0 && (k == 0 || p.s[k-1] != ':'):
			end := strings.IndexByte(p.s[k:], '\n')
			if end < 0 {
				return len(p.s), 0
			}
			k += end + 1
			continue
		case c == '@' && k+1 < len(p.s) && p.s[k+1] == '{':
			end := strings.IndexByte(p.s[k:], '}')
			if end < 0 {
				return len(p.s), 0
			}
			k += end + 1
			continue
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case depth == 0 && (c == ';' || c == '{' || c == '}'):
			return k, c
		}
		k++
	}
	return len(p.s), 0
}

// topLevelIndex finds c at depth zero in s, skipping strings.
func topLevelIndex(s string, c byte) int {
	depth := 0
	for k := 0; k < len(s); k++ {
		switch ch := s[k]; {
		case ch == '"' || ch == '\'':
			k = skipString(s, k) - 1
		case ch == '(' || ch == '[':
			depth++
		case ch == ')' || ch == ']':
			depth--
		case depth == 0 && ch == c:
			return k
		}
	}
	return -1
}

// matchParen returns the index of the ')' matching the '(' at k.
func matchParen(s string, k int) int {
	depth := 0
	for ; k < len(s); k++ {
		switch s[k] {
		case '"', '\'':
			k = skipString(s, k) - 1
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}

// parseStylesheet parses a whole file.
func (p *parser) parseStylesheet() ([]node, error) {
	return p.parseBody(false)
}

func (p *parser) parseBody(nested bool) ([]node, error) {
	var nodes []node
	for {
		comments, err := p.skipStatementSpace()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, comments...)

		if p.eof() {
			if nested {
				return nil, p.errorf(p.i, "missing closing `}`")
			}
			return nodes, nil
		}

		var n node
		switch c := p.peek(); {
		case c == '}':
			if !nested {
				return nil, p.errorf(p.i, "unexpected `}`")
			}
			p.i++
			return nodes, nil
		case c == ';':
			p.i++
			continue
		case c == '@' && p.peekAt(1) != '{':
			n, err = p.parseAt()
		default:
			n, err = p.parseStatement()
		}
		if err != nil {
			return nil, err
		}
		if n != nil {
			nodes = append(nodes, n)
		}
	}
}

func (p *parser) parseStatement() (node, error) {
	start := p.i
	end, term := p.scanEnd(start)
	if k := strings.Index(p.s[start:end], ":extend("); k >= 0 {
		return nil, newError(KindParse, ErrUnsupported, p.pos(start+k), ":extend is not supported")
	}

	if term == '{' {
		head := p.s[start:end]
		if strings.TrimSpace(head) == "" {
			return nil, p.errorf(start, "expected selector before `{`")
		}
		p.i = end + 1
		body, err := p.parseBody(true)
		if err != nil {
			return nil, err
		}
		r := &ruleset{pos: p.pos(start), body: body}
		if err := p.parseRulesetHead(r, start, end); err != nil {
			return nil, err
		}
		return r, nil
	}

	if c := p.s[start]; c == '.' || c == '#' {
		return p.parseMixinCall(end)
	}
	return p.parseDeclaration(end)
}

// finishStatement checks that nothing but the terminator follows.
func (p *parser) finishStatement(end int) error {
	p.skipSpace()
	if p.i < end {
		return p.errorf(p.i, "unrecognised input %q", snippet(p.s[p.i:end]))
	}
	p.i = end
	if p.i < len(p.s) && p.s[p.i] == ';' {
		p.i++
	}
	return nil
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 30 {
		return s[:30] + "..."
	}
	return s
}

func (p *parser) parseDeclaration(end int) (node, error) {
	start := p.i
	colon := -1
	for k := start; k < end; k++ {
		if p.s[k] == ':' {
			colon = k
			break
		}
	}
	if colon < 0 {
		return nil, p.errorf(start, "unrecognised input %q", snippet(p.s[start:end]))
	}

	name := strings.TrimSpace(p.s[start:colon])
	if !validPropertyName(name) {
		return nil, p.errorf(start, "invalid property name %q", snippet(name))
	}
	d := &declaration{pos: p.pos(start), name: name}
	p.i = colon + 1

	// Custom properties keep their value verbatim.
	if strings.HasPrefix(name, "--") {
		raw := strings.TrimSpace(p.s[p.i:end])
		d.value = &exprLiteral{pos: p.pos(p.i), val: anonymous{s: raw}}
		p.i = end
		return d, p.finishStatement(end)
	}

	p.skipSpace()
	if p.i >= end {
		return nil, p.errorf(p.i, "expected value for %q", name)
	}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	d.value = v
	important, err := p.parseImportant()
	if err != nil {
		return nil, err
	}
	d.important = important
	return d, p.finishStatement(end)
}

func validPropertyName(name string) bool {
	if name == "" {
		return false
	}
	for k := 0; k < len(name); k++ {
		c := name[k]
		if !isNameChar(c) && !strings.ContainsRune("*@{}$", rune(c)) {
			return false
		}
	}
	return true
}

func (p *parser) parseImportant() (bool, error) {
	p.skipSpace()
	if p.peek() != '!' {
		return false, nil
	}
	at := p.i
	p.i++
	p.skipSpace()
	if len(p.s)-p.i >= 9 && strings.EqualFold(p.s[p.i:p.i+9], "important") {
		p.i += 9
		return true, nil
	}
	return false, p.errorf(at, "expected `!important`")
}

// parseAt handles statements starting with '@'.
func (p *parser) parseAt() (node, error) {
	start := p.i
	p.i++
	name := p.readName()
	if name == "" {
		return nil, p.errorf(start, "expected name after `@`")
	}

	switch lower := strings.ToLower(name); lower {
	case "import":
		return p.parseImport(start)
	case "media", "supports":
		return p.parseMedia(start, lower)
	}

	save := p.i
	p.skipSpace()
	switch {
	case p.peek() == ':':
		return p.parseVarDecl(start, name)
	case p.peek() == '(' && p.i == save:
		return nil, newError(KindParse, ErrUnsupported, p.pos(start), "detached ruleset calls are not supported")
	}

	end, term := p.scanEnd(p.i)
	prelude := strings.TrimSpace(p.s[p.i:end])
	a := &atRule{pos: p.pos(start), name: name, prelude: prelude}
	if term != '{' {
		p.i = end
		if p.i < len(p.s) && p.s[p.i] == ';' {
			p.i++
		}
		return a, nil
	}
	p.i = end + 1
	body, err := p.parseBody(true)
	if err != nil {
		return nil, err
	}
	a.body = body
	a.block = true
	return a, nil
}

func (p *parser) parseVarDecl(start int, name string) (node, error) {
	p.i++ // ':'
	p.skipSpace()
	if p.peek() == '{' {
		return nil, newError(KindParse, ErrUnsupported, p.pos(start), "detached rulesets are not supported")
	}
	end, _ := p.scanEnd(p.i)
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	important, err := p.parseImportant()
	if err != nil {
		return nil, err
	}
	if important {
		v = &exprSeq{pos: v.position(), items: []expr{v, &exprLiteral{pos: p.pos(p.i), val: keyword{s: "!important"}}}}
	}
	return &varDecl{pos: p.pos(start), name: name, value: v}, p.finishStatement(end)
}

func (p *parser) parseMedia(start int, name string) (node, error) {
	end, term := p.scanEnd(p.i)
	if term != '{' {
		return nil, p.errorf(start, "expected `{` after @%s", name)
	}
	prelude := strings.Join(strings.Fields(p.s[p.i:end]), " ")
	p.i = end + 1
	body, err := p.parseBody(true)
	if err != nil {
		return nil, err
	}
	return &mediaRule{pos: p.pos(start), name: name, prelude: prelude, body: body}, nil
}

func (p *parser) parseImport(start int) (node, error) {
	end, _ := p.scanEnd(p.i)
	imp := &importRule{pos: p.pos(start), options: map[string]bool{}}

	p.skipSpace()
	if p.peek() == '(' {
		close := matchParen(p.s[:end], p.i)
		if close < 0 {
			return nil, p.errorf(p.i, "missing closing `)` in import options")
		}
		for _, opt := range strings.Split(p.s[p.i+1:close], ",") {
			if opt = strings.TrimSpace(opt); opt != "" {
				imp.options[strings.ToLower(opt)] = true
			}
		}
		p.i = close + 1
		p.skipSpace()
	}

	imp.raw = "@import " + strings.TrimSpace(p.s[p.i:end]) + ";"

	switch c := p.peek(); {
	case c == '"' || c == '\'':
		stop := skipString(p.s, p.i)
		imp.path = p.s[p.i+1 : stop-1]
		p.i = stop
	case p.hasPrefixFold("url("):
		imp.css = true
		p.i = end
	default:
		return nil, p.errorf(p.i, "expected quoted path after @import")
	}

	if media := strings.TrimSpace(p.s[p.i:end]); media != "" {
		imp.css = true
	}
	if strings.HasSuffix(strings.ToLower(imp.path), ".css") && !imp.options["less"] && !imp.options["inline"] {
		imp.css = true
	}
	if imp.options["css"] {
		imp.css = true
	}
	for opt := range imp.options {
		switch opt {
		case "css", "less", "inline", "once", "multiple", "optional":
		default:
			return nil, newError(KindParse, ErrUnsupported, imp.pos, "import option (%s) is not supported", opt)
		}
	}

	p.i = end
	if p.i < len(p.s) && p.s[p.i] == ';' {
		p.i++
	}
	return imp, nil
}

func (p *parser) readName() string {
	start := p.i
	for !p.eof() && isNameChar(p.peek()) {
		if p.peek() == '\\' {
			p.i++
		}
		p.i++
	}
	if p.i > len(p.s) {
		p.i = len(p.s)
	}
	return p.s[start:p.i]
}

// parseRulesetHead splits the selector text of r into selector, mixin
// signature and guard.
func (p *parser) parseRulesetHead(r *ruleset, start, end int) error {
	head := p.s[start:end]

	if w := findWhen(head); w >= 0 {
		g, err := p.sub(start+w+len("when"), end).parseGuard()
		if err != nil {
			return err
		}
		r.guard = g
		head = head[:w]
	}

	trimmed := strings.TrimSpace(head)
	lead := strings.Index(head, trimmed)
	if open := strings.IndexByte(trimmed, '('); open > 0 && (trimmed[0] == '.' || trimmed[0] == '#') && strings.HasSuffix(trimmed, ")") {
		name := strings.TrimSpace(trimmed[:open])
		if isSimpleMixinName(name) {
			close := matchParen(trimmed, open)
			if close != len(trimmed)-1 {
				return p.errorf(start+lead+open, "missing closing `)` in mixin definition")
			}
			sig, err := p.sub(start+lead+open+1, start+lead+close).parseParams()
			if err != nil {
				return err
			}
			sig.name = name
			r.mixin = sig
			r.selector = name
			return nil
		}
	}
	r.selector = trimmed
	return nil
}

func isSimpleMixinName(s string) bool {
	if len(s) < 2 || (s[0] != '.' && s[0] != '#') {
		return false
	}
	for k := 1; k < len(s); k++ {
		if !isNameChar(s[k]) {
			return false
		}
	}
	return true
}

// findWhen locates a guard keyword at depth zero.
func findWhen(s string) int {
	depth := 0
	for k := 0; k < len(s); k++ {
		switch c := s[k]; {
		case c == '"' || c == '\'':
			k = skipString(s, k) - 1
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case depth == 0 && strings.HasPrefix(s[k:], "when") && k > 0 && (isSpace(s[k-1]) || s[k-1] == ')'):
			after := k + 4
			if after < len(s) && (isSpace(s[after]) || s[after] == '(') {
				return k
			}
		}
	}
	return -1
}

// parseParams parses the inside of a mixin definition's parentheses.
func (p *parser) parseParams() (*mixinSig, error) {
	sig := &mixinSig{}
	semi := topLevelIndex(p.s, ';') >= 0
	for {
		p.skipSpace()
		if p.eof() {
			return sig, nil
		}
		switch {
		case p.hasPrefix("..."):
			p.i += 3
			sig.variadic = true
		case p.peek() == '@':
			p.i++
			name := p.readName()
			p.skipSpace()
			switch {
			case p.hasPrefix("..."):
				p.i += 3
				sig.variadic = true
				sig.rest = name
			case p.peek() == ':':
				p.i++
				p.skipSpace()
				def, err := p.parseArgValue(semi)
				if err != nil {
					return nil, err
				}
				sig.params = append(sig.params, param{name: name, value: def})
			default:
				sig.params = append(sig.params, param{name: name})
			}
		default:
			v, err := p.parseArgValue(semi)
			if err != nil {
				return nil, err
			}
			sig.params = append(sig.params, param{value: v, pattern: true})
		}
		p.skipSpace()
		if p.eof() {
			return sig, nil
		}
		if c := p.peek(); (semi && c == ';') || (!semi && c == ',') {
			p.i++
			continue
		}
		return nil, p.errorf(p.i, "unrecognised input in mixin parameters")
	}
}

func (p *parser) parseArgValue(semi bool) (expr, error) {
	if semi {
		return p.parseCommaList()
	}
	return p.parseSpaceSeq()
}

func (p *parser) parseMixinCall(end int) (node, error) {
	start := p.i
	call := &mixinCall{pos: p.pos(start)}
	for {
		p.skipSpace()
		if p.peek() == '>' {
			p.i++
			continue
		}
		c := p.peek()
		if c != '.' && c != '#' {
			break
		}
		seg := p.i
		p.i++
		if p.readName() == "" {
			return nil, p.errorf(seg, "expected mixin name")
		}
		call.path = append(call.path, p.s[seg:p.i])
	}
	if len(call.path) == 0 {
		return nil, p.errorf(start, "unrecognised input %q", snippet(p.s[start:end]))
	}

	if p.peek() == '(' {
		close := matchParen(p.s, p.i)
		if close < 0 || close > end {
			return nil, p.errorf(p.i, "missing closing `)` in mixin call")
		}
		args, err := p.sub(p.i+1, close).parseArgs()
		if err != nil {
			return nil, err
		}
		call.args = args
		p.i = close + 1
	}
	important, err := p.parseImportant()
	if err != nil {
		return nil, err
	}
	call.important = important
	return call, p.finishStatement(end)
}

func (p *parser) parseArgs() ([]arg, error) {
	var args []arg
	semi := topLevelIndex(p.s, ';') >= 0
	for {
		p.skipSpace()
		if p.eof() {
			return args, nil
		}
		var a arg
		if p.peek() == '@' {
			save := p.i
			p.i++
			name := p.readName()
			p.skipSpace()
			if p.peek() == ':' {
				p.i++
				p.skipSpace()
				a.name = name
			} else {
				p.i = save
			}
		}
		v, err := p.parseArgValue(semi)
		if err != nil {
			return nil, err
		}
		a.value = v
		args = append(args, a)

		p.skipSpace()
		if p.eof() {
			return args, nil
		}
		if c := p.peek(); (semi && c == ';') || (!semi && c == ',') {
			p.i++
			continue
		}
		return nil, p.errorf(p.i, "unrecognised input in mixin arguments")
	}
}

// parseGuard parses the text after "when".
func (p *parser) parseGuard() (*guard, error) {
	g := &guard{}
	for {
		var and []condition
		for {
			p.skipSpace()
			c := condition{}
			if p.hasPrefix("not") && !isNameChar(p.peekAt(3)) {
				p.i += 3
				p.skipSpace()
				c.negate = true
			}
			if p.peek() != '(' {
				return nil, p.errorf(p.i, "expected `(` in guard")
			}
			p.i++
			p.skipSpace()
			left, err := p.parseSpaceSeq()
			if err != nil {
				return nil, err
			}
			c.left = left
			p.skipSpace()
			if op := p.readComparison(); op != "" {
				p.skipSpace()
				right, err := p.parseSpaceSeq()
				if err != nil {
					return nil, err
				}
				c.op = op
				c.right = right
				p.skipSpace()
			}
			if p.peek() != ')' {
				return nil, p.errorf(p.i, "expected `)` in guard")
			}
			p.i++
			and = append(and, c)

			p.skipSpace()
			if p.hasPrefix("and") && !isNameChar(p.peekAt(3)) {
				p.i += 3
				continue
			}
			break
		}
		g.alternatives = append(g.alternatives, and)
		if p.peek() == ',' {
			p.i++
			continue
		}
		p.skipSpace()
		if !p.eof() {
			return nil, p.errorf(p.i, "unrecognised input in guard")
		}
		return g, nil
	}
}

func (p *parser) readComparison() string {
	for _, op := range []string{">=", "=<", "<=", "=>", ">", "<", "="} {
		if p.hasPrefix(op) {
			p.i += len(op)
			switch op {
			case "<=":
				return "=<"
			case "=>":
				return ">="
			}
			return op
		}
	}
	return ""
}

// Values.

func (p *parser) parseValue() (expr, error) {
	return p.parseCommaList()
}

func (p *parser) parseCommaList() (expr, error) {
	start := p.i
	first, err := p.parseSpaceSeq()
	if err != nil {
		return nil, err
	}
	items := []expr{first}
	for {
		save := p.i
		p.skipSpace()
		if p.peek() != ',' {
			p.i = save
			break
		}
		p.i++
		p.skipSpace()
		next, err := p.parseSpaceSeq()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	if len(items) == 1 {
		return first, nil
	}
	return &exprList{pos: p.pos(start), items: items}, nil
}

func (p *parser) seqEnd() bool {
	if p.eof() {
		return true
	}
	c := p.peek()
	if strings.IndexByte(";}),!{<>=", c) >= 0 || c == ',' {
		return true
	}
	return false
}

func (p *parser) parseSpaceSeq() (expr, error) {
	start := p.i
	var items []expr
	for {
		save := p.i
		p.skipSpace()
		if p.seqEnd() {
			p.i = save
			break
		}
		x, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		items = append(items, x)
	}
	switch len(items) {
	case 0:
		return nil, p.errorf(start, "expected value")
	case 1:
		return items[0], nil
	}
	return &exprSeq{pos: p.pos(start), items: items}, nil
}

func (p *parser) parseAdditive() (expr, error) {
	start := p.i
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		save := p.i
		sp := p.skipSpace()
		c := p.peek()
		if c != '+' && c != '-' {
			p.i = save
			return left, nil
		}
		// "a -b" is two values; "a - b" and "a-b" are a subtraction.
		if sp && !isSpace(p.peekAt(1)) {
			p.i = save
			return left, nil
		}
		p.i++
		spAfter := p.skipSpace()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &exprOp{pos: p.pos(start), op: c, left: left, right: right, spaceBefore: sp, spaceAfter: spAfter}
	}
}

func (p *parser) parseMultiplicative() (expr, error) {
	start := p.i
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		save := p.i
		sp := p.skipSpace()
		c := p.peek()
		if c != '*' && !(c == '/' && p.peekAt(1) != '*' && p.peekAt(1) != '/') {
			p.i = save
			return left, nil
		}
		p.i++
		spAfter := p.skipSpace()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &exprOp{pos: p.pos(start), op: c, left: left, right: right, spaceBefore: sp, spaceAfter: spAfter}
	}
}

func (p *parser) parseUnary() (expr, error) {
	if p.peek() == '-' && (p.peekAt(1) == '@' || p.peekAt(1) == '(') {
		start := p.i
		p.i++
		inner, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &exprNeg{pos: p.pos(start), inner: inner}, nil
	}
	return p.parseOperand()
}

func (p *parser) parseOperand() (expr, error) {
	start := p.i
	c := p.peek()
	switch {
	case c == '(':
		p.i++
		p.skipSpace()
		inner, err := p.parseCommaList()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, p.errorf(p.i, "missing closing `)`")
		}
		p.i++
		return &exprParen{pos: p.pos(start), inner: inner}, nil

	case c == '@':
		p.i++
		if p.peek() == '@' {
			return nil, newError(KindParse, ErrUnsupported, p.pos(start), "variable variables are not supported")
		}
		if p.peek() == '{' {
			close := strings.IndexByte(p.s[p.i:], '}')
			if close < 0 {
				return nil, p.errorf(start, "missing closing `}` in interpolation")
			}
			name := p.s[p.i+1 : p.i+close]
			p.i += close + 1
			return &exprVar{pos: p.pos(start), name: name}, nil
		}
		name := p.readName()
		if name == "" {
			return nil, p.errorf(start, "expected variable name")
		}
		return &exprVar{pos: p.pos(start), name: name}, nil

	case c == '"' || c == '\'':
		return p.parseQuoted(false)

	case c == '~' && (p.peekAt(1) == '"' || p.peekAt(1) == '\''):
		p.i++
		q, err := p.parseQuoted(true)
		if err != nil {
			return nil, err
		}
		q.(*exprQuoted).pos = p.pos(start)
		return q, nil

	case isDigit(c) || (c == '.' && isDigit(p.peekAt(1))) ||
		((c == '-' || c == '+') && (isDigit(p.peekAt(1)) || (p.peekAt(1) == '.' && isDigit(p.peekAt(2))))):
		return p.parseNumber()

	case c == '#':
		k := p.i + 1
		for k < len(p.s) && isHex(p.s[k]) {
			k++
		}
		if n := k - p.i - 1; (n == 3 || n == 4 || n == 6 || n == 8) && (k >= len(p.s) || !isNameChar(p.s[k])) {
			if col, ok := parseHexColour(p.s[p.i:k]); ok {
				p.i = k
				return &exprLiteral{pos: p.pos(start), val: col}, nil
			}
		}
		return p.parseRaw()

	case p.hasPrefixFold("url("):
		return p.parseURL()

	case isNameStart(c) || (c == '-' && (isNameStart(p.peekAt(1)) || p.peekAt(1) == '-')):
		if (c == 'U' || c == 'u') && p.peekAt(1) == '+' {
			return p.parseRaw()
		}
		p.readName()
		name := p.s[start:p.i]
		if p.peek() == '(' {
			return p.parseCall(start, name)
		}
		if !entityEnd(p.peek()) && p.peek() != ',' {
			p.i = start
			return p.parseRaw()
		}
		return &exprLiteral{pos: p.pos(start), val: keyword{s: name}}, nil
	}
	return p.parseRaw()
}

func (p *parser) parseQuoted(escaped bool) (expr, error) {
	start := p.i
	q := p.s[p.i]
	stop := skipString(p.s, p.i)
	if stop > len(p.s) || p.s[stop-1] != q || stop-start < 2 {
		return nil, p.errorf(start, "missing closing quote")
	}
	p.i = stop
	return &exprQuoted{pos: p.pos(start), quote: q, text: p.s[start+1 : stop-1], escaped: escaped}, nil
}

func (p *parser) parseNumber() (expr, error) {
	start := p.i
	if c := p.peek(); c == '-' || c == '+' {
		p.i++
	}
	for isDigit(p.peek()) {
		p.i++
	}
	if p.peek() == '.' && isDigit(p.peekAt(1)) {
		p.i++
		for isDigit(p.peek()) {
			p.i++
		}
	}
	numEnd := p.i
	if p.peek() == '%' {
		p.i++
	} else {
		for c := p.peek(); (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'); c = p.peek() {
			p.i++
		}
	}
	v, err := parseFloat(p.s[start:numEnd])
	if err != nil {
		return nil, p.errorf(start, "invalid number %q", p.s[start:p.i])
	}
	if c := p.peek(); !entityEnd(c) && c != ',' && c != '-' {
		p.i = start
		return p.parseRaw()
	}
	return &exprLiteral{pos: p.pos(start), val: number{v: v, unit: p.s[numEnd:p.i]}}, nil
}

func (p *parser) parseURL() (expr, error) {
	start := p.i
	p.i += len("url(")
	p.skipSpace()
	u := &exprURL{pos: p.pos(start)}
	if c := p.peek(); c == '"' || c == '\'' {
		q, err := p.parseQuoted(false)
		if err != nil {
			return nil, err
		}
		u.quoted = q.(*exprQuoted)
		p.skipSpace()
	} else {
		close := strings.IndexByte(p.s[p.i:], ')')
		if close < 0 {
			return nil, p.errorf(start, "missing closing `)` in url()")
		}
		u.raw = strings.TrimSpace(p.s[p.i : p.i+close])
		p.i += close
	}
	if p.peek() != ')' {
		return nil, p.errorf(p.i, "missing closing `)` in url()")
	}
	p.i++
	return u, nil
}

func (p *parser) parseCall(start int, name string) (expr, error) {
	if strings.EqualFold(name, "alpha") && ieOpacity.MatchString(p.s[p.i:]) {
		return p.parseIEFilter(start)
	}
	call := &exprCall{pos: p.pos(start), name: name}
	p.i++ // '('
	for {
		p.skipSpace()
		if p.peek() == ')' {
			p.i++
			return call, nil
		}
		if p.eof() {
			return nil, p.errorf(start, "missing closing `)` in %s()", name)
		}
		a, err := p.parseSpaceSeq()
		if err != nil {
			return nil, err
		}
		call.args = append(call.args, a)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.i++
		case ')':
		default:
			// Tolerate separators other CSS functions use, e.g. progid filters.
			raw, err := p.parseRaw()
			if err != nil {
				return nil, err
			}
			call.args[len(call.args)-1] = &exprSeq{pos: a.position(), items: []expr{a, raw}}
		}
	}
}

// ieOpacity matches the argument list of the legacy IE filter
// alpha(opacity=N), which is not a call to the colour function.
var ieOpacity = regexp.MustCompile(`^\(\s*opacity\s*=`)

// parseIEFilter keeps alpha(opacity=...) verbatim up to its closing paren.
func (p *parser) parseIEFilter(start int) (expr, error) {
	end := strings.IndexByte(p.s[p.i:], ')')
	if end < 0 {
		return nil, p.errorf(start, "missing closing `)` in alpha()")
	}
	p.i += end + 1
	return &exprLiteral{pos: p.pos(start), val: anonymous{s: p.s[start:p.i]}}, nil
}

// parseRaw consumes an opaque run of text up to the next delimiter.
func (p *parser) parseRaw() (expr, error) {
	start := p.i
	depth := 0
loop:
	for !p.eof() {
		c := p.peek()
		switch {
		case c == '"' || c == '\'':
			p.i = skipString(p.s, p.i)
			continue
		case c == '(':
			depth++
		case c == ')':
			if depth == 0 {
				break loop
			}
			depth--
		case depth == 0 && (isSpace(c) || strings.IndexByte(";},!", c) >= 0):
			break loop
		}
		p.i++
	}
	if p.i == start {
		return nil, p.errorf(start, "unrecognised input %q", snippet(p.s[start:min(len(p.s), start+30)]))
	}
	return &exprLiteral{pos: p.pos(start), val: anonymous{s: p.s[start:p.i]}}, nil
}
