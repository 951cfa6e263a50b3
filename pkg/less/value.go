package less

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// value is an evaluated expression.
type value interface {
	css() string
}

type number struct {
	v    float64
	unit string
}

// colour channels are kept unclamped in 0..255 while evaluating; alpha is 0..1.
type colour struct {
	r, g, b float64
	a       float64
	raw     string // original spelling, printed while the colour is untouched
}

type keyword struct {
	s string
}

type quoted struct {
	quote   byte
	s       string
	escaped bool
}

type list struct {
	items []value
	comma bool
}

// anonymous is text passed through verbatim.
type anonymous struct {
	s string
}

func (n number) css() string {
	return formatNumber(n.v) + n.unit
}

func (c colour) css() string {
	if c.raw != "" {
		return c.raw
	}
	r, g, b := clampChannel(c.r), clampChannel(c.g), clampChannel(c.b)
	a := clampUnit(c.a)
	if a < 1 {
		return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, formatNumber(a))
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func (k keyword) css() string { return k.s }

func (q quoted) css() string {
	if q.escaped {
		return q.s
	}
	return string(q.quote) + q.s + string(q.quote)
}

func (l list) css() string {
	sep := " "
	if l.comma {
		sep = ", "
	}
	parts := make([]string, len(l.items))
	for i, it := range l.items {
		parts[i] = it.css()
	}
	return strings.Join(parts, sep)
}

func (a anonymous) css() string { return a.s }

// text returns the unquoted content of v, used by interpolation.
func text(v value) string {
	if q, ok := v.(quoted); ok {
		return q.s
	}
	return v.css()
}

func formatNumber(v float64) string {
	v = math.Round(v*1e8) / 1e8
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clampChannel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(255, v))))
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// parseHexColour parses #rgb, #rgba, #rrggbb and #rrggbbaa.
func parseHexColour(s string) (colour, bool) {
	h := strings.TrimPrefix(s, "#")
	switch len(h) {
	case 3, 4:
		var b strings.Builder
		for i := range len(h) {
			b.WriteByte(h[i])
			b.WriteByte(h[i])
		}
		h = b.String()
	case 6, 8:
	default:
		return colour{}, false
	}
	n, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		return colour{}, false
	}
	c := colour{a: 1, raw: s}
	if len(h) == 8 {
		c.a = float64(n&0xff) / 255
		n >>= 8
	}
	c.r = float64((n >> 16) & 0xff)
	c.g = float64((n >> 8) & 0xff)
	c.b = float64(n & 0xff)
	return c, true
}

// namedColour resolves CSS colour keywords.
func namedColour(name string) (colour, bool) {
	lower := strings.ToLower(name)
	if lower == "transparent" {
		return colour{a: 0, raw: name}, true
	}
	rgba, ok := colornames.Map[lower]
	if !ok {
		return colour{}, false
	}
	return fromRGBA(rgba, name), true
}

func fromRGBA(c color.RGBA, raw string) colour {
	return colour{r: float64(c.R), g: float64(c.G), b: float64(c.B), a: float64(c.A) / 255, raw: raw}
}

// asColour converts colours and colour keywords.
func asColour(v value) (colour, bool) {
	switch t := v.(type) {
	case colour:
		return t, true
	case keyword:
		return namedColour(t.s)
	}
	return colour{}, false
}

func asNumber(v value) (number, bool) {
	n, ok := v.(number)
	return n, ok
}

func boolValue(b bool) value {
	if b {
		return keyword{s: "true"}
	}
	return keyword{s: "false"}
}

// operate applies an arithmetic operator.
func operate(op byte, a, b value) (value, error) {
	if an, ok := asNumber(a); ok {
		if bn, ok := asNumber(b); ok {
			return operateNumbers(op, an, bn)
		}
		if bc, ok := asColour(b); ok {
			if op == '-' || op == '/' {
				return nil, fmt.Errorf("can't subtract or divide a colour from a number")
			}
			return operateColours(op, bc, colour{r: an.v, g: an.v, b: an.v, a: bc.a})
		}
	}
	if ac, ok := asColour(a); ok {
		if bc, ok := asColour(b); ok {
			return operateColours(op, ac, bc)
		}
		if bn, ok := asNumber(b); ok {
			return operateColours(op, ac, colour{r: bn.v, g: bn.v, b: bn.v, a: ac.a})
		}
	}
	return nil, fmt.Errorf("operation on an invalid type: %s %c %s", a.css(), op, b.css())
}

func operateNumbers(op byte, a, b number) (value, error) {
	unit := a.unit
	if unit == "" {
		unit = b.unit
	}
	switch op {
	case '+':
		return number{v: a.v + b.v, unit: unit}, nil
	case '-':
		return number{v: a.v - b.v, unit: unit}, nil
	case '*':
		return number{v: a.v * b.v, unit: unit}, nil
	case '/':
		if b.v == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return number{v: a.v / b.v, unit: unit}, nil
	}
	return nil, fmt.Errorf("unknown operator %q", op)
}

func operateColours(op byte, a, b colour) (value, error) {
	f := func(x, y float64) (float64, error) {
		switch op {
		case '+':
			return x + y, nil
		case '-':
			return x - y, nil
		case '*':
			return x * y, nil
		case '/':
			if y == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			return x / y, nil
		}
		return 0, fmt.Errorf("unknown operator %q", op)
	}
	var out colour
	var err error
	if out.r, err = f(a.r, b.r); err != nil {
		return nil, err
	}
	if out.g, err = f(a.g, b.g); err != nil {
		return nil, err
	}
	if out.b, err = f(a.b, b.b); err != nil {
		return nil, err
	}
	out.a = a.a
	out.r = math.Max(0, math.Min(255, out.r))
	out.g = math.Max(0, math.Min(255, out.g))
	out.b = math.Max(0, math.Min(255, out.b))
	return out, nil
}

// compare orders two values for guards. ok is false when they are not comparable.
func compare(a, b value) (int, bool) {
	an, aok := asNumber(a)
	bn, bok := asNumber(b)
	if aok && bok {
		switch {
		case an.v < bn.v:
			return -1, true
		case an.v > bn.v:
			return 1, true
		}
		return 0, true
	}
	if ac, ok := a.(colour); ok {
		if bc, ok := asColour(b); ok {
			if ac.r == bc.r && ac.g == bc.g && ac.b == bc.b && ac.a == bc.a {
				return 0, true
			}
			return 0, false
		}
	}
	if text(a) == text(b) {
		return 0, true
	}
	return 0, false
}
