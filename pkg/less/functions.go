package less

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

type builtin func(args []value) (value, error)

var errArgCount = errors.New("wrong number of arguments")

var builtins = map[string]builtin{
	"rgb":  fnRGB,
	"rgba": fnRGB,
	"hsl":  fnHSL,
	"hsla": fnHSL,

	"lighten":    hslAdjust(func(h *hsl, amt float64) { h.l += amt }),
	"darken":     hslAdjust(func(h *hsl, amt float64) { h.l -= amt }),
	"saturate":   hslAdjust(func(h *hsl, amt float64) { h.s += amt }),
	"desaturate": hslAdjust(func(h *hsl, amt float64) { h.s -= amt }),
	"fade":       hslAdjust(func(h *hsl, amt float64) { h.a = amt }),
	"fadein":     hslAdjust(func(h *hsl, amt float64) { h.a += amt }),
	"fadeout":    hslAdjust(func(h *hsl, amt float64) { h.a -= amt }),
	"spin":       fnSpin,
	"greyscale":  fnGreyscale,
	"mix":        fnMix,
	"tint":       fnTint,
	"shade":      fnShade,
	"contrast":   fnContrast,

	"red":        channel(func(c colour) value { return number{v: c.r} }),
	"green":      channel(func(c colour) value { return number{v: c.g} }),
	"blue":       channel(func(c colour) value { return number{v: c.b} }),
	"alpha":      channel(func(c colour) value { return number{v: c.a} }),
	"hue":        channel(func(c colour) value { return number{v: toHSL(c).h} }),
	"saturation": channel(func(c colour) value { return number{v: toHSL(c).s * 100, unit: "%"} }),
	"lightness":  channel(func(c colour) value { return number{v: toHSL(c).l * 100, unit: "%"} }),
	"luma":       channel(func(c colour) value { return number{v: luma(c) * c.a * 100, unit: "%"} }),

	"percentage": fnPercentage,
	"round":      fnRound,
	"ceil":       mathFunc(math.Ceil),
	"floor":      mathFunc(math.Floor),
	"abs":        mathFunc(math.Abs),
	"sqrt":       mathFunc(math.Sqrt),
	"pi":         fnPi,
	"pow":        fnPow,
	"mod":        fnMod,
	"min":        extremum(-1),
	"max":        extremum(1),
	"unit":       fnUnit,

	"e":       fnE,
	"escape":  fnEscape,
	"length":  fnLength,
	"extract": fnExtract,

	"iscolor":      isType(func(v value) bool { _, ok := asColour(v); return ok }),
	"isnumber":     isType(func(v value) bool { _, ok := v.(number); return ok }),
	"isstring":     isType(func(v value) bool { _, ok := v.(quoted); return ok }),
	"iskeyword":    isType(func(v value) bool { _, ok := v.(keyword); return ok }),
	"isurl":        isType(func(v value) bool { return strings.HasPrefix(v.css(), "url(") }),
	"ispixel":      isUnit("px"),
	"isem":         isUnit("em"),
	"ispercentage": isUnit("%"),
	"isunit":       fnIsUnit,
}

// hsl is a colour in hue (degrees), saturation and lightness (0..1) space.
type hsl struct {
	h, s, l, a float64
}

func toHSL(c colour) hsl {
	h, s, l := colorful.Color{R: c.r / 255, G: c.g / 255, B: c.b / 255}.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return hsl{h: h, s: s, l: l, a: c.a}
}

func (h hsl) colour() colour {
	c := colorful.Hsl(math.Mod(math.Mod(h.h, 360)+360, 360), clampUnit(h.s), clampUnit(h.l))
	return colour{r: c.R * 255, g: c.G * 255, b: c.B * 255, a: clampUnit(h.a)}
}

// fraction reads a percentage or plain ratio.
func fraction(v value) (float64, error) {
	n, ok := asNumber(v)
	if !ok {
		return 0, fmt.Errorf("expected a number, got %s", v.css())
	}
	if n.unit == "%" {
		return n.v / 100, nil
	}
	return n.v, nil
}

func colourArg(args []value, i int) (colour, error) {
	if i >= len(args) {
		return colour{}, errArgCount
	}
	c, ok := asColour(args[i])
	if !ok {
		return colour{}, fmt.Errorf("expected a colour, got %s", args[i].css())
	}
	c.raw = ""
	return c, nil
}

func numberArg(args []value, i int) (number, error) {
	if i >= len(args) {
		return number{}, errArgCount
	}
	n, ok := asNumber(args[i])
	if !ok {
		return number{}, fmt.Errorf("expected a number, got %s", args[i].css())
	}
	return n, nil
}

func fnRGB(args []value) (value, error) {
	if len(args) == 2 {
		c, err := colourArg(args, 0)
		if err != nil {
			return nil, err
		}
		a, err := fraction(args[1])
		if err != nil {
			return nil, err
		}
		c.a = clampUnit(a)
		return c, nil
	}
	if len(args) != 3 && len(args) != 4 {
		return nil, errArgCount
	}
	ch := make([]float64, 3)
	for i := range ch {
		n, err := numberArg(args, i)
		if err != nil {
			return nil, err
		}
		ch[i] = n.v
		if n.unit == "%" {
			ch[i] = n.v * 2.55
		}
	}
	c := colour{r: ch[0], g: ch[1], b: ch[2], a: 1}
	if len(args) == 4 {
		a, err := fraction(args[3])
		if err != nil {
			return nil, err
		}
		c.a = clampUnit(a)
	}
	return c, nil
}

func fnHSL(args []value) (value, error) {
	if len(args) != 3 && len(args) != 4 {
		return nil, errArgCount
	}
	h, err := numberArg(args, 0)
	if err != nil {
		return nil, err
	}
	s, err := fraction(args[1])
	if err != nil {
		return nil, err
	}
	l, err := fraction(args[2])
	if err != nil {
		return nil, err
	}
	a := 1.0
	if len(args) == 4 {
		if a, err = fraction(args[3]); err != nil {
			return nil, err
		}
	}
	return hsl{h: h.v, s: s, l: l, a: a}.colour(), nil
}

func hslAdjust(apply func(h *hsl, amount float64)) builtin {
	return func(args []value) (value, error) {
		if len(args) < 2 {
			return nil, errArgCount
		}
		c, err := colourArg(args, 0)
		if err != nil {
			return nil, err
		}
		amt, err := fraction(args[1])
		if err != nil {
			return nil, err
		}
		h := toHSL(c)
		apply(&h, amt)
		return h.colour(), nil
	}
}

func fnSpin(args []value) (value, error) {
	c, err := colourArg(args, 0)
	if err != nil {
		return nil, err
	}
	deg, err := numberArg(args, 1)
	if err != nil {
		return nil, err
	}
	h := toHSL(c)
	h.h += deg.v
	return h.colour(), nil
}

func fnGreyscale(args []value) (value, error) {
	c, err := colourArg(args, 0)
	if err != nil {
		return nil, err
	}
	h := toHSL(c)
	h.s = 0
	return h.colour(), nil
}

func mix(c1, c2 colour, weight float64) colour {
	w := weight*2 - 1
	a := c1.a - c2.a
	var w1 float64
	if w*a == -1 {
		w1 = (w + 1) / 2
	} else {
		w1 = ((w+a)/(1+w*a) + 1) / 2
	}
	w2 := 1 - w1
	return colour{
		r: c1.r*w1 + c2.r*w2,
		g: c1.g*w1 + c2.g*w2,
		b: c1.b*w1 + c2.b*w2,
		a: c1.a*weight + c2.a*(1-weight),
	}
}

func fnMix(args []value) (value, error) {
	c1, err := colourArg(args, 0)
	if err != nil {
		return nil, err
	}
	c2, err := colourArg(args, 1)
	if err != nil {
		return nil, err
	}
	weight := 0.5
	if len(args) > 2 {
		if weight, err = fraction(args[2]); err != nil {
			return nil, err
		}
	}
	return mix(c1, c2, weight), nil
}

func mixWith(base colour) builtin {
	return func(args []value) (value, error) {
		c, err := colourArg(args, 0)
		if err != nil {
			return nil, err
		}
		weight := 0.5
		if len(args) > 1 {
			if weight, err = fraction(args[1]); err != nil {
				return nil, err
			}
		}
		return mix(base, c, weight), nil
	}
}

var (
	fnTint  = mixWith(colour{r: 255, g: 255, b: 255, a: 1})
	fnShade = mixWith(colour{a: 1})
)

func luma(c colour) float64 {
	lin := func(v float64) float64 {
		v /= 255
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.r) + 0.7152*lin(c.g) + 0.0722*lin(c.b)
}

func fnContrast(args []value) (value, error) {
	if len(args) == 0 {
		return nil, errArgCount
	}
	c, ok := asColour(args[0])
	if !ok {
		// Non-colours pass through unchanged.
		return args[0], nil
	}
	dark := colour{a: 1}
	light := colour{r: 255, g: 255, b: 255, a: 1}
	var err error
	if len(args) > 1 {
		if dark, err = colourArg(args, 1); err != nil {
			return nil, err
		}
	}
	if len(args) > 2 {
		if light, err = colourArg(args, 2); err != nil {
			return nil, err
		}
	}
	threshold := 0.43
	if len(args) > 3 {
		if threshold, err = fraction(args[3]); err != nil {
			return nil, err
		}
	}
	if luma(dark) > luma(light) {
		dark, light = light, dark
	}
	if luma(c) < threshold {
		return light, nil
	}
	return dark, nil
}

func channel(get func(c colour) value) builtin {
	return func(args []value) (value, error) {
		if len(args) != 1 {
			return nil, errArgCount
		}
		c, err := colourArg(args, 0)
		if err != nil {
			return nil, err
		}
		return get(c), nil
	}
}

func fnPercentage(args []value) (value, error) {
	n, err := numberArg(args, 0)
	if err != nil {
		return nil, err
	}
	return number{v: n.v * 100, unit: "%"}, nil
}

func fnRound(args []value) (value, error) {
	n, err := numberArg(args, 0)
	if err != nil {
		return nil, err
	}
	places := 0.0
	if len(args) > 1 {
		p, err := numberArg(args, 1)
		if err != nil {
			return nil, err
		}
		places = math.Max(0, math.Floor(p.v))
	}
	scale := math.Pow(10, places)
	return number{v: math.Round(n.v*scale) / scale, unit: n.unit}, nil
}

func mathFunc(f func(float64) float64) builtin {
	return func(args []value) (value, error) {
		if len(args) != 1 {
			return nil, errArgCount
		}
		n, err := numberArg(args, 0)
		if err != nil {
			return nil, err
		}
		return number{v: f(n.v), unit: n.unit}, nil
	}
}

func fnPi(args []value) (value, error) {
	if len(args) != 0 {
		return nil, errArgCount
	}
	return number{v: math.Pi}, nil
}

func fnPow(args []value) (value, error) {
	base, err := numberArg(args, 0)
	if err != nil {
		return nil, err
	}
	exp, err := numberArg(args, 1)
	if err != nil {
		return nil, err
	}
	return number{v: math.Pow(base.v, exp.v), unit: base.unit}, nil
}

func fnMod(args []value) (value, error) {
	a, err := numberArg(args, 0)
	if err != nil {
		return nil, err
	}
	b, err := numberArg(args, 1)
	if err != nil {
		return nil, err
	}
	if b.v == 0 {
		return nil, errors.New("division by zero")
	}
	return number{v: math.Mod(a.v, b.v), unit: a.unit}, nil
}

func extremum(sign int) builtin {
	return func(args []value) (value, error) {
		if len(args) == 0 {
			return nil, errArgCount
		}
		best, err := numberArg(args, 0)
		if err != nil {
			return nil, err
		}
		for i := 1; i < len(args); i++ {
			n, err := numberArg(args, i)
			if err != nil {
				return nil, err
			}
			if n.unit != best.unit && n.unit != "" && best.unit != "" {
				return nil, fmt.Errorf("incompatible units %s and %s", best.unit, n.unit)
			}
			if (sign > 0 && n.v > best.v) || (sign < 0 && n.v < best.v) {
				if n.unit == "" {
					n.unit = best.unit
				}
				best = n
			}
		}
		return best, nil
	}
}

func fnUnit(args []value) (value, error) {
	n, err := numberArg(args, 0)
	if err != nil {
		return nil, err
	}
	n.unit = ""
	if len(args) > 1 {
		n.unit = text(args[1])
	}
	return n, nil
}

func fnE(args []value) (value, error) {
	if len(args) != 1 {
		return nil, errArgCount
	}
	return anonymous{s: text(args[0])}, nil
}

// escape follows JavaScript's encodeURI and additionally encodes = : # ; ( ).
func fnEscape(args []value) (value, error) {
	if len(args) != 1 {
		return nil, errArgCount
	}
	const keep = "-_.!~*'" + ",/?@&+$"
	s := text(args[0])
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || isDigit(c) || strings.IndexByte(keep, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return anonymous{s: b.String()}, nil
}

func listItems(v value) []value {
	if l, ok := v.(list); ok {
		return l.items
	}
	return []value{v}
}

func fnLength(args []value) (value, error) {
	if len(args) == 0 {
		return nil, errArgCount
	}
	if len(args) > 1 {
		return number{v: float64(len(args))}, nil
	}
	return number{v: float64(len(listItems(args[0])))}, nil
}

func fnExtract(args []value) (value, error) {
	if len(args) < 2 {
		return nil, errArgCount
	}
	items := args[:len(args)-1]
	if len(items) == 1 {
		items = listItems(items[0])
	}
	idx, err := numberArg(args, len(args)-1)
	if err != nil {
		return nil, err
	}
	i := int(idx.v) - 1
	if i < 0 || i >= len(items) {
		return nil, fmt.Errorf("index %s out of range", idx.css())
	}
	return items[i], nil
}

func isType(check func(v value) bool) builtin {
	return func(args []value) (value, error) {
		if len(args) != 1 {
			return nil, errArgCount
		}
		return boolValue(check(args[0])), nil
	}
}

func isUnit(unit string) builtin {
	return isType(func(v value) bool {
		n, ok := v.(number)
		return ok && n.unit == unit
	})
}

func fnIsUnit(args []value) (value, error) {
	if len(args) != 2 {
		return nil, errArgCount
	}
	n, ok := args[0].(number)
	return boolValue(ok && n.unit == text(args[1])), nil
}
