package less

import "strings"

// cssNode is an element of the evaluated stylesheet.
type cssNode interface {
	empty() bool
}

// cssText is printed verbatim on its own line.
type cssText struct {
	text string
}

// cssItem is one declaration, or a comment when comment is set.
type cssItem struct {
	name      string
	value     string
	important bool
	comment   string
}

type cssRule struct {
	selectors []string
	items     []cssItem
}

// cssBlock is an at-rule with a body, e.g. @media or @font-face.
type cssBlock struct {
	name     string
	prelude  string
	children []cssNode
}

func (t *cssText) empty() bool { return t.text == "" }

func (r *cssRule) empty() bool {
	for _, it := range r.items {
		if it.comment == "" {
			return false
		}
	}
	return true
}

func (b *cssBlock) empty() bool {
	for _, c := range b.children {
		if !c.empty() {
			return false
		}
	}
	return true
}

type printer struct {
	b strings.Builder
}

func render(nodes ...[]cssNode) string {
	var p printer
	for _, group := range nodes {
		for _, n := range group {
			p.node(n, 0)
		}
	}
	return p.b.String()
}

func (p *printer) indent(depth int) {
	for range depth {
		p.b.WriteString("  ")
	}
}

func (p *printer) node(n cssNode, depth int) {
	if n.empty() {
		return
	}
	switch t := n.(type) {
	case *cssText:
		p.indent(depth)
		p.b.WriteString(t.text)
		p.b.WriteByte('\n')
	case *cssRule:
		if len(t.selectors) == 0 {
			p.items(t.items, depth)
			return
		}
		for i, sel := range t.selectors {
			p.indent(depth)
			p.b.WriteString(sel)
			if i < len(t.selectors)-1 {
				p.b.WriteString(",\n")
			}
		}
		p.b.WriteString(" {\n")
		p.items(t.items, depth+1)
		p.indent(depth)
		p.b.WriteString("}\n")
	case *cssBlock:
		p.indent(depth)
		p.b.WriteString(t.name)
		if t.prelude != "" {
			p.b.WriteByte(' ')
			p.b.WriteString(t.prelude)
		}
		p.b.WriteString(" {\n")
		for _, c := range t.children {
			p.node(c, depth+1)
		}
		p.indent(depth)
		p.b.WriteString("}\n")
	}
}

func (p *printer) items(items []cssItem, depth int) {
	for _, it := range dedupe(items) {
		p.indent(depth)
		if it.comment != "" {
			p.b.WriteString(it.comment)
			p.b.WriteByte('\n')
			continue
		}
		p.b.WriteString(it.name)
		p.b.WriteString(": ")
		p.b.WriteString(it.value)
		if it.important {
			p.b.WriteString(" !important")
		}
		p.b.WriteString(";\n")
	}
}

// dedupe drops declarations repeated verbatim, keeping the last one.
func dedupe(items []cssItem) []cssItem {
	type key struct {
		name, value string
		important   bool
	}
	last := map[key]int{}
	for i, it := range items {
		if it.comment == "" {
			last[key{it.name, it.value, it.important}] = i
		}
	}
	out := make([]cssItem, 0, len(items))
	for i, it := range items {
		if it.comment == "" && last[key{it.name, it.value, it.important}] != i {
			continue
		}
		out = append(out, it)
	}
	return out
}
