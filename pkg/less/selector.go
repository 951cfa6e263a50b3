package less

import "strings"

// splitSelectors splits a selector group on top-level commas and normalises
// whitespace and combinators in each part.
func splitSelectors(raw string) []string {
	var out []string
	depth := 0
	start := 0
	for k := 0; k < len(raw); k++ {
		switch c := raw[k]; {
		case c == '"' || c == '\'':
			k = skipString(raw, k) - 1
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == ',' && depth == 0:
			if s := normalizeSelector(raw[start:k]); s != "" {
				out = append(out, s)
			}
			start = k + 1
		}
	}
	if s := normalizeSelector(raw[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// normalizeSelector collapses whitespace and puts single spaces around the
// >, + and ~ combinators outside brackets.
func normalizeSelector(s string) string {
	var b strings.Builder
	depth := 0
	space := false
	for k := 0; k < len(s); k++ {
		c := s[k]
		switch {
		case c == '"' || c == '\'':
			end := skipString(s, k)
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteString(s[k:end])
			k = end - 1
			continue
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case isSpace(c):
			space = true
			continue
		case depth == 0 && (c == '>' || c == '+' || c == '~'):
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte(c)
			b.WriteByte(' ')
			space = false
			continue
		}
		if space && b.Len() > 0 && !strings.HasSuffix(b.String(), " ") {
			b.WriteByte(' ')
		}
		space = false
		b.WriteByte(c)
	}
	return strings.TrimSpace(b.String())
}

// joinSelectors nests children inside parents. A child containing '&' has
// every '&' replaced by each parent in turn; other children become
// descendants of every parent.
func joinSelectors(parents, children []string) []string {
	if len(parents) == 0 {
		out := make([]string, 0, len(children))
		for _, c := range children {
			if s := normalizeSelector(strings.ReplaceAll(c, "&", "")); s != "" {
				out = append(out, s)
			}
		}
		return out
	}

	var out []string
	for _, c := range children {
		if !strings.Contains(c, "&") {
			for _, p := range parents {
				out = append(out, p+" "+c)
			}
			continue
		}
		out = append(out, expandParents(c, parents)...)
	}
	return out
}

// expandParents produces the cartesian product of parents over every '&'
// in child.
func expandParents(child string, parents []string) []string {
	i := strings.IndexByte(child, '&')
	if i < 0 {
		return []string{child}
	}
	head, tail := child[:i], child[i+1:]
	rest := expandParents(tail, parents)
	out := make([]string, 0, len(parents)*len(rest))
	for _, p := range parents {
		for _, r := range rest {
			out = append(out, head+p+r)
		}
	}
	return out
}
