package less

import (
	"path/filepath"
	"strings"
)

const maxImportDepth = 32

// importer inlines @import statements into the tree before evaluation.
type importer struct {
	paths []string
	read  func(string) ([]byte, error)
	seen  map[string]bool
}

func (im *importer) expand(nodes []node, depth int) ([]node, error) {
	out := make([]node, 0, len(nodes))
	for _, n := range nodes {
		switch t := n.(type) {
		case *importRule:
			if t.css {
				out = append(out, t)
				continue
			}
			imported, err := im.load(t, depth)
			if err != nil {
				return nil, err
			}
			out = append(out, imported...)
			continue
		case *ruleset:
			body, err := im.expand(t.body, depth)
			if err != nil {
				return nil, err
			}
			t.body = body
		case *mediaRule:
			body, err := im.expand(t.body, depth)
			if err != nil {
				return nil, err
			}
			t.body = body
		case *atRule:
			body, err := im.expand(t.body, depth)
			if err != nil {
				return nil, err
			}
			t.body = body
		}
		out = append(out, n)
	}
	return out, nil
}

func (im *importer) load(imp *importRule, depth int) ([]node, error) {
	if depth >= maxImportDepth {
		return nil, newError(KindFile, ErrRecursion, imp.pos, "import depth exceeded while importing '%s'", imp.path)
	}
	if strings.Contains(imp.path, "@{") {
		return nil, newError(KindParse, ErrUnsupported, imp.pos, "interpolated import paths are not supported")
	}

	name := imp.path
	if filepath.Ext(name) == "" {
		name += ".less"
	}

	full, data, ok := im.find(name, imp.pos.src.dir)
	if !ok {
		if imp.options["optional"] {
			return nil, nil
		}
		return nil, newError(KindFile, ErrImport, imp.pos, "'%s' wasn't found", imp.path)
	}

	if !imp.options["multiple"] {
		if im.seen[full] {
			return nil, nil
		}
		im.seen[full] = true
	}

	if imp.options["inline"] {
		return []node{&inlineCSS{pos: imp.pos, text: strings.TrimRight(string(data), "\n")}}, nil
	}

	src := &source{name: name, path: full, dir: filepath.Dir(full), text: string(data)}
	nodes, err := newParser(src).parseStylesheet()
	if err != nil {
		return nil, err
	}
	return im.expand(nodes, depth+1)
}

// find looks name up next to the importing file, then in each include path.
func (im *importer) find(name, dir string) (string, []byte, bool) {
	var candidates []string
	if filepath.IsAbs(name) {
		candidates = []string{name}
	} else {
		if dir != "" {
			candidates = append(candidates, filepath.Join(dir, name))
		}
		for _, p := range im.paths {
			candidates = append(candidates, filepath.Join(p, name))
		}
	}
	for _, c := range candidates {
		data, err := im.read(c)
		if err != nil {
			continue
		}
		if abs, err := filepath.Abs(c); err == nil {
			c = abs
		}
		return c, data, true
	}
	return "", nil, false
}
