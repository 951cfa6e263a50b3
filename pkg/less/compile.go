package less

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
)

// Options configures a compilation.
type Options struct {
	// Paths are searched, in order, for imports not found next to the
	// importing file.
	Paths []string

	// Filename names the stylesheet being compiled in error messages. When
	// it includes a directory, imports are resolved against that directory
	// first; a bare file name relies on Paths alone.
	Filename string

	// Compress minifies the generated CSS.
	Compress bool

	// ReadFile loads imported files. Defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)
}

// Compile translates LESS source into CSS.
func Compile(src string, opts Options) (string, error) {
	entry := &source{name: opts.Filename, text: src}
	switch {
	case entry.name == "":
		entry.name = "input"
	case filepath.Dir(opts.Filename) != ".":
		entry.path = opts.Filename
		entry.dir = filepath.Dir(opts.Filename)
	case len(opts.Paths) > 0:
		// A bare file name lives in the first search path.
		entry.path = filepath.Join(opts.Paths[0], opts.Filename)
	}

	read := opts.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	im := &importer{paths: opts.Paths, read: read, seen: map[string]bool{}}
	if entry.path != "" {
		if abs, err := filepath.Abs(entry.path); err == nil {
			im.seen[abs] = true
		}
	}

	nodes, err := newParser(entry).parseStylesheet()
	if err != nil {
		return "", err
	}
	if nodes, err = im.expand(nodes, 0); err != nil {
		return "", err
	}

	ev := newEvaluator()
	if err := ev.run(nodes); err != nil {
		return "", err
	}
	out := render(ev.charset, ev.imports, ev.root)

	if opts.Compress {
		return minifyCSS(out)
	}
	return out, nil
}

// CompileFile reads and compiles the stylesheet at path. Imports are
// resolved relative to its directory.
func CompileFile(path string, opts Options) (string, error) {
	read := opts.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(path)
	if err != nil {
		return "", &Error{Err: ErrImport, Kind: KindFile, Message: err.Error(), Filename: path}
	}
	opts.Filename = path
	return Compile(string(data), opts)
}

func minifyCSS(s string) (string, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	out, err := m.String("text/css", s)
	if err != nil {
		return "", &Error{Err: ErrInternal, Kind: KindInternal, Message: fmt.Sprintf("minify: %v", err)}
	}
	return out, nil
}
