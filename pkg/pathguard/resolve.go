package pathguard

import (
	"fmt"
	"strings"
)

// DefaultExtension is the source extension served by lessweb.
const DefaultExtension = "less"

// Resolver resolves URLs against a fixed root and extension.
// The zero value is not usable; create one with New.
type Resolver struct {
	root string
	ext  string
}

// New returns a Resolver for root. An empty ext selects DefaultExtension.
func New(root, ext string) Resolver {
	if ext == "" {
		ext = DefaultExtension
	}
	return Resolver{root: strings.TrimRight(root, "/"), ext: ext}
}

// Resolve maps url onto a file below the resolver's root.
func (r Resolver) Resolve(url string) (string, error) {
	return resolve(r.root, url, r.ext)
}

// Resolve maps url onto a file below root using DefaultExtension.
func Resolve(root, url string) (string, error) {
	return resolve(strings.TrimRight(root, "/"), url, DefaultExtension)
}

func resolve(root, url, ext string) (string, error) {
	if len(url) <= 1 {
		return "", fmt.Errorf("%w: %w", ErrInvalidPath, ErrEmptyPath)
	}

	rest := url[1:]
	segments := strings.Split(rest, "/")

	// Only the part after the final dot counts; "a.b.less" qualifies,
	// "a.less.bak" and "a.LESS" do not.
	last := segments[len(segments)-1]
	dot := strings.LastIndexByte(last, '.')
	if dot < 0 || last[dot+1:] != ext {
		return "", fmt.Errorf("%w: %w: %q", ErrInvalidPath, ErrExtension, last)
	}

	for _, seg := range segments {
		if seg == "" || seg[0] == '.' {
			return "", fmt.Errorf("%w: %w: %q", ErrInvalidPath, ErrUnsafeSegment, seg)
		}
	}

	return root + "/" + rest, nil
}
