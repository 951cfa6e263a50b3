package internal

// ExtractorSource reads a candidate value from the request. It reports false
// when the request carries none.
type ExtractorSource = func(Context) (string, bool)

// Extractor is an ordered list of sources. The first non-empty value wins.
type Extractor []ExtractorSource

// NewExtractor returns an Extractor over sources, skipping nil ones.
func NewExtractor(sources ...ExtractorSource) Extractor {
	e := make(Extractor, 0, len(sources))
	for _, src := range sources {
		if src != nil {
			e = append(e, src)
		}
	}
	return e
}

// Extract returns the first non-empty value any source yields.
func (e Extractor) Extract(c Context) (string, bool) {
	for _, src := range e {
		if v, ok := src(c); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// FromHeader reads the named request header.
func FromHeader(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := c.Header(name)
		return v, v != ""
	}
}
