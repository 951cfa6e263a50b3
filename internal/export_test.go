package internal

// SetReadFile replaces how h loads stylesheet sources.
func SetReadFile(h *StylesheetHandler, fn func(string) ([]byte, error)) {
	h.readFile = fn
}
