package health

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
)

// LivenessHandler answers 200 while the process is able to serve HTTP.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, &Response{Status: StatusHealthy})
	}
}

// ReadinessHandler runs checks on every request. Any failure turns the answer
// into 503.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		resp := runChecks(r.Context(), checks, cfg)

		code := http.StatusOK
		if resp.Status != StatusHealthy {
			code = http.StatusServiceUnavailable
		}
		respond(w, r, code, resp)
	}
}

func respond(w http.ResponseWriter, r *http.Request, code int, resp *Response) {
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(plainText(resp)))
}

// plainText renders "OK", or the sorted names of the failing checks.
func plainText(resp *Response) string {
	if resp.Status == StatusHealthy {
		return "OK"
	}
	failed := make([]string, 0, len(resp.Checks))
	for name, c := range resp.Checks {
		if c.Status != StatusHealthy {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	return "Service Unavailable: " + strings.Join(failed, ", ")
}

func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
