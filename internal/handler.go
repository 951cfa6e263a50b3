package internal

// Handler declares routes on a router.
//
// Example:
//
//	type StylesheetHandler struct {
//	    resolver pathguard.Resolver
//	}
//
//	func (h *StylesheetHandler) Routes(r lessweb.Router) {
//	    r.Any("/*", h.Serve)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// It receives a Context and returns an error.
// Returning a non-nil error triggers the error handler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect/modify the request, short-circuit processing,
// or wrap the response.
//
// Example:
//
//	func OnlyGet(next lessweb.HandlerFunc) lessweb.HandlerFunc {
//	    return func(c lessweb.Context) error {
//	        if c.Request().Method != http.MethodGet {
//	            return internal.ErrNotFound
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error) error
