package internal

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
)

// Router is what a Handler registers its routes on. Route middleware runs
// inside the global middleware, in the order given.
type Router interface {
	GET(path string, h HandlerFunc, mw ...Middleware)
	HEAD(path string, h HandlerFunc, mw ...Middleware)

	// Any matches every method. The stylesheet handler uses it so that the
	// method never decides between 200 and 404.
	Any(path string, h HandlerFunc, mw ...Middleware)
}

// routerAdapter serves Router on top of chi.
type routerAdapter struct {
	router chi.Router
	app    *App
}

// fromHTTP lets a plain http.HandlerFunc sit behind the Router.
func fromHTTP(h http.HandlerFunc) HandlerFunc {
	return func(c Context) error {
		h(c.Response(), c.Request())
		return nil
	}
}

func (r *routerAdapter) GET(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Get(path, r.wrap(h, mw...))
}

func (r *routerAdapter) HEAD(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Head(path, r.wrap(h, mw...))
}

func (r *routerAdapter) Any(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Handle(path, r.wrap(h, mw...))
}

func (r *routerAdapter) wrap(h HandlerFunc, mw ...Middleware) http.HandlerFunc {
	mw = slices.Clone(mw)
	slices.Reverse(mw)
	for _, m := range mw {
		h = m(h)
	}
	return r.app.wrapHandler(h)
}

// adaptMiddleware lifts mw into chi. The inner handler is reached through
// the possibly replaced request, so SetContext calls made by mw are seen
// downstream.
func (a *App) adaptMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextFunc := func(c Context) error {
				next.ServeHTTP(c.Response(), c.Request())
				return nil
			}
			wrapped := mw(nextFunc)
			c := newContext(w, r, a.logger)
			if err := wrapped(c); err != nil {
				a.handleError(c, err)
			}
		})
	}
}
