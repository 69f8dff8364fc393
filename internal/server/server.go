// package server contains routing and middleware for soundboard HTTP endpoints
package server

import "net/http"

// Middleware decorates a handler; see [BasicRouter.Apply] for ordering.
type Middleware func(http.Handler) http.Handler

// Handler serves a fixed set of path patterns for every method, e.g. a file tree under /audio/.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router is what the in-memory backend registers soundboard routes on.
type Router interface {
	http.Handler
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	HandleFunc(method, path string, fn http.HandlerFunc)
	Handler(handler Handler)
}

var _ Router = (*BasicRouter)(nil)
