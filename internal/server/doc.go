// Package server provides HTTP routing and middleware used to stand up soundboard-compatible HTTP endpoints.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// [BasicRouter] mounts each path once on an [http.ServeMux] and picks the handler by method, so GET and
// POST can share a path. Unknown methods get 405 with an Allow header listing the registered ones.
//
// # Middleware
//
// [RequestLogger] logs each request with method, path, status and duration through charmbracelet/log.
// [Recorder] captures a copy of every request body before the handler runs, which is how the
// in-memory backend in internal/testing asserts on what the client sent.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
