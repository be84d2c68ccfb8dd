// Package server hosts the Fiber HTTP service and the middleware chain that
// every request passes through: panic recovery, request ids and the CORS
// header injection browser clients rely on. It owns the catch-all route and
// hands file requests to an injected Responder, so the file-serving logic can
// be replaced by fakes in tests. Diagnostics live under /-/ and are mounted by
// the routes subpackage.
package server
