// Package library exposes the read-only view of the served root directory.
// Every lookup goes through a go-billy filesystem; the production store uses
// osfs BoundOS, which joins names with filepath-securejoin so that neither ".."
// segments nor symlinks can reach files outside the root. The responder and the
// diagnostics routes depend on this package instead of touching os directly.
package library
