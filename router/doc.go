// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires HTTP routes to handlers using Go 1.22+ method
patterns on the standard ServeMux.

	mux := router.NewRouter(store, cfg)

All API routes are wrapped with middleware.WithLogging. Literal
segments (/rounds/by-code/) are registered alongside wildcard ones
(/rounds/{id}); ServeMux prefers the more specific pattern.

See the handlers package for the full route table.
*/
package router
