// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Logging

WithLogging wraps a handler with request start/completion logging via
log/slog, including method, path, and duration.

# JSON Helpers

  - JSONResponse: write a JSON body with a status code
  - ErrorResponse: write a models.ErrorResponse
  - ParseJSONBody: decode a request body into a struct

# CORS

CORS allows cross-origin requests and answers OPTIONS preflights. The
allowed-headers list includes the X-Player-Name and X-Player-Pin
authentication headers.
*/
package middleware
