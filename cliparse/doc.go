// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment
variables.

# Usage

	cfg, err := cliparse.ParseFlags(os.Args[1:])

CLI flags take precedence over environment variables.

# Settings

  - PORT (-p): server port (default: 3319)
  - STORAGE_BACKEND (-s): memory, sqlite, postgres, or dynamo
    (default: memory)
  - DATABASE_URL (-d): sqlite file path or postgres DSN; required for
    the sqlite and postgres backends
  - TABLE_PREFIX (-t): physical table name prefix, e.g. "korpobingo-dev"
  - AWS_REGION (--region): region for the dynamo backend
  - DYNAMO_ENDPOINT (--dynamo-endpoint): endpoint override for
    DynamoDB Local
  - BASE_URL (--base-url): public base URL used in QR join links
    (default: http://localhost:PORT)

The memory backend needs no further configuration, which makes

	go run .

a working dev server.
*/
package cliparse
