// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Korpo Bingo API server.

Korpo Bingo is a party bingo game: players in a round submit and vote on
words during a collecting phase, then each player gets a shuffled bingo
board built from the top-voted words and marks cells until someone hits
a bingo line.

# Starting the Server

The server runs against an in-memory store by default:

	go run .

Or against a real backend:

	STORAGE_BACKEND=postgres DATABASE_URL=postgres://... go run .
	go run . -s sqlite -d bingo.db
	go run . -s dynamo --region eu-central-1 -t korpobingo-dev

# Configuration

Optional settings:

  - PORT (-p): Server port (default: 3319)
  - STORAGE_BACKEND (-s): memory, sqlite, postgres, or dynamo (default: memory)
  - DATABASE_URL (-d): Connection string, required for sqlite/postgres
  - TABLE_PREFIX (-t): Physical table name prefix
  - AWS_REGION (--region): Region for the dynamo backend
  - DYNAMO_ENDPOINT (--dynamo-endpoint): Endpoint override for local DynamoDB
  - BASE_URL (--base-url): Public base URL used in QR join links

A .env file in the working directory is loaded if present.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (rounds, words, players, boards)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Domain and request/response types
  - game: Round, word, board, and player engines
  - storage: Key-value store port with memory, SQL, and DynamoDB backends
  - auth: Share codes and PIN hashing
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
