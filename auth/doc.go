// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides share-code generation and PIN hashing.

# Share Codes

Rounds are joined with a 6-character code drawn from an alphabet that
excludes visually ambiguous characters (0/O, 1/I/L):

	code, err := auth.GenerateShareCode() // e.g. "K7MXQ4"

Codes are generated with crypto/rand and rejection sampling so every
symbol is equally likely. Collisions across rounds are possible; lookup
returns the first match.

# PINs

Players reauthenticate across devices with a 4-digit PIN chosen at
registration. The stored digest is HMAC-SHA256 keyed by
"roundId|playerName" over the PIN:

	hash := auth.HashPIN(roundID, playerName, pin)
	ok := auth.VerifyPIN(roundID, playerName, pin, hash)

Keying by round and name means the same PIN produces different hashes
in different rounds or for different players. Verification compares in
constant time via hmac.Equal.

ValidPINFormat enforces the exactly-four-digits rule before hashing.
*/
package auth
