// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
)

// Share-code alphabet: uppercase letters and digits minus the visually
// ambiguous 0/O and 1/I/L.
const shareCodeChars = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// ShareCodeLength is the length of every generated share code.
const ShareCodeLength = 6

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

// GenerateShareCode returns a 6-character join code drawn uniformly
// from the ambiguity-free alphabet. Collisions across rounds are
// possible and not checked here.
func GenerateShareCode() (string, error) {
	code := make([]byte, ShareCodeLength)
	buf := make([]byte, 1)
	// Rejection sampling keeps the draw uniform: 248 is the largest
	// multiple of len(shareCodeChars) that fits in a byte.
	limit := byte(256 - 256%len(shareCodeChars))
	for i := 0; i < ShareCodeLength; {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate share code: %w", err)
		}
		if buf[0] >= limit {
			continue
		}
		code[i] = shareCodeChars[int(buf[0])%len(shareCodeChars)]
		i++
	}
	return string(code), nil
}

// ValidShareCode reports whether s could have been produced by
// GenerateShareCode.
func ValidShareCode(s string) bool {
	if len(s) != ShareCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		found := false
		for j := 0; j < len(shareCodeChars); j++ {
			if s[i] == shareCodeChars[j] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ValidPINFormat reports whether pin is exactly four digits.
func ValidPINFormat(pin string) bool {
	return pinPattern.MatchString(pin)
}

// HashPIN computes the stored PIN digest: HMAC-SHA256 keyed by the
// round and player identity over the PIN itself. The keying gives
// domain separation - the same PIN hashes differently in another round
// or under another name.
func HashPIN(roundID, playerName, pin string) string {
	h := hmac.New(sha256.New, []byte(roundID+"|"+playerName))
	h.Write([]byte(pin))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyPIN recomputes the digest and compares it to the stored hash in
// constant time.
func VerifyPIN(roundID, playerName, pin, storedHash string) bool {
	expected := HashPIN(roundID, playerName, pin)
	return hmac.Equal([]byte(expected), []byte(storedHash))
}
