// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package game contains the four domain engines. Each is a small struct
bundling the injected storage port; engines never call each other, so
the HTTP layer composes them.

# Engines

  - Rounds: round creation, share codes, and the forward-only
    collecting → playing → finished state machine
  - Words: submission with case-insensitive dedup, atomic per-player
    voting, read-modify-write unvoting, vote-ranked listing
  - Boards: Fisher-Yates board generation, idempotent dealing,
    cell marking, pure bingo detection
  - Players: registration with a round-and-name-salted PIN digest,
    PIN verification, public views

# Errors

Operations return two typed error kinds:

  - ValidationError: malformed input or a rule violation (empty or
    over-long fields, duplicate word or player, illegal transition,
    out-of-range cell index, bad PIN format). Check with IsValidation.
  - NotFoundError: the referenced round, word, player, or board does
    not exist. Check with IsNotFound.

A failed storage condition is not a third kind; each operation decides
what it means. Boards.Create treats it as "already dealt" and fetches
the existing board; Words.Vote lets it surface so the caller can report
a conflict; Rounds.UpdateStatus reads it as the round vanishing.

# Concurrency

Every operation is a stateless request against the store; no locks are
held across store calls. Single-key mutations (vote, mark, status) ride
on conditional writes. The duplicate checks in Words.Submit and
Players.Register and the read-modify-write in Words.Unvote are
documented best-effort under races, matching the store schema, which
has no composite uniqueness keys to strengthen them with.
*/
package game
