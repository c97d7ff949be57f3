// Package scoring implements bulls/cows evaluation and code validation.
//
// Scoring is a pure function of (secret, guess). Bulls are positional
// matches; cows are counted against the multiset of digits left over
// after removing bulls from both strings, so repeated digits are never
// double-counted in either direction.
package scoring

import (
	"strings"

	"bullscows/internal/model"
)

// Score evaluates guess against secret.
//
// Two passes: the first marks bulls and tallies the secret's remaining
// digits, the second consumes those tallies for each non-bull guess
// digit. bulls+cows never exceeds len(secret).
func Score(secret, guess string) (bulls, cows int) {
	n := len(secret)
	if len(guess) < n {
		n = len(guess)
	}

	var remaining ['9' - '0' + 1]int

	for i := 0; i < n; i++ {
		if guess[i] == secret[i] {
			bulls++
		} else if d := secret[i]; d >= '0' && d <= '9' {
			remaining[d-'0']++
		}
	}

	for i := 0; i < n; i++ {
		if guess[i] == secret[i] {
			continue
		}
		d := guess[i]
		if d < '0' || d > '9' {
			continue
		}
		if remaining[d-'0'] > 0 {
			remaining[d-'0']--
			cows++
		}
	}

	return bulls, cows
}

// ValidateCode checks a secret or guess against the room rules:
// exact length, digits drawn from the allowed alphabet, and no
// repeats unless the rules permit them.
func ValidateCode(code string, rules model.Rules) error {
	if len(code) != rules.CodeLength {
		return model.ErrInvalidSecret
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(rules.Digits, rune(code[i])) {
			return model.ErrInvalidSecret
		}
	}
	if !rules.AllowRepeats {
		var seen [256]bool
		for i := 0; i < len(code); i++ {
			if seen[code[i]] {
				return model.ErrInvalidSecret
			}
			seen[code[i]] = true
		}
	}
	return nil
}
