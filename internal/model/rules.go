package model

// Rules holds the code validation policy for a room
type Rules struct {
	// CodeLength is the number of digits in secrets and guesses
	CodeLength int
	// Digits is the allowed digit alphabet
	Digits string
	// AllowRepeats permits the same digit to appear more than once.
	// The classic game forbids repeats; scoring handles either policy.
	AllowRepeats bool
}

// DefaultRules returns the classic game rules: four distinct digits
// drawn from 1-9
func DefaultRules() Rules {
	return Rules{
		CodeLength:   4,
		Digits:       "123456789",
		AllowRepeats: false,
	}
}
