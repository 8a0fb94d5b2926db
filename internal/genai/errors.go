package genai

import (
	"errors"
	"fmt"
)

// ExhaustedError is the terminal failure of a fallback chain: every
// configured provider/model tier was tried and none produced usable text.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("genai: all %d provider tiers exhausted", e.Attempts)
	}
	return fmt.Sprintf("genai: all %d provider tiers exhausted, last error: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// IsExhausted reports whether err is a fallback-chain exhaustion.
func IsExhausted(err error) bool {
	var ee *ExhaustedError
	return errors.As(err, &ee)
}

// SuppressedError reports that a provider's safety system refused the
// request. Raised only by GenerateStrict; the plain Generate path absorbs
// suppression as an ordinary failed attempt.
type SuppressedError struct {
	Provider string
	Model    string
}

func (e *SuppressedError) Error() string {
	return fmt.Sprintf("genai: output suppressed by %s/%s safety system", e.Provider, e.Model)
}

// IsSuppressed reports whether err is a provider safety refusal.
func IsSuppressed(err error) bool {
	var se *SuppressedError
	return errors.As(err, &se)
}
