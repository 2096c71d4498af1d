package model

import "fmt"

// MalformedInputError reports a header/data shape mismatch or an
// unrecognized header pattern. Fatal for the row being decoded; never
// swallowed, never guessed around.
type MalformedInputError struct {
	Column string // Offending header, if the problem is column-scoped
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("malformed input: column %q: %s", e.Column, e.Reason)
	}
	return "malformed input: " + e.Reason
}

// ConflictingCorrectionError reports two corrections whose target spans
// overlap in the same narrative. Fatal for that correction round.
type ConflictingCorrectionError struct {
	First  Correction
	Second Correction
}

func (e *ConflictingCorrectionError) Error() string {
	return fmt.Sprintf("conflicting corrections: %q (question %q) overlaps %q (question %q)",
		e.First.OriginalText, e.First.Question, e.Second.OriginalText, e.Second.Question)
}

// GenerationTimeoutError reports that the narrative generator did not answer
// within its deadline. Fatal for the run; retry policy belongs to the caller.
type GenerationTimeoutError struct {
	Provider string
	Err      error
}

func (e *GenerationTimeoutError) Error() string {
	return fmt.Sprintf("narrative generation timed out (provider %s): %v", e.Provider, e.Err)
}

func (e *GenerationTimeoutError) Unwrap() error { return e.Err }

// GenerationTransportError reports a transport or API failure from the
// narrative generator. Fatal for the run.
type GenerationTransportError struct {
	Provider string
	Err      error
}

func (e *GenerationTransportError) Error() string {
	return fmt.Sprintf("narrative generation failed (provider %s): %v", e.Provider, e.Err)
}

func (e *GenerationTransportError) Unwrap() error { return e.Err }
