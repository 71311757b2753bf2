// Package quiz implements the flag quiz: question generation from a country
// list and the state machine that drives a single quiz session.
package quiz

import (
	"errors"
	"fmt"
)

// Sentinel errors for quiz operations.
var (
	// ErrInsufficientData indicates that too few distinct countries are
	// available to build questions with four different choices.
	ErrInsufficientData = errors.New("not enough countries to build a quiz")

	// ErrInvalidTransition indicates an operation that the current status does not allow.
	ErrInvalidTransition = errors.New("invalid quiz state transition")

	// ErrNoQuestion indicates a guess while no question is on screen.
	ErrNoQuestion = errors.New("no current question")

	// ErrChoiceOutOfRange indicates a guess outside [0, 4).
	ErrChoiceOutOfRange = errors.New("choice out of range")

	// ErrRestarted indicates that the quiz was restarted while Start was
	// loading countries. The interrupted Start leaves the new session alone.
	ErrRestarted = errors.New("quiz restarted while loading")
)

// InsufficientDataError reports how many countries were usable and how many
// are needed. It matches ErrInsufficientData with errors.Is.
type InsufficientDataError struct {
	Available int
	Required  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: have %d, need at least %d", ErrInsufficientData, e.Available, e.Required)
}

// Is reports ErrInsufficientData as part of the chain.
func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }
