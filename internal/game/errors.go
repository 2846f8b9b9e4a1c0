package game

import "github.com/myrjola/casefile/internal/errors"

var (
	// ErrInvalidInput is returned for input that the presentation layer should have refused: a name that is too
	// short, a slider value out of range, an unknown option.
	ErrInvalidInput = errors.NewSentinel("invalid input")
	// ErrOutOfOrderInterrogation is returned when a suspect other than the next one in order is interrogated.
	ErrOutOfOrderInterrogation = errors.NewSentinel("out of order interrogation")
	// ErrScreenLocked is returned for a transition to a screen whose phase is not yet unlocked.
	ErrScreenLocked = errors.NewSentinel("screen locked")
	// ErrInvalidState is returned for an intent that makes no sense in the current state, e.g. choosing an
	// approach when no exchange is awaiting a choice.
	ErrInvalidState = errors.NewSentinel("invalid state")
	// ErrCorruptSession is returned when a serialised session violates an invariant.
	ErrCorruptSession = errors.NewSentinel("corrupt session")
)
