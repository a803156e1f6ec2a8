package sitting

import "errors"

var (
	// ErrInvalidState is returned when an operation is attempted on a
	// sitting in the wrong state: answering a finalized sitting,
	// re-answering a question, finalizing with questions pending.
	ErrInvalidState = errors.New("sitting: operation not valid in current state")

	// ErrAlreadyCompleted is returned when a retake is attempted where
	// policy forbids it: a passing attempt exists, or the quiz is
	// single-attempt and any completed attempt exists.
	ErrAlreadyCompleted = errors.New("sitting: retake not permitted")

	// ErrNotFound is returned when the referenced quiz, question or
	// sitting does not exist or is not visible to the caller.
	ErrNotFound = errors.New("sitting: not found")

	// ErrNoQuestions is returned when a sitting is requested for a quiz
	// without questions.
	ErrNoQuestions = errors.New("sitting: quiz has no questions")
)
