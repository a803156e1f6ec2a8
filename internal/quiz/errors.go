package quiz

import "errors"

var (
	ErrNotFound = errors.New("quiz: not found")

	// ErrInvalidQuestion covers malformed question payloads, such as a
	// multiple-choice question without a correct option.
	ErrInvalidQuestion = errors.New("quiz: invalid question")

	ErrSlugTaken = errors.New("quiz: slug already in use")
)
