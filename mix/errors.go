package mix

import "errors"

var (
	ErrContextClosed = errors.New("mix: context closed")
	ErrOutputStarted = errors.New("mix: output already started")
	ErrNilSource     = errors.New("mix: nil chain source")
)
