package store

import "github.com/vango-dev/prsh/internal/errors"

// Sentinel errors, matched with errors.Is.
var (
	// ErrNilReducer is raised by New and ReplaceReducer when given a nil reducer.
	ErrNilReducer = errors.New("E100")

	// ErrReducerDispatch is returned by Dispatch when called from a reducer.
	ErrReducerDispatch = errors.New("E101")

	// ErrReducing is raised when GetState, Subscribe or an unsubscribe
	// function is called from a reducer.
	ErrReducing = errors.New("E102")

	// ErrNilListener is raised by Subscribe when given a nil listener.
	ErrNilListener = errors.New("E103")
)
