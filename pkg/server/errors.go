package server

import "github.com/vango-dev/prsh/internal/errors"

// Sentinel errors, matched with errors.Is.
var (
	// ErrFlushBudgetExceeded is returned when a flush keeps producing renders
	// or effects after SessionConfig.MaxFlushPasses passes.
	ErrFlushBudgetExceeded = errors.New("E010")

	// ErrComponentPanic is returned when a render or an effect panicked.
	ErrComponentPanic = errors.New("E011")

	// ErrSessionUnmounted is returned by operations on an unmounted session.
	ErrSessionUnmounted = errors.New("E012")

	// ErrAlreadyMounted is returned by Mount on a mounted session.
	ErrAlreadyMounted = errors.New("E013")
)
