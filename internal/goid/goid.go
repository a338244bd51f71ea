// Package goid reads the ID of the calling goroutine.
package goid

import "runtime"

// Current parses the current goroutine ID from the runtime stack header
// ("goroutine <id> [...]").
func Current() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}
