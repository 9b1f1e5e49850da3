//go:build !tinygo

package kernel

import (
	"bytes"
	"runtime/debug"
)

// captureStack returns the goroutine stack with the recover path cut off, so
// the first frame after the header is the one that panicked. It must be called
// from the deferred recover.
func captureStack() []byte {
	s := debug.Stack()
	i := bytes.Index(s, []byte("\npanic("))
	if i < 0 {
		return s
	}
	header := s[:bytes.IndexByte(s, '\n')+1]
	rest := s[i+1:]
	// the runtime panic frame is a call line plus a file line
	for range 2 {
		j := bytes.IndexByte(rest, '\n')
		if j < 0 {
			return s
		}
		rest = rest[j+1:]
	}
	out := make([]byte, 0, len(header)+len(rest))
	return append(append(out, header...), rest...)
}
