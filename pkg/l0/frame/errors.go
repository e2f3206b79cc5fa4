package frame

import "errors"

var (
	// ErrTruncated indicates the buffer is shorter than the header or frame
	// it is supposed to contain.
	ErrTruncated = errors.New("truncated frame")
	// ErrBadFCS indicates the frame check sequence doesn't match.
	ErrBadFCS = errors.New("bad frame check sequence")
)
