package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBadLength indicates a length prefix that is negative, too small or inconsistent.
	ErrBadLength = errors.New("format: invalid length prefix")
	// ErrTooLarge indicates a container larger than the configured maximum.
	ErrTooLarge = errors.New("format: container exceeds maximum size")
	// ErrUnterminated indicates a container or cstring missing its 0x00 terminator.
	ErrUnterminated = errors.New("format: missing terminator")
	// ErrUnknownType indicates an element type tag outside the known set.
	ErrUnknownType = errors.New("format: unknown element type")
	// ErrInvalidUTF8 indicates a string or name that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("format: invalid UTF-8")
)

var (
	// ErrInvalidBoolean indicates a boolean byte other than 0x00 or 0x01.
	ErrInvalidBoolean = errors.New("format: invalid boolean")
	// ErrEarlyTerminator indicates a 0x00 type byte before the container's declared end.
	ErrEarlyTerminator = errors.New("format: terminator before declared end")
)
