// Package format houses low-level routines for the BSON wire layout. The goal
// is to keep bounds checking and element sizing focused, allocation-free and
// independent from the lazy layer so higher-level packages can carve and
// decode regions without re-validating them.
//
// Container layout (little-endian):
//
//	Offset  Size  Description
//	0x00    4     int32 total length, including this prefix and the terminator
//	0x04    ...   element*: type(1) name(cstring) value
//	len-1   1     0x00 end-of-container sentinel
package format

const (
	// LengthSize is the size of a container's int32 length prefix.
	LengthSize = 4

	// TerminatorSize is the size of the trailing end-of-container byte.
	TerminatorSize = 1

	// ObjectIDSize is the size of an ObjectId payload.
	ObjectIDSize = 12

	// Decimal128Size is the size of a decimal128 payload (two uint64 halves).
	Decimal128Size = 16

	// BinaryHeaderSize is the int32 length plus the subtype byte that
	// precede binary payload bytes.
	BinaryHeaderSize = 5

	// CodeWithScopeMinSize is int32 total + int32 string length + one byte
	// string terminator + an empty scope document.
	CodeWithScopeMinSize = 4 + 4 + 1 + 5

	// Terminator is the byte that ends every container and every cstring.
	Terminator = 0x00
)
