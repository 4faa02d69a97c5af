package types

import "fmt"

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindArgument ErrKind = iota // missing or invalid argument (e.g., nil buffer)
	ErrKindState                   // operation invalid for current state (re-entrant access)
	ErrKindFormat                  // malformed encoding (bad tag, truncated, unterminated)
	ErrKindCommit                  // decoded fields could not be committed to the store
	ErrKindNotFound                // missing field or path segment
	ErrKindType                    // typed accessor doesn't match the element type
	ErrKindDisposed                // the proxy or file has been closed
)

// String returns a short label for the kind.
func (k ErrKind) String() string {
	switch k {
	case ErrKindArgument:
		return "argument"
	case ErrKindState:
		return "state"
	case ErrKindFormat:
		return "format"
	case ErrKindCommit:
		return "commit"
	case ErrKindNotFound:
		return "not-found"
	case ErrKindType:
		return "type"
	case ErrKindDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error of the same kind, so a wrapped error
// matches the category sentinel: errors.Is(err, types.ErrMalformed).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Wrap returns a typed error of kind k carrying msg and cause.
func Wrap(k ErrKind, msg string, cause error) error {
	return &Error{Kind: k, Msg: msg, Err: cause}
}

// Sentinels commonly returned by implementations.
var (
	// ErrInvalidArgument indicates a required argument was missing (nil buffer or bytes).
	ErrInvalidArgument = &Error{Kind: ErrKindArgument, Msg: "invalid argument"}
	// ErrDisposed indicates an operation on a proxy that has been closed.
	ErrDisposed = &Error{Kind: ErrKindDisposed, Msg: "proxy has been closed"}
	// ErrState indicates an operation that is invalid right now on a live
	// proxy, such as access while materialization is running.
	ErrState = &Error{Kind: ErrKindState, Msg: "invalid state"}
	// ErrMalformed indicates the encoded bytes could not be decoded.
	ErrMalformed = &Error{Kind: ErrKindFormat, Msg: "malformed encoding"}
	// ErrCommit indicates decoded fields could not be inserted into the store.
	ErrCommit = &Error{Kind: ErrKindCommit, Msg: "commit failed"}
	// ErrNotFound indicates a missing field name, index or path segment.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrTypeMismatch indicates the requested accessor doesn't match the element type.
	ErrTypeMismatch = &Error{Kind: ErrKindType, Msg: "element has different type"}
)

// -----------------------------------------------------------------------------
// Element Types
// -----------------------------------------------------------------------------

// BSONType enumerates the element type tags defined at bsonspec.org.
type BSONType byte

const (
	TypeEndOfDocument   BSONType = 0x00 // end-of-container sentinel, never a value
	TypeDouble          BSONType = 0x01
	TypeString          BSONType = 0x02
	TypeDocument        BSONType = 0x03
	TypeArray           BSONType = 0x04
	TypeBinary          BSONType = 0x05
	TypeUndefined       BSONType = 0x06
	TypeObjectID        BSONType = 0x07
	TypeBoolean         BSONType = 0x08
	TypeDateTime        BSONType = 0x09
	TypeNull            BSONType = 0x0A
	TypeRegex           BSONType = 0x0B
	TypeDBPointer       BSONType = 0x0C
	TypeJavaScript      BSONType = 0x0D
	TypeSymbol          BSONType = 0x0E
	TypeCodeWithScope   BSONType = 0x0F
	TypeInt32           BSONType = 0x10
	TypeTimestamp       BSONType = 0x11
	TypeInt64           BSONType = 0x12
	TypeDecimal128      BSONType = 0x13
	TypeMaxKey          BSONType = 0x7F
	TypeMinKey          BSONType = 0xFF
)

// IsContainer reports whether values of this type are nested containers that
// are carved and wrapped lazily instead of decoded.
func (t BSONType) IsContainer() bool {
	return t == TypeDocument || t == TypeArray
}

// String implements the Stringer interface for BSONType
func (t BSONType) String() string {
	switch t {
	case TypeEndOfDocument:
		return "end of document"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeDocument:
		return "embedded document"
	case TypeArray:
		return "array"
	case TypeBinary:
		return "binary"
	case TypeUndefined:
		return "undefined"
	case TypeObjectID:
		return "objectID"
	case TypeBoolean:
		return "boolean"
	case TypeDateTime:
		return "UTC datetime"
	case TypeNull:
		return "null"
	case TypeRegex:
		return "regex"
	case TypeDBPointer:
		return "dbPointer"
	case TypeJavaScript:
		return "javascript"
	case TypeSymbol:
		return "symbol"
	case TypeCodeWithScope:
		return "code with scope"
	case TypeInt32:
		return "32-bit integer"
	case TypeTimestamp:
		return "timestamp"
	case TypeInt64:
		return "64-bit integer"
	case TypeDecimal128:
		return "128-bit decimal"
	case TypeMaxKey:
		return "max key"
	case TypeMinKey:
		return "min key"
	default:
		return fmt.Sprintf("invalid type 0x%02X", byte(t))
	}
}
