package format

import (
	"fmt"

	"github.com/joshuapare/bsonkit/internal/buf"
	"github.com/joshuapare/bsonkit/pkg/types"
)

// ContainerLen validates the container starting at off and returns its total
// length. The length prefix must be at least MinDocumentSize, at most limit,
// must fit in b, and the final byte must be the terminator.
func ContainerLen(b []byte, off, limit int) (int, error) {
	if !buf.Has(b, off, LengthSize) {
		return 0, fmt.Errorf("container length at %d: %w", off, ErrTruncated)
	}
	n := int(buf.I32LE(b[off:]))
	if n < types.MinDocumentSize {
		return 0, fmt.Errorf("container length %d at %d: %w", n, off, ErrBadLength)
	}
	if limit > 0 && n > limit {
		return 0, fmt.Errorf("container length %d > %d: %w", n, limit, ErrTooLarge)
	}
	if !buf.Has(b, off, n) {
		return 0, fmt.Errorf("container length %d at %d (have %d): %w", n, off, len(b)-off, ErrTruncated)
	}
	if b[off+n-1] != Terminator {
		return 0, fmt.Errorf("container at %d: %w", off, ErrUnterminated)
	}
	return n, nil
}

// ValueSize returns the encoded size of the value of type t starting at off.
// It never descends into nested containers: their size is read from the
// length prefix, which is what makes carving O(1).
func ValueSize(t types.BSONType, b []byte, off, limit int) (int, error) {
	switch t {
	case types.TypeDouble, types.TypeDateTime, types.TypeInt64, types.TypeTimestamp:
		return fixed(b, off, 8)
	case types.TypeInt32:
		return fixed(b, off, 4)
	case types.TypeBoolean:
		return fixed(b, off, 1)
	case types.TypeObjectID:
		return fixed(b, off, ObjectIDSize)
	case types.TypeDecimal128:
		return fixed(b, off, Decimal128Size)
	case types.TypeUndefined, types.TypeNull, types.TypeMinKey, types.TypeMaxKey:
		return 0, nil
	case types.TypeString, types.TypeJavaScript, types.TypeSymbol:
		return stringSize(b, off)
	case types.TypeDBPointer:
		n, err := stringSize(b, off)
		if err != nil {
			return 0, err
		}
		if _, err := fixed(b, off+n, ObjectIDSize); err != nil {
			return 0, err
		}
		return n + ObjectIDSize, nil
	case types.TypeBinary:
		if !buf.Has(b, off, BinaryHeaderSize) {
			return 0, fmt.Errorf("binary header at %d: %w", off, ErrTruncated)
		}
		n := int(buf.I32LE(b[off:]))
		if n < 0 {
			return 0, fmt.Errorf("binary length %d: %w", n, ErrBadLength)
		}
		total, ok := buf.AddOverflowSafe(BinaryHeaderSize, n)
		if !ok || !buf.Has(b, off, total) {
			return 0, fmt.Errorf("binary payload at %d: %w", off, ErrTruncated)
		}
		return total, nil
	case types.TypeRegex:
		_, next, ok := buf.CString(b, off)
		if !ok {
			return 0, fmt.Errorf("regex pattern at %d: %w", off, ErrUnterminated)
		}
		_, end, ok := buf.CString(b, next)
		if !ok {
			return 0, fmt.Errorf("regex options at %d: %w", next, ErrUnterminated)
		}
		return end - off, nil
	case types.TypeCodeWithScope:
		if !buf.Has(b, off, LengthSize) {
			return 0, fmt.Errorf("code with scope at %d: %w", off, ErrTruncated)
		}
		n := int(buf.I32LE(b[off:]))
		if n < CodeWithScopeMinSize {
			return 0, fmt.Errorf("code with scope length %d: %w", n, ErrBadLength)
		}
		if !buf.Has(b, off, n) {
			return 0, fmt.Errorf("code with scope at %d: %w", off, ErrTruncated)
		}
		return n, nil
	case types.TypeDocument, types.TypeArray:
		return ContainerLen(b, off, limit)
	default:
		return 0, fmt.Errorf("type 0x%02X at %d: %w", byte(t), off-1, ErrUnknownType)
	}
}

// StringBounds returns the payload bounds [start,end) of a length-prefixed
// string at off. The payload excludes the trailing NUL.
func StringBounds(b []byte, off int) (int, int, error) {
	n, err := stringSize(b, off)
	if err != nil {
		return 0, 0, err
	}
	return off + LengthSize, off + n - 1, nil
}

func stringSize(b []byte, off int) (int, error) {
	if !buf.Has(b, off, LengthSize) {
		return 0, fmt.Errorf("string length at %d: %w", off, ErrTruncated)
	}
	n := int(buf.I32LE(b[off:]))
	if n < 1 {
		return 0, fmt.Errorf("string length %d at %d: %w", n, off, ErrBadLength)
	}
	total, ok := buf.AddOverflowSafe(LengthSize, n)
	if !ok || !buf.Has(b, off, total) {
		return 0, fmt.Errorf("string at %d: %w", off, ErrTruncated)
	}
	if b[off+total-1] != Terminator {
		return 0, fmt.Errorf("string at %d: %w", off, ErrUnterminated)
	}
	return total, nil
}

func fixed(b []byte, off, n int) (int, error) {
	if !buf.Has(b, off, n) {
		return 0, fmt.Errorf("%d-byte value at %d: %w", n, off, ErrTruncated)
	}
	return n, nil
}
