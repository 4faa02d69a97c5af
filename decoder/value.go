package decoder

import (
	"fmt"

	"github.com/joshuapare/bsonkit/internal/buf"
	"github.com/joshuapare/bsonkit/internal/format"
	"github.com/joshuapare/bsonkit/pkg/types"
	"github.com/joshuapare/bsonkit/scalar"
)

// binaryOld is the deprecated subtype that nests a second length prefix.
const binaryOld = 0x02

// ReadValue decodes the current element's value. Containers are rejected;
// use ReadRawDocument or ReadRawArray for them.
func (r *Reader) ReadValue() (scalar.Value, error) {
	if r.step != stepValue || r.typ.IsContainer() {
		return scalar.Value{}, fmt.Errorf("ReadValue (current %s): %w", r.typ, ErrState)
	}
	n, err := format.ValueSize(r.typ, r.data[:r.end], r.pos, r.maxSize)
	if err != nil {
		return scalar.Value{}, err
	}
	v, err := r.decode(r.typ, r.data[r.pos:r.pos+n], r.pos)
	if err != nil {
		return scalar.Value{}, err
	}
	r.pos += n
	r.step = stepType
	return v, nil
}

// decode turns the exact value bytes b (already bounds checked by
// format.ValueSize) into a scalar.Value. off is used for error messages.
func (r *Reader) decode(t types.BSONType, b []byte, off int) (scalar.Value, error) {
	switch t {
	case types.TypeDouble:
		return scalar.Double(buf.F64LE(b)), nil
	case types.TypeInt32:
		return scalar.Int32(buf.I32LE(b)), nil
	case types.TypeInt64:
		return scalar.Int64(buf.I64LE(b)), nil
	case types.TypeDateTime:
		return scalar.DateTimeValue(buf.I64LE(b)), nil
	case types.TypeTimestamp:
		return scalar.TimestampValue(scalar.Timestamp{I: buf.U32LE(b), T: buf.U32LE(b[4:])}), nil
	case types.TypeDecimal128:
		return scalar.Decimal128Value(scalar.Decimal128{Low: buf.U64LE(b), High: buf.U64LE(b[8:])}), nil
	case types.TypeBoolean:
		switch b[0] {
		case 0:
			return scalar.Boolean(false), nil
		case 1:
			return scalar.Boolean(true), nil
		default:
			return scalar.Value{}, fmt.Errorf("boolean 0x%02X at %d: %w", b[0], off, format.ErrInvalidBoolean)
		}
	case types.TypeObjectID:
		var id scalar.ObjectID
		copy(id[:], b)
		return scalar.ObjectIDValue(id), nil
	case types.TypeNull:
		return scalar.Null(), nil
	case types.TypeUndefined:
		return scalar.Undefined(), nil
	case types.TypeMinKey:
		return scalar.MinKeyValue(), nil
	case types.TypeMaxKey:
		return scalar.MaxKeyValue(), nil
	case types.TypeString, types.TypeJavaScript, types.TypeSymbol:
		s, err := r.stringAt(b, 0, off)
		if err != nil {
			return scalar.Value{}, err
		}
		switch t {
		case types.TypeJavaScript:
			return scalar.JavaScript(s), nil
		case types.TypeSymbol:
			return scalar.Symbol(s), nil
		default:
			return scalar.String(s), nil
		}
	case types.TypeBinary:
		return decodeBinary(b, off)
	case types.TypeRegex:
		pattern, next, _ := buf.CString(b, 0)
		options, _, _ := buf.CString(b, next)
		p, err := r.text(pattern, off)
		if err != nil {
			return scalar.Value{}, err
		}
		o, err := r.text(options, off+next)
		if err != nil {
			return scalar.Value{}, err
		}
		return scalar.RegexValue(p, o), nil
	case types.TypeDBPointer:
		ns, err := r.stringAt(b, 0, off)
		if err != nil {
			return scalar.Value{}, err
		}
		var id scalar.ObjectID
		copy(id[:], b[len(b)-format.ObjectIDSize:])
		return scalar.DBPointerValue(ns, id), nil
	case types.TypeCodeWithScope:
		return r.decodeCodeWithScope(b, off)
	default:
		return scalar.Value{}, fmt.Errorf("type 0x%02X at %d: %w", byte(t), off, format.ErrUnknownType)
	}
}

func (r *Reader) stringAt(b []byte, at, off int) (string, error) {
	start, end, err := format.StringBounds(b, at)
	if err != nil {
		return "", err
	}
	return r.text(b[start:end], off+start)
}

func decodeBinary(b []byte, off int) (scalar.Value, error) {
	subtype := b[format.LengthSize]
	data := b[format.BinaryHeaderSize:]
	if subtype == binaryOld {
		if len(data) < format.LengthSize {
			return scalar.Value{}, fmt.Errorf("old binary at %d: %w", off, format.ErrTruncated)
		}
		inner := int(buf.I32LE(data))
		if inner != len(data)-format.LengthSize {
			return scalar.Value{}, fmt.Errorf("old binary inner length %d at %d: %w", inner, off, format.ErrBadLength)
		}
		data = data[format.LengthSize:]
	}
	return scalar.BinaryValue(subtype, data), nil
}

func (r *Reader) decodeCodeWithScope(b []byte, off int) (scalar.Value, error) {
	code, err := r.stringAt(b, format.LengthSize, off)
	if err != nil {
		return scalar.Value{}, err
	}
	_, strEnd, _ := format.StringBounds(b, format.LengthSize)
	scopeOff := strEnd + format.TerminatorSize
	n, err := format.ContainerLen(b, scopeOff, r.maxSize)
	if err != nil {
		return scalar.Value{}, err
	}
	if scopeOff+n != len(b) {
		return scalar.Value{}, fmt.Errorf("code with scope at %d: %w", off, format.ErrBadLength)
	}
	return scalar.CodeWithScopeValue(code, b[scopeOff:]), nil
}
