package lazy

import (
	"fmt"
	"hash"
	"io"

	"github.com/joshuapare/bsonkit/pkg/types"
	"github.com/joshuapare/bsonkit/scalar"
)

// Kind tells which variant a Value holds.
type Kind uint8

const (
	KindScalar Kind = iota
	KindDocument
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindDocument:
		return "document"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a field value: a decoded scalar or a lazy nested container.
// The zero Value is a null scalar.
type Value struct {
	kind Kind
	sv   scalar.Value
	doc  *Document
	arr  *Array
}

// Scalar wraps a decoded scalar.
func Scalar(v scalar.Value) Value { return Value{kind: KindScalar, sv: v} }

// DocumentValue wraps a nested document. The Value does not take ownership.
func DocumentValue(d *Document) Value { return Value{kind: KindDocument, doc: d} }

// ArrayValue wraps a nested array. The Value does not take ownership.
func ArrayValue(a *Array) Value { return Value{kind: KindArray, arr: a} }

func String(s string) Value  { return Scalar(scalar.String(s)) }
func Int32(i int32) Value    { return Scalar(scalar.Int32(i)) }
func Int64(i int64) Value    { return Scalar(scalar.Int64(i)) }
func Double(f float64) Value { return Scalar(scalar.Double(f)) }
func Boolean(b bool) Value   { return Scalar(scalar.Boolean(b)) }
func Null() Value            { return Scalar(scalar.Null()) }

func (v Value) Kind() Kind { return v.kind }

// Type returns the element type tag the value was decoded from.
func (v Value) Type() types.BSONType {
	switch v.kind {
	case KindDocument:
		return types.TypeDocument
	case KindArray:
		return types.TypeArray
	default:
		return v.sv.Type()
	}
}

// Scalar returns the scalar payload; ok is false for containers.
func (v Value) Scalar() (scalar.Value, bool) {
	return v.sv, v.kind == KindScalar
}

// Document returns the nested document without materializing it.
func (v Value) Document() (*Document, error) {
	if v.kind != KindDocument || v.doc == nil {
		return nil, v.mismatch(types.TypeDocument)
	}
	return v.doc, nil
}

// Array returns the nested array without materializing it.
func (v Value) Array() (*Array, error) {
	if v.kind != KindArray || v.arr == nil {
		return nil, v.mismatch(types.TypeArray)
	}
	return v.arr, nil
}

func (v Value) StringValue() (string, error) {
	if s, ok := v.sv.StringValueOK(); ok && v.kind == KindScalar {
		return s, nil
	}
	return "", v.mismatch(types.TypeString)
}

func (v Value) Int32() (int32, error) {
	if i, ok := v.sv.Int32OK(); ok && v.kind == KindScalar {
		return i, nil
	}
	return 0, v.mismatch(types.TypeInt32)
}

func (v Value) Int64() (int64, error) {
	if i, ok := v.sv.Int64OK(); ok && v.kind == KindScalar {
		return i, nil
	}
	return 0, v.mismatch(types.TypeInt64)
}

func (v Value) Double() (float64, error) {
	if f, ok := v.sv.DoubleOK(); ok && v.kind == KindScalar {
		return f, nil
	}
	return 0, v.mismatch(types.TypeDouble)
}

func (v Value) Boolean() (bool, error) {
	if b, ok := v.sv.BooleanOK(); ok && v.kind == KindScalar {
		return b, nil
	}
	return false, v.mismatch(types.TypeBoolean)
}

func (v Value) mismatch(want types.BSONType) error {
	return types.Wrap(types.ErrKindType, fmt.Sprintf("want %s, have %s", want, v.Type()), nil)
}

// String formats scalars; containers print as their kind and state.
func (v Value) String() string {
	switch v.kind {
	case KindDocument:
		if v.doc == nil {
			return "document(nil)"
		}
		return "document(" + v.doc.state.String() + ")"
	case KindArray:
		if v.arr == nil {
			return "array(nil)"
		}
		return "array(" + v.arr.state.String() + ")"
	default:
		return v.sv.String()
	}
}

// isNilContainer reports a container Value built over a nil handle, which
// DocumentValue(nil) and ArrayValue(nil) produce.
func (v Value) isNilContainer() bool {
	return (v.kind == KindDocument && v.doc == nil) || (v.kind == KindArray && v.arr == nil)
}

func (v Value) nilContainer() error {
	return types.Wrap(types.ErrKindArgument, "nil "+v.kind.String(), nil)
}

// Interface converts v to plain Go values, materializing nested containers:
// documents become map[string]any, arrays []any.
func (v Value) Interface() (any, error) {
	if v.isNilContainer() {
		return nil, v.nilContainer()
	}
	switch v.kind {
	case KindDocument:
		return v.doc.ToMap()
	case KindArray:
		return v.arr.ToSlice()
	default:
		return v.sv.Interface(), nil
	}
}

// Equal compares two values, materializing nested containers as needed.
func (v Value) Equal(o Value) (bool, error) {
	if v.kind != o.kind {
		return false, nil
	}
	if v.isNilContainer() || o.isNilContainer() {
		return v.isNilContainer() && o.isNilContainer(), nil
	}
	switch v.kind {
	case KindDocument:
		return v.doc.Equal(o.doc)
	case KindArray:
		return v.arr.Equal(o.arr)
	default:
		return v.sv.Equal(o.sv), nil
	}
}

func (v Value) hashInto(h hash.Hash64) error {
	if v.isNilContainer() {
		return v.nilContainer()
	}
	h.Write([]byte{byte(v.Type())})
	switch v.kind {
	case KindDocument:
		return v.doc.hashInto(h)
	case KindArray:
		return v.arr.hashInto(h)
	default:
		_, err := io.WriteString(h, v.sv.String())
		return err
	}
}
