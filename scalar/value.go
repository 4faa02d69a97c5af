package scalar

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/joshuapare/bsonkit/pkg/types"
)

// Value is a decoded scalar element. The zero Value is null.
type Value struct {
	typ  types.BSONType
	num  uint64 // double bits, integers, bool, datetime, timestamp, decimal low
	num2 uint64 // decimal high
	str  string // string, javascript, symbol, regex pattern, namespace, code
	str2 string // regex options
	raw  []byte // binary data, objectid, code-with-scope scope (owned copies)
	sub  byte   // binary subtype
}

// Type returns the element type. The zero Value reports TypeNull.
func (v Value) Type() types.BSONType {
	if v.typ == types.TypeEndOfDocument {
		return types.TypeNull
	}
	return v.typ
}

// --- constructors ---

func Double(f float64) Value { return Value{typ: types.TypeDouble, num: math.Float64bits(f)} }
func String(s string) Value  { return Value{typ: types.TypeString, str: s} }
func Int32(i int32) Value    { return Value{typ: types.TypeInt32, num: uint64(uint32(i))} }
func Int64(i int64) Value    { return Value{typ: types.TypeInt64, num: uint64(i)} }
func Null() Value            { return Value{typ: types.TypeNull} }
func Undefined() Value       { return Value{typ: types.TypeUndefined} }
func MinKeyValue() Value     { return Value{typ: types.TypeMinKey} }
func MaxKeyValue() Value     { return Value{typ: types.TypeMaxKey} }

func Boolean(b bool) Value {
	v := Value{typ: types.TypeBoolean}
	if b {
		v.num = 1
	}
	return v
}

func DateTimeValue(ms int64) Value { return Value{typ: types.TypeDateTime, num: uint64(ms)} }

func TimestampValue(ts Timestamp) Value {
	return Value{typ: types.TypeTimestamp, num: uint64(ts.T)<<32 | uint64(ts.I)}
}

func ObjectIDValue(id ObjectID) Value {
	return Value{typ: types.TypeObjectID, raw: append([]byte(nil), id[:]...)}
}

func Decimal128Value(d Decimal128) Value {
	return Value{typ: types.TypeDecimal128, num: d.Low, num2: d.High}
}

// BinaryValue copies data so the value never aliases the source buffer.
func BinaryValue(subtype byte, data []byte) Value {
	return Value{typ: types.TypeBinary, sub: subtype, raw: bytes.Clone(nonNil(data))}
}

func RegexValue(pattern, options string) Value {
	return Value{typ: types.TypeRegex, str: pattern, str2: options}
}

func DBPointerValue(ns string, id ObjectID) Value {
	return Value{typ: types.TypeDBPointer, str: ns, raw: append([]byte(nil), id[:]...)}
}

func JavaScript(code string) Value { return Value{typ: types.TypeJavaScript, str: code} }
func Symbol(s string) Value        { return Value{typ: types.TypeSymbol, str: s} }

// CodeWithScopeValue copies scope so the value never aliases the source buffer.
func CodeWithScopeValue(code string, scope []byte) Value {
	return Value{typ: types.TypeCodeWithScope, str: code, raw: bytes.Clone(nonNil(scope))}
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

// --- accessors ---

func (v Value) DoubleOK() (float64, bool) {
	if v.typ != types.TypeDouble {
		return 0, false
	}
	return math.Float64frombits(v.num), true
}

func (v Value) StringValueOK() (string, bool) {
	if v.typ != types.TypeString {
		return "", false
	}
	return v.str, true
}

func (v Value) Int32OK() (int32, bool) {
	if v.typ != types.TypeInt32 {
		return 0, false
	}
	return int32(uint32(v.num)), true
}

func (v Value) Int64OK() (int64, bool) {
	if v.typ != types.TypeInt64 {
		return 0, false
	}
	return int64(v.num), true
}

func (v Value) BooleanOK() (bool, bool) {
	if v.typ != types.TypeBoolean {
		return false, false
	}
	return v.num != 0, true
}

func (v Value) DateTimeOK() (DateTime, bool) {
	if v.typ != types.TypeDateTime {
		return 0, false
	}
	return DateTime(int64(v.num)), true
}

func (v Value) TimestampOK() (Timestamp, bool) {
	if v.typ != types.TypeTimestamp {
		return Timestamp{}, false
	}
	return Timestamp{T: uint32(v.num >> 32), I: uint32(v.num)}, true
}

func (v Value) ObjectIDOK() (ObjectID, bool) {
	var id ObjectID
	if v.typ != types.TypeObjectID {
		return id, false
	}
	copy(id[:], v.raw)
	return id, true
}

func (v Value) Decimal128OK() (Decimal128, bool) {
	if v.typ != types.TypeDecimal128 {
		return Decimal128{}, false
	}
	return Decimal128{High: v.num2, Low: v.num}, true
}

func (v Value) BinaryOK() (Binary, bool) {
	if v.typ != types.TypeBinary {
		return Binary{}, false
	}
	return Binary{Subtype: v.sub, Data: v.raw}, true
}

func (v Value) RegexOK() (Regex, bool) {
	if v.typ != types.TypeRegex {
		return Regex{}, false
	}
	return Regex{Pattern: v.str, Options: v.str2}, true
}

func (v Value) DBPointerOK() (DBPointer, bool) {
	if v.typ != types.TypeDBPointer {
		return DBPointer{}, false
	}
	p := DBPointer{Namespace: v.str}
	copy(p.ID[:], v.raw)
	return p, true
}

func (v Value) JavaScriptOK() (string, bool) {
	if v.typ != types.TypeJavaScript {
		return "", false
	}
	return v.str, true
}

func (v Value) SymbolOK() (string, bool) {
	if v.typ != types.TypeSymbol {
		return "", false
	}
	return v.str, true
}

func (v Value) CodeWithScopeOK() (CodeWithScope, bool) {
	if v.typ != types.TypeCodeWithScope {
		return CodeWithScope{}, false
	}
	return CodeWithScope{Code: v.str, Scope: v.raw}, true
}

// IsNull reports whether the value is null (or the zero Value).
func (v Value) IsNull() bool { return v.Type() == types.TypeNull }

// Interface returns the value as a plain Go value: float64, string, int32,
// int64, bool, time.Time, nil, or one of this package's payload types.
func (v Value) Interface() any {
	switch v.Type() {
	case types.TypeDouble:
		f, _ := v.DoubleOK()
		return f
	case types.TypeString:
		return v.str
	case types.TypeInt32:
		i, _ := v.Int32OK()
		return i
	case types.TypeInt64:
		i, _ := v.Int64OK()
		return i
	case types.TypeBoolean:
		return v.num != 0
	case types.TypeDateTime:
		d, _ := v.DateTimeOK()
		return d.Time()
	case types.TypeTimestamp:
		ts, _ := v.TimestampOK()
		return ts
	case types.TypeObjectID:
		id, _ := v.ObjectIDOK()
		return id
	case types.TypeDecimal128:
		d, _ := v.Decimal128OK()
		return d
	case types.TypeBinary:
		b, _ := v.BinaryOK()
		return b
	case types.TypeRegex:
		r, _ := v.RegexOK()
		return r
	case types.TypeDBPointer:
		p, _ := v.DBPointerOK()
		return p
	case types.TypeJavaScript, types.TypeSymbol:
		return v.str
	case types.TypeCodeWithScope:
		c, _ := v.CodeWithScopeOK()
		return c
	case types.TypeMinKey:
		return MinKey{}
	case types.TypeMaxKey:
		return MaxKey{}
	default:
		return nil
	}
}

// Equal reports whether v and o have the same type and payload. Doubles
// compare by bit pattern, so NaN equals an identical NaN.
func (v Value) Equal(o Value) bool {
	if v.Type() != o.Type() {
		return false
	}
	return v.num == o.num && v.num2 == o.num2 && v.str == o.str &&
		v.str2 == o.str2 && v.sub == o.sub && bytes.Equal(v.raw, o.raw)
}

func (v Value) String() string {
	switch v.Type() {
	case types.TypeDouble:
		f, _ := v.DoubleOK()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case types.TypeString, types.TypeSymbol:
		return strconv.Quote(v.str)
	case types.TypeInt32, types.TypeInt64, types.TypeBoolean:
		return fmt.Sprint(v.Interface())
	case types.TypeDateTime:
		d, _ := v.DateTimeOK()
		return d.Time().Format("2006-01-02T15:04:05.000Z07:00")
	case types.TypeTimestamp:
		ts, _ := v.TimestampOK()
		return fmt.Sprintf("Timestamp(%d, %d)", ts.T, ts.I)
	case types.TypeObjectID, types.TypeDecimal128, types.TypeBinary:
		return fmt.Sprint(v.Interface())
	case types.TypeRegex:
		return "/" + v.str + "/" + v.str2
	case types.TypeDBPointer:
		p, _ := v.DBPointerOK()
		return fmt.Sprintf("DBPointer(%q, %s)", p.Namespace, p.ID.Hex())
	case types.TypeJavaScript, types.TypeCodeWithScope:
		return "Code(" + strconv.Quote(v.str) + ")"
	case types.TypeUndefined:
		return "undefined"
	case types.TypeMinKey:
		return "MinKey"
	case types.TypeMaxKey:
		return "MaxKey"
	default:
		return "null"
	}
}
