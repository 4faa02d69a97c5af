package testutil

import (
	"encoding/binary"
	"math"
	"strconv"
)

// Hand-built encodings, for layouts the reference encoder refuses to produce
// (malformed, truncated, duplicate names, unusual subtypes).

// Doc wraps already-encoded elements in a length prefix and terminator.
func Doc(elems ...[]byte) []byte {
	var body []byte
	for _, e := range elems {
		body = append(body, e...)
	}
	out := le32(len(body) + 5)
	out = append(out, body...)
	return append(out, 0x00)
}

// Arr is Doc with names "0", "1", ... assigned to the given typed values.
func Arr(values ...Typed) []byte {
	elems := make([][]byte, len(values))
	for i, v := range values {
		elems[i] = Elem(v.Type, strconv.Itoa(i), v.Payload)
	}
	return Doc(elems...)
}

// Typed pairs a type tag with its encoded payload.
type Typed struct {
	Type    byte
	Payload []byte
}

// Elem encodes one element: type, cstring name, payload.
func Elem(t byte, name string, payload []byte) []byte {
	out := []byte{t}
	out = append(out, name...)
	out = append(out, 0x00)
	return append(out, payload...)
}

func Int32(name string, v int32) []byte { return Elem(0x10, name, le32(int(v))) }

func Int64(name string, v int64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v))
	return Elem(0x12, name, b)
}

func Double(name string, v float64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	return Elem(0x01, name, b)
}

func String(name, v string) []byte { return Elem(0x02, name, StringPayload(v)) }

func Bool(name string, v bool) []byte {
	if v {
		return Elem(0x08, name, []byte{1})
	}
	return Elem(0x08, name, []byte{0})
}

func Null(name string) []byte { return Elem(0x0A, name, nil) }

func SubDoc(name string, doc []byte) []byte { return Elem(0x03, name, doc) }

func SubArr(name string, arr []byte) []byte { return Elem(0x04, name, arr) }

// StringPayload encodes a length-prefixed, NUL-terminated string value.
func StringPayload(v string) []byte {
	out := le32(len(v) + 1)
	out = append(out, v...)
	return append(out, 0x00)
}

func le32(n int) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(int32(n)))
	return b
}
