package decoder

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/bsonkit/buffer"
	"github.com/joshuapare/bsonkit/internal/buf"
	"github.com/joshuapare/bsonkit/internal/format"
	"github.com/joshuapare/bsonkit/internal/namecache"
	"github.com/joshuapare/bsonkit/pkg/types"
)

// ErrState indicates the Reader methods were called out of order.
var ErrState = errors.New("decoder: call out of order")

type step uint8

const (
	stepStart step = iota // before ReadStartDocument
	stepType              // expecting ReadType
	stepName              // expecting ReadName/SkipName
	stepValue             // expecting ReadValue/ReadRaw*
	stepEnd               // ReadType returned end; expecting ReadEndDocument
	stepDone              // outer container consumed
)

// Reader is a single-use cursor over one encoded container held in a
// buffer.Buffer. It reads, never releases, the buffer.
type Reader struct {
	src  buffer.Buffer
	data []byte
	pos  int
	end  int // offset of the container's terminator
	step step
	typ  types.BSONType

	maxSize     int
	replaceUTF8 bool
}

// New returns a Reader positioned before the container at the start of b.
func New(b buffer.Buffer, opts types.Options) *Reader {
	return &Reader{
		src:         b,
		data:        b.Bytes(),
		maxSize:     opts.EffectiveMaxDocumentSize(),
		replaceUTF8: opts.ReplaceInvalidUTF8,
	}
}

// Position returns the current offset within the buffer.
func (r *Reader) Position() int { return r.pos }

// ReadStartDocument validates the container's length prefix and terminator
// and positions the cursor on the first element. Arrays use the same call.
func (r *Reader) ReadStartDocument() error {
	if r.step != stepStart {
		return fmt.Errorf("ReadStartDocument: %w", ErrState)
	}
	n, err := format.ContainerLen(r.data, 0, r.maxSize)
	if err != nil {
		return err
	}
	if n != len(r.data) {
		return fmt.Errorf("container length %d != buffer length %d: %w", n, len(r.data), format.ErrBadLength)
	}
	r.pos = format.LengthSize
	r.end = n - format.TerminatorSize
	r.step = stepType
	return nil
}

// ReadType returns the next element's type, or types.TypeEndOfDocument once
// the cursor reaches the container terminator.
func (r *Reader) ReadType() (types.BSONType, error) {
	if r.step != stepType {
		return 0, fmt.Errorf("ReadType: %w", ErrState)
	}
	if r.pos >= r.end {
		r.step = stepEnd
		return types.TypeEndOfDocument, nil
	}
	t := types.BSONType(r.data[r.pos])
	if t == types.TypeEndOfDocument {
		return 0, fmt.Errorf("type byte at %d: %w", r.pos, format.ErrEarlyTerminator)
	}
	if !known(t) {
		return 0, fmt.Errorf("type 0x%02X at %d: %w", byte(t), r.pos, format.ErrUnknownType)
	}
	r.pos++
	r.typ = t
	r.step = stepName
	return t, nil
}

// ReadName returns the current element's name.
func (r *Reader) ReadName() (string, error) {
	start := r.pos
	raw, err := r.name()
	if err != nil {
		return "", err
	}
	if name, ok := namecache.Lookup(raw); ok {
		return name, nil
	}
	name, err := r.text(raw, start)
	if err != nil {
		return "", err
	}
	if name == string(raw) {
		namecache.Store(raw, name)
	}
	return name, nil
}

// SkipName advances past the current element's name without decoding it.
// Array readers use it since ordinals come from decode order.
func (r *Reader) SkipName() error {
	_, err := r.name()
	return err
}

func (r *Reader) name() ([]byte, error) {
	if r.step != stepName {
		return nil, fmt.Errorf("ReadName: %w", ErrState)
	}
	raw, next, ok := buf.CString(r.data[:r.end], r.pos)
	if !ok {
		return nil, fmt.Errorf("element name at %d: %w", r.pos, format.ErrUnterminated)
	}
	r.pos = next
	r.step = stepValue
	return raw, nil
}

// ReadRawDocument carves the current embedded document without decoding it.
func (r *Reader) ReadRawDocument() (buffer.Buffer, error) {
	return r.carve(types.TypeDocument)
}

// ReadRawArray carves the current array without decoding it.
func (r *Reader) ReadRawArray() (buffer.Buffer, error) {
	return r.carve(types.TypeArray)
}

func (r *Reader) carve(want types.BSONType) (buffer.Buffer, error) {
	if r.step != stepValue || r.typ != want {
		return nil, fmt.Errorf("carve %s (current %s): %w", want, r.typ, ErrState)
	}
	n, err := format.ContainerLen(r.data[:r.end], r.pos, r.maxSize)
	if err != nil {
		return nil, err
	}
	sub, err := r.src.Slice(r.pos, n)
	if err != nil {
		return nil, err
	}
	r.pos += n
	r.step = stepType
	return sub, nil
}

// ReadEndDocument consumes the container terminator.
func (r *Reader) ReadEndDocument() error {
	if r.step != stepEnd {
		return fmt.Errorf("ReadEndDocument: %w", ErrState)
	}
	if r.pos != r.end || r.data[r.pos] != format.Terminator {
		return fmt.Errorf("container end at %d: %w", r.pos, format.ErrUnterminated)
	}
	r.pos++
	r.step = stepDone
	return nil
}

// text validates or sanitizes UTF-8 and copies raw into a string.
func (r *Reader) text(raw []byte, off int) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	if !r.replaceUTF8 {
		return "", fmt.Errorf("string at %d: %w", off, format.ErrInvalidUTF8)
	}
	clean, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("sanitize string at %d: %w", off, err)
	}
	return string(clean), nil
}

func known(t types.BSONType) bool {
	return (t >= types.TypeDouble && t <= types.TypeDecimal128) ||
		t == types.TypeMinKey || t == types.TypeMaxKey
}
