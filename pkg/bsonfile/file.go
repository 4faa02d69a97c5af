package bsonfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/klauspost/compress/zstd"

	"github.com/joshuapare/bsonkit/buffer"
	"github.com/joshuapare/bsonkit/internal/format"
	"github.com/joshuapare/bsonkit/lazy"
	"github.com/joshuapare/bsonkit/pkg/types"
)

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// DefaultMaxDecompressedSize caps the memory a compressed dump may inflate to.
const DefaultMaxDecompressedSize = 1 << 32

// compactEvery is how many handed-out documents accumulate before closed ones
// are dropped from tracking.
const compactEvery = 256

// OpenOptions controls how a dump file is opened and how its documents decode.
type OpenOptions struct {
	// Options apply to every document handed out. Zero value: types.DefaultOptions().
	Options types.Options

	// Lazy options are applied after Options (decoder, stores, stats).
	Lazy []lazy.Option

	// MaxDecompressedSize bounds zstd output. Zero selects DefaultMaxDecompressedSize.
	MaxDecompressedSize uint64
}

// File is a cursor over the documents of one dump file.
type File struct {
	buf        buffer.Buffer
	data       []byte
	off        int
	maxDoc     int
	lazyOpts   []lazy.Option
	log        *slog.Logger
	docs       []*lazy.Document
	count      int
	compressed bool
	closed     bool
}

// Open maps path and returns a File positioned before the first document.
func Open(path string, opts *OpenOptions) (*File, error) {
	b, err := buffer.Map(path)
	if err != nil {
		return nil, fmt.Errorf("bsonfile: open %s: %w", path, err)
	}
	return newFile(b, opts)
}

// FromBytes returns a File over data, which must not be modified while the
// File or any of its documents is open.
func FromBytes(data []byte, opts *OpenOptions) (*File, error) {
	if data == nil {
		return nil, types.Wrap(types.ErrKindArgument, "bsonfile: nil data", nil)
	}
	return newFile(buffer.New(data), opts)
}

func newFile(b buffer.Buffer, opts *OpenOptions) (*File, error) {
	o := OpenOptions{Options: types.DefaultOptions()}
	if opts != nil {
		o = *opts
	}

	f := &File{
		maxDoc:   o.Options.EffectiveMaxDocumentSize(),
		lazyOpts: append([]lazy.Option{lazy.WithOptions(o.Options)}, o.Lazy...),
		log:      o.Options.EffectiveLogger(),
	}

	if bytes.HasPrefix(b.Bytes(), zstdMagic) {
		raw, err := inflate(b.Bytes(), o.MaxDecompressedSize)
		relErr := b.Release()
		if err != nil {
			return nil, errors.Join(err, relErr)
		}
		if relErr != nil {
			f.log.Warn("bsonfile: release compressed input", "error", relErr)
		}
		b = buffer.New(raw)
		f.compressed = true
	}

	f.buf = b
	f.data = b.Bytes()
	f.log.Debug("bsonfile: opened", "bytes", len(f.data), "compressed", f.compressed)
	return f, nil
}

func inflate(src []byte, limit uint64) ([]byte, error) {
	if limit == 0 {
		limit = DefaultMaxDecompressedSize
	}
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("bsonfile: zstd reader: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(src, nil)
	if err != nil {
		return nil, types.Wrap(types.ErrKindFormat, "bsonfile: zstd decode", err)
	}
	return out, nil
}

// Next returns the next document, or io.EOF after the last one. The
// document is unmaterialized; it is closed by File.Close unless the caller
// closes it first.
func (f *File) Next() (*lazy.Document, error) {
	if f.closed {
		return nil, types.ErrDisposed
	}
	if f.off >= len(f.data) {
		return nil, io.EOF
	}
	n, err := format.ContainerLen(f.data, f.off, f.maxDoc)
	if err != nil {
		return nil, types.Wrap(types.ErrKindFormat, fmt.Sprintf("bsonfile: document %d at offset %d", f.count, f.off), err)
	}
	sub, err := f.buf.Slice(f.off, n)
	if err != nil {
		return nil, err
	}
	doc, err := lazy.NewDocument(sub, f.lazyOpts...)
	if err != nil {
		return nil, errors.Join(err, sub.Release())
	}
	f.off += n
	f.count++
	f.track(doc)
	return doc, nil
}

func (f *File) track(doc *lazy.Document) {
	if len(f.docs) >= compactEvery {
		open := f.docs[:0]
		for _, d := range f.docs {
			if !d.IsClosed() {
				open = append(open, d)
			}
		}
		clear(f.docs[len(open):])
		f.docs = open
	}
	f.docs = append(f.docs, doc)
}

// Offset returns the byte offset of the next document.
func (f *File) Offset() int { return f.off }

// Count returns the number of documents handed out so far.
func (f *File) Count() int { return f.count }

// Size returns the length of the (decompressed) document stream.
func (f *File) Size() int { return len(f.data) }

// Compressed reports whether the file was zstd-compressed.
func (f *File) Compressed() bool { return f.compressed }

// Close closes every document still open and releases the backing buffer.
// Later calls return nil.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	var errs []error
	for _, d := range f.docs {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	f.docs = nil
	if err := f.buf.Release(); err != nil {
		errs = append(errs, fmt.Errorf("bsonfile: release: %w", err))
	}
	f.data = nil
	f.log.Debug("bsonfile: closed", "documents", f.count)
	return errors.Join(errs...)
}
