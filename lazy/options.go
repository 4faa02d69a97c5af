package lazy

import (
	"log/slog"

	"github.com/joshuapare/bsonkit/buffer"
	"github.com/joshuapare/bsonkit/decoder"
	"github.com/joshuapare/bsonkit/pkg/types"
	"github.com/joshuapare/bsonkit/scalar"
	"github.com/joshuapare/bsonkit/store"
)

// StreamDecoder is the cursor materialization drives over one container.
// *decoder.Reader is the default implementation.
type StreamDecoder interface {
	ReadStartDocument() error
	// ReadType returns types.TypeEndOfDocument at the container end.
	ReadType() (types.BSONType, error)
	ReadName() (string, error)
	SkipName() error
	ReadValue() (scalar.Value, error)
	// ReadRawDocument and ReadRawArray carve the current nested container
	// without decoding it. The caller owns the returned view.
	ReadRawDocument() (buffer.Buffer, error)
	ReadRawArray() (buffer.Buffer, error)
	ReadEndDocument() error
}

// DecoderFunc opens a StreamDecoder over b. It must not release b.
type DecoderFunc func(b buffer.Buffer, opts types.Options) StreamDecoder

var _ StreamDecoder = (*decoder.Reader)(nil)

func defaultDecoder(b buffer.Buffer, opts types.Options) StreamDecoder {
	return decoder.New(b, opts)
}

// config is shared, read-only, by a handle, its children and its clones.
type config struct {
	opts      types.Options
	log       *slog.Logger
	decoder   DecoderFunc
	newFields func(allowDup bool) store.Fields[Value]
	newList   func() store.List[Value]
	stats     *Stats
}

// Option configures a Document or Array.
type Option func(*config)

// WithOptions replaces the decoding options, Logger included.
func WithOptions(o types.Options) Option {
	return func(c *config) { c.opts = o }
}

// WithLogger sets the logger for materialize, clone and close events.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.opts.Logger = l }
}

// WithDecoder replaces the stream decoder.
func WithDecoder(f DecoderFunc) Option {
	return func(c *config) {
		if f != nil {
			c.decoder = f
		}
	}
}

// WithFieldStore replaces the store documents materialize into. allowDup is
// types.Options.AllowDuplicateNames.
func WithFieldStore(f func(allowDup bool) store.Fields[Value]) Option {
	return func(c *config) {
		if f != nil {
			c.newFields = f
		}
	}
}

// WithListStore replaces the store arrays materialize into.
func WithListStore(f func() store.List[Value]) Option {
	return func(c *config) {
		if f != nil {
			c.newList = f
		}
	}
}

// WithStats records lifecycle counters into s. One Stats may be shared by
// any number of handles.
func WithStats(s *Stats) Option {
	return func(c *config) { c.stats = s }
}

func newConfig(opts []Option) *config {
	c := &config{
		opts:    types.DefaultOptions(),
		decoder: defaultDecoder,
		newFields: func(allowDup bool) store.Fields[Value] {
			return store.NewOrdered[Value](allowDup)
		},
		newList: func() store.List[Value] {
			return store.NewSlice[Value]()
		},
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.opts.EffectiveLogger()
	return c
}
