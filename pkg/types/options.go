package types

import (
	"io"
	"log/slog"
)

// Options controls decoding and commit behavior of lazy containers.
//
// Use DefaultOptions() for production-ready defaults.
type Options struct {
	// MaxDocumentSize guards against absurd/malicious length prefixes.
	// Containers declaring a larger length are malformed.
	// Zero selects DefaultMaxDocumentSize.
	MaxDocumentSize int

	// ReplaceInvalidUTF8 sanitizes string values containing invalid UTF-8,
	// substituting U+FFFD. When false such strings are malformed.
	ReplaceInvalidUTF8 bool

	// AllowDuplicateNames lets a document hold the same field name more than
	// once. When false, a duplicate name fails the commit.
	AllowDuplicateNames bool

	// Logger receives debug events (materialize, clone, close) and warnings
	// (failed rollback cleanup). Nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns the default decoding options.
func DefaultOptions() Options {
	return Options{
		MaxDocumentSize: DefaultMaxDocumentSize,
	}
}

// EffectiveMaxDocumentSize resolves the zero value and clamps to the
// absolute limit.
func (o Options) EffectiveMaxDocumentSize() int {
	switch {
	case o.MaxDocumentSize <= 0:
		return DefaultMaxDocumentSize
	case o.MaxDocumentSize > MaxDocumentSizeAbsolute:
		return MaxDocumentSizeAbsolute
	default:
		return o.MaxDocumentSize
	}
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// EffectiveLogger returns Logger, or a logger that discards all output.
func (o Options) EffectiveLogger() *slog.Logger {
	if o.Logger == nil {
		return discardLogger
	}
	return o.Logger
}
