package types

// ============================================================================
// Format Limits
// ============================================================================

const (
	// MinDocumentSize is the smallest well-formed container: a 4-byte length
	// prefix followed by the terminating 0x00.
	MinDocumentSize = 5

	// DefaultMaxDocumentSize mirrors the 16 MiB document limit servers enforce.
	DefaultMaxDocumentSize = 16 << 20 // 16,777,216 bytes

	// MaxDocumentSizeAbsolute bounds the configurable limit to what an int32
	// length prefix can express.
	MaxDocumentSizeAbsolute = 1<<31 - 1
)
