// Package buffer provides immutable, reference-counted views over contiguous
// byte regions.
//
// # Overview
//
// A Buffer is a handle to a byte region that its holder must Release exactly
// once. Slice carves a zero-copy sub-view and Duplicate produces an
// independent handle over the same bytes; both retain the shared storage, so
// the storage's finalizer (for example unmapping a file) runs only when the
// last view is released, in whatever order the views are released.
//
//	root, _ := buffer.Map("dump.bson")
//	doc, _ := root.Slice(0, 64)   // shares storage, refs=2
//	_ = root.Release()            // refs=1, doc still valid
//	_ = doc.Release()             // refs=0, file unmapped
//
// # Ownership
//
// Each view is owned exclusively by whoever received it. Releasing a view
// twice returns ErrReleased; a released view reports nil Bytes.
//
// # Thread Safety
//
// The shared reference count is atomic, so views carved from one storage may
// be released from different goroutines. A single view is not safe for
// concurrent Release.
package buffer
