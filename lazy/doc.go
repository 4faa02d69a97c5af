// Package lazy provides Document and Array, handles over encoded containers
// that decode on first touch.
//
// A handle starts unmaterialized, holding only its buffer.Buffer. The first
// method that observes or mutates fields decodes exactly one nesting level
// into a store: scalars are decoded immediately, nested documents and arrays
// are carved as zero-copy sub-buffers and wrapped in child handles that stay
// unmaterialized until they are touched themselves.
//
// # Ownership
//
// A handle owns its buffer until materialization succeeds, and owns every
// child handle it created for the rest of its life. Close releases the buffer
// (if still held) and closes every child, depth first. Values a caller adds
// through the mutation methods stay owned by the caller.
//
// # Failure
//
// Malformed bytes fail with types.ErrMalformed and leave the handle as it was;
// child handles carved before the error are closed again. A store that
// rejects the decoded fields fails with types.ErrCommit; the store is cleared
// on a best-effort basis and the handle returns to the unmaterialized state,
// so the next access decodes again from scratch. Children carved for a
// rejected commit may already sit in the store, so they stay in the arena
// until Close and every retry adds a fresh set. If the clear itself fails the
// store can keep a prefix of the rejected fields.
//
// Access to a handle while it is materializing (a store calling back into
// its owner) fails with types.ErrState. Only Close makes an operation fail
// with types.ErrDisposed.
//
// # Concurrency
//
// Handles do no locking. Concurrent first access to one unmaterialized handle
// is undefined and must be serialized by the caller.
//
// Example:
//
//	doc, err := lazy.NewDocumentFromBytes(raw)
//	if err != nil {
//	    return err
//	}
//	defer doc.Close()
//
//	v, err := doc.Path("user.address.city")
package lazy
