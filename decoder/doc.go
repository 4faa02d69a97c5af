// Package decoder implements a linear cursor over one encoded container.
//
// # Overview
//
// Reader walks exactly one nesting level at a time:
//
//	r := decoder.New(b, types.DefaultOptions())
//	if err := r.ReadStartDocument(); err != nil {
//	    return err
//	}
//	for {
//	    t, err := r.ReadType()
//	    if err != nil {
//	        return err
//	    }
//	    if t == types.TypeEndOfDocument {
//	        break
//	    }
//	    name, _ := r.ReadName()
//	    if t.IsContainer() {
//	        sub, _ := r.ReadRawDocument() // carved, not decoded
//	        ...
//	        continue
//	    }
//	    v, _ := r.ReadValue()
//	}
//	return r.ReadEndDocument()
//
// Nested containers are never descended into: ReadRawDocument and
// ReadRawArray validate the nested length prefix and terminator and return a
// zero-copy buffer.Buffer slice over exactly those bytes.
//
// # Error Handling
//
// Every failure wraps one of the internal format sentinels (truncated, bad
// length, missing terminator, unknown type, invalid UTF-8) with the offset
// where it was detected. The Reader never modifies or releases the buffer it
// reads from.
package decoder
