// Package store provides the decoded-field containers behind lazy documents
// and arrays.
//
// Fields keeps name/value pairs in insertion order with first-match lookup;
// List keeps positional values. Both are plain in-memory structures with no
// knowledge of the encoding: the lazy layer bulk-inserts into them once and
// delegates every later operation.
//
// Neither type is safe for concurrent mutation.
package store
