// Package types holds the stable, dependency-free vocabulary shared by the
// bsonkit packages: typed errors with programmatic categories, the BSON
// element type enumeration, decoding options and format limits.
//
// Design goals:
//   - Typed errors with stable categories (argument/state/format/commit/...).
//   - Errors compare by category with errors.Is, so wrapped causes survive.
//   - Never panic on malformed input; callers branch on ErrKind instead.
//
// This package has no dependencies beyond the standard library.
package types
