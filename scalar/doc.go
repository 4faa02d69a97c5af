// Package scalar holds decoded non-container element values.
//
// A Value is a small tagged struct: the BSON type plus whichever payload the
// type needs. Values never alias the encoded bytes they were decoded from, so
// they stay valid after the source buffer is released or unmapped.
package scalar
