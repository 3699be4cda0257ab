// Package filesystem provides filesystem implementations for aitk.
//
// This package contains implementations of the types.FS interface: the
// standard OS filesystem, a read-only view of it used for dry runs, and an
// afero-backed filesystem for tests that only touch regular files.
package filesystem
