// Package filesystem provides filesystem implementations for savesvc.
//
// This package contains implementations of the types.FS interface:
// the standard OS filesystem used in production, and an afero-backed
// one used by tests.
package filesystem
