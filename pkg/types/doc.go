// Package types holds the interfaces shared across savesvc packages.
//
// Keeping the FS abstraction here (rather than in pkg/filesystem)
// avoids import cycles between the core save logic and the
// filesystem implementations.
package types
