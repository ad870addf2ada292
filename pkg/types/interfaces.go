package types

import "io/fs"

// File is a writable file handle returned by FS.OpenFile.
// The commit writer streams serialized entries through it.
type File interface {
	Write(p []byte) (n int, err error)
	Close() error
}

// FS defines the filesystem operations used by savesvc.
// It exists so the commit writer can run against the real OS
// filesystem in production and an in-memory one in tests.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	OpenFile(name string, flag int, perm fs.FileMode) (File, error)

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error

	// Other operations
	Remove(name string) error
	Rename(oldpath, newpath string) error
}
