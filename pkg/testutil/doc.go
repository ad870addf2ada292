// Package testutil provides shared helpers for savesvc tests:
// in-memory filesystems and small file assertion utilities.
package testutil
