// Package registry defines the variable registry interface savesvc
// consumes: name resolution, modified-event subscription, blocking
// event delivery, and dirty-set enumeration.
//
// The Memory type is a complete in-process implementation used by
// tests and by the embedded deployment mode.
package registry
