// Package save implements the core of savesvc: the trigger-loop
// service, the dirty-entry serializer, and the crash-safe commit
// writer. The persisted format is the flat "@config" file consumed
// by the loadconfig utility.
package save
