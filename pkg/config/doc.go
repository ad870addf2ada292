// Package config resolves savesvc's settings by layering defaults,
// an optional settings file, environment variables, and CLI flags.
package config
