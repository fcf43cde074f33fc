// Package version holds the build version, overridable with
// -ldflags "-X github.com/vnykmshr/great-appender/internal/version.Version=...".
package version

// Version is the released version of great-appender.
var Version = "1.0.0"
