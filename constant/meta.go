// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Vigil is the canonical application identifier used for filesystem paths and CLI branding.
	Vigil = "vigil"

	// Version is the current application semantic version string.
	Version = "0.1.0"
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  string
	BuiltBy  string
	Revision string
)
