// Package boxoffice holds release metadata for the boxoffice module.
package boxoffice

// Version is the release version of the boxoffice module and CLI.
const Version = "0.3.0"

// ModulePath is the Go module path.
const ModulePath = "github.com/mesh-intelligence/boxoffice"
