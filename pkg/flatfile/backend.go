// Package flatfile provides the public API for the flat-file Boxoffice
// backend. Implementation details stay in internal/flatfile.
package flatfile

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/boxoffice/internal/flatfile"
	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

// NewBackend creates a detached flat-file backend. Call Attach with a
// Config to point it at a data directory. A nil logger discards output.
//
// Example:
//
//	catalog := flatfile.NewBackend(nil)
//	err := catalog.Attach(types.Config{DataDir: ".boxoffice-data"})
//	defer catalog.Detach()
func NewBackend(logger *zap.Logger) types.Catalog {
	return flatfile.NewBackend(flatfile.WithLogger(logger))
}
