package flatfile

import (
	"context"
	"iter"

	"github.com/mesh-intelligence/boxoffice/internal/integrity"
	"github.com/mesh-intelligence/boxoffice/internal/query"
	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

// MovieStore implements types.MovieStore.
type MovieStore struct {
	*table[types.Movie]
	sessions loader[types.Session]
}

var _ types.MovieStore = (*MovieStore)(nil)

// Create inserts m.
func (s *MovieStore) Create(ctx context.Context, m types.Movie) (types.Movie, error) {
	return s.create(ctx, m, nil)
}

// Update replaces the movie stored under id with m.
func (s *MovieStore) Update(ctx context.Context, id int, m types.Movie) (types.Movie, error) {
	return s.replace(ctx, id, m, nil)
}

// Delete removes the movie unless a session still screens it. The session
// lock is held so that no session can be created for the movie meanwhile.
func (s *MovieStore) Delete(ctx context.Context, id int) error {
	return s.remove(ctx, id, []types.Entity{types.EntitySessions}, func(ctx context.Context) error {
		sessions, err := snapshot(ctx, types.EntitySessions, s.sessions)
		if err != nil {
			return err
		}
		return integrity.MovieDeletable(id, sessions)
	})
}

// Filter returns the movies matching every set field of f.
func (s *MovieStore) Filter(ctx context.Context, f types.MovieFilter) (iter.Seq[types.Movie], error) {
	return s.filter(ctx, query.Movies(f))
}
