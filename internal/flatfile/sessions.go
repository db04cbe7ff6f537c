package flatfile

import (
	"context"
	"iter"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/boxoffice/internal/integrity"
	"github.com/mesh-intelligence/boxoffice/internal/query"
	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

// SessionStore implements types.SessionStore. Every session must name an
// existing movie.
type SessionStore struct {
	*table[types.Session]
	movies  loader[types.Movie]
	tickets loader[types.Ticket]
}

var _ types.SessionStore = (*SessionStore)(nil)

// Create inserts sess after resolving its movie.
func (s *SessionStore) Create(ctx context.Context, sess types.Session) (types.Session, error) {
	return s.create(ctx, sess, s.resolve(sess))
}

// Update replaces the session stored under id. The movie reference may
// change as long as it resolves.
func (s *SessionStore) Update(ctx context.Context, id int, sess types.Session) (types.Session, error) {
	return s.replace(ctx, id, sess, s.resolve(sess))
}

// Delete removes the session unless a ticket still references it.
func (s *SessionStore) Delete(ctx context.Context, id int) error {
	return s.remove(ctx, id, []types.Entity{types.EntityTickets}, func(ctx context.Context) error {
		tickets, err := snapshot(ctx, types.EntityTickets, s.tickets)
		if err != nil {
			return err
		}
		return integrity.SessionDeletable(id, tickets)
	})
}

// Filter returns the sessions matching every set field of f.
func (s *SessionStore) Filter(ctx context.Context, f types.SessionFilter) (iter.Seq[types.Session], error) {
	return s.filter(ctx, query.Sessions(f))
}

func (s *SessionStore) resolve(sess types.Session) func(context.Context) error {
	return func(ctx context.Context) error {
		movies, err := snapshot(ctx, types.EntityMovies, s.movies)
		if err != nil {
			return err
		}
		if err := integrity.SessionMovie(sess, movies); err != nil {
			return err
		}
		if dups := sess.DuplicateSeats(); len(dups) > 0 {
			s.b.logger.Warn("session lists seats more than once",
				zap.Int("session_id", sess.ID),
				zap.Strings("seats", dups),
			)
		}
		return nil
	}
}
