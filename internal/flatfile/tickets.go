package flatfile

import (
	"context"
	"iter"

	"github.com/mesh-intelligence/boxoffice/internal/integrity"
	"github.com/mesh-intelligence/boxoffice/internal/query"
	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

// TicketStore implements types.TicketStore. Every ticket must name an
// existing session. Nothing references tickets, so deletes are
// unconditional.
type TicketStore struct {
	*table[types.Ticket]
	sessions loader[types.Session]
}

var _ types.TicketStore = (*TicketStore)(nil)

// Create inserts t after resolving its session.
func (s *TicketStore) Create(ctx context.Context, t types.Ticket) (types.Ticket, error) {
	return s.create(ctx, t, s.resolve(t))
}

// Update replaces the ticket stored under id.
func (s *TicketStore) Update(ctx context.Context, id int, t types.Ticket) (types.Ticket, error) {
	return s.replace(ctx, id, t, s.resolve(t))
}

// Delete removes the ticket.
func (s *TicketStore) Delete(ctx context.Context, id int) error {
	return s.remove(ctx, id, nil, nil)
}

// Filter returns the tickets matching every set field of f.
func (s *TicketStore) Filter(ctx context.Context, f types.TicketFilter) (iter.Seq[types.Ticket], error) {
	return s.filter(ctx, query.Tickets(f))
}

func (s *TicketStore) resolve(t types.Ticket) func(context.Context) error {
	return func(ctx context.Context) error {
		sessions, err := snapshot(ctx, types.EntitySessions, s.sessions)
		if err != nil {
			return err
		}
		return integrity.TicketSession(t, sessions)
	}
}
