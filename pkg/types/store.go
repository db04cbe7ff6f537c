package types

import (
	"context"
	"iter"
)

// Store provides the record operations for a single entity. R is the
// record type and F its closed filter set. Every call reloads the backing
// file; there is no cache.
type Store[R any, F any] interface {
	// List returns the whole collection in file order. A missing backing
	// file is an empty collection.
	List(ctx context.Context) ([]R, error)

	// Get returns the record with the given ID or ErrNotFound.
	Get(ctx context.Context, id int) (R, error)

	// Create inserts a new record and rewrites the backing file. It fails
	// with ErrConflict on a duplicate ID and ErrUnresolvedReference when a
	// foreign key does not resolve.
	Create(ctx context.Context, record R) (R, error)

	// Update replaces the record stored under id. It fails with
	// ErrNotFound, ErrIdentifierMismatch when record carries a different
	// ID, and ErrUnresolvedReference when a foreign key does not resolve.
	Update(ctx context.Context, id int, record R) (R, error)

	// Delete removes the record. It fails with ErrNotFound, or
	// ErrDependencyConflict while other records still reference it.
	Delete(ctx context.Context, id int) error

	// Filter returns the records matching every present predicate of f,
	// in file order. The sequence is evaluated lazily over a snapshot
	// taken during the call.
	Filter(ctx context.Context, f F) (iter.Seq[R], error)

	// Count returns the number of records in the collection.
	Count(ctx context.Context) (int, error)
}

// Entity store types.
type (
	MovieStore   = Store[Movie, MovieFilter]
	SessionStore = Store[Session, SessionFilter]
	TicketStore  = Store[Ticket, TicketFilter]
)

// Catalog attaches to a data directory and hands out the three entity
// stores. Stores obtained before Detach return ErrBackendDetached
// afterwards.
type Catalog interface {
	// Attach validates config and prepares the data directory.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases the backend. Idempotent.
	Detach() error

	Movies() MovieStore
	Sessions() SessionStore
	Tickets() TicketStore
}
