// Package flatfile implements the Boxoffice record stores over delimited
// text files. Each entity lives in one file under the data directory; the
// file is the only copy of the data and is rewritten whole on every
// mutation.
//
// Mutations of an entity are serialized by one lock per entity, taken in
// the order movies, sessions, tickets. Reads take no entity lock: files
// are replaced by rename, so a reader sees either the previous or the
// next version.
package flatfile

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/mesh-intelligence/boxoffice/internal/codec"
	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

// Backend implements types.Catalog over three flat files.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	logger   *zap.Logger

	locks map[types.Entity]*semaphore.Weighted

	movieFile   *recordFile[types.Movie]
	sessionFile *recordFile[types.Session]
	ticketFile  *recordFile[types.Ticket]

	movies   *MovieStore
	sessions *SessionStore
	tickets  *TicketStore
}

var _ types.Catalog = (*Backend)(nil)

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBackend creates a detached backend. Call Attach before use.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		logger:      zap.NewNop(),
		locks:       make(map[types.Entity]*semaphore.Weighted, len(types.Entities)),
		movieFile:   &recordFile[types.Movie]{},
		sessionFile: &recordFile[types.Session]{},
		ticketFile:  &recordFile[types.Ticket]{},
	}
	for _, opt := range opts {
		opt(b)
	}
	for _, e := range types.Entities {
		b.locks[e] = semaphore.NewWeighted(1)
	}

	b.movies = &MovieStore{
		table:    newTable(b, types.EntityMovies, b.movieFile, types.ValidateMovie),
		sessions: b.sessionFile,
	}
	b.sessions = &SessionStore{
		table:   newTable(b, types.EntitySessions, b.sessionFile, types.ValidateSession),
		movies:  b.movieFile,
		tickets: b.ticketFile,
	}
	b.tickets = &TicketStore{
		table:    newTable(b, types.EntityTickets, b.ticketFile, types.ValidateTicket),
		sessions: b.sessionFile,
	}
	return b
}

// Attach validates config, creates the data directory if needed, and
// points the stores at their files. The backing files themselves are not
// created; a missing file reads as an empty collection.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	config = config.WithDefaults()

	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	delims := codec.DelimitersFrom(config)
	b.movieFile.configure(config.Path(types.EntityMovies), codec.NewMovieCodec(delims))
	b.sessionFile.configure(config.Path(types.EntitySessions), codec.NewSessionCodec(delims))
	b.ticketFile.configure(config.Path(types.EntityTickets), codec.NewTicketCodec(delims))

	b.config = config
	b.attached = true

	b.logger.Info("backend attached",
		zap.String("data_dir", config.DataDir),
		zap.Duration("op_timeout", config.OpTimeout),
	)
	return nil
}

// Detach waits for in-flight operations and detaches. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	b.logger.Info("backend detached", zap.String("data_dir", b.config.DataDir))
	return nil
}

// Config returns the effective configuration, with defaults applied.
func (b *Backend) Config() types.Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config
}

// Movies returns the movie store.
func (b *Backend) Movies() types.MovieStore { return b.movies }

// Sessions returns the session store.
func (b *Backend) Sessions() types.SessionStore { return b.sessions }

// Tickets returns the ticket store.
func (b *Backend) Tickets() types.TicketStore { return b.tickets }

// Initialize writes a header-only file for every entity whose backing
// file does not exist yet. Existing files are left alone.
func (b *Backend) Initialize(ctx context.Context) error {
	ctx, done, err := b.enter(ctx)
	if err != nil {
		return err
	}
	defer done()

	release, err := b.acquire(ctx, types.Entities...)
	if err != nil {
		return err
	}
	defer release()

	inits := []struct {
		entity types.Entity
		exists func() (bool, error)
		create func() error
	}{
		{types.EntityMovies, b.movieFile.exists, func() error { return b.movieFile.write(nil) }},
		{types.EntitySessions, b.sessionFile.exists, func() error { return b.sessionFile.write(nil) }},
		{types.EntityTickets, b.ticketFile.exists, func() error { return b.ticketFile.write(nil) }},
	}
	for _, in := range inits {
		ok, err := in.exists()
		if err != nil {
			return fmt.Errorf("checking %s file: %w", in.entity, err)
		}
		if ok {
			continue
		}
		if err := in.create(); err != nil {
			return fmt.Errorf("creating %s file: %w", in.entity, err)
		}
		b.logger.Info("store initialized", zap.String("entity", string(in.entity)))
	}
	return nil
}

// enter starts an operation: it holds the backend read lock until done is
// called and bounds the operation by the configured timeout.
func (b *Backend) enter(ctx context.Context) (context.Context, func(), error) {
	b.mu.RLock()
	if !b.attached {
		b.mu.RUnlock()
		return nil, nil, types.ErrBackendDetached
	}
	ctx, cancel := context.WithTimeout(ctx, b.config.OpTimeout)
	return ctx, func() {
		cancel()
		b.mu.RUnlock()
	}, nil
}

// acquire takes the writer locks for entities in lock order. The returned
// function releases them in reverse order.
func (b *Backend) acquire(ctx context.Context, entities ...types.Entity) (func(), error) {
	ordered := slices.Clone(entities)
	slices.SortFunc(ordered, func(x, y types.Entity) int { return cmp.Compare(x.Order(), y.Order()) })
	ordered = slices.Compact(ordered)

	var held []*semaphore.Weighted
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Release(1)
		}
	}
	for _, e := range ordered {
		sem, ok := b.locks[e]
		if !ok {
			release()
			return nil, fmt.Errorf("%w: %q", types.ErrUnknownEntity, e)
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			release()
			return nil, contextError("lock "+string(e), err)
		}
		held = append(held, sem)
	}
	return release, nil
}

// contextError maps an expired deadline to ErrTimeout. Cancellation is
// returned as is.
func contextError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, types.ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
