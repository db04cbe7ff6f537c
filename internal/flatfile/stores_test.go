package flatfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

var showtime = time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC)

func movie(id int) types.Movie {
	return types.Movie{
		ID:              id,
		Title:           fmt.Sprintf("Movie %d", id),
		Genres:          []string{"Drama"},
		Director:        "Director",
		DurationMinutes: 100,
		ReleaseYear:     2020,
		Rating:          types.Rating12,
	}
}

func session(id, movieID int) types.Session {
	return types.Session{ID: id, MovieID: movieID, StartTime: showtime, Room: "Sala 1", AvailableSeats: []string{"A1", "A2"}}
}

func ticket(id, sessionID int) types.Ticket {
	return types.Ticket{ID: id, SessionID: sessionID, ClientName: "Ana", Seat: "A1", PurchasedAt: showtime.Add(-time.Hour), Type: types.TicketStandard, Price: 30}
}

func TestStores_ReferentialScenario(t *testing.T) {
	b := newAttached(t)
	ctx := context.Background()

	_, err := b.Movies().Create(ctx, movie(1))
	require.NoError(t, err)
	_, err = b.Movies().Create(ctx, movie(2))
	require.NoError(t, err)

	_, err = b.Sessions().Create(ctx, session(10, 1))
	require.NoError(t, err)

	_, err = b.Sessions().Create(ctx, session(11, 99))
	require.ErrorIs(t, err, types.ErrUnresolvedReference)
	var rerr *types.RecordError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "movie_id", rerr.Field)

	_, err = b.Tickets().Create(ctx, ticket(100, 10))
	require.NoError(t, err)

	_, err = b.Tickets().Create(ctx, ticket(101, 77))
	require.ErrorIs(t, err, types.ErrUnresolvedReference)
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "session_id", rerr.Field)

	sessionsBefore := readStore(t, b, types.EntitySessions)
	ticketsBefore := readStore(t, b, types.EntityTickets)

	err = b.Sessions().Delete(ctx, 10)
	require.ErrorIs(t, err, types.ErrDependencyConflict)
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "100", rerr.Value)

	assert.Equal(t, sessionsBefore, readStore(t, b, types.EntitySessions), "rejected delete keeps sessions")
	assert.Equal(t, ticketsBefore, readStore(t, b, types.EntityTickets), "rejected delete keeps tickets")
	_, err = b.Sessions().Get(ctx, 10)
	require.NoError(t, err)
	_, err = b.Tickets().Get(ctx, 100)
	require.NoError(t, err)

	require.NoError(t, b.Tickets().Delete(ctx, 100))
	require.NoError(t, b.Sessions().Delete(ctx, 10))

	n, err := b.Sessions().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func readStore(t *testing.T, b *Backend, e types.Entity) string {
	t.Helper()
	data, err := os.ReadFile(b.Config().Path(e))
	require.NoError(t, err)
	return string(data)
}

func TestStores_MovieDeleteBlockedBySessions(t *testing.T) {
	b := newAttached(t)
	ctx := context.Background()

	_, err := b.Movies().Create(ctx, movie(1))
	require.NoError(t, err)
	_, err = b.Sessions().Create(ctx, session(10, 1))
	require.NoError(t, err)

	assert.ErrorIs(t, b.Movies().Delete(ctx, 1), types.ErrDependencyConflict)
	require.NoError(t, b.Sessions().Delete(ctx, 10))
	assert.NoError(t, b.Movies().Delete(ctx, 1))
}

func TestStores_CreateConflictLeavesFileUnchanged(t *testing.T) {
	b := newAttached(t)
	ctx := context.Background()

	_, err := b.Movies().Create(ctx, movie(1))
	require.NoError(t, err)
	before, err := os.ReadFile(b.Config().Path(types.EntityMovies))
	require.NoError(t, err)

	dup := movie(1)
	dup.Title = "Another"
	_, err = b.Movies().Create(ctx, dup)
	require.ErrorIs(t, err, types.ErrConflict)

	after, err := os.ReadFile(b.Config().Path(types.EntityMovies))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStores_InvalidRecordRejected(t *testing.T) {
	b := newAttached(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		movie     types.Movie
		wantField string
	}{
		{"zero id", func() types.Movie { m := movie(1); m.ID = 0; return m }(), "id"},
		{"empty title", func() types.Movie { m := movie(1); m.Title = ""; return m }(), "title"},
		{"unknown rating", func() types.Movie { m := movie(1); m.Rating = "21"; return m }(), "rating"},
		{"delimiter in title", func() types.Movie { m := movie(1); m.Title = "Hello, World"; return m }(), "title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Movies().Create(ctx, tt.movie)
			require.ErrorIs(t, err, types.ErrInvalidRecord)
			var rerr *types.RecordError
			require.True(t, errors.As(err, &rerr))
			assert.Equal(t, tt.wantField, rerr.Field)
		})
	}

	_, err := os.Stat(b.Config().Path(types.EntityMovies))
	assert.True(t, os.IsNotExist(err), "rejected creates never write")
}

func TestStores_Update(t *testing.T) {
	b := newAttached(t)
	ctx := context.Background()

	for _, id := range []int{1, 2, 3} {
		_, err := b.Movies().Create(ctx, movie(id))
		require.NoError(t, err)
	}
	_, err := b.Sessions().Create(ctx, session(10, 1))
	require.NoError(t, err)

	t.Run("replaces in place", func(t *testing.T) {
		m := movie(2)
		m.Title = "Renamed"
		_, err := b.Movies().Update(ctx, 2, m)
		require.NoError(t, err)

		all, err := b.Movies().List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "Renamed", all[1].Title, "file order is kept")
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := b.Movies().Update(ctx, 9, movie(9))
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("identifier mismatch", func(t *testing.T) {
		renamed := movie(4)
		renamed.Title = "Impostor"
		_, err := b.Movies().Update(ctx, 1, renamed)
		require.ErrorIs(t, err, types.ErrIdentifierMismatch)
		var rerr *types.RecordError
		require.True(t, errors.As(err, &rerr))
		assert.Equal(t, "id", rerr.Field)

		got, err := b.Movies().Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Movie 1", got.Title, "the original stays under its id")
		_, err = b.Movies().Get(ctx, 4)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("session moves to another movie", func(t *testing.T) {
		_, err := b.Sessions().Update(ctx, 10, session(10, 3))
		require.NoError(t, err)
		got, err := b.Sessions().Get(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, 3, got.MovieID)
	})

	t.Run("session reference must resolve", func(t *testing.T) {
		_, err := b.Sessions().Update(ctx, 10, session(10, 42))
		assert.ErrorIs(t, err, types.ErrUnresolvedReference)
	})

	t.Run("ticket reference must resolve", func(t *testing.T) {
		_, err := b.Tickets().Create(ctx, ticket(100, 10))
		require.NoError(t, err)

		_, err = b.Tickets().Update(ctx, 100, ticket(100, 42))
		require.ErrorIs(t, err, types.ErrUnresolvedReference)
		var rerr *types.RecordError
		require.True(t, errors.As(err, &rerr))
		assert.Equal(t, "session_id", rerr.Field)

		got, err := b.Tickets().Get(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, 10, got.SessionID)
	})
}

func TestStores_ReturnsStoredForm(t *testing.T) {
	b := newAttached(t)
	ctx := context.Background()

	m := movie(1)
	m.Genres = []string{}
	created, err := b.Movies().Create(ctx, m)
	require.NoError(t, err)
	got, err := b.Movies().Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, []string{}, got.Genres)

	bare := movie(2)
	bare.Genres = nil
	created, err = b.Movies().Create(ctx, bare)
	require.NoError(t, err)
	assert.Equal(t, []string{}, created.Genres, "nil and empty lists are one value")

	s := session(10, 1)
	s.AvailableSeats = nil
	s.StartTime = time.Date(2024, 5, 1, 16, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	createdSession, err := b.Sessions().Create(ctx, s)
	require.NoError(t, err)
	gotSession, err := b.Sessions().Get(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, createdSession, gotSession)
	assert.Equal(t, showtime, gotSession.StartTime)
	assert.Equal(t, []string{}, gotSession.AvailableSeats)

	s.Room = "Sala 2"
	updated, err := b.Sessions().Update(ctx, 10, s)
	require.NoError(t, err)
	gotSession, err = b.Sessions().Get(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, updated, gotSession)
}

func TestStores_GetAndDeleteMissing(t *testing.T) {
	b := newAttached(t)
	ctx := context.Background()

	_, err := b.Tickets().Get(ctx, 5)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, b.Tickets().Delete(ctx, 5), types.ErrNotFound)
}

func TestStores_MissingFileIsEmpty(t *testing.T) {
	b := newAttached(t)

	movies, err := b.Movies().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, movies)

	n, err := b.Tickets().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStores_CorruptFile(t *testing.T) {
	b := newAttached(t)
	path := b.Config().Path(types.EntityMovies)
	content := "id,title,genre,director,duration_minutes,release_year,rating\n" +
		"1,Fine,Drama,Dir,90,2000,12\n" +
		"2,Broken,Drama,Dir,ninety,2000,12\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := b.Movies().List(context.Background())
	require.ErrorIs(t, err, types.ErrCorruptStore)
	var perr *types.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Line)
	assert.Equal(t, "duration_minutes", perr.Field)

	_, err = b.Movies().Create(context.Background(), movie(3))
	assert.ErrorIs(t, err, types.ErrCorruptStore, "a corrupt file is never rewritten")
}

func TestStores_Filter(t *testing.T) {
	b := newAttached(t)
	ctx := context.Background()

	for _, id := range []int{1, 2, 3} {
		m := movie(id)
		if id == 2 {
			m.Genres = []string{"Comedy"}
		}
		_, err := b.Movies().Create(ctx, m)
		require.NoError(t, err)
	}

	genre := "drama"
	seq, err := b.Movies().Filter(ctx, types.MovieFilter{Genre: &genre})
	require.NoError(t, err)

	var ids []int
	for m := range seq {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []int{1, 3}, ids)
}

func TestStores_ConcurrentCreates(t *testing.T) {
	b := newAttached(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := b.Movies().Create(ctx, movie(id))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := b.Movies().List(ctx)
	require.NoError(t, err)
	ids := make([]int, 0, len(all))
	for _, m := range all {
		ids = append(ids, m.ID)
	}
	slices.Sort(ids)
	assert.Len(t, ids, n, "no create was lost")
	assert.Equal(t, 1, ids[0])
	assert.Equal(t, n, ids[n-1])
}

func TestStores_CustomLayout(t *testing.T) {
	b := newAttached(t, func(c *types.Config) {
		c.PrimaryDelimiter = "|"
		c.SecondaryDelimiter = ","
		c.SessionsFile = "screenings.txt"
	})
	ctx := context.Background()

	_, err := b.Movies().Create(ctx, movie(1))
	require.NoError(t, err)
	s := session(10, 1)
	s.Room = "Sala 1, upstairs"
	_, err = b.Sessions().Create(ctx, s)
	require.NoError(t, err)

	data, err := os.ReadFile(b.Config().Path(types.EntitySessions))
	require.NoError(t, err)
	assert.Equal(t, "id|movie_id|start_time|room|available_seats\n10|1|2024-05-01T19:30:00Z|Sala 1, upstairs|A1,A2\n", string(data))
}
