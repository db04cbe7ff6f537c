package export

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boxoffice/internal/flatfile"
	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

var start = time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC)

func seeded(t *testing.T) (*flatfile.Backend, types.Config) {
	t.Helper()
	b := flatfile.NewBackend()
	require.NoError(t, b.Attach(types.Config{DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })

	ctx := context.Background()
	_, err := b.Movies().Create(ctx, types.Movie{ID: 1, Title: "Bacurau", Genres: []string{"Western", "Thriller"}, Director: "Kleber", DurationMinutes: 131, ReleaseYear: 2019, Rating: types.Rating16})
	require.NoError(t, err)
	_, err = b.Sessions().Create(ctx, types.Session{ID: 10, MovieID: 1, StartTime: start, Room: "Sala 1", AvailableSeats: []string{"A1", "A2", "A3"}})
	require.NoError(t, err)
	_, err = b.Tickets().Create(ctx, types.Ticket{ID: 100, SessionID: 10, ClientName: "Ana", Seat: "A1", PurchasedAt: start.Add(-time.Hour), Type: types.TicketHalfPrice, Price: 15.5})
	require.NoError(t, err)
	return b, b.Config()
}

func TestZip(t *testing.T) {
	_, cfg := seeded(t)
	missing := Source{Entity: types.EntityMovies, Path: filepath.Join(t.TempDir(), "absent.csv")}

	var buf bytes.Buffer
	require.NoError(t, Zip(&buf, append(Sources(cfg), missing)...))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"movies.csv", "sessions.csv", "tickets.csv"}, names, "missing files are skipped")

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	want, err := os.ReadFile(cfg.Path(types.EntitySessions))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.csv")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	sum, size, err := Digest(path)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sum)
	assert.Equal(t, int64(3), size)

	_, _, err = Digest(filepath.Join(t.TempDir(), "none"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestManifest(t *testing.T) {
	_, cfg := seeded(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600))

	m, err := NewManifest(now, Sources(cfg)...)
	require.NoError(t, err)

	id, err := uuid.Parse(m.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.Equal(t, now.UTC(), m.CreatedAt)
	require.Len(t, m.Files, 3)
	assert.Equal(t, types.EntityTickets, m.Files[2].Entity)
	assert.Len(t, m.Files[0].SHA256, 64)

	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, m))
	var decoded Manifest
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, m.ID, decoded.ID)
	assert.Equal(t, m.Files, decoded.Files)
}

func TestCollect(t *testing.T) {
	b, _ := seeded(t)

	col, err := Collect(context.Background(), b)
	require.NoError(t, err)
	assert.Len(t, col.Movies, 1)
	assert.Len(t, col.Sessions, 1)
	assert.Len(t, col.Tickets, 1)

	require.NoError(t, b.Detach())
	_, err = Collect(context.Background(), b)
	assert.ErrorIs(t, err, types.ErrBackendDetached)
}

func TestSQLiteSnapshot(t *testing.T) {
	b, _ := seeded(t)
	ctx := context.Background()
	col, err := Collect(ctx, b)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), SnapshotName)
	require.NoError(t, SQLiteSnapshot(ctx, path, col))
	require.NoError(t, SQLiteSnapshot(ctx, path, col), "an existing snapshot is replaced")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var title string
	var seats int
	require.NoError(t, db.QueryRow(`SELECT m.title, COUNT(ss.seat) FROM movies m
		JOIN sessions s ON s.movie_id = m.id
		JOIN session_seats ss ON ss.session_id = s.id
		GROUP BY m.id`).Scan(&title, &seats))
	assert.Equal(t, "Bacurau", title)
	assert.Equal(t, 3, seats)

	var price float64
	var purchased string
	require.NoError(t, db.QueryRow(`SELECT price, purchase_date FROM tickets WHERE id = 100`).Scan(&price, &purchased))
	assert.Equal(t, 15.5, price)
	assert.Equal(t, "2024-05-01T18:30:00Z", purchased)
}

func TestWrite(t *testing.T) {
	b, cfg := seeded(t)
	out := filepath.Join(t.TempDir(), "out")
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	m, err := Write(context.Background(), b, cfg, Options{OutDir: out, SQLite: true, Now: func() time.Time { return now }})
	require.NoError(t, err)
	assert.Equal(t, SnapshotName, m.Snapshot)

	for _, name := range []string{ArchiveName, ManifestName, SnapshotName} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(out, ManifestName))
	require.NoError(t, err)
	var decoded Manifest
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, m.ID, decoded.ID)
	assert.Equal(t, now, decoded.CreatedAt)
}
