package export

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteSnapshot writes col into a new SQLite database at path,
// replacing any file already there. List fields become child tables
// keyed by position.
func SQLiteSnapshot(ctx context.Context, path string, col Collection) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing old snapshot: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating snapshot schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertMovies(ctx, tx, col.Movies); err != nil {
		return fmt.Errorf("loading movies: %w", err)
	}
	if err := insertSessions(ctx, tx, col.Sessions); err != nil {
		return fmt.Errorf("loading sessions: %w", err)
	}
	if err := insertTickets(ctx, tx, col.Tickets); err != nil {
		return fmt.Errorf("loading tickets: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

func insertMovies(ctx context.Context, tx *sql.Tx, movies []types.Movie) error {
	movieStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO movies (id, title, director, duration_minutes, release_year, rating) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer movieStmt.Close()
	genreStmt, err := tx.PrepareContext(ctx, `INSERT INTO movie_genres (movie_id, position, genre) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer genreStmt.Close()

	for _, m := range movies {
		if _, err := movieStmt.ExecContext(ctx, m.ID, m.Title, m.Director, m.DurationMinutes, m.ReleaseYear, m.Rating); err != nil {
			return fmt.Errorf("movie %d: %w", m.ID, err)
		}
		for i, g := range m.Genres {
			if _, err := genreStmt.ExecContext(ctx, m.ID, i, g); err != nil {
				return fmt.Errorf("movie %d genre %d: %w", m.ID, i, err)
			}
		}
	}
	return nil
}

func insertSessions(ctx context.Context, tx *sql.Tx, sessions []types.Session) error {
	sessionStmt, err := tx.PrepareContext(ctx, `INSERT INTO sessions (id, movie_id, start_time, room) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer sessionStmt.Close()
	seatStmt, err := tx.PrepareContext(ctx, `INSERT INTO session_seats (session_id, position, seat) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer seatStmt.Close()

	for _, s := range sessions {
		if _, err := sessionStmt.ExecContext(ctx, s.ID, s.MovieID, types.FormatTimestamp(s.StartTime), s.Room); err != nil {
			return fmt.Errorf("session %d: %w", s.ID, err)
		}
		for i, seat := range s.AvailableSeats {
			if _, err := seatStmt.ExecContext(ctx, s.ID, i, seat); err != nil {
				return fmt.Errorf("session %d seat %d: %w", s.ID, i, err)
			}
		}
	}
	return nil
}

func insertTickets(ctx context.Context, tx *sql.Tx, tickets []types.Ticket) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tickets (id, session_id, client_name, seat, purchase_date, ticket_type, price) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range tickets {
		if _, err := stmt.ExecContext(ctx, t.ID, t.SessionID, t.ClientName, t.Seat, types.FormatTimestamp(t.PurchasedAt), t.Type, t.Price); err != nil {
			return fmt.Errorf("ticket %d: %w", t.ID, err)
		}
	}
	return nil
}
