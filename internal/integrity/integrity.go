// Package integrity holds the referential checks run before a record
// store commits a mutation. Every check is a pure function of the
// candidate and a snapshot of the collections it depends on.
package integrity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

// maxListed caps how many dependent IDs an error message names.
const maxListed = 5

// Unique fails with ErrConflict when id is already taken in records.
func Unique[T interface{ RecordID() int }](e types.Entity, id int, records []T) error {
	for _, r := range records {
		if r.RecordID() == id {
			return &types.RecordError{Entity: e, ID: id, Err: types.ErrConflict}
		}
	}
	return nil
}

// SessionMovie fails with ErrUnresolvedReference when the session's movie
// is not in movies.
func SessionMovie(s types.Session, movies []types.Movie) error {
	for _, m := range movies {
		if m.ID == s.MovieID {
			return nil
		}
	}
	return &types.RecordError{
		Entity: types.EntitySessions,
		ID:     s.ID,
		Field:  "movie_id",
		Value:  strconv.Itoa(s.MovieID),
		Err:    types.ErrUnresolvedReference,
	}
}

// TicketSession fails with ErrUnresolvedReference when the ticket's
// session is not in sessions.
func TicketSession(t types.Ticket, sessions []types.Session) error {
	for _, s := range sessions {
		if s.ID == t.SessionID {
			return nil
		}
	}
	return &types.RecordError{
		Entity: types.EntityTickets,
		ID:     t.ID,
		Field:  "session_id",
		Value:  strconv.Itoa(t.SessionID),
		Err:    types.ErrUnresolvedReference,
	}
}

// SessionDeletable fails with ErrDependencyConflict while any ticket
// references the session.
func SessionDeletable(id int, tickets []types.Ticket) error {
	var deps []int
	for _, t := range tickets {
		if t.SessionID == id {
			deps = append(deps, t.ID)
		}
	}
	return dependents(types.EntitySessions, id, types.EntityTickets, deps)
}

// MovieDeletable fails with ErrDependencyConflict while any session
// screens the movie.
func MovieDeletable(id int, sessions []types.Session) error {
	var deps []int
	for _, s := range sessions {
		if s.MovieID == id {
			deps = append(deps, s.ID)
		}
	}
	return dependents(types.EntityMovies, id, types.EntitySessions, deps)
}

func dependents(e types.Entity, id int, dep types.Entity, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	listed := make([]string, 0, maxListed)
	for _, d := range ids[:min(len(ids), maxListed)] {
		listed = append(listed, strconv.Itoa(d))
	}
	value := strings.Join(listed, " ")
	if len(ids) > maxListed {
		value += fmt.Sprintf(" and %d more", len(ids)-maxListed)
	}
	return &types.RecordError{
		Entity: e,
		ID:     id,
		Field:  string(dep),
		Value:  value,
		Err:    types.ErrDependencyConflict,
	}
}
