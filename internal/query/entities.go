package query

import (
	"time"

	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

// Movies returns the predicates for a movie filter.
func Movies(f types.MovieFilter) []Predicate[types.Movie] {
	return []Predicate[types.Movie]{
		Equal(func(m types.Movie) int { return m.ID }, f.ID),
		ContainsFold(func(m types.Movie) string { return m.Title }, f.Title),
		AnyEqualFold(func(m types.Movie) []string { return m.Genres }, f.Genre),
		ContainsFold(func(m types.Movie) string { return m.Director }, f.Director),
		Range(func(m types.Movie) int { return m.DurationMinutes }, f.MinDuration, f.MaxDuration),
		Equal(func(m types.Movie) int { return m.ReleaseYear }, f.ReleaseYear),
		Equal(func(m types.Movie) string { return m.Rating }, f.Rating),
	}
}

// Sessions returns the predicates for a session filter.
func Sessions(f types.SessionFilter) []Predicate[types.Session] {
	return []Predicate[types.Session]{
		Equal(func(s types.Session) int { return s.ID }, f.ID),
		Equal(func(s types.Session) int { return s.MovieID }, f.MovieID),
		Equal(func(s types.Session) string { return s.Room }, f.Room),
		TimeRange(func(s types.Session) time.Time { return s.StartTime }, f.StartFrom, f.StartTo),
		AnyEqual(func(s types.Session) []string { return s.AvailableSeats }, f.Seat),
	}
}

// Tickets returns the predicates for a ticket filter.
func Tickets(f types.TicketFilter) []Predicate[types.Ticket] {
	return []Predicate[types.Ticket]{
		Equal(func(t types.Ticket) int { return t.ID }, f.ID),
		Equal(func(t types.Ticket) int { return t.SessionID }, f.SessionID),
		ContainsFold(func(t types.Ticket) string { return t.ClientName }, f.ClientName),
		Equal(func(t types.Ticket) string { return t.Seat }, f.Seat),
		TimeRange(func(t types.Ticket) time.Time { return t.PurchasedAt }, f.PurchasedFrom, f.PurchasedTo),
		Equal(func(t types.Ticket) string { return t.Type }, f.Type),
		Range(func(t types.Ticket) float64 { return t.Price }, f.MinPrice, f.MaxPrice),
	}
}
