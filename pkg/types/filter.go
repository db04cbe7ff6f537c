package types

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
)

// MovieFilter selects movies. Nil fields place no constraint. Text
// matches are case-insensitive; Genre matches one element of Genres.
type MovieFilter struct {
	ID          *int
	Title       *string // substring
	Genre       *string // membership
	Director    *string // substring
	MinDuration *int
	MaxDuration *int
	ReleaseYear *int
	Rating      *string // exact
}

// SessionFilter selects sessions. Seat matches an element of
// AvailableSeats verbatim; StartFrom and StartTo are inclusive.
type SessionFilter struct {
	ID        *int
	MovieID   *int
	Room      *string // exact
	StartFrom *time.Time
	StartTo   *time.Time
	Seat      *string
}

// TicketFilter selects tickets. Price and purchase bounds are inclusive.
type TicketFilter struct {
	ID            *int
	SessionID     *int
	ClientName    *string // substring, case-insensitive
	Seat          *string // exact
	PurchasedFrom *time.Time
	PurchasedTo   *time.Time
	Type          *string // exact
	MinPrice      *float64
	MaxPrice      *float64
}

// Filter keys accepted by the Parse functions.
var (
	MovieFilterFields   = []string{"id", "title", "genre", "director", "min_duration", "max_duration", "release_year", "rating"}
	SessionFilterFields = []string{"id", "movie_id", "room", "start_from", "start_to", "seat"}
	TicketFilterFields  = []string{"id", "session_id", "client_name", "seat", "purchased_from", "purchased_to", "ticket_type", "min_price", "max_price"}
)

// ParseMovieFilter builds a MovieFilter from key=value parameters, such as
// CLI arguments or a query string. Unknown keys yield an
// InvalidFilterFieldError; malformed values wrap ErrInvalidFilterValue.
func ParseMovieFilter(params map[string]string) (MovieFilter, error) {
	var f MovieFilter
	err := parseParams(EntityMovies, params, func(key, value string) (bool, error) {
		var err error
		switch key {
		case "id":
			f.ID, err = intParam(key, value)
		case "title":
			f.Title = &value
		case "genre":
			f.Genre = &value
		case "director":
			f.Director = &value
		case "min_duration":
			f.MinDuration, err = intParam(key, value)
		case "max_duration":
			f.MaxDuration, err = intParam(key, value)
		case "release_year":
			f.ReleaseYear, err = intParam(key, value)
		case "rating":
			f.Rating = &value
		default:
			return false, nil
		}
		return true, err
	})
	return f, err
}

// ParseSessionFilter builds a SessionFilter from key=value parameters.
func ParseSessionFilter(params map[string]string) (SessionFilter, error) {
	var f SessionFilter
	err := parseParams(EntitySessions, params, func(key, value string) (bool, error) {
		var err error
		switch key {
		case "id":
			f.ID, err = intParam(key, value)
		case "movie_id":
			f.MovieID, err = intParam(key, value)
		case "room":
			f.Room = &value
		case "start_from":
			f.StartFrom, err = timeParam(key, value)
		case "start_to":
			f.StartTo, err = timeParam(key, value)
		case "seat":
			f.Seat = &value
		default:
			return false, nil
		}
		return true, err
	})
	return f, err
}

// ParseTicketFilter builds a TicketFilter from key=value parameters.
func ParseTicketFilter(params map[string]string) (TicketFilter, error) {
	var f TicketFilter
	err := parseParams(EntityTickets, params, func(key, value string) (bool, error) {
		var err error
		switch key {
		case "id":
			f.ID, err = intParam(key, value)
		case "session_id":
			f.SessionID, err = intParam(key, value)
		case "client_name":
			f.ClientName = &value
		case "seat":
			f.Seat = &value
		case "purchased_from":
			f.PurchasedFrom, err = timeParam(key, value)
		case "purchased_to":
			f.PurchasedTo, err = timeParam(key, value)
		case "ticket_type":
			f.Type = &value
		case "min_price":
			f.MinPrice, err = floatParam(key, value)
		case "max_price":
			f.MaxPrice, err = floatParam(key, value)
		default:
			return false, nil
		}
		return true, err
	})
	return f, err
}

// parseParams visits params in key order so the reported error does not
// depend on map iteration.
func parseParams(e Entity, params map[string]string, set func(key, value string) (bool, error)) error {
	for _, key := range slices.Sorted(maps.Keys(params)) {
		known, err := set(key, params[key])
		if !known {
			return &InvalidFilterFieldError{Entity: e, Field: key}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func intParam(key, value string) (*int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidFilterValue, key, value)
	}
	return &n, nil
}

func floatParam(key, value string) (*float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidFilterValue, key, value)
	}
	return &n, nil
}

func timeParam(key, value string) (*time.Time, error) {
	t, err := ParseTimestamp(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFilterValue, key, err)
	}
	return &t, nil
}
