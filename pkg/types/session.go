package types

import "time"

// Session is one screening of a movie in a room. AvailableSeats keeps the
// order it was given in; duplicates are tolerated.
type Session struct {
	ID             int       `json:"id" validate:"gt=0"`
	MovieID        int       `json:"movie_id" validate:"gt=0"`
	StartTime      time.Time `json:"start_time" validate:"required"`
	Room           string    `json:"room" validate:"required"`
	AvailableSeats []string  `json:"available_seats" validate:"dive,required"`
}

// RecordID returns the session identifier.
func (s Session) RecordID() int { return s.ID }

// DuplicateSeats returns every seat code listed more than once, in order
// of first repetition.
func (s Session) DuplicateSeats() []string {
	seen := make(map[string]int, len(s.AvailableSeats))
	var dups []string
	for _, seat := range s.AvailableSeats {
		seen[seat]++
		if seen[seat] == 2 {
			dups = append(dups, seat)
		}
	}
	return dups
}
