package types

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMovie() Movie {
	return Movie{
		ID:              1,
		Title:           "Central Station",
		Genres:          []string{"Drama"},
		Director:        "Walter Salles",
		DurationMinutes: 110,
		ReleaseYear:     1998,
		Rating:          Rating14,
	}
}

func TestValidateMovie(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(m *Movie)
		wantField string
	}{
		{name: "valid movie", mutate: func(m *Movie) {}},
		{name: "zero id", mutate: func(m *Movie) { m.ID = 0 }, wantField: "id"},
		{name: "empty title", mutate: func(m *Movie) { m.Title = "" }, wantField: "title"},
		{name: "empty genre element", mutate: func(m *Movie) { m.Genres = []string{"Drama", ""} }, wantField: "genres[1]"},
		{name: "zero duration", mutate: func(m *Movie) { m.DurationMinutes = 0 }, wantField: "duration_minutes"},
		{name: "unknown rating", mutate: func(m *Movie) { m.Rating = "PG-13" }, wantField: "rating"},
		{name: "no genres is valid", mutate: func(m *Movie) { m.Genres = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMovie()
			tt.mutate(&m)

			err := ValidateMovie(m)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidRecord)
			var rerr *RecordError
			require.True(t, errors.As(err, &rerr))
			assert.Equal(t, tt.wantField, rerr.Field)
			assert.Equal(t, EntityMovies, rerr.Entity)
		})
	}
}

func TestValidateSession(t *testing.T) {
	s := Session{
		ID:             10,
		MovieID:        1,
		StartTime:      time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC),
		Room:           "Sala 1",
		AvailableSeats: []string{"A1", "A2"},
	}
	assert.NoError(t, ValidateSession(s))

	s.StartTime = time.Time{}
	err := ValidateSession(s)
	require.ErrorIs(t, err, ErrInvalidRecord)
	var rerr *RecordError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "start_time", rerr.Field)
}

func TestValidateTicket(t *testing.T) {
	tk := Ticket{
		ID:          100,
		SessionID:   10,
		ClientName:  "Ana",
		Seat:        "A1",
		PurchasedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Type:        TicketHalfPrice,
		Price:       12.5,
	}
	assert.NoError(t, ValidateTicket(tk))

	tk.Type = "vip"
	assert.ErrorIs(t, ValidateTicket(tk), ErrInvalidRecord)

	tk.Type = TicketStandard
	tk.Price = -1
	err := ValidateTicket(tk)
	var rerr *RecordError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "price", rerr.Field)
	assert.Equal(t, "-1", rerr.Value)
}

func TestSessionDuplicateSeats(t *testing.T) {
	s := Session{AvailableSeats: []string{"A1", "A2", "A1", "B3", "A1", "A2"}}
	assert.Equal(t, []string{"A1", "A2"}, s.DuplicateSeats())
	assert.Empty(t, Session{AvailableSeats: []string{"A1"}}.DuplicateSeats())
}
