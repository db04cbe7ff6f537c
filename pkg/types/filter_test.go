package types

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMovieFilter(t *testing.T) {
	f, err := ParseMovieFilter(map[string]string{
		"genre":        "drama",
		"min_duration": "90",
		"max_duration": "120",
		"rating":       "14",
	})
	require.NoError(t, err)

	require.NotNil(t, f.Genre)
	assert.Equal(t, "drama", *f.Genre)
	require.NotNil(t, f.MinDuration)
	assert.Equal(t, 90, *f.MinDuration)
	require.NotNil(t, f.MaxDuration)
	assert.Equal(t, 120, *f.MaxDuration)
	assert.Nil(t, f.ID)
	assert.Nil(t, f.Title)
}

func TestParseFilterEmpty(t *testing.T) {
	f, err := ParseTicketFilter(nil)
	require.NoError(t, err)
	assert.Equal(t, TicketFilter{}, f)
}

func TestParseFilterUnknownField(t *testing.T) {
	_, err := ParseSessionFilter(map[string]string{"room": "1", "price": "10"})
	require.ErrorIs(t, err, ErrInvalidFilterField)

	var ferr *InvalidFilterFieldError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, EntitySessions, ferr.Entity)
	assert.Equal(t, "price", ferr.Field)
}

func TestParseFilterBadValue(t *testing.T) {
	tests := []struct {
		name  string
		parse func() error
	}{
		{"movie id", func() error { _, err := ParseMovieFilter(map[string]string{"id": "one"}); return err }},
		{"session start", func() error { _, err := ParseSessionFilter(map[string]string{"start_from": "tomorrow"}); return err }},
		{"ticket price", func() error { _, err := ParseTicketFilter(map[string]string{"max_price": "cheap"}); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.parse(), ErrInvalidFilterValue)
		})
	}
}

func TestParseTicketFilterTimes(t *testing.T) {
	f, err := ParseTicketFilter(map[string]string{
		"purchased_from": "2024-05-01T00:00:00",
		"purchased_to":   "2024-05-02T00:00:00Z",
		"min_price":      "7.5",
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *f.PurchasedFrom)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), *f.PurchasedTo)
	assert.Equal(t, 7.5, *f.MinPrice)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC)

	got, err := ParseTimestamp(FormatTimestamp(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = ParseTimestamp("2024-05-01T19:30:00")
	require.NoError(t, err)
	assert.Equal(t, want, got, "zone-less timestamps are UTC")

	got, err = ParseTimestamp("2024-05-01T19:30:00.250000")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, got.Sub(want))

	saoPaulo := time.Date(2024, 5, 1, 16, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	assert.Equal(t, "2024-05-01T19:30:00Z", FormatTimestamp(saoPaulo))
	got, err = ParseTimestamp("2024-05-01T16:30:00-03:00")
	require.NoError(t, err)
	assert.Equal(t, want, got, "zoned timestamps come back in UTC")

	_, err = ParseTimestamp("01/05/2024")
	assert.Error(t, err)
}
