package types

// Movie ratings, following the Brazilian age classification used by the
// box office.
const (
	RatingGeneral = "livre"
	Rating10      = "10"
	Rating12      = "12"
	Rating14      = "14"
	Rating16      = "16"
	Rating18      = "18"
)

// Ratings lists the accepted rating values.
var Ratings = []string{RatingGeneral, Rating10, Rating12, Rating14, Rating16, Rating18}

// Movie is a film that sessions can screen. ID is assigned by the caller
// and never changes once the movie exists.
type Movie struct {
	ID              int      `json:"id" validate:"gt=0"`
	Title           string   `json:"title" validate:"required"`
	Genres          []string `json:"genres" validate:"dive,required"`
	Director        string   `json:"director" validate:"required"`
	DurationMinutes int      `json:"duration_minutes" validate:"gt=0"`
	ReleaseYear     int      `json:"release_year" validate:"gt=0"`
	Rating          string   `json:"rating" validate:"oneof=livre 10 12 14 16 18"`
}

// RecordID returns the movie identifier.
func (m Movie) RecordID() int { return m.ID }
