package codec

import (
	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

var movieFields = []string{"id", "title", "genre", "director", "duration_minutes", "release_year", "rating"}

// MovieCodec encodes movies as
// id,title,genre,director,duration_minutes,release_year,rating.
type MovieCodec struct {
	d Delimiters
}

// NewMovieCodec returns a movie codec using d.
func NewMovieCodec(d Delimiters) *MovieCodec {
	return &MovieCodec{d: d.withDefaults()}
}

func (c *MovieCodec) Header() string { return c.d.header(movieFields) }

func (c *MovieCodec) Decode(line string) (types.Movie, error) {
	f, err := c.d.fields(line, movieFields)
	if err != nil {
		return types.Movie{}, err
	}
	var m types.Movie
	if m.ID, err = parseInt("id", f[0]); err != nil {
		return types.Movie{}, err
	}
	m.Title = f[1]
	m.Genres = c.d.splitList(f[2])
	m.Director = f[3]
	if m.DurationMinutes, err = parseInt("duration_minutes", f[4]); err != nil {
		return types.Movie{}, err
	}
	if m.ReleaseYear, err = parseInt("release_year", f[5]); err != nil {
		return types.Movie{}, err
	}
	m.Rating = f[6]
	return m, nil
}

func (c *MovieCodec) Encode(m types.Movie) (string, error) {
	e := newEncoder(c.d, types.EntityMovies, m.ID, len(movieFields))
	e.addInt(m.ID)
	e.addText("title", m.Title)
	e.addList("genres", m.Genres)
	e.addText("director", m.Director)
	e.addInt(m.DurationMinutes)
	e.addInt(m.ReleaseYear)
	e.addText("rating", m.Rating)
	return e.line()
}
