package codec

import (
	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

var sessionFields = []string{"id", "movie_id", "start_time", "room", "available_seats"}

// SessionCodec encodes sessions as
// id,movie_id,start_time,room,available_seats.
type SessionCodec struct {
	d Delimiters
}

// NewSessionCodec returns a session codec using d.
func NewSessionCodec(d Delimiters) *SessionCodec {
	return &SessionCodec{d: d.withDefaults()}
}

func (c *SessionCodec) Header() string { return c.d.header(sessionFields) }

func (c *SessionCodec) Decode(line string) (types.Session, error) {
	f, err := c.d.fields(line, sessionFields)
	if err != nil {
		return types.Session{}, err
	}
	var s types.Session
	if s.ID, err = parseInt("id", f[0]); err != nil {
		return types.Session{}, err
	}
	if s.MovieID, err = parseInt("movie_id", f[1]); err != nil {
		return types.Session{}, err
	}
	if s.StartTime, err = parseTime("start_time", f[2]); err != nil {
		return types.Session{}, err
	}
	s.Room = f[3]
	s.AvailableSeats = c.d.splitList(f[4])
	return s, nil
}

func (c *SessionCodec) Encode(s types.Session) (string, error) {
	e := newEncoder(c.d, types.EntitySessions, s.ID, len(sessionFields))
	e.addInt(s.ID)
	e.addInt(s.MovieID)
	e.addTime(s.StartTime)
	e.addText("room", s.Room)
	e.addList("available_seats", s.AvailableSeats)
	return e.line()
}
