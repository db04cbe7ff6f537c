package types

import (
	"fmt"
	"strings"
)

// Entity names one of the record collections managed by a Catalog.
type Entity string

// Standard entity names. The declaration order is also the lock order
// used by backends: movies before sessions before tickets.
const (
	EntityMovies   Entity = "movies"
	EntitySessions Entity = "sessions"
	EntityTickets  Entity = "tickets"
)

// Entities lists all entities in lock order.
var Entities = []Entity{
	EntityMovies,
	EntitySessions,
	EntityTickets,
}

// ParseEntity resolves a user-supplied collection name. Both the plural
// and singular forms are accepted, case-insensitively.
func ParseEntity(name string) (Entity, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, e := range Entities {
		if n == string(e) || n == e.Singular() {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid: %s)", ErrUnknownEntity, name, EntityNames())
}

// Singular returns the singular noun for the entity, used in messages.
func (e Entity) Singular() string {
	return strings.TrimSuffix(string(e), "s")
}

// Order returns the lock position of the entity, or -1 if unknown.
func (e Entity) Order() int {
	for i, known := range Entities {
		if e == known {
			return i
		}
	}
	return -1
}

// EntityNames returns the comma-separated entity names for error output.
func EntityNames() string {
	names := make([]string, len(Entities))
	for i, e := range Entities {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}
