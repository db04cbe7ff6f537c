// Package codec converts records to and from delimited text lines. Each
// entity has a fixed field order and header; list-valued fields are
// joined with a secondary delimiter nested inside one field.
package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

// Codec encodes and decodes one entity's lines. Decode(Encode(r)) == r
// for every record that passes validation and is in canonical form: list
// fields non-nil, timestamps in UTC. Canonical produces that form.
type Codec[T any] interface {
	// Header returns the first line of a backing file, naming the fields.
	Header() string

	// Decode parses one line. Errors are *types.ParseError.
	Decode(line string) (T, error)

	// Encode renders one record. It fails with a *types.RecordError
	// wrapping ErrInvalidRecord when a text field would break the line
	// format.
	Encode(record T) (string, error)
}

// Delimiters holds the primary field separator and the secondary
// separator used inside list fields.
type Delimiters struct {
	Primary   string
	Secondary string
}

// DelimitersFrom returns the delimiters configured in c.
func DelimitersFrom(c types.Config) Delimiters {
	c = c.WithDefaults()
	return Delimiters{Primary: c.PrimaryDelimiter, Secondary: c.SecondaryDelimiter}
}

func (d Delimiters) withDefaults() Delimiters {
	if d.Primary == "" {
		d.Primary = types.DefaultPrimaryDelimiter
	}
	if d.Secondary == "" {
		d.Secondary = types.DefaultSecondaryDelimiter
	}
	return d
}

func (d Delimiters) header(names []string) string {
	return strings.Join(names, d.Primary)
}

// Canonical returns r as it reads back after being written.
func Canonical[T any](c Codec[T], r T) (T, error) {
	line, err := c.Encode(r)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.Decode(line)
}

// fields splits a line and enforces the field count. Surrounding
// whitespace, including a trailing \r, is not part of the record.
func (d Delimiters) fields(line string, names []string) ([]string, error) {
	line = strings.TrimSpace(line)
	parts := strings.Split(line, d.Primary)
	if len(parts) != len(names) {
		return nil, &types.ParseError{
			Err: fmt.Errorf("expected %d fields, got %d", len(names), len(parts)),
		}
	}
	return parts, nil
}

func (d Delimiters) splitList(v string) []string {
	if v == "" {
		return []string{}
	}
	return strings.Split(v, d.Secondary)
}

func (d Delimiters) joinList(vs []string) string {
	return strings.Join(vs, d.Secondary)
}

// encoder accumulates fields and remembers the first unsafe value.
type encoder struct {
	d      Delimiters
	entity types.Entity
	id     int
	parts  []string
	err    error
}

func newEncoder(d Delimiters, e types.Entity, id, n int) *encoder {
	return &encoder{d: d, entity: e, id: id, parts: make([]string, 0, n)}
}

func (e *encoder) addInt(v int) {
	e.parts = append(e.parts, strconv.Itoa(v))
}

func (e *encoder) addFloat(v float64) {
	e.parts = append(e.parts, strconv.FormatFloat(v, 'f', -1, 64))
}

func (e *encoder) addTime(v time.Time) {
	e.parts = append(e.parts, types.FormatTimestamp(v))
}

func (e *encoder) addText(field, v string) {
	e.check(field, v, false)
	e.parts = append(e.parts, v)
}

func (e *encoder) addList(field string, vs []string) {
	for _, v := range vs {
		e.check(field, v, true)
	}
	e.parts = append(e.parts, e.d.joinList(vs))
}

func (e *encoder) check(field, v string, inList bool) {
	if e.err != nil {
		return
	}
	bad := strings.ContainsAny(v, "\r\n") || strings.Contains(v, e.d.Primary) ||
		(inList && (v == "" || strings.TrimSpace(v) != v || strings.Contains(v, e.d.Secondary)))
	if !bad {
		return
	}
	e.err = &types.RecordError{
		Entity: e.entity,
		ID:     e.id,
		Field:  field,
		Value:  v,
		Err:    fmt.Errorf("%w: value contains a delimiter, a line break or padding", types.ErrInvalidRecord),
	}
}

func (e *encoder) line() (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return strings.Join(e.parts, e.d.Primary), nil
}

func parseInt(field, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &types.ParseError{Field: field, Value: v, Err: err}
	}
	return n, nil
}

func parseFloat(field, v string) (float64, error) {
	n, err := strconv.ParseFloat(v, 64)
	if err == nil && (math.IsNaN(n) || math.IsInf(n, 0)) {
		err = fmt.Errorf("not a finite number")
	}
	if err != nil {
		return 0, &types.ParseError{Field: field, Value: v, Err: err}
	}
	return n, nil
}

func parseTime(field, v string) (time.Time, error) {
	t, err := types.ParseTimestamp(v)
	if err != nil {
		return time.Time{}, &types.ParseError{Field: field, Value: v, Err: err}
	}
	return t, nil
}
