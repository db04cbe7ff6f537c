package types

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// recordValidator returns the shared validator. Field names in errors are
// the JSON names, which are also the file header names.
func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateMovie checks field constraints on a movie.
func ValidateMovie(m Movie) error { return validateRecord(EntityMovies, m.ID, m) }

// ValidateSession checks field constraints on a session.
func ValidateSession(s Session) error { return validateRecord(EntitySessions, s.ID, s) }

// ValidateTicket checks field constraints on a ticket.
func ValidateTicket(t Ticket) error { return validateRecord(EntityTickets, t.ID, t) }

// validateRecord runs struct validation and reports the first failing
// field as a RecordError wrapping ErrInvalidRecord.
func validateRecord(e Entity, id int, record any) error {
	err := recordValidator().Struct(record)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate %s: %w", e.Singular(), err)
	}
	fe := verrs[0]
	field := fe.Field()
	if ns := fe.Namespace(); strings.Contains(ns, "[") {
		// Element of a list field: keep the index, drop the type prefix.
		_, field, _ = strings.Cut(ns, ".")
	}
	return &RecordError{
		Entity: e,
		ID:     id,
		Field:  field,
		Value:  fmt.Sprint(fe.Value()),
		Err:    fmt.Errorf("%w: failed %s", ErrInvalidRecord, constraint(fe)),
	}
}

func constraint(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
