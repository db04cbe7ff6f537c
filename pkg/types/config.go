package types

import (
	"errors"
	"path/filepath"
	"time"
	"unicode/utf8"
)

// Default store parameters, matching the files written by earlier
// releases of the box office service.
const (
	DefaultPrimaryDelimiter   = ","
	DefaultSecondaryDelimiter = ";"
	DefaultMoviesFile         = "movies.csv"
	DefaultSessionsFile       = "sessions.csv"
	DefaultTicketsFile        = "tickets.csv"
	DefaultOpTimeout          = 5 * time.Second
)

// Config describes where and how a backend persists its collections. It
// is built once at start-up and never changed; a backend keeps its own
// copy after Attach.
type Config struct {
	DataDir            string        `json:"data_dir" yaml:"data_dir"`
	MoviesFile         string        `json:"movies_file" yaml:"movies_file"`
	SessionsFile       string        `json:"sessions_file" yaml:"sessions_file"`
	TicketsFile        string        `json:"tickets_file" yaml:"tickets_file"`
	PrimaryDelimiter   string        `json:"primary_delimiter" yaml:"primary_delimiter"`
	SecondaryDelimiter string        `json:"secondary_delimiter" yaml:"secondary_delimiter"`
	OpTimeout          time.Duration `json:"op_timeout" yaml:"op_timeout"`
}

// Config validation errors.
var (
	ErrDataDirEmpty      = errors.New("data directory must not be empty")
	ErrDelimiterInvalid  = errors.New("delimiter must be a single printable character")
	ErrDelimitersEqual   = errors.New("primary and secondary delimiters must differ")
	ErrFileNameInvalid   = errors.New("store file name must be a bare file name")
	ErrFileNamesConflict = errors.New("store file names must be distinct")
	ErrTimeoutInvalid    = errors.New("operation timeout must be positive")
)

// WithDefaults returns a copy of c with every zero field replaced by its
// default. DataDir has no default.
func (c Config) WithDefaults() Config {
	if c.MoviesFile == "" {
		c.MoviesFile = DefaultMoviesFile
	}
	if c.SessionsFile == "" {
		c.SessionsFile = DefaultSessionsFile
	}
	if c.TicketsFile == "" {
		c.TicketsFile = DefaultTicketsFile
	}
	if c.PrimaryDelimiter == "" {
		c.PrimaryDelimiter = DefaultPrimaryDelimiter
	}
	if c.SecondaryDelimiter == "" {
		c.SecondaryDelimiter = DefaultSecondaryDelimiter
	}
	if c.OpTimeout == 0 {
		c.OpTimeout = DefaultOpTimeout
	}
	return c
}

// Validate checks that the Config, after defaults are applied, is
// well-formed. It returns a sentinel error from this package on failure.
func (c Config) Validate() error {
	c = c.WithDefaults()
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	for _, d := range []string{c.PrimaryDelimiter, c.SecondaryDelimiter} {
		if !validDelimiter(d) {
			return ErrDelimiterInvalid
		}
	}
	if c.PrimaryDelimiter == c.SecondaryDelimiter {
		return ErrDelimitersEqual
	}
	names := []string{c.MoviesFile, c.SessionsFile, c.TicketsFile}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n != filepath.Base(n) || n == "." || n == ".." {
			return ErrFileNameInvalid
		}
		if seen[n] {
			return ErrFileNamesConflict
		}
		seen[n] = true
	}
	if c.OpTimeout < 0 {
		return ErrTimeoutInvalid
	}
	return nil
}

// Path returns the backing file path for the entity.
func (c Config) Path(e Entity) string {
	c = c.WithDefaults()
	switch e {
	case EntityMovies:
		return filepath.Join(c.DataDir, c.MoviesFile)
	case EntitySessions:
		return filepath.Join(c.DataDir, c.SessionsFile)
	case EntityTickets:
		return filepath.Join(c.DataDir, c.TicketsFile)
	default:
		return ""
	}
}

func validDelimiter(d string) bool {
	if utf8.RuneCountInString(d) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(d)
	return r != '\n' && r != '\r' && r != utf8.RuneError && r >= ' '
}
