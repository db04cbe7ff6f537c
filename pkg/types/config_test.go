package types

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty data dir returns ErrDataDirEmpty",
			config:  Config{},
			wantErr: ErrDataDirEmpty,
		},
		{
			name:   "defaults are valid",
			config: Config{DataDir: "/tmp/data"},
		},
		{
			name:    "multi-character delimiter rejected",
			config:  Config{DataDir: "/tmp/data", PrimaryDelimiter: "||"},
			wantErr: ErrDelimiterInvalid,
		},
		{
			name:    "newline delimiter rejected",
			config:  Config{DataDir: "/tmp/data", SecondaryDelimiter: "\n"},
			wantErr: ErrDelimiterInvalid,
		},
		{
			name:    "equal delimiters rejected",
			config:  Config{DataDir: "/tmp/data", PrimaryDelimiter: "|", SecondaryDelimiter: "|"},
			wantErr: ErrDelimitersEqual,
		},
		{
			name:    "file name with directory rejected",
			config:  Config{DataDir: "/tmp/data", MoviesFile: "../movies.csv"},
			wantErr: ErrFileNameInvalid,
		},
		{
			name:    "shared file name rejected",
			config:  Config{DataDir: "/tmp/data", SessionsFile: "tickets.csv"},
			wantErr: ErrFileNamesConflict,
		},
		{
			name:    "negative timeout rejected",
			config:  Config{DataDir: "/tmp/data", OpTimeout: -time.Second},
			wantErr: ErrTimeoutInvalid,
		},
		{
			name:   "custom delimiters are valid",
			config: Config{DataDir: "/tmp/data", PrimaryDelimiter: "|", SecondaryDelimiter: ","},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	c := Config{DataDir: "/data", TicketsFile: "sold.csv"}.WithDefaults()

	assert.Equal(t, DefaultMoviesFile, c.MoviesFile)
	assert.Equal(t, DefaultSessionsFile, c.SessionsFile)
	assert.Equal(t, "sold.csv", c.TicketsFile, "explicit values are kept")
	assert.Equal(t, DefaultPrimaryDelimiter, c.PrimaryDelimiter)
	assert.Equal(t, DefaultSecondaryDelimiter, c.SecondaryDelimiter)
	assert.Equal(t, DefaultOpTimeout, c.OpTimeout)
}

func TestConfigPath(t *testing.T) {
	c := Config{DataDir: "/data"}

	assert.Equal(t, filepath.Join("/data", "movies.csv"), c.Path(EntityMovies))
	assert.Equal(t, filepath.Join("/data", "sessions.csv"), c.Path(EntitySessions))
	assert.Equal(t, filepath.Join("/data", "tickets.csv"), c.Path(EntityTickets))
	assert.Empty(t, c.Path(Entity("rooms")))
}
