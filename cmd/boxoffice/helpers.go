package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boxoffice/internal/flatfile"
	"github.com/mesh-intelligence/boxoffice/internal/paths"
	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errSystem marks failures of the environment rather than of the request.
var errSystem = errors.New("system error")

// errUsage marks malformed command lines.
var errUsage = errors.New("usage error")

func systemError(err error) error { return fmt.Errorf("%w: %w", errSystem, err) }

func usageError(err error) error { return fmt.Errorf("%w: %w", errUsage, err) }

// exitCode maps a command error to the process exit code. Store failures
// that a corrected request cannot fix are system errors; everything else
// is the caller's to fix.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, errSystem),
		errors.Is(err, types.ErrCorruptStore),
		errors.Is(err, types.ErrTimeout),
		errors.Is(err, types.ErrBackendDetached):
		return exitSysError
	default:
		return exitUserError
	}
}

// printError writes err to w without the internal markers.
func printError(w io.Writer, err error) {
	msg := err.Error()
	for _, marker := range []error{errSystem, errUsage} {
		msg = strings.TrimPrefix(msg, marker.Error()+": ")
	}
	fmt.Fprintln(w, "boxoffice:", msg)
}

// withArgs wraps a cobra argument check so its failures count as usage
// errors.
func withArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// resolveDataDir resolves the data directory: --data-dir, then data_dir from
// config.yaml, then $BOXOFFICE_DATA_DIR, then the working directory.
func (a *app) resolveDataDir() (string, error) {
	dir, err := paths.ResolveDataDir(a.dataDir, a.v.GetString(cfgKeyDataDir))
	if err != nil {
		return "", systemError(fmt.Errorf("resolve data dir: %w", err))
	}
	return dir, nil
}

func (a *app) storeConfig() (types.Config, error) {
	dir, err := a.resolveDataDir()
	if err != nil {
		return types.Config{}, err
	}
	return storeConfig(a.v, dir), nil
}

// withBackend attaches a backend for the duration of fn.
func (a *app) withBackend(cmd *cobra.Command, fn func(ctx context.Context, b *flatfile.Backend) error) error {
	cfg, err := a.storeConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return usageError(fmt.Errorf("invalid configuration: %w", err))
	}

	b := flatfile.NewBackend(flatfile.WithLogger(a.logger))
	if err := b.Attach(cfg); err != nil {
		return systemError(fmt.Errorf("attach backend: %w", err))
	}
	defer b.Detach()

	return fn(cmd.Context(), b)
}

// recordStore is the entity-independent view of a store the record
// commands work with.
type recordStore interface {
	list(ctx context.Context, params map[string]string) (any, error)
	get(ctx context.Context, id int) (any, error)
	create(ctx context.Context, data []byte) (any, error)
	update(ctx context.Context, id int, data []byte) (any, error)
	delete(ctx context.Context, id int) error
	count(ctx context.Context) (int, error)
}

type storeAdapter[R any, F any] struct {
	store types.Store[R, F]
	parse func(map[string]string) (F, error)
}

func (s storeAdapter[R, F]) list(ctx context.Context, params map[string]string) (any, error) {
	if len(params) == 0 {
		records, err := s.store.List(ctx)
		if records == nil {
			records = []R{}
		}
		return records, err
	}
	f, err := s.parse(params)
	if err != nil {
		return nil, err
	}
	seq, err := s.store.Filter(ctx, f)
	if err != nil {
		return nil, err
	}
	records := slices.Collect(seq)
	if records == nil {
		records = []R{}
	}
	return records, nil
}

func (s storeAdapter[R, F]) get(ctx context.Context, id int) (any, error) {
	return s.store.Get(ctx, id)
}

func (s storeAdapter[R, F]) create(ctx context.Context, data []byte) (any, error) {
	r, err := decodeRecord[R](data)
	if err != nil {
		return nil, err
	}
	return s.store.Create(ctx, r)
}

func (s storeAdapter[R, F]) update(ctx context.Context, id int, data []byte) (any, error) {
	r, err := decodeRecord[R](data)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, r)
}

func (s storeAdapter[R, F]) delete(ctx context.Context, id int) error {
	return s.store.Delete(ctx, id)
}

func (s storeAdapter[R, F]) count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// storeFor returns the store named by an entity argument.
func storeFor(c types.Catalog, name string) (types.Entity, recordStore, error) {
	e, err := types.ParseEntity(name)
	if err != nil {
		return "", nil, fmt.Errorf("%w (valid: %s)", err, types.EntityNames())
	}
	switch e {
	case types.EntityMovies:
		return e, storeAdapter[types.Movie, types.MovieFilter]{c.Movies(), types.ParseMovieFilter}, nil
	case types.EntitySessions:
		return e, storeAdapter[types.Session, types.SessionFilter]{c.Sessions(), types.ParseSessionFilter}, nil
	default:
		return e, storeAdapter[types.Ticket, types.TicketFilter]{c.Tickets(), types.ParseTicketFilter}, nil
	}
}

// decodeRecord unmarshals a JSON record, rejecting unknown fields.
func decodeRecord[R any](data []byte) (R, error) {
	var r R
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return r, usageError(fmt.Errorf("parse record JSON: %w", err))
	}
	return r, nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, usageError(fmt.Errorf("id %q is not an integer", arg))
	}
	return id, nil
}

// parseFilterArgs turns key=value arguments into filter parameters.
func parseFilterArgs(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, usageError(fmt.Errorf("invalid filter %q (expected key=value)", arg))
		}
		params[key] = value
	}
	return params, nil
}

// recordInput returns the JSON record argument, reading stdin for "-".
func recordInput(cmd *cobra.Command, arg string) ([]byte, error) {
	if arg != "-" {
		return []byte(arg), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, systemError(fmt.Errorf("read stdin: %w", err))
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return systemError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(w, string(out))
	return nil
}
