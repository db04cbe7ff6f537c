package flatfile

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/boxoffice/internal/codec"
	"github.com/mesh-intelligence/boxoffice/internal/integrity"
	"github.com/mesh-intelligence/boxoffice/internal/query"
	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

type record interface {
	RecordID() int
}

// table carries the operations shared by the three entity stores. The
// entity stores add their integrity checks around it.
type table[T record] struct {
	b        *Backend
	entity   types.Entity
	file     *recordFile[T]
	validate func(T) error
}

func newTable[T record](b *Backend, e types.Entity, f *recordFile[T], validate func(T) error) *table[T] {
	return &table[T]{b: b, entity: e, file: f, validate: validate}
}

// List returns the whole collection in file order.
func (t *table[T]) List(ctx context.Context) ([]T, error) {
	ctx, done, err := t.b.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer done()
	return t.load(ctx)
}

// Get returns the record with the given ID.
func (t *table[T]) Get(ctx context.Context, id int) (T, error) {
	var zero T
	records, err := t.List(ctx)
	if err != nil {
		return zero, err
	}
	i := indexOf(records, id)
	if i < 0 {
		return zero, t.notFound(id)
	}
	return records[i], nil
}

// Count returns the number of records.
func (t *table[T]) Count(ctx context.Context) (int, error) {
	records, err := t.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (t *table[T]) filter(ctx context.Context, preds []query.Predicate[T]) (iter.Seq[T], error) {
	records, err := t.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Filter(records, preds...), nil
}

func (t *table[T]) load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, contextError("load "+string(t.entity), err)
	}
	records, err := t.file.load()
	if err != nil {
		t.b.logger.Error("load failed", zap.String("entity", string(t.entity)), zap.Error(err))
		return nil, fmt.Errorf("load %s: %w", t.entity, err)
	}
	return records, nil
}

// snapshot loads a dependency collection for an integrity check.
func snapshot[T any](ctx context.Context, e types.Entity, src loader[T]) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, contextError("load "+string(e), err)
	}
	records, err := src.load()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", e, err)
	}
	return records, nil
}

// check validates a candidate's fields and returns it in the form the
// file stores it, so callers get back what a later Get returns.
func (t *table[T]) check(r T) (T, error) {
	if err := t.validate(r); err != nil {
		var zero T
		return zero, err
	}
	return codec.Canonical(t.file.codec, r)
}

// mutate holds the locks for entities, loads the collection, lets apply
// compute the next collection, and rewrites the file. The file is not
// touched when apply fails or the context ends first.
func (t *table[T]) mutate(ctx context.Context, op string, id int, locks []types.Entity, apply func(ctx context.Context, records []T) ([]T, error)) error {
	ctx, done, err := t.b.enter(ctx)
	if err != nil {
		return err
	}
	defer done()

	release, err := t.b.acquire(ctx, locks...)
	if err != nil {
		return err
	}
	defer release()

	records, err := t.load(ctx)
	if err != nil {
		return err
	}
	next, err := apply(ctx, records)
	if err != nil {
		t.b.logger.Info("mutation rejected",
			zap.String("entity", string(t.entity)),
			zap.String("op", op),
			zap.Int("id", id),
			zap.Error(err),
		)
		return err
	}
	if err := ctx.Err(); err != nil {
		return contextError(op+" "+t.entity.Singular(), err)
	}
	if err := t.file.write(next); err != nil {
		return fmt.Errorf("%s %s: %w", op, t.entity.Singular(), err)
	}
	t.b.logger.Info("mutation committed",
		zap.String("entity", string(t.entity)),
		zap.String("op", op),
		zap.Int("id", id),
		zap.Int("records", len(next)),
	)
	return nil
}

// create appends r after checking its fields, its ID and, when given,
// its references.
func (t *table[T]) create(ctx context.Context, r T, refs func(context.Context) error) (T, error) {
	err := t.mutate(ctx, "create", r.RecordID(), []types.Entity{t.entity}, func(ctx context.Context, records []T) ([]T, error) {
		var err error
		if r, err = t.check(r); err != nil {
			return nil, err
		}
		if err := integrity.Unique(t.entity, r.RecordID(), records); err != nil {
			return nil, err
		}
		if refs != nil {
			if err := refs(ctx); err != nil {
				return nil, err
			}
		}
		return append(records, r), nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return r, nil
}

// replace swaps the record stored under id for r.
func (t *table[T]) replace(ctx context.Context, id int, r T, refs func(context.Context) error) (T, error) {
	err := t.mutate(ctx, "update", id, []types.Entity{t.entity}, func(ctx context.Context, records []T) ([]T, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, t.notFound(id)
		}
		if r.RecordID() != id {
			return nil, &types.RecordError{
				Entity: t.entity,
				ID:     id,
				Field:  "id",
				Value:  strconv.Itoa(r.RecordID()),
				Err:    types.ErrIdentifierMismatch,
			}
		}
		var err error
		if r, err = t.check(r); err != nil {
			return nil, err
		}
		if refs != nil {
			if err := refs(ctx); err != nil {
				return nil, err
			}
		}
		next := slices.Clone(records)
		next[i] = r
		return next, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return r, nil
}

// remove deletes the record stored under id. dependents runs with the
// locks of the entities in deps held as well.
func (t *table[T]) remove(ctx context.Context, id int, deps []types.Entity, dependents func(context.Context) error) error {
	locks := append([]types.Entity{t.entity}, deps...)
	return t.mutate(ctx, "delete", id, locks, func(ctx context.Context, records []T) ([]T, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, t.notFound(id)
		}
		if dependents != nil {
			if err := dependents(ctx); err != nil {
				return nil, err
			}
		}
		return slices.Delete(slices.Clone(records), i, i+1), nil
	})
}

func (t *table[T]) notFound(id int) error {
	return &types.RecordError{Entity: t.entity, ID: id, Err: types.ErrNotFound}
}

func indexOf[T record](records []T, id int) int {
	return slices.IndexFunc(records, func(r T) bool { return r.RecordID() == id })
}
