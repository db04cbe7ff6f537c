// Package httpapi serves the record stores over HTTP with gin. Each entity
// gets the same routes; request and response bodies are the JSON form of
// the records.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/boxoffice/internal/export"
	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

// NewRouter builds the gin engine for catalog. cfg locates the backing
// files for the zip routes.
func NewRouter(catalog types.Catalog, cfg types.Config, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), accessLog(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	register(r, types.EntityMovies, catalog.Movies(), types.ParseMovieFilter, cfg)
	register(r, types.EntitySessions, catalog.Sessions(), types.ParseSessionFilter, cfg)
	register(r, types.EntityTickets, catalog.Tickets(), types.ParseTicketFilter, cfg)
	return r
}

// resource serves one entity store.
type resource[R any, F any] struct {
	entity types.Entity
	store  types.Store[R, F]
	parse  func(map[string]string) (F, error)
	source export.Source
}

func register[R any, F any](r *gin.Engine, e types.Entity, store types.Store[R, F], parse func(map[string]string) (F, error), cfg types.Config) {
	res := &resource[R, F]{
		entity: e,
		store:  store,
		parse:  parse,
		source: export.Source{Entity: e, Path: cfg.Path(e)},
	}
	base := "/" + string(e)
	r.GET(base, res.list)
	r.POST(base, res.create)
	r.GET(base+"/:id", res.get)
	r.PUT(base+"/:id", res.update)
	r.DELETE(base+"/:id", res.delete)
	r.GET(base+"-count", res.count)
	r.GET(base+"-zip", res.zip)
}

// list returns every record, or the filtered records when the query
// string carries filter fields. A filter matching nothing is a 404.
func (res *resource[R, F]) list(c *gin.Context) {
	params := queryParams(c)
	if len(params) == 0 {
		records, err := res.store.List(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(records))
		return
	}

	f, err := res.parse(params)
	if err != nil {
		abortWithError(c, err)
		return
	}
	seq, err := res.store.Filter(c.Request.Context(), f)
	if err != nil {
		abortWithError(c, err)
		return
	}
	records := slices.Collect(seq)
	if len(records) == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":  "no_matches",
			"detail": fmt.Sprintf("no %s match the filter", res.entity),
		})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (res *resource[R, F]) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	record, err := res.store.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (res *resource[R, F]) create(c *gin.Context) {
	var record R
	if !bindRecord(c, &record) {
		return
	}
	created, err := res.store.Create(c.Request.Context(), record)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (res *resource[R, F]) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var record R
	if !bindRecord(c, &record) {
		return
	}
	updated, err := res.store.Update(c.Request.Context(), id, record)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (res *resource[R, F]) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := res.store.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (res *resource[R, F]) count(c *gin.Context) {
	n, err := res.store.Count(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// zip streams a zip archive holding the entity's backing file.
func (res *resource[R, F]) zip(c *gin.Context) {
	// A store that cannot be read must fail before the headers go out.
	if _, err := res.store.Count(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(res.entity)+".zip"))
	c.Status(http.StatusOK)
	if err := export.Zip(c.Writer, res.source); err != nil {
		_ = c.Error(err)
	}
}

func queryParams(c *gin.Context) map[string]string {
	query := c.Request.URL.Query()
	params := make(map[string]string, len(query))
	for k, v := range query {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":  "invalid_id",
			"detail": fmt.Sprintf("id %q is not an integer", c.Param("id")),
		})
		return 0, false
	}
	return id, true
}

func bindRecord(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":  "invalid_body",
			"detail": err.Error(),
		})
		return false
	}
	return true
}

func nonNil[T any](records []T) []T {
	if records == nil {
		return []T{}
	}
	return records
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.Last().Error()))
		}
		logger.Info("request", fields...)
	}
}

// Serve runs handler on addr until ctx is done, then shuts down, giving
// in-flight requests up to grace to finish.
func Serve(ctx context.Context, addr string, handler http.Handler, grace time.Duration, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}
