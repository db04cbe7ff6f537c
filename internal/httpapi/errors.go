package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

// errorKinds maps store errors to a status and a stable error kind,
// checked in order.
var errorKinds = []struct {
	err    error
	status int
	kind   string
}{
	{types.ErrNotFound, http.StatusNotFound, "not_found"},
	{types.ErrConflict, http.StatusConflict, "conflict"},
	{types.ErrIdentifierMismatch, http.StatusBadRequest, "identifier_mismatch"},
	{types.ErrInvalidFilterField, http.StatusBadRequest, "invalid_filter_field"},
	{types.ErrInvalidFilterValue, http.StatusBadRequest, "invalid_filter_value"},
	{types.ErrInvalidRecord, http.StatusBadRequest, "invalid_record"},
	{types.ErrDependencyConflict, http.StatusBadRequest, "dependency_conflict"},
	{types.ErrUnresolvedReference, http.StatusUnprocessableEntity, "unresolved_reference"},
	{types.ErrTimeout, http.StatusServiceUnavailable, "timeout"},
	{types.ErrCorruptStore, http.StatusServiceUnavailable, "corrupt_store"},
	{types.ErrBackendDetached, http.StatusServiceUnavailable, "unavailable"},
}

// classify returns the response status and error kind for err.
func classify(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.kind
		}
	}
	return http.StatusInternalServerError, "internal"
}

func abortWithError(c *gin.Context, err error) {
	status, kind := classify(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{
		"error":  kind,
		"detail": err.Error(),
	})
}
