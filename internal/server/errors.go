package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lazylynx/gmanifold/geodesic"
	"github.com/lazylynx/gmanifold/manifold"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, corner_count, internal_error, ...
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// abortError writes a JSON error response carrying the request ID.
func abortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: c.GetString(requestIDKey),
	})
}

func errBadRequest(c *gin.Context, msg string) {
	abortError(c, http.StatusBadRequest, "bad_request", msg)
}

// errorCodes maps build errors to client error codes; order matters since
// an unknown ellipsoid is also a geodesic failure.
var errorCodes = []struct {
	err  error
	code string
}{
	{geodesic.ErrUnknownEllipsoid, "unknown_ellipsoid"},
	{manifold.ErrShapeMismatch, "shape_mismatch"},
	{manifold.ErrCornerCount, "corner_count"},
	{manifold.ErrSubdivision, "subdivision"},
	{manifold.ErrRadius, "radius"},
	{manifold.ErrIndexRange, "index_range"},
	{manifold.ErrGeodesic, "geodesic"},
}

// errBuild responds to a failed geodesic or mesh build.
func errBuild(c *gin.Context, err error) {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			abortError(c, http.StatusUnprocessableEntity, ec.code, err.Error())
			return
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		abortError(c, http.StatusServiceUnavailable, "canceled", err.Error())
		return
	}
	LoggerFromCtx(c.Request.Context()).Error("build failed", "error", err)
	abortError(c, http.StatusInternalServerError, "internal_error", "internal error")
}
