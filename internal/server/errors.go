package server

import (
	"errors"
	"net/http"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
	"github.com/spigell/hireability/internal/analysis"
	"go.uber.org/zap"
)

var errMalformedBody = errors.New("request body is not valid JSON")

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// classify converts a fatal pipeline error for the HTTP edge.
// Upstream and internal causes are kept out of the message.
func classify(err error) *errbuilder.ErrBuilder {
	switch {
	case analysis.IsInvalid(err), errors.Is(err, errMalformedBody):
		return errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg(err.Error()).WithCause(err)
	case analysis.IsNotFound(err):
		return errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg(err.Error()).WithCause(err)
	case errors.Is(err, analysis.ErrSnapshotUnavailable):
		return errbuilder.New().WithCode(errbuilder.CodeUnavailable).WithMsg("github is unavailable").WithCause(err)
	default:
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("internal error").WithCause(err)
	}
}

// httpStatus maps the builder code to the response status and wire code.
func httpStatus(b *errbuilder.ErrBuilder) (int, string) {
	switch b.ErrCode() {
	case errbuilder.CodeInvalidArgument:
		return http.StatusBadRequest, "invalid_argument"
	case errbuilder.CodeNotFound:
		return http.StatusNotFound, "not_found"
	case errbuilder.CodeUnavailable:
		return http.StatusBadGateway, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// abort writes the coded error body and records the cause for the access log.
func abort(c *gin.Context, log *zap.Logger, err error) {
	coded := classify(err)
	status, code := httpStatus(coded)
	_ = c.Error(err)

	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("code", code), zap.Error(err))
	}

	c.AbortWithStatusJSON(status, errorBody{Error: coded.Msg, Code: code})
}
