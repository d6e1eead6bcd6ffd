package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/sirosfoundation/vcionboard/pkg/inforequest"
	"github.com/sirosfoundation/vcionboard/pkg/offer"
	"github.com/sirosfoundation/vcionboard/pkg/vptoken"
)

// ErrorResponse is the JSON body of failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

func statusCode(err error) int {
	var (
		httpErr   *echo.HTTPError
		decodeErr *vptoken.DecodeError
		cfgErr    *offer.ConfigurationError
	)

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, inforequest.ErrSessionNotFound), errors.Is(err, inforequest.ErrUnknownField):
		return http.StatusNotFound
	case errors.Is(err, inforequest.ErrReadOnlyField):
		return http.StatusConflict
	case errors.Is(err, inforequest.ErrIncomplete):
		return http.StatusUnprocessableEntity
	case errors.As(err, &decodeErr):
		return http.StatusBadRequest
	case errors.As(err, &cfgErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func httpErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	code := statusCode(err)
	msg := err.Error()

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if m, ok := httpErr.Message.(string); ok {
			msg = m
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Errorc(ctx.Request().Context(), "request failed", log.WithError(err))
	}

	var writeErr error
	if ctx.Request().Method == http.MethodHead {
		writeErr = ctx.NoContent(code)
	} else {
		writeErr = ctx.JSON(code, ErrorResponse{Error: msg})
	}

	if writeErr != nil {
		logger.Errorc(ctx.Request().Context(), "failed to write error response", log.WithError(writeErr))
	}
}
