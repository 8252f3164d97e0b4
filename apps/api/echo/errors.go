package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/coverage"
)

// coverageStatus maps coverage error codes to HTTP statuses. Unlisted codes are server errors.
var coverageStatus = map[coverage.ErrorCode]int{
	coverage.InvalidRange:         http.StatusBadRequest,
	coverage.RangeTooLarge:        http.StatusBadRequest,
	coverage.MissingConfiguration: http.StatusNotFound,
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string

		var covErr *coverage.Error
		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if m, ok := origErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		case *core.ValidationError:
			code = http.StatusBadRequest
			message = origErr.Error()
		default:
			if errors.As(err, &covErr) {
				if status, ok := coverageStatus[covErr.Code]; ok {
					code = status
					message = covErr.Message
					break
				}
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)

			args := []interface{}{
				errors.Wrap(err, message),
				map[string]interface{}{
					"method":     ctx.Request().Method,
					"path":       ctx.Request().URL.Path,
					"request_id": ctx.Response().Header().Get(echo.HeaderXRequestID),
				},
			}
			if actor, ok := getContextActor(ctx); ok {
				args = append(args, actor)
			}
			logger.Error(message, args...)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, echo.Map{"error": message})
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
