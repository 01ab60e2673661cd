package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
)

// failure is the error envelope every non-2xx response carries.
type failure struct {
	Success bool        `json:"success"`
	Message interface{} `json:"message"`
}

func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var (
			code  = http.StatusInternalServerError
			msg   interface{}
			cause = errors.Cause(err)
		)
		switch origErr := cause.(type) {
		case *echo.HTTPError:
			code = origErr.Code
			msg = origErr.Message
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			fields := make(map[string]string, len(origErr))
			for _, fldErr := range origErr {
				fields[fldErr.Field()] = fldErr.Translate(core.Translator)
			}
			msg = fields
		case *core.ValidationError:
			code = http.StatusBadRequest
			if len(origErr.Fields) > 0 {
				fields := make(map[string]string, len(origErr.Fields))
				for _, fldErr := range origErr.Fields {
					fields[fldErr.Field] = fldErr.Error
				}
				msg = fields
			} else {
				msg = origErr.Error()
			}
		case *core.AuthenticationError:
			code = http.StatusUnauthorized
			msg = origErr.Error()
		case *core.PermissionError:
			code = http.StatusForbidden
			msg = origErr.Error()
		case *core.NotFoundError:
			code = http.StatusNotFound
			msg = origErr.Error()
		case *core.ConflictError:
			code = http.StatusConflict
			msg = origErr.Error()
		default:
			msg = "Internal server error"
			logger.Error(err.Error(), err)
		}

		var respErr error
		if ctx.Request().Method == http.MethodHead {
			respErr = ctx.NoContent(code)
		} else {
			respErr = ctx.JSON(code, failure{Message: msg})
		}
		if respErr != nil {
			logger.Error(respErr.Error(), respErr)
		}

		if core.IsShutdown(cause) {
			signalShutdown()
		}
	}
}
