package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/otp"
	"github.com/trezcool/shule/core/remedial"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/storage/database"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHTTPForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
)

// statusFor maps domain sentinel errors to HTTP statuses.
func statusFor(err error) (int, bool) {
	switch err {
	case user.ErrEmailExists:
		return http.StatusConflict, true
	case user.ErrInvalidCredentials, otp.ErrInvalidCode:
		return http.StatusUnauthorized, true
	case user.ErrNotFound, otp.ErrNotFound, student.ErrNotFound, student.ErrNotLinked, remedial.ErrNotFound:
		return http.StatusNotFound, true
	case otp.ErrExpired, otp.ErrNotVerified, student.ErrPasswordRequired, assessment.ErrInvalidDate:
		return http.StatusBadRequest, true
	case otp.ErrTooManyAttempts:
		return http.StatusTooManyRequests, true
	case database.ErrNotReady:
		return http.StatusServiceUnavailable, true
	}
	return 0, false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows
// how to translate our error taxonomy into `{"error": ...}` JSON responses.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}
		var fields map[string]string

		cause := errors.Cause(err)
		if status, ok := statusFor(cause); ok {
			code = status
			message = cause.Error()
		} else {
			switch origErr := cause.(type) {
			case *echo.HTTPError:
				if origErr == middleware.ErrJWTMissing {
					code = http.StatusUnauthorized
					message = origErr.Message
					break
				}
				if origErr.Internal != nil {
					if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
						origErr = herr
					}
				}
				code = origErr.Code
				message = origErr.Message
			case validator.ValidationErrors:
				fields = make(map[string]string, len(origErr))
				for _, vErr := range origErr {
					fields[vErr.Field()] = vErr.Translate(translator)
				}
				code = http.StatusBadRequest
				message = "invalid input"
			case *core.ValidationError:
				if origErr.Fields != nil {
					fields = make(map[string]string, len(origErr.Fields))
					for _, fErr := range origErr.Fields {
						fields[fErr.Field] = fErr.Error
					}
					message = "invalid input"
				} else {
					message = origErr.Error()
				}
				code = http.StatusBadRequest
			case *core.ConfigError:
				code = http.StatusServiceUnavailable
				message = origErr.Error()
			case *otp.DeliveryError:
				code = http.StatusInternalServerError
				message = origErr.Error()
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				var usr user.User
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					usr.ID = claims.Subject
					usr.Role = claims.Role
				}
				logger.Error(msg, errors.Wrap(err, msg), usr)
			}
		}

		var body interface{}
		if m, ok := message.(string); ok {
			if fields != nil {
				body = echo.Map{"error": m, "fields": fields}
			} else {
				body = echo.Map{"error": m}
			}
		} else {
			body = echo.Map{"error": message}
		}

		// Send response
		if !ctx.Response().Committed {
			var sendErr error
			if ctx.Request().Method == http.MethodHead {
				sendErr = ctx.NoContent(code)
			} else {
				sendErr = ctx.JSON(code, body)
			}
			if sendErr != nil {
				ctx.Echo().Logger.Error(sendErr)
			}
		}
	}
}
