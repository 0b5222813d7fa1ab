package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/config"
	"github.com/iliyamo/cinema-booking/internal/middleware"
)

// validate is shared by all handlers.  Field errors are reported under the
// request's JSON names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// errorJSON writes the common error body.
func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

// HTTPErrorHandler answers errors raised outside handlers (unknown routes,
// wrong methods, body limits, recovered panics) with the same
// {"error": ...} body the handlers use.
func HTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := http.StatusInternalServerError, "internal server error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			msg = strings.ToLower(http.StatusText(status))
			if m, ok := he.Message.(string); ok && m != "" {
				msg = strings.ToLower(m)
			}
		}
		if status >= http.StatusInternalServerError {
			log.Error("request failed", zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path), zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = errorJSON(c, status, msg)
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}

// bindAndValidate decodes the request into dst and runs struct validation.
// On failure the 400 response has already been written and ok is false.
func bindAndValidate(c echo.Context, dst any) (ok bool, err error) {
	if err := c.Bind(dst); err != nil {
		return false, errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if err := validate.StructCtx(c.Request().Context(), dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return false, errorJSON(c, http.StatusBadRequest, "invalid body")
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = fe.Tag()
		}
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
	}
	return true, nil
}

// fieldPath strips the top-level struct name from a validator namespace,
// e.g. "createOrderReq.tickets[0].row" -> "tickets[0].row".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// getUserID extracts the user id stored by JWTAuth.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get(middleware.CtxUserID).(uint64); ok && id != 0 {
		return id, nil
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parseIDList parses a comma-separated id list.  Tokens that are not
// positive integers are skipped and duplicates are dropped.
func parseIDList(raw string) []uint64 {
	var ids []uint64
	for _, tok := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(tok), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, id)
	}
	return uniqueIDs(ids)
}

// uniqueIDs returns ids without duplicates, keeping first occurrences.
func uniqueIDs(ids []uint64) []uint64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint64]bool, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// mediaURL turns a stored file path into an absolute URL.  Without a
// configured base URL the request's scheme and host are used.
func mediaURL(c echo.Context, media config.MediaConfig, path string) *string {
	if path == "" {
		return nil
	}
	base := media.BaseURL
	if base == "" {
		base = c.Scheme() + "://" + c.Request().Host
	}
	u := base + media.URLPrefix + "/" + strings.TrimLeft(path, "/")
	return &u
}
