package middleware

import (
	"context"
	"net/http"

	"github.com/irsalhamdi/nutrition-cart/api/web"
	"github.com/irsalhamdi/nutrition-cart/api/weberr"
	"github.com/sirupsen/logrus"
)

// Errors renders the error returned by a handler. Errors carrying a
// response are sent as is; anything else becomes a 500.
func Errors(log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			err := handler(ctx, w, r)
			if err == nil {
				return nil
			}

			fields := logrus.Fields{
				"req_id":  ContextRequestID(ctx),
				"message": err,
			}
			if f, ok := weberr.Fields(err); ok {
				for k, v := range f {
					fields[k] = v
				}
			}

			body, code, ok := weberr.Response(err)
			if !ok {
				code = http.StatusInternalServerError
				body = weberr.ErrorResponse{Error: http.StatusText(code)}
			}

			if code >= http.StatusInternalServerError {
				log.WithFields(fields).Error("ERROR")
			} else {
				log.WithFields(fields).Debug("request failed")
			}

			return web.Respond(ctx, w, body, code)
		}
		return h
	}
	return m
}
