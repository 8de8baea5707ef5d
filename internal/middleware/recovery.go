package middleware

import (
	"net/http"

	"metamarket-api/pkg/apierror"
	"metamarket-api/pkg/response"

	"go.uber.org/zap"
)

// NewRecovery turns panics into a 500 response and logs the stack.
func NewRecovery(logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("recovery")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error("panic",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("request_id", GetRequestID(r.Context())),
						zap.Stack("stack"))

					response.Error(w, apierror.InternalError("internal server error"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
