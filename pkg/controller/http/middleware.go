package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/service/auth"
	"github.com/munim-lab/munim/pkg/utils/errutil"
	"github.com/munim-lab/munim/pkg/utils/logging"
)

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// adminAuthMiddleware validates the bearer token on admin API requests
// and records the admin ID for downstream handlers.
func adminAuthMiddleware(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			signed, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || signed == "" {
				errutil.HandleHTTP(r.Context(), w, goerr.New("missing bearer token"), http.StatusUnauthorized)
				return
			}

			adminID, err := svc.Verify(signed)
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
				return
			}

			ctx := logging.With(r.Context(), logging.From(r.Context()).With("admin_id", adminID))
			next.ServeHTTP(w, r.WithContext(withAdminID(ctx, adminID)))
		})
	}
}
