package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmorgan81/postcard/internal/log"
	"github.com/gorilla/mux"
	"github.com/samber/do"
)

func NewRouter(i *do.Injector) (http.Handler, error) {
	h := do.MustInvoke[*Handler](i)
	logger := do.MustInvoke[*slog.Logger](i)
	return Routes(h, logger), nil
}

// Routes mounts the handler on a router. Unknown paths and wrong methods
// both get the JSON 404.
func Routes(h *Handler, logger *slog.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(logRequests(logger))

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/generate", h.Generate).Methods(http.MethodPost)
	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.HandleFunc("/app.js", h.Script).Methods(http.MethodGet)

	notFound := logRequests(logger)(http.HandlerFunc(h.NotFound))
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLog := logger.With("method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r.WithContext(log.NewContext(r.Context(), reqLog)))

			reqLog.Info("request complete", "status", rec.status, "duration", time.Since(start))
		})
	}
}
