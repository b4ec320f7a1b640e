package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Sheyworld98/pln-frontend/internal/labeling"
)

func NewRouter(store *labeling.Store, logger *slog.Logger) http.Handler {
	api := NewAPI(store)

	mux := http.NewServeMux()
	mux.HandleFunc("/users", api.HandleUsers)
	mux.HandleFunc("/profile/{user_id}", api.HandleProfile)
	mux.HandleFunc("/profile/update/{user_id}", api.HandleUpdateProfile)
	mux.HandleFunc("/score/{user_id}", api.HandleScore)
	mux.HandleFunc("/leaderboard", api.HandleLeaderboard)
	mux.HandleFunc("/history/{user_id}", api.HandleHistory)
	mux.HandleFunc("/task/fetch/{user_id}", api.HandleFetchTask)
	mux.HandleFunc("/task/submit/{task_id}", api.HandleSubmitTask)

	return withRequestLog(logger, mux)
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(payload []byte) (int, error) {
	written, err := r.ResponseWriter.Write(payload)
	r.bytesWritten += written
	return written, err
}

func withRequestLog(logger *slog.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.statusCode,
			"bytes", recorder.bytesWritten,
			"duration", time.Since(start),
			"request_id", r.Header.Get("X-Request-ID"),
		)
	})
}
