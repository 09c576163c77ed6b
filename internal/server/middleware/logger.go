// Логирование HTTP-запросов
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-webchat/internal/shared/logger"
)

// ResponseWriter запоминает статус и размер ответа для лога.
type ResponseWriter struct {
	http.ResponseWriter
	Status int
	Size   int
}

func (w *ResponseWriter) WriteHeader(status int) {
	if w.Status == 0 {
		w.Status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if w.Status == 0 {
		w.Status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.Size += n
	return n, err
}

// LoggerMiddleware пишет по строке на каждый запрос: метод, uri, статус, размер, время,
// request id (если перед ним стоит chi RequestID) и адрес клиента.
// nil: логгер по умолчанию (runtime/logs/http.log).
func LoggerMiddleware(loggerHTTP *logger.HTTPLogger) func(http.Handler) http.Handler {
	if loggerHTTP == nil {
		loggerHTTP = logger.NewHTTPLogger()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wr := &ResponseWriter{ResponseWriter: w}
			next.ServeHTTP(wr, r)

			// хендлер ничего не записал
			if wr.Status == 0 {
				wr.Status = http.StatusOK
			}

			fields := []zap.Field{zap.String("remote_addr", r.RemoteAddr)}
			if id := chimw.GetReqID(r.Context()); id != "" {
				fields = append(fields, zap.String("request_id", id))
			}

			duration := float64(time.Since(start).Microseconds()) / 1000
			loggerHTTP.LogRequest(r.Method, r.RequestURI, wr.Status, wr.Size, duration, fields...)
		})
	}
}
