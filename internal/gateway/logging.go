package gateway

import (
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const redacted = "[REDACTED]"

var sensitiveHeaders = []string{"Authorization", "Cookie", "Set-Cookie", "Proxy-Authorization"}

// LoggingFilter logs every request before it is forwarded and the response
// status and headers once the downstream chain returns. It must wrap every
// other middleware. Bodies are never read. If the chain panics the response
// line is still written and the panic continues up the stack.
func LoggingFilter(log *zap.Logger) func(http.Handler) http.Handler {
	log = log.Named("gateway")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("uri", r.URL.RequestURI()),
				zap.String("remote", r.RemoteAddr),
				zap.Any("headers", redactHeaders(r.Header)),
			)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				rec := recover()

				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
					if rec != nil {
						status = http.StatusInternalServerError
					}
				}
				fields := []zap.Field{
					zap.String("method", r.Method),
					zap.String("uri", r.URL.RequestURI()),
					zap.Int("status", status),
					zap.Any("headers", redactHeaders(ww.Header())),
					zap.Duration("duration", time.Since(start)),
				}

				if rec != nil {
					log.Error("response", append(fields, zap.Any("panic", rec))...)
					panic(rec)
				}
				log.Info("response", fields...)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func redactHeaders(h http.Header) http.Header {
	out := h.Clone()
	if out == nil {
		return http.Header{}
	}
	for _, name := range sensitiveHeaders {
		if _, ok := out[name]; ok {
			out[name] = []string{redacted}
		}
	}
	return out
}
