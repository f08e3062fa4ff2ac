package logging

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLogger attaches a request-scoped logger carrying the request ID and,
// when a traceparent header and GCP project are present, Cloud Trace fields.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			projectID := resolveProjectID()
			reqID := chimiddleware.GetReqID(r.Context())

			var fields []zap.Field
			traceID := ""
			if tc, ok := parseTraceparent(r.Header.Get(traceparentHeader)); ok {
				fields = tc.fields(projectID)
				traceID = tc.resource(projectID)
			}
			if reqID != "" {
				fields = append(fields, zap.String("requestId", reqID))
				if traceID == "" {
					traceID = reqID
				}
			}

			logger := Logger()
			if len(fields) > 0 {
				logger = logger.With(fields...)
			}
			ctx := contextWithTraceID(r.Context(), traceID)
			ctx = WithLogger(ctx, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLogger writes one structured "request completed" line per request.
func AccessLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					fields = append(fields, zap.String("route", pattern))
				}
			}
			if ua := r.UserAgent(); ua != "" {
				fields = append(fields, zap.String("userAgent", ua))
			}
			LoggerFromContext(r.Context()).Info("request completed", fields...)
		})
	}
}
