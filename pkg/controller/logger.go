package controller

import (
	"context"
	"grapher/pkg/logger"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-Id"

type accessKey struct{}

// accessFields collects what handlers report about a request.
type accessFields struct {
	fields []zap.Field
}

// Annotate adds fields to the access log line of the request in ctx, such as
// the formula and the plot outcome. It does nothing outside WithLogger.
func Annotate(ctx context.Context, fields ...zap.Field) {
	acc, _ := ctx.Value(accessKey{}).(*accessFields)
	if acc == nil {
		return
	}

	acc.fields = append(acc.fields, fields...)
}

// responseRecorder remembers the status and size of the response.
type responseRecorder struct {
	http.ResponseWriter

	status int
	bytes  int
}

func (rec *responseRecorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *responseRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n

	return n, err
}

func (rec *responseRecorder) Unwrap() http.ResponseWriter { return rec.ResponseWriter }

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

// WithLogger returns a middleware that assigns a request ID, echoes it in
// RequestIDHeader and puts a logger carrying it into the request context, so
// every entry logged while handling the request has a request_id field.
// After the handler returns it writes one access log line, at error level for
// 5xx, warn for 4xx and info otherwise, including any fields added with
// Annotate.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		acc := &accessFields{}
		ctx := context.WithValue(r.Context(), accessKey{}, acc)
		ctx = logger.WithFields(ctx, zap.String("request_id", requestID))

		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(ctx))
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		fields := append([]zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status_code", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", remoteHost(r)),
		}, acc.fields...)

		switch {
		case rec.status >= http.StatusInternalServerError:
			logger.Error(ctx, "access log", fields...)
		case rec.status >= http.StatusBadRequest:
			logger.Warn(ctx, "access log", fields...)
		default:
			logger.Info(ctx, "access log", fields...)
		}
	})
}
