package web

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const REQUEST_ID_HEADER = "X-Request-Id"

// statusRecorder remembers the response status. It stays hijackable so that
// websocket upgrades pass through.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

type LogRequestMiddleware struct {
	logger          zerolog.Logger
	excludePrefixes []string
	trustedProxies  []string
}

func NewLogRequestMiddleware(logger zerolog.Logger, trustedProxies, exclude []string) *LogRequestMiddleware {
	return &LogRequestMiddleware{
		logger:          logger,
		excludePrefixes: exclude,
		trustedProxies:  trustedProxies,
	}
}

func (mw *LogRequestMiddleware) getRemoteAddr(req *http.Request) string {
	remoteHost, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	trusted := false
	for _, trustedAddr := range mw.trustedProxies {
		if trustedAddr == remoteHost {
			trusted = true
			break
		}
	}
	if !trusted {
		return remoteHost
	}
	if realIP := req.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	if xForwardedFor := req.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
		splitted := strings.SplitN(xForwardedFor, ",", 2)
		return strings.TrimSpace(splitted[0])
	}
	return remoteHost
}

func (mw *LogRequestMiddleware) ServeHTTP(rw http.ResponseWriter, req *http.Request, next http.HandlerFunc) {
	requestId := req.Header.Get(REQUEST_ID_HEADER)
	if requestId == "" {
		requestId = uuid.New().String()
	}
	rw.Header().Set(REQUEST_ID_HEADER, requestId)
	for _, p := range mw.excludePrefixes {
		if strings.HasPrefix(req.URL.Path, p) {
			next(rw, req)
			return
		}
	}
	start := time.Now()
	recorder := &statusRecorder{ResponseWriter: rw, status: http.StatusOK}
	next(recorder, req)
	mw.logger.Info().
		Str("request_id", requestId).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("remote", mw.getRemoteAddr(req)).
		Int("status", recorder.status).
		Dur("latency", time.Since(start)).
		Msg("completed handling request")
}

func (mw *LogRequestMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		mw.ServeHTTP(rw, req, next.ServeHTTP)
	})
}
