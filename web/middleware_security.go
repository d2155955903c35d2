package web

import "net/http"

const (
	contentSecurityPolicy    = "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self' wss:; frame-ancestors 'none'; object-src 'none'; base-uri 'self'"
	devContentSecurityPolicy = "default-src 'self' 'unsafe-inline' 'unsafe-eval' ws: http://localhost:3000; img-src 'self' data:; frame-ancestors 'none'"
)

// SecurityHeadersMiddleware sets browser security headers on every
// response.
type SecurityHeadersMiddleware struct {
	headers map[string]string
}

func NewSecurityHeadersMiddleware(dev bool) *SecurityHeadersMiddleware {
	headers := map[string]string{
		"Content-Security-Policy": contentSecurityPolicy,
		"X-Frame-Options":         "DENY",
		"X-Content-Type-Options":  "nosniff",
		"Referrer-Policy":         "same-origin",
	}
	if dev {
		headers["Content-Security-Policy"] = devContentSecurityPolicy
	} else {
		headers["Strict-Transport-Security"] = "max-age=31536000; includeSubDomains"
	}
	return &SecurityHeadersMiddleware{headers: headers}
}

func (mw *SecurityHeadersMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		for key, value := range mw.headers {
			rw.Header().Set(key, value)
		}
		next.ServeHTTP(rw, req)
	})
}
