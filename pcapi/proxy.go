package pcapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

var (
	ErrUnsafePath  = fmt.Errorf("unsafe api path")
	forwardHeaders = []string{"Accept", "Content-Type"}
	droppedHeaders = map[string]bool{
		"Connection":          true,
		"Keep-Alive":          true,
		"Proxy-Authenticate":  true,
		"Proxy-Authorization": true,
		"Te":                  true,
		"Trailer":             true,
		"Transfer-Encoding":   true,
		"Upgrade":             true,
		"Content-Encoding":    true,
		"Content-Length":      true,
	}
)

// IsSafePath rejects paths with a ".." segment.
func IsSafePath(path string) bool {
	for _, segment := range strings.Split(path, "/") {
		if segment == ".." {
			return false
		}
	}
	return true
}

func SizeNotExceeding(body []byte, size int) error {
	if len(body) > size {
		return fmt.Errorf("request body exceeded max size of %d bytes", size)
	}
	return nil
}

// Proxy forwards a console request to the API path, keeping the query
// except the parameters that select the path and the version.
func (c *Client) Proxy(ctx context.Context, method, path string, query url.Values, body []byte, header http.Header) (*http.Response, error) {
	if path == "" || !IsSafePath(path) {
		return nil, ErrUnsafePath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	forwarded := url.Values{}
	for key, values := range query {
		if key == "path" || key == "version" {
			continue
		}
		forwarded[key] = values
	}
	outgoing := http.Header{}
	for _, key := range forwardHeaders {
		if value := header.Get(key); value != "" {
			outgoing.Set(key, value)
		}
	}
	return c.Send(ctx, method, path, forwarded, body, outgoing)
}

// CopyResponse writes an upstream answer without hop-by-hop and encoding
// headers.
func CopyResponse(w http.ResponseWriter, resp *http.Response) error {
	defer resp.Body.Close()
	for key, values := range resp.Header {
		if droppedHeaders[http.CanonicalHeaderKey(key)] {
			continue
		}
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, err := io.Copy(w, resp.Body)
	return err
}
