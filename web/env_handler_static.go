package web

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"
)

const staticCacheTimeout = 12 * time.Hour

// Static serves the built frontend assets under /static/.
func (env *Environ) Static() http.Handler {
	files := http.FileServer(http.Dir(env.cfg.Web.StaticDir))
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		if !env.cfg.Web.Debug {
			rw.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(staticCacheTimeout.Seconds())))
			rw.Header().Set("Expires", env.now().Add(staticCacheTimeout).UTC().Format(http.TimeFormat))
		}
		files.ServeHTTP(rw, req)
	})
}

// Frontend serves the single page application: files of the static dir by
// name and index.html for every other GET. In dev mode requests go to the
// frontend dev server instead.
func (env *Environ) Frontend(rw http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		env.error(rw, req, nil, "not found", http.StatusNotFound)
		return
	}
	if env.cfg.IsDev() && env.cfg.Web.DevFrontendURL != "" {
		target, err := url.Parse(env.cfg.Web.DevFrontendURL)
		if err != nil {
			env.error(rw, req, err, "invalid dev frontend url", http.StatusInternalServerError)
			return
		}
		httputil.NewSingleHostReverseProxy(target).ServeHTTP(rw, req)
		return
	}
	name := filepath.Join(env.cfg.Web.StaticDir, filepath.FromSlash(path.Clean("/"+req.URL.Path)))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		http.ServeFile(rw, req, name)
		return
	}
	rw.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(rw, req, filepath.Join(env.cfg.Web.StaticDir, "index.html"))
}
