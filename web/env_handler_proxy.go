package web

import (
	"errors"
	"io/ioutil"
	"net/http"
	"pcluster/pcui/pcapi"
)

// Proxy forwards /api?path=... to the cluster API, signing the request on
// the way.
func (env *Environ) Proxy(rw http.ResponseWriter, req *http.Request) {
	path := req.URL.Query().Get("path")
	if path == "" || !pcapi.IsSafePath(path) {
		env.error(rw, req, pcapi.ErrUnsafePath, "invalid path", http.StatusBadRequest)
		return
	}
	body, err := ioutil.ReadAll(http.MaxBytesReader(rw, req.Body, int64(env.cfg.Web.RequestMaxBytes)+1))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			env.error(rw, req, err, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		env.error(rw, req, err, "failed to read request body", http.StatusBadRequest)
		return
	}
	if err := pcapi.SizeNotExceeding(body, env.cfg.Web.RequestMaxBytes); err != nil {
		env.error(rw, req, err, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	resp, err := env.services.Proxy.Proxy(env.context(req), req.Method, path, req.URL.Query(), body, req.Header)
	if err != nil {
		env.error(rw, req, err, "cluster api request failed", http.StatusBadGateway)
		return
	}
	if err := pcapi.CopyResponse(rw, resp); err != nil {
		env.logger.Warn().Err(err).Str("path", path).Msg("failed to copy api response")
	}
}
