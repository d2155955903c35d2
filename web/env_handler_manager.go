package web

import (
	"fmt"
	"net/http"
	"pcluster/pcui/features"

	"github.com/gorilla/csrf"
)

type identityResponse struct {
	Attributes map[string]string `json:"attributes"`
	UserRoles  []string          `json:"user_roles"`
	Username   string            `json:"username"`
}

func identityFromUser(user *User) identityResponse {
	roles := user.Groups
	if roles == nil {
		roles = []string{}
	}
	return identityResponse{
		Attributes: map[string]string{"email": user.Email, "name": user.FullName},
		UserRoles:  roles,
		Username:   user.Id,
	}
}

func (env *Environ) CsrfError(rw http.ResponseWriter, req *http.Request) {
	errorText := fmt.Sprintf("%s - %s",
		http.StatusText(http.StatusForbidden),
		csrf.FailureReason(req),
	)
	env.error(rw, req, nil, errorText, http.StatusForbidden)
}

func (env *Environ) CsrfToken(rw http.ResponseWriter, req *http.Request) {
	rw.Header().Set("Cache-Control", "no-store")
	env.render.JSON(rw, http.StatusOK, map[string]string{"csrf_token": csrf.Token(req)})
}

func (env *Environ) Identity(rw http.ResponseWriter, req *http.Request) {
	env.render.JSON(rw, http.StatusOK, identityFromUser(env.currentUser(req)))
}

func (env *Environ) Version(rw http.ResponseWriter, req *http.Request) {
	version, err := env.services.Versions.Version(env.context(req))
	if err != nil {
		env.fail(rw, req, err, "failed to get api version")
		return
	}
	env.render.JSON(rw, http.StatusOK, version)
}

// apiVersion is the version in the query, the latest configured one when
// absent.
func (env *Environ) apiVersion(req *http.Request) (string, error) {
	if version := req.URL.Query().Get("version"); version != "" {
		return version, nil
	}
	current, err := env.services.Versions.Version(req.Context())
	if err != nil {
		return "", err
	}
	if len(current.Full) == 0 {
		return "", nil
	}
	return current.Full[len(current.Full)-1], nil
}

// Features lists the features enabled for the version and region in the
// query.
func (env *Environ) Features(rw http.ResponseWriter, req *http.Request) {
	version, err := env.apiVersion(req)
	if err != nil {
		env.fail(rw, req, err, "failed to get api version")
		return
	}
	enabled := env.services.Features.Features(version, env.region(req))
	if enabled == nil {
		enabled = []features.Feature{}
	}
	env.render.JSON(rw, http.StatusOK, map[string]interface{}{
		"version":  version,
		"region":   env.region(req),
		"features": enabled,
	})
}
