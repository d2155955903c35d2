package web

import "net/http"

func (env *Environ) usersEnabled(rw http.ResponseWriter, req *http.Request) bool {
	if env.services.Users == nil {
		env.error(rw, req, nil, "user management is not configured", http.StatusNotFound)
		return false
	}
	return true
}

func (env *Environ) UserList(rw http.ResponseWriter, req *http.Request) {
	if !env.usersEnabled(rw, req) {
		return
	}
	users, err := env.services.Users.List(req.Context())
	if err != nil {
		env.fail(rw, req, err, "failed to list users")
		return
	}
	env.render.JSON(rw, http.StatusOK, map[string]interface{}{"users": users})
}

type userCreateRequest struct {
	Email string `json:"Username"`
}

func (env *Environ) UserCreate(rw http.ResponseWriter, req *http.Request) {
	if !env.usersEnabled(rw, req) {
		return
	}
	form := userCreateRequest{}
	if !env.decodeBody(rw, req, &form) {
		return
	}
	user, err := env.services.Users.Create(req.Context(), form.Email)
	if err != nil {
		env.fail(rw, req, err, "failed to create user")
		return
	}
	env.logger.Info().Str("username", user.Username).Str("by", env.currentUser(req).Id).Msg("user created")
	env.render.JSON(rw, http.StatusOK, user)
}

func (env *Environ) UserDelete(rw http.ResponseWriter, req *http.Request) {
	if !env.usersEnabled(rw, req) {
		return
	}
	username := env.vars(req)["username"]
	if err := env.services.Users.Delete(req.Context(), username); err != nil {
		env.fail(rw, req, err, "failed to delete user")
		return
	}
	env.logger.Info().Str("username", username).Str("by", env.currentUser(req).Id).Msg("user deleted")
	env.render.JSON(rw, http.StatusOK, map[string]string{"Username": username})
}
