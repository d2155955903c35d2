package web

import (
	"encoding/gob"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	SESSION_NAME       = "pcui"
	SESSION_USER_KEY   = "auth_user"
	SESSION_WIZARD_KEY = "wizard_id"
)

func init() {
	gob.Register(&User{})
}

type User struct {
	Id            string
	Email         string
	FullName      string
	Groups        []string
	Authenticated bool
}

func (user *User) InGroup(group string) bool {
	for _, g := range user.Groups {
		if g == group {
			return true
		}
	}
	return false
}

type Session struct {
	*sessions.Session
}

func (session *Session) AuthUser() *User {
	if user, ok := session.Values[SESSION_USER_KEY].(*User); ok {
		return user
	}
	return &User{FullName: "Anonymous"}
}

func (session *Session) SetAuthUser(user *User) {
	session.Values[SESSION_USER_KEY] = user
}

func (session *Session) IsAuthenticated() bool {
	return session.AuthUser().Authenticated
}

// WizardId returns the key of the wizard state of this session, creating
// one when missing. The caller saves the session.
func (session *Session) WizardId() (string, bool) {
	if id, ok := session.Values[SESSION_WIZARD_KEY].(string); ok && id != "" {
		return id, false
	}
	id := uuid.New().String()
	session.Values[SESSION_WIZARD_KEY] = id
	return id, true
}

func (env *Environ) Session(request *http.Request) *Session {
	session, err := env.sessions.Get(request, SESSION_NAME)
	if err != nil {
		env.logger.Warn().Err(err).Msg("failed to fetch session, creating new one")
		session.IsNew = true
	}
	return &Session{session}
}
