package web

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net"
	"net/http"
	"net/url"
	"pcluster/pcui/cognito"
	"pcluster/pcui/metrics"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	ACCESS_TOKEN_COOKIE  = "accessToken"
	ID_TOKEN_COOKIE      = "idToken"
	REFRESH_TOKEN_COOKIE = "refreshToken"
	STATE_COOKIE         = "oauthstate"
)

type ctxKey int

const ctxUserKey ctxKey = iota

// Limiters of addresses idle for longer than this are dropped.
const loginLimiterIdle = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// loginLimiter throttles password logins per client address.
type loginLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	limiters  map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

func newLoginLimiter(perSecond float64, burst int) *loginLimiter {
	return &loginLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: map[string]*limiterEntry{},
		now:      time.Now,
	}
}

func (l *loginLimiter) Allow(key string) bool {
	if l.limit <= 0 {
		return true
	}
	l.mu.Lock()
	now := l.now()
	l.sweep(now)
	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()
	return entry.limiter.AllowN(now, 1)
}

func (l *loginLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < loginLimiterIdle {
		return
	}
	l.lastSweep = now
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > loginLimiterIdle {
			delete(l.limiters, key)
		}
	}
}

func (l *loginLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (env *Environ) setTokenCookie(rw http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(rw, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (env *Environ) setTokenCookies(rw http.ResponseWriter, token *oauth2.Token) {
	env.setTokenCookie(rw, ACCESS_TOKEN_COOKIE, token.AccessToken, 0)
	if idToken, ok := token.Extra("id_token").(string); ok && idToken != "" {
		env.setTokenCookie(rw, ID_TOKEN_COOKIE, idToken, 0)
	}
	if token.RefreshToken != "" {
		env.setTokenCookie(rw, REFRESH_TOKEN_COOKIE, token.RefreshToken, 0)
	}
}

func (env *Environ) OidcLoginRedirect(rw http.ResponseWriter, req *http.Request) {
	if env.oidcp == nil || env.oauth2 == nil {
		env.logger.Warn().Msg("please configure oidc before use")
		env.error(rw, req, nil, "OpenID not configured", http.StatusBadRequest)
		return
	}
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		env.error(rw, req, err, "cannot generate oauth state", http.StatusInternalServerError)
		return
	}
	state := base64.URLEncoding.EncodeToString(b)
	cookie := http.Cookie{Name: STATE_COOKIE, Value: state, Expires: env.now().Add(15 * time.Minute), Path: "/", HttpOnly: true}
	http.SetCookie(rw, &cookie)
	http.Redirect(rw, req, env.oauth2.AuthCodeURL(state), http.StatusFound)
}

func (env *Environ) OidcLoginCallback(rw http.ResponseWriter, req *http.Request) {
	if env.oidcp == nil || env.oauth2 == nil {
		env.error(rw, req, nil, "OpenID not configured", http.StatusBadRequest)
		return
	}
	oauthState, err := req.Cookie(STATE_COOKIE)
	if err != nil {
		env.error(rw, req, err, "invalid oauth state cookie", http.StatusBadRequest)
		return
	}
	if req.FormValue("state") != oauthState.Value {
		env.error(rw, req, nil, "invalid oauth state", http.StatusBadRequest)
		return
	}
	token, err := env.oauth2.Exchange(req.Context(), req.FormValue("code"))
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("oidc", "failure").Inc()
		env.error(rw, req, err, "failed to exchange code", http.StatusUnauthorized)
		return
	}
	if token.AccessToken == "" {
		metrics.LoginAttempts.WithLabelValues("oidc", "failure").Inc()
		env.error(rw, req, nil, "no access token", http.StatusUnauthorized)
		return
	}
	metrics.LoginAttempts.WithLabelValues("oidc", "success").Inc()
	env.setTokenCookies(rw, token)
	http.SetCookie(rw, &http.Cookie{Name: STATE_COOKIE, Path: "/", MaxAge: -1})
	http.Redirect(rw, req, "/", http.StatusFound)
}

type passwordLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (env *Environ) PasswordLogin(rw http.ResponseWriter, req *http.Request) {
	if !env.limiter.Allow(clientHost(req)) {
		metrics.LoginAttempts.WithLabelValues("password", "throttled").Inc()
		env.error(rw, req, nil, "too many login attempts", http.StatusTooManyRequests)
		return
	}
	form := passwordLoginRequest{}
	if !env.decodeBody(rw, req, &form) {
		return
	}
	user := env.checkPassword(form.Username, form.Password)
	if user == nil {
		metrics.LoginAttempts.WithLabelValues("password", "failure").Inc()
		env.error(rw, req, nil, "authentication failed", http.StatusUnauthorized)
		return
	}
	metrics.LoginAttempts.WithLabelValues("password", "success").Inc()

	session := env.Session(req)
	session.SetAuthUser(user)
	if err := session.Save(req, rw); err != nil {
		env.error(rw, req, err, "session save failed", http.StatusInternalServerError)
		return
	}
	env.logger.Info().Str("user", user.Id).Msg("user logged in")
	env.render.JSON(rw, http.StatusOK, identityFromUser(user))
}

func (env *Environ) checkPassword(username, password string) *User {
	for _, userConfig := range env.cfg.Web.Users {
		if userConfig.Id != username {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(userConfig.HashedPassword), []byte(password)); err != nil {
			return nil
		}
		return &User{
			Id:            userConfig.Id,
			Email:         userConfig.Email,
			FullName:      userConfig.FullName,
			Groups:        userConfig.Groups,
			Authenticated: true,
		}
	}
	return nil
}

func (env *Environ) Logout(rw http.ResponseWriter, req *http.Request) {
	session := env.Session(req)
	user := session.AuthUser()
	if user.Authenticated {
		session.Options.MaxAge = -1
		if err := session.Save(req, rw); err != nil {
			env.error(rw, req, err, "failed to save session", http.StatusInternalServerError)
			return
		}
		env.logger.Info().Str("user", user.Id).Msg("user logged out")
	}
	for _, name := range []string{ACCESS_TOKEN_COOKIE, ID_TOKEN_COOKIE, REFRESH_TOKEN_COOKIE} {
		env.setTokenCookie(rw, name, "", -1)
	}
	redirectUrl := "/"
	if env.cfg.OIDC.AuthDomain != "" {
		redirectUrl = (&url.URL{
			Scheme: "https",
			Host:   env.cfg.OIDC.AuthDomain,
			Path:   "/logout",
			RawQuery: url.Values{
				"client_id":  {env.cfg.OIDC.ClientId},
				"logout_uri": {env.cfg.OIDC.RedirectURL},
			}.Encode(),
		}).String()
	}
	http.Redirect(rw, req, redirectUrl, http.StatusFound)
}

// tokenUser resolves the user behind the token cookies, refreshing the
// tokens when the access token has expired.
func (env *Environ) tokenUser(rw http.ResponseWriter, req *http.Request) *User {
	if env.oidcp == nil || env.oauth2 == nil {
		return nil
	}
	access, err := req.Cookie(ACCESS_TOKEN_COOKIE)
	if err != nil || access.Value == "" {
		return nil
	}
	rawIdToken := ""
	if cookie, err := req.Cookie(ID_TOKEN_COOKIE); err == nil {
		rawIdToken = cookie.Value
	}
	if tokenExpired(access.Value, env.now()) {
		refresh, err := req.Cookie(REFRESH_TOKEN_COOKIE)
		if err != nil || refresh.Value == "" {
			return nil
		}
		token, err := env.oauth2.TokenSource(req.Context(), &oauth2.Token{RefreshToken: refresh.Value}).Token()
		if err != nil {
			env.logger.Info().Err(err).Msg("token refresh failed")
			return nil
		}
		env.setTokenCookies(rw, token)
		if idToken, ok := token.Extra("id_token").(string); ok && idToken != "" {
			rawIdToken = idToken
		}
	}
	if rawIdToken == "" {
		return nil
	}
	return env.verifyIdToken(req.Context(), rawIdToken)
}

func (env *Environ) verifyIdToken(ctx context.Context, raw string) *User {
	verifier := env.oidcp.Verifier(&oidc.Config{ClientID: env.oauth2.ClientID})
	idToken, err := verifier.Verify(ctx, raw)
	if err != nil {
		env.logger.Info().Err(err).Msg("id token verification failed")
		return nil
	}
	claims := map[string]interface{}{}
	if err := idToken.Claims(&claims); err != nil {
		env.logger.Warn().Err(err).Msg("failed to extract id token claims")
		return nil
	}
	user := &User{Id: idToken.Subject, Groups: cognito.GroupsFromClaims(claims), Authenticated: true}
	if username, ok := claims["cognito:username"].(string); ok {
		user.Id = username
	}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		user.FullName = name
	}
	return user
}

// tokenExpired reads the exp claim without verifying the signature. A token
// that cannot be parsed counts as expired.
func tokenExpired(raw string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return !now.Before(exp.Time)
}

func (env *Environ) currentUser(req *http.Request) *User {
	if user, ok := req.Context().Value(ctxUserKey).(*User); ok {
		return user
	}
	return &User{FullName: "Anonymous"}
}

func (env *Environ) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(rw http.ResponseWriter, req *http.Request) {
		user := env.Session(req).AuthUser()
		if !user.Authenticated {
			user = env.tokenUser(rw, req)
		}
		if user == nil || !user.Authenticated {
			env.error(rw, req, nil, "authentication required", http.StatusUnauthorized)
			return
		}
		next(rw, req.WithContext(context.WithValue(req.Context(), ctxUserKey, user)))
	}
}

// admin guards routes that change clusters, images, users or costs.
func (env *Environ) admin(next http.HandlerFunc) http.HandlerFunc {
	return env.authenticated(func(rw http.ResponseWriter, req *http.Request) {
		if !env.currentUser(req).InGroup(env.cfg.OIDC.AdminGroup) {
			env.error(rw, req, nil, "forbidden", http.StatusForbidden)
			return
		}
		next(rw, req)
	})
}

func clientHost(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
