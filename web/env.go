package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"pcluster/pcui/config"
	"pcluster/pcui/costexplorer"
	"pcluster/pcui/features"
	"pcluster/pcui/pcapi"
	"pcluster/pcui/pcluster"
	"pcluster/pcui/store"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/unrolled/render"
	"golang.org/x/oauth2"
)

var AppVersion string

// Proxier forwards raw requests to the cluster API.
type Proxier interface {
	Proxy(ctx context.Context, method, path string, query url.Values, body []byte, header http.Header) (*http.Response, error)
}

// Services are the domain services behind the handlers. Users and Costs
// are nil when the matching backend is not configured.
type Services struct {
	Clusters  *pcluster.ClusterService
	Images    *pcluster.ImageService
	Logs      *pcluster.LogService
	Users     *pcluster.UserService
	Costs     *pcluster.CostService
	Dcv       *pcluster.DcvService
	Templates *pcluster.TemplateService
	Versions  pcluster.VersionRepository
	Proxy     Proxier
	Features  *features.Provider
}

type Environ struct {
	render       *render.Render
	logger       zerolog.Logger
	router       *mux.Router
	sessions     sessions.Store
	cfg          *config.Config
	services     Services
	wizards      *store.Registry
	ws           *websocket.Upgrader
	oidcp        *oidc.Provider
	oauth2       *oauth2.Config
	limiter      *loginLimiter
	now          func() time.Time
	tailInterval time.Duration
}

// NewEnviron builds the router. oidcp is nil when single sign-on is not
// configured.
func NewEnviron(cfg *config.Config, logger zerolog.Logger, services Services, oidcp *oidc.Provider) *Environ {
	env := &Environ{
		cfg:          cfg,
		logger:       logger,
		services:     services,
		router:       mux.NewRouter(),
		wizards:      store.NewRegistry(time.Duration(cfg.Web.WizardStateTTL) * time.Second),
		ws:           &websocket.Upgrader{},
		oidcp:        oidcp,
		limiter:      newLoginLimiter(cfg.LoginLimit()),
		now:          time.Now,
		tailInterval: 5 * time.Second,
	}
	env.render = render.New(render.Options{
		IsDevelopment: cfg.Web.Debug,
		IndentJSON:    cfg.Web.Debug,
	})

	sessionStore := sessions.NewCookieStore([]byte(cfg.Web.SessionSecret))
	sessionStore.Options.MaxAge = cfg.Web.SessionMaxAge
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.Web.SessionSecure
	sessionStore.Options.Domain = cfg.Web.SessionDomain
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	env.sessions = sessionStore

	if oidcp != nil {
		env.oauth2 = &oauth2.Config{
			ClientID:     cfg.OIDC.ClientId,
			ClientSecret: cfg.OIDC.ClientSecret,
			RedirectURL:  cfg.OIDC.RedirectURL,
			Endpoint:     oidcp.Endpoint(),
			Scopes:       cfg.OIDC.Scopes,
		}
	}
	env.routes()
	return env
}

// New wraps the router with the request middlewares and CSRF protection.
func New(cfg *config.Config, logger zerolog.Logger, services Services, oidcp *oidc.Provider) http.Handler {
	env := NewEnviron(cfg, logger, services, oidcp)
	csrfProtect := csrf.Protect([]byte(cfg.Web.SessionSecret),
		csrf.ErrorHandler(http.HandlerFunc(env.CsrfError)),
		csrf.Secure(cfg.Web.SessionSecure),
		csrf.Path("/"),
	)
	logRequest := NewLogRequestMiddleware(logger.With().Str("component", "http").Logger(), cfg.Web.TrustedProxies, []string{"/static/", "/metrics"})
	security := NewSecurityHeadersMiddleware(cfg.IsDev())
	return logRequest.Wrap(security.Wrap(csrfProtect(env)))
}

func (env *Environ) routes() {
	r := env.router
	r.Use(metricsMiddleware)

	r.Handle("/metrics", metricsHandler()).Methods("GET")

	r.HandleFunc("/login", env.OidcLoginCallback).Methods("GET").Name("login")
	r.HandleFunc("/login/start", env.OidcLoginRedirect).Methods("GET")
	r.HandleFunc("/login/password", env.PasswordLogin).Methods("POST")
	r.HandleFunc("/logout", env.Logout).Methods("GET")

	r.HandleFunc("/api", env.admin(env.Proxy))

	// Page URLs of the frontend live at the root, the console JSON API
	// under /manager.
	m := r.PathPrefix("/manager").Subrouter()
	m.HandleFunc("/csrf", env.CsrfToken).Methods("GET")
	m.HandleFunc("/get_identity", env.authenticated(env.Identity)).Methods("GET")
	m.HandleFunc("/get_version", env.authenticated(env.Version)).Methods("GET")
	m.HandleFunc("/features", env.authenticated(env.Features)).Methods("GET")

	m.HandleFunc("/clusters", env.authenticated(env.ClusterList)).Methods("GET")
	m.HandleFunc("/clusters", env.admin(env.ClusterCreate)).Methods("POST")
	m.HandleFunc("/clusters/copy-candidates", env.authenticated(env.ClusterCopyCandidates)).Methods("GET")
	m.HandleFunc("/clusters/{name}", env.authenticated(env.ClusterDetail)).Methods("GET")
	m.HandleFunc("/clusters/{name}", env.admin(env.ClusterUpdate)).Methods("PUT")
	m.HandleFunc("/clusters/{name}", env.admin(env.ClusterDelete)).Methods("DELETE")
	m.HandleFunc("/clusters/{name}/compute-fleet", env.admin(env.ClusterComputeFleet)).Methods("PATCH")
	m.HandleFunc("/clusters/{name}/configuration", env.authenticated(env.ClusterConfiguration)).Methods("GET")
	m.HandleFunc("/clusters/{name}/dcv-session", env.admin(env.ClusterDcvSession)).Methods("GET")
	m.HandleFunc("/clusters/{name}/head-node/links", env.authenticated(env.ClusterHeadNodeLinks)).Methods("GET")
	m.HandleFunc("/clusters/{name}/logstreams", env.authenticated(env.LogStreamList)).Methods("GET")
	m.HandleFunc("/clusters/{name}/logstreams/{stream}/events", env.authenticated(env.LogEventList)).Methods("GET")
	m.HandleFunc("/clusters/{name}/logstreams/{stream}/tail", env.authenticated(env.LogTail)).Methods("GET")

	m.HandleFunc("/images/official", env.authenticated(env.OfficialImageList)).Methods("GET")
	m.HandleFunc("/images/custom", env.authenticated(env.CustomImageList)).Methods("GET")
	m.HandleFunc("/images/custom", env.admin(env.CustomImageBuild)).Methods("POST")
	m.HandleFunc("/images/custom/{id}", env.authenticated(env.CustomImageDetail)).Methods("GET")
	m.HandleFunc("/images/custom/{id}", env.admin(env.CustomImageDelete)).Methods("DELETE")

	m.HandleFunc("/users", env.admin(env.UserList)).Methods("GET")
	m.HandleFunc("/users", env.admin(env.UserCreate)).Methods("POST")
	m.HandleFunc("/users/{username}", env.admin(env.UserDelete)).Methods("DELETE")

	m.HandleFunc("/cost-monitoring", env.admin(env.CostStatus)).Methods("GET")
	m.HandleFunc("/cost-monitoring", env.admin(env.CostActivate)).Methods("PUT")
	m.HandleFunc("/cost-monitoring/clusters/{name}", env.admin(env.CostData)).Methods("GET")

	m.HandleFunc("/wizard/state", env.authenticated(env.WizardStateGet)).Methods("GET")
	m.HandleFunc("/wizard/state", env.authenticated(env.WizardStateSet)).Methods("PUT")
	m.HandleFunc("/wizard/state", env.authenticated(env.WizardStateClear)).Methods("DELETE")
	m.HandleFunc("/wizard/load", env.admin(env.WizardLoadCluster)).Methods("POST")
	m.HandleFunc("/wizard/validate/{step}", env.authenticated(env.WizardValidate)).Methods("POST")
	m.HandleFunc("/wizard/submit", env.admin(env.WizardSubmit)).Methods("POST")

	m.HandleFunc("/templates", env.authenticated(env.TemplateList)).Methods("GET")
	m.HandleFunc("/templates", env.admin(env.TemplateSave)).Methods("POST")
	m.HandleFunc("/templates/{name}", env.authenticated(env.TemplateDetail)).Methods("GET")
	m.HandleFunc("/templates/{name}", env.admin(env.TemplateDelete)).Methods("DELETE")
	m.HandleFunc("/templates/{name}/load", env.admin(env.TemplateLoad)).Methods("POST")

	r.PathPrefix("/static/").Handler(env.Static())
	r.NotFoundHandler = http.HandlerFunc(env.Frontend)
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (env *Environ) error(rw http.ResponseWriter, req *http.Request, err error, message string, status int) {
	if err != nil {
		env.logger.Warn().Int("status", status).Err(err).Str("path", req.URL.Path).Msg("request error occured")
		if status < 500 {
			message = message + ": " + err.Error()
		}
	}
	env.render.JSON(rw, status, errorResponse{Code: status, Message: message})
}

// fail maps a service error to a response. Cluster API errors keep their
// status and body.
func (env *Environ) fail(rw http.ResponseWriter, req *http.Request, err error, message string) {
	var apiErr *pcapi.APIError
	var validation pcluster.ValidationError
	switch {
	case errors.As(err, &apiErr):
		env.logger.Warn().Int("status", apiErr.StatusCode).Err(err).Str("path", req.URL.Path).Msg("cluster api error")
		if json.Valid(apiErr.Body) {
			rw.Header().Set("Content-Type", "application/json; charset=UTF-8")
			rw.WriteHeader(apiErr.StatusCode)
			rw.Write(apiErr.Body)
			return
		}
		env.render.JSON(rw, apiErr.StatusCode, errorResponse{Code: apiErr.StatusCode, Message: apiErr.Message})
	case errors.As(err, &validation):
		env.render.JSON(rw, http.StatusBadRequest, map[string]interface{}{
			"code":    http.StatusBadRequest,
			"message": validation.Error(),
			"field":   validation.Field,
			"kind":    validation.Kind,
		})
	case errors.Is(err, pcluster.ErrClusterNotFound),
		errors.Is(err, pcluster.ErrImageNotFound),
		errors.Is(err, pcluster.ErrUserNotFound),
		errors.Is(err, pcluster.ErrTemplateNotFound):
		env.error(rw, req, nil, err.Error(), http.StatusNotFound)
	case errors.Is(err, costexplorer.ErrNotActive):
		env.error(rw, req, nil, err.Error(), http.StatusMethodNotAllowed)
	case errors.Is(err, pcluster.ErrInvalidFleetStatus):
		env.error(rw, req, nil, err.Error(), http.StatusBadRequest)
	case errors.Is(err, pcluster.ErrNoHeadNode):
		env.error(rw, req, nil, err.Error(), http.StatusConflict)
	default:
		env.error(rw, req, err, message, http.StatusInternalServerError)
	}
}

// region picks the region query parameter, the configured region when
// absent.
func (env *Environ) region(req *http.Request) string {
	if region := req.URL.Query().Get("region"); region != "" {
		return region
	}
	return env.cfg.Region
}

// context carries the API version selected by the version query
// parameter.
func (env *Environ) context(req *http.Request) context.Context {
	ctx := req.Context()
	if version := req.URL.Query().Get("version"); version != "" {
		ctx = pcapi.WithVersion(ctx, version)
	}
	return ctx
}

func (env *Environ) vars(request *http.Request) map[string]string {
	return mux.Vars(request)
}

func (env *Environ) decodeBody(rw http.ResponseWriter, req *http.Request, out interface{}) bool {
	req.Body = http.MaxBytesReader(rw, req.Body, int64(env.cfg.Web.RequestMaxBytes))
	if err := json.NewDecoder(req.Body).Decode(out); err != nil {
		env.error(rw, req, err, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (env *Environ) ServeHTTP(w http.ResponseWriter, request *http.Request) {
	env.router.ServeHTTP(w, request)
}
