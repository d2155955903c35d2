package web

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"net/url"
	"pcluster/pcui/pcluster"
	"time"

	"github.com/gorilla/sessions"
)

type stubSessionStore struct {
	Session *sessions.Session
}

func (s *stubSessionStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return s.Session, nil
}

func (s *stubSessionStore) New(r *http.Request, name string) (*sessions.Session, error) {
	return s.Session, nil
}

func (s *stubSessionStore) Save(r *http.Request, w http.ResponseWriter, sess *sessions.Session) error {
	return nil
}

type stubClusterRepo struct {
	clusters      []*pcluster.ClusterInfoSummary
	description   *pcluster.ClusterDescription
	instances     []*pcluster.Instance
	configuration string
	created       *pcluster.ClusterCreateParams
	updated       *pcluster.ClusterUpdateParams
	deleted       string
	fleet         pcluster.ComputeFleetStatus
	err           error
}

func (r *stubClusterRepo) List(ctx context.Context, region string) ([]*pcluster.ClusterInfoSummary, error) {
	return r.clusters, r.err
}

func (r *stubClusterRepo) Get(ctx context.Context, name, region string) (*pcluster.ClusterDescription, error) {
	if r.description == nil {
		return nil, pcluster.ErrClusterNotFound
	}
	return r.description, nil
}

func (r *stubClusterRepo) Create(ctx context.Context, params pcluster.ClusterCreateParams) (*pcluster.ClusterOperationResult, error) {
	r.created = &params
	if r.err != nil {
		return nil, r.err
	}
	return &pcluster.ClusterOperationResult{Cluster: &pcluster.ClusterInfoSummary{
		ClusterName:   params.Name,
		Region:        params.Region,
		ClusterStatus: pcluster.ClusterStatusCreateInProgress,
	}}, nil
}

func (r *stubClusterRepo) Update(ctx context.Context, params pcluster.ClusterUpdateParams) (*pcluster.ClusterOperationResult, error) {
	r.updated = &params
	if r.err != nil {
		return nil, r.err
	}
	return &pcluster.ClusterOperationResult{}, nil
}

func (r *stubClusterRepo) Delete(ctx context.Context, name, region string) (*pcluster.ClusterOperationResult, error) {
	r.deleted = name
	return &pcluster.ClusterOperationResult{}, r.err
}

func (r *stubClusterRepo) UpdateComputeFleet(ctx context.Context, name, region string, status pcluster.ComputeFleetStatus) error {
	r.fleet = status
	return r.err
}

func (r *stubClusterRepo) Instances(ctx context.Context, name, region string) ([]*pcluster.Instance, error) {
	return r.instances, nil
}

func (r *stubClusterRepo) Configuration(ctx context.Context, name, region string) (string, error) {
	if r.configuration == "" {
		return "", pcluster.ErrClusterNotFound
	}
	return r.configuration, nil
}

type stubLogRepo struct {
	query pcluster.LogEventsQuery
}

func (r *stubLogRepo) Streams(ctx context.Context, cluster, region, nextToken string) (*pcluster.LogStreamsPage, error) {
	return &pcluster.LogStreamsPage{LogStreams: []pcluster.LogStream{
		{LogStreamName: "ip-10-0-0-1.i-head.cfn-init"},
		{LogStreamName: "ip-10-0-0-2.i-compute.slurmd"},
	}}, nil
}

func (r *stubLogRepo) Events(ctx context.Context, cluster, region, stream string, query pcluster.LogEventsQuery) (*pcluster.LogEventsPage, error) {
	r.query = query
	return &pcluster.LogEventsPage{Events: []pcluster.LogEvent{{Message: "hello", Timestamp: "2024-01-01T00:00:00.000Z"}}, NextToken: "f/1"}, nil
}

type stubUserRepo struct {
	users   []*pcluster.User
	created string
	deleted string
}

func (r *stubUserRepo) List(ctx context.Context) ([]*pcluster.User, error) {
	return r.users, nil
}

func (r *stubUserRepo) Create(ctx context.Context, email string) (*pcluster.User, error) {
	r.created = email
	return &pcluster.User{Username: "user-1", Email: email}, nil
}

func (r *stubUserRepo) Delete(ctx context.Context, username string) error {
	r.deleted = username
	if username == "missing" {
		return pcluster.ErrUserNotFound
	}
	return nil
}

type stubCostRepo struct {
	active    bool
	activated bool
	data      []pcluster.CostData
	err       error
	start     time.Time
	end       time.Time
}

func (r *stubCostRepo) IsActive(ctx context.Context) (bool, error) {
	return r.active, nil
}

func (r *stubCostRepo) Activate(ctx context.Context) error {
	r.activated = true
	return nil
}

func (r *stubCostRepo) Data(ctx context.Context, cluster string, start, end time.Time) ([]pcluster.CostData, error) {
	r.start, r.end = start, end
	return r.data, r.err
}

type stubVersionRepo struct {
	versions []string
}

func (r *stubVersionRepo) Version(ctx context.Context) (*pcluster.Version, error) {
	return &pcluster.Version{Full: r.versions}, nil
}

type stubTemplateRepo struct {
	templates map[string]*pcluster.Template
	err       error
}

func (r *stubTemplateRepo) List() ([]*pcluster.Template, error) {
	out := []*pcluster.Template{}
	for _, template := range r.templates {
		out = append(out, template)
	}
	return out, nil
}

func (r *stubTemplateRepo) Get(name string) (*pcluster.Template, error) {
	if template, ok := r.templates[name]; ok {
		return template, nil
	}
	return nil, pcluster.ErrTemplateNotFound
}

func (r *stubTemplateRepo) Save(template *pcluster.Template) error {
	if r.err != nil {
		return r.err
	}
	r.templates[template.Name] = template
	return nil
}

func (r *stubTemplateRepo) Delete(name string) error {
	if _, ok := r.templates[name]; !ok {
		return pcluster.ErrTemplateNotFound
	}
	delete(r.templates, name)
	return nil
}

type stubRunner struct {
	instance string
	commands []string
	output   string
}

func (r *stubRunner) Run(ctx context.Context, instanceId string, commands []string) (string, error) {
	r.instance = instanceId
	r.commands = commands
	return r.output, nil
}

type stubProxy struct {
	method string
	path   string
	query  url.Values
	body   []byte
	header http.Header
}

func (p *stubProxy) Proxy(ctx context.Context, method, path string, query url.Values, body []byte, header http.Header) (*http.Response, error) {
	p.method, p.path, p.query, p.body, p.header = method, path, query, body, header
	return &http.Response{
		StatusCode: http.StatusOK,
		Header: http.Header{
			"Content-Type":      []string{"application/json"},
			"Transfer-Encoding": []string{"chunked"},
		},
		Body: ioutil.NopCloser(bytes.NewBufferString(`{"clusters":[]}`)),
	}, nil
}
