package pcluster

import (
	"context"
	"fmt"
	"time"
)

type recordingPublisher struct {
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(event Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type stubClusterRepo struct {
	clusters      []*ClusterInfoSummary
	description   *ClusterDescription
	created       *ClusterCreateParams
	updated       *ClusterUpdateParams
	deleted       string
	fleetStatus   ComputeFleetStatus
	err           error
	configuration string
}

func (r *stubClusterRepo) List(ctx context.Context, region string) ([]*ClusterInfoSummary, error) {
	return r.clusters, r.err
}

func (r *stubClusterRepo) Get(ctx context.Context, name, region string) (*ClusterDescription, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.description == nil {
		return nil, ErrClusterNotFound
	}
	return r.description, nil
}

func (r *stubClusterRepo) Create(ctx context.Context, params ClusterCreateParams) (*ClusterOperationResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.created = &params
	return &ClusterOperationResult{Cluster: &ClusterInfoSummary{
		ClusterName:   params.Name,
		Region:        params.Region,
		Version:       "3.7.0",
		ClusterStatus: ClusterStatusCreateInProgress,
	}}, nil
}

func (r *stubClusterRepo) Update(ctx context.Context, params ClusterUpdateParams) (*ClusterOperationResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.updated = &params
	return &ClusterOperationResult{}, nil
}

func (r *stubClusterRepo) Delete(ctx context.Context, name, region string) (*ClusterOperationResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.deleted = name
	return &ClusterOperationResult{}, nil
}

func (r *stubClusterRepo) UpdateComputeFleet(ctx context.Context, name, region string, status ComputeFleetStatus) error {
	r.fleetStatus = status
	return r.err
}

func (r *stubClusterRepo) Instances(ctx context.Context, name, region string) ([]*Instance, error) {
	return nil, r.err
}

func (r *stubClusterRepo) Configuration(ctx context.Context, name, region string) (string, error) {
	return r.configuration, r.err
}

type stubLogRepo struct {
	pages   map[string]*LogStreamsPage
	events  []*LogEventsPage
	queries []LogEventsQuery
}

func (r *stubLogRepo) Streams(ctx context.Context, cluster, region, nextToken string) (*LogStreamsPage, error) {
	page, ok := r.pages[nextToken]
	if !ok {
		return nil, fmt.Errorf("unexpected token %q", nextToken)
	}
	return page, nil
}

func (r *stubLogRepo) Events(ctx context.Context, cluster, region, stream string, query LogEventsQuery) (*LogEventsPage, error) {
	r.queries = append(r.queries, query)
	if len(r.events) == 0 {
		return &LogEventsPage{}, nil
	}
	page := r.events[0]
	r.events = r.events[1:]
	return page, nil
}

type stubCostRepo struct {
	start, end time.Time
}

func (r *stubCostRepo) IsActive(ctx context.Context) (bool, error) { return true, nil }
func (r *stubCostRepo) Activate(ctx context.Context) error         { return nil }
func (r *stubCostRepo) Data(ctx context.Context, cluster string, start, end time.Time) ([]CostData, error) {
	r.start, r.end = start, end
	return []CostData{{Amount: 1, Unit: "USD"}}, nil
}

type stubRunner struct {
	instance string
	commands []string
	output   string
	err      error
}

func (r *stubRunner) Run(ctx context.Context, instanceId string, commands []string) (string, error) {
	r.instance = instanceId
	r.commands = commands
	return r.output, r.err
}

type stubUserRepo struct {
	created string
	deleted string
}

func (r *stubUserRepo) List(ctx context.Context) ([]*User, error) { return nil, nil }

func (r *stubUserRepo) Create(ctx context.Context, email string) (*User, error) {
	r.created = email
	return &User{Username: "user-1", Email: email}, nil
}

func (r *stubUserRepo) Delete(ctx context.Context, username string) error {
	r.deleted = username
	return nil
}

type memoryTemplateRepo struct {
	templates map[string]*Template
}

func (r *memoryTemplateRepo) List() ([]*Template, error) {
	out := []*Template{}
	for _, t := range r.templates {
		out = append(out, t)
	}
	return out, nil
}

func (r *memoryTemplateRepo) Get(name string) (*Template, error) {
	t, ok := r.templates[name]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *memoryTemplateRepo) Save(template *Template) error {
	copied := *template
	r.templates[template.Name] = &copied
	return nil
}

func (r *memoryTemplateRepo) Delete(name string) error {
	delete(r.templates, name)
	return nil
}
