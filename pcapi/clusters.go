package pcapi

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/url"
	"pcluster/pcui/pcluster"
	"pcluster/pcui/util"
	"pcluster/pcui/wizard"
	"strconv"
	"strings"
)

type listClustersResponse struct {
	Clusters  []*pcluster.ClusterInfoSummary `json:"clusters"`
	NextToken string                         `json:"nextToken"`
}

// ListClusters follows nextToken until every page has been read.
func (c *Client) ListClusters(ctx context.Context, region string) ([]*pcluster.ClusterInfoSummary, error) {
	clusters := []*pcluster.ClusterInfoSummary{}
	token := ""
	for {
		query := regionQuery(region)
		if token != "" {
			query.Set("nextToken", token)
		}
		page := &listClustersResponse{}
		if err := c.call(ctx, http.MethodGet, "/v3/clusters", query, nil, page); err != nil {
			return nil, err
		}
		clusters = append(clusters, page.Clusters...)
		if page.NextToken == "" || page.NextToken == token {
			return clusters, nil
		}
		token = page.NextToken
	}
}

type createClusterRequest struct {
	ClusterName          string `json:"clusterName"`
	ClusterConfiguration string `json:"clusterConfiguration"`
}

type operationResponse struct {
	Cluster            *pcluster.ClusterInfoSummary `json:"cluster"`
	ValidationMessages []wizard.ConfigError         `json:"validationMessages"`
	ChangeSet          []pcluster.ChangeSetEntry    `json:"changeSet"`
}

func (r *operationResponse) result() *pcluster.ClusterOperationResult {
	return &pcluster.ClusterOperationResult{
		Cluster:            r.Cluster,
		ValidationMessages: r.ValidationMessages,
		ChangeSet:          r.ChangeSet,
	}
}

func (c *Client) CreateCluster(ctx context.Context, params pcluster.ClusterCreateParams) (*pcluster.ClusterOperationResult, error) {
	query := url.Values{}
	if params.DryRun {
		query.Set("dryrun", "true")
	}
	if params.Region != "" {
		query.Set("region", params.Region)
	}
	if params.DisableRollback {
		query.Set("rollbackOnFailure", "false")
	}
	if params.ValidationFailureLevel != "" {
		query.Set("validationFailureLevel", params.ValidationFailureLevel)
	}
	for _, validator := range params.SuppressValidators {
		query.Add("suppressValidators", validator)
	}
	body := createClusterRequest{ClusterName: params.Name, ClusterConfiguration: params.Configuration}
	resp := &operationResponse{}
	if err := c.call(ctx, http.MethodPost, "/v3/clusters", query, body, resp); err != nil {
		return nil, err
	}
	return resp.result(), nil
}

func clusterPath(name string, suffix ...string) string {
	return "/v3/clusters/" + url.PathEscape(name) + strings.Join(suffix, "")
}

func (c *Client) DescribeCluster(ctx context.Context, name, region string) (*pcluster.ClusterDescription, error) {
	cluster := &pcluster.ClusterDescription{}
	if err := c.call(ctx, http.MethodGet, clusterPath(name), regionQuery(region), nil, cluster); err != nil {
		return nil, err
	}
	return cluster, nil
}

type updateClusterRequest struct {
	ClusterConfiguration string `json:"clusterConfiguration"`
}

func (c *Client) UpdateCluster(ctx context.Context, params pcluster.ClusterUpdateParams) (*pcluster.ClusterOperationResult, error) {
	query := regionQuery(params.Region)
	if params.DryRun {
		query.Set("dryrun", "true")
	}
	if params.ForceUpdate {
		query.Set("forceUpdate", "true")
	}
	resp := &operationResponse{}
	body := updateClusterRequest{ClusterConfiguration: params.Configuration}
	if err := c.call(ctx, http.MethodPut, clusterPath(params.Name), query, body, resp); err != nil {
		return nil, err
	}
	return resp.result(), nil
}

func (c *Client) DeleteCluster(ctx context.Context, name, region string) (*pcluster.ClusterOperationResult, error) {
	resp := &operationResponse{}
	if err := c.call(ctx, http.MethodDelete, clusterPath(name), regionQuery(region), nil, resp); err != nil {
		return nil, err
	}
	return resp.result(), nil
}

func (c *Client) UpdateComputeFleet(ctx context.Context, name, region string, status pcluster.ComputeFleetStatus) error {
	body := map[string]pcluster.ComputeFleetStatus{"status": status}
	return c.call(ctx, http.MethodPatch, clusterPath(name, "/computefleet"), regionQuery(region), body, nil)
}

type instancesResponse struct {
	Instances []*pcluster.Instance `json:"instances"`
	NextToken string               `json:"nextToken"`
}

func (c *Client) DescribeClusterInstances(ctx context.Context, name, region string) ([]*pcluster.Instance, error) {
	instances := []*pcluster.Instance{}
	token := ""
	for {
		query := regionQuery(region)
		if token != "" {
			query.Set("nextToken", token)
		}
		page := &instancesResponse{}
		if err := c.call(ctx, http.MethodGet, clusterPath(name, "/instances"), query, nil, page); err != nil {
			return nil, err
		}
		instances = append(instances, page.Instances...)
		if page.NextToken == "" || page.NextToken == token {
			return instances, nil
		}
		token = page.NextToken
	}
}

// ClusterConfiguration downloads the YAML behind the presigned URL of a
// cluster description. The URL carries its own credentials.
func (c *Client) ClusterConfiguration(ctx context.Context, name, region string) (string, error) {
	cluster, err := c.DescribeCluster(ctx, name, region)
	if err != nil {
		return "", err
	}
	if cluster.ClusterConfiguration.URL == "" {
		return "", pcluster.ErrClusterNotFound
	}
	req, err := http.NewRequest(http.MethodGet, cluster.ClusterConfiguration.URL, nil)
	if err != nil {
		return "", util.NewError(err, "invalid configuration url")
	}
	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		return "", util.NewError(err, "cannot download cluster configuration")
	}
	defer resp.Body.Close()
	payload, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", util.NewError(err, "cannot read cluster configuration")
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Message: "cannot download cluster configuration (" + strconv.Itoa(resp.StatusCode) + ")", Body: payload}
	}
	return string(payload), nil
}

// ClusterRepository exposes the cluster calls as a pcluster.ClusterRepository.
type ClusterRepository struct {
	client *Client
}

func NewClusterRepository(client *Client) *ClusterRepository {
	return &ClusterRepository{client: client}
}

func (repo *ClusterRepository) List(ctx context.Context, region string) ([]*pcluster.ClusterInfoSummary, error) {
	return repo.client.ListClusters(ctx, region)
}

func (repo *ClusterRepository) Get(ctx context.Context, name, region string) (*pcluster.ClusterDescription, error) {
	cluster, err := repo.client.DescribeCluster(ctx, name, region)
	if isNotFound(err) {
		return nil, pcluster.ErrClusterNotFound
	}
	return cluster, err
}

func (repo *ClusterRepository) Create(ctx context.Context, params pcluster.ClusterCreateParams) (*pcluster.ClusterOperationResult, error) {
	return repo.client.CreateCluster(ctx, params)
}

func (repo *ClusterRepository) Update(ctx context.Context, params pcluster.ClusterUpdateParams) (*pcluster.ClusterOperationResult, error) {
	return repo.client.UpdateCluster(ctx, params)
}

func (repo *ClusterRepository) Delete(ctx context.Context, name, region string) (*pcluster.ClusterOperationResult, error) {
	result, err := repo.client.DeleteCluster(ctx, name, region)
	if isNotFound(err) {
		return nil, pcluster.ErrClusterNotFound
	}
	return result, err
}

func (repo *ClusterRepository) UpdateComputeFleet(ctx context.Context, name, region string, status pcluster.ComputeFleetStatus) error {
	return repo.client.UpdateComputeFleet(ctx, name, region, status)
}

func (repo *ClusterRepository) Instances(ctx context.Context, name, region string) ([]*pcluster.Instance, error) {
	instances, err := repo.client.DescribeClusterInstances(ctx, name, region)
	if isNotFound(err) {
		return nil, pcluster.ErrClusterNotFound
	}
	return instances, err
}

func (repo *ClusterRepository) Configuration(ctx context.Context, name, region string) (string, error) {
	config, err := repo.client.ClusterConfiguration(ctx, name, region)
	if isNotFound(err) {
		return "", pcluster.ErrClusterNotFound
	}
	return config, err
}
