package pcapi

import (
	"context"
	"net/http"
	"net/url"
	"pcluster/pcui/pcluster"
	"strconv"
)

func (c *Client) ListClusterLogStreams(ctx context.Context, cluster, region, nextToken string) (*pcluster.LogStreamsPage, error) {
	query := regionQuery(region)
	if nextToken != "" {
		query.Set("nextToken", nextToken)
	}
	page := &pcluster.LogStreamsPage{}
	if err := c.call(ctx, http.MethodGet, clusterPath(cluster, "/logstreams"), query, nil, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) GetClusterLogEvents(ctx context.Context, cluster, region, stream string, q pcluster.LogEventsQuery) (*pcluster.LogEventsPage, error) {
	query := regionQuery(region)
	if q.NextToken != "" {
		query.Set("nextToken", q.NextToken)
	}
	if q.StartFromHead != nil {
		query.Set("startFromHead", strconv.FormatBool(*q.StartFromHead))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.StartTime != "" {
		query.Set("startTime", q.StartTime)
	}
	if q.EndTime != "" {
		query.Set("endTime", q.EndTime)
	}
	page := &pcluster.LogEventsPage{}
	path := clusterPath(cluster, "/logstreams/", url.PathEscape(stream))
	if err := c.call(ctx, http.MethodGet, path, query, nil, page); err != nil {
		return nil, err
	}
	return page, nil
}

// LogRepository exposes the log calls as a pcluster.LogRepository.
type LogRepository struct {
	client *Client
}

func NewLogRepository(client *Client) *LogRepository {
	return &LogRepository{client: client}
}

func (repo *LogRepository) Streams(ctx context.Context, cluster, region, nextToken string) (*pcluster.LogStreamsPage, error) {
	page, err := repo.client.ListClusterLogStreams(ctx, cluster, region, nextToken)
	if isNotFound(err) {
		return nil, pcluster.ErrClusterNotFound
	}
	return page, err
}

func (repo *LogRepository) Events(ctx context.Context, cluster, region, stream string, query pcluster.LogEventsQuery) (*pcluster.LogEventsPage, error) {
	return repo.client.GetClusterLogEvents(ctx, cluster, region, stream, query)
}
