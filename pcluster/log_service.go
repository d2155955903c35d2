package pcluster

import (
	"context"
	"pcluster/pcui/util"
	"time"
)

const FollowBatchSize = 100

type LogRepository interface {
	Streams(ctx context.Context, cluster, region, nextToken string) (*LogStreamsPage, error)
	Events(ctx context.Context, cluster, region, stream string, query LogEventsQuery) (*LogEventsPage, error)
}

type LogService struct {
	LogRepository
	clusters ClusterRepository
}

func NewLogService(repo LogRepository, clusters ClusterRepository) *LogService {
	return &LogService{LogRepository: repo, clusters: clusters}
}

// Views lists every log stream of a cluster with its node type.
func (service *LogService) Views(ctx context.Context, cluster, region string) ([]*LogStreamView, error) {
	description, err := service.clusters.Get(ctx, cluster, region)
	if err != nil {
		return nil, util.NewError(err, "cannot describe cluster %s", cluster)
	}
	views := []*LogStreamView{}
	token := ""
	for {
		page, err := service.LogRepository.Streams(ctx, cluster, region, token)
		if err != nil {
			return nil, util.NewError(err, "cannot list log streams")
		}
		for _, stream := range page.LogStreams {
			views = append(views, NewLogStreamView(stream).WithNodeType(description.HeadNode))
		}
		if page.NextToken == "" || page.NextToken == token {
			break
		}
		token = page.NextToken
	}
	return views, nil
}

// Follow sends the latest events of a stream to emit, then polls for new
// ones every interval until ctx is done or emit fails.
func (service *LogService) Follow(ctx context.Context, cluster, region, stream string, interval time.Duration, emit func([]LogEvent) error) error {
	fromHead := false
	query := LogEventsQuery{StartFromHead: &fromHead, Limit: FollowBatchSize}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		page, err := service.LogRepository.Events(ctx, cluster, region, stream, query)
		if err != nil {
			return util.NewError(err, "cannot fetch log events")
		}
		if len(page.Events) > 0 {
			if err := emit(page.Events); err != nil {
				return err
			}
		}
		if page.NextToken != "" {
			query = LogEventsQuery{NextToken: page.NextToken, Limit: FollowBatchSize}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
