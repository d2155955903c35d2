package pcluster

import (
	"context"
	"pcluster/pcui/util"
	"time"
)

type CostRepository interface {
	IsActive(ctx context.Context) (bool, error)
	Activate(ctx context.Context) error
	Data(ctx context.Context, cluster string, start, end time.Time) ([]CostData, error)
}

type CostService struct {
	CostRepository
	now func() time.Time
}

func NewCostService(repo CostRepository) *CostService {
	return &CostService{CostRepository: repo, now: time.Now}
}

// Data returns the monthly costs of a cluster between two dates. An empty
// end means today.
func (service *CostService) Data(ctx context.Context, cluster, start, end string) ([]CostData, error) {
	from, err := ParseTime(start)
	if err != nil {
		return nil, util.NewError(err, "invalid start")
	}
	to := service.now().UTC()
	if end != "" {
		if to, err = ParseTime(end); err != nil {
			return nil, util.NewError(err, "invalid end")
		}
	}
	return service.CostRepository.Data(ctx, cluster, from, to)
}
