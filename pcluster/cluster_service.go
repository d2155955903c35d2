package pcluster

import (
	"context"
	"pcluster/pcui/util"
	"pcluster/pcui/wizard"
)

type ClusterRepository interface {
	List(ctx context.Context, region string) ([]*ClusterInfoSummary, error)
	Get(ctx context.Context, name, region string) (*ClusterDescription, error)
	Create(ctx context.Context, params ClusterCreateParams) (*ClusterOperationResult, error)
	Update(ctx context.Context, params ClusterUpdateParams) (*ClusterOperationResult, error)
	Delete(ctx context.Context, name, region string) (*ClusterOperationResult, error)
	UpdateComputeFleet(ctx context.Context, name, region string, status ComputeFleetStatus) error
	Instances(ctx context.Context, name, region string) ([]*Instance, error)
	Configuration(ctx context.Context, name, region string) (string, error)
}

type ClusterService struct {
	ClusterRepository
	epub EventPublisher
}

func NewClusterService(repo ClusterRepository, epub EventPublisher) *ClusterService {
	return &ClusterService{ClusterRepository: repo, epub: epub}
}

// Create tags the configuration as created from the console before
// sending it. Dry runs publish no event.
func (service *ClusterService) Create(ctx context.Context, params ClusterCreateParams) (*ClusterOperationResult, error) {
	config, err := wizard.AppendPCUITag(params.Configuration)
	if err != nil {
		return nil, err
	}
	params.Configuration = config
	result, err := service.ClusterRepository.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	if params.DryRun {
		return result, nil
	}
	if err := service.epub.Publish(NewEventClusterCreated(params, result)); err != nil {
		return nil, util.NewError(err, "cannot publish event cluster created")
	}
	return result, nil
}

func (service *ClusterService) Update(ctx context.Context, params ClusterUpdateParams) (*ClusterOperationResult, error) {
	config, err := wizard.AppendPCUITag(params.Configuration)
	if err != nil {
		return nil, err
	}
	params.Configuration = config
	result, err := service.ClusterRepository.Update(ctx, params)
	if err != nil {
		return nil, err
	}
	if params.DryRun {
		return result, nil
	}
	if err := service.epub.Publish(NewEventClusterUpdated(params)); err != nil {
		return nil, util.NewError(err, "cannot publish event cluster updated")
	}
	return result, nil
}

func (service *ClusterService) Delete(ctx context.Context, name, region string) (*ClusterOperationResult, error) {
	result, err := service.ClusterRepository.Delete(ctx, name, region)
	if err != nil {
		return nil, err
	}
	if err := service.epub.Publish(NewEventClusterDeleted(name, region)); err != nil {
		return nil, util.NewError(err, "cannot publish event cluster deleted")
	}
	return result, nil
}

func (service *ClusterService) UpdateComputeFleet(ctx context.Context, name, region string, status ComputeFleetStatus) error {
	valid := false
	for _, s := range RequestableFleetStatuses {
		if s == status {
			valid = true
		}
	}
	if !valid {
		return ErrInvalidFleetStatus
	}
	if err := service.ClusterRepository.UpdateComputeFleet(ctx, name, region, status); err != nil {
		return err
	}
	if err := service.epub.Publish(NewEventComputeFleetUpdated(name, region, status)); err != nil {
		return util.NewError(err, "cannot publish event compute fleet updated")
	}
	return nil
}

// Names returns the set of cluster names in the region.
func (service *ClusterService) Names(ctx context.Context, region string) (map[string]bool, error) {
	clusters, err := service.ClusterRepository.List(ctx, region)
	if err != nil {
		return nil, util.NewError(err, "cannot list clusters")
	}
	names := map[string]bool{}
	for _, cluster := range clusters {
		names[cluster.ClusterName] = true
	}
	return names, nil
}

// CopyCandidates lists the clusters whose configuration can be loaded into
// the wizard for the given version.
func (service *ClusterService) CopyCandidates(ctx context.Context, region, version string) ([]*ClusterInfoSummary, error) {
	clusters, err := service.ClusterRepository.List(ctx, region)
	if err != nil {
		return nil, util.NewError(err, "cannot list clusters")
	}
	candidates := []*ClusterInfoSummary{}
	for _, cluster := range clusters {
		if CanCopyFrom(cluster, version) {
			candidates = append(candidates, cluster)
		}
	}
	return candidates, nil
}

// HeadNode returns the head node of a cluster, ErrNoHeadNode when it is not
// running.
func (service *ClusterService) HeadNode(ctx context.Context, name, region string) (*Instance, error) {
	cluster, err := service.ClusterRepository.Get(ctx, name, region)
	if err != nil {
		return nil, err
	}
	if cluster.HeadNode == nil {
		return nil, ErrNoHeadNode
	}
	return cluster.HeadNode, nil
}
