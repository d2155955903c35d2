package pcluster

type EventClusterCreated struct {
	params ClusterCreateParams
	result *ClusterOperationResult
}

func NewEventClusterCreated(params ClusterCreateParams, result *ClusterOperationResult) *EventClusterCreated {
	return &EventClusterCreated{params: params, result: result}
}

func (e *EventClusterCreated) Name() string {
	return "cluster_created"
}

func (e *EventClusterCreated) Plain() map[string]string {
	data := map[string]string{
		"event":          e.Name(),
		"cluster_name":   e.params.Name,
		"cluster_region": e.params.Region,
	}
	if e.result != nil && e.result.Cluster != nil {
		data["cluster_version"] = e.result.Cluster.Version
		data["cluster_status"] = string(e.result.Cluster.ClusterStatus)
		data["cluster_stack_arn"] = e.result.Cluster.CloudformationStackArn
	}
	return data
}

type EventClusterUpdated struct {
	params ClusterUpdateParams
}

func NewEventClusterUpdated(params ClusterUpdateParams) *EventClusterUpdated {
	return &EventClusterUpdated{params: params}
}

func (e *EventClusterUpdated) Name() string {
	return "cluster_updated"
}

func (e *EventClusterUpdated) Plain() map[string]string {
	return map[string]string{
		"event":          e.Name(),
		"cluster_name":   e.params.Name,
		"cluster_region": e.params.Region,
	}
}

type EventClusterDeleted struct {
	name   string
	region string
}

func NewEventClusterDeleted(name, region string) *EventClusterDeleted {
	return &EventClusterDeleted{name: name, region: region}
}

func (e *EventClusterDeleted) Name() string {
	return "cluster_deleted"
}

func (e *EventClusterDeleted) Plain() map[string]string {
	return map[string]string{
		"event":          e.Name(),
		"cluster_name":   e.name,
		"cluster_region": e.region,
	}
}

type EventComputeFleetUpdated struct {
	name   string
	region string
	status ComputeFleetStatus
}

func NewEventComputeFleetUpdated(name, region string, status ComputeFleetStatus) *EventComputeFleetUpdated {
	return &EventComputeFleetUpdated{name: name, region: region, status: status}
}

func (e *EventComputeFleetUpdated) Name() string {
	return "compute_fleet_updated"
}

func (e *EventComputeFleetUpdated) Plain() map[string]string {
	return map[string]string{
		"event":          e.Name(),
		"cluster_name":   e.name,
		"cluster_region": e.region,
		"fleet_status":   string(e.status),
	}
}

type EventUserCreated struct {
	user *User
}

func NewEventUserCreated(user *User) *EventUserCreated {
	return &EventUserCreated{user: user}
}

func (e *EventUserCreated) Name() string {
	return "user_created"
}

func (e *EventUserCreated) Plain() map[string]string {
	return map[string]string{
		"event":         e.Name(),
		"user_username": e.user.Username,
		"user_email":    e.user.Email,
	}
}

type EventUserDeleted struct {
	username string
}

func NewEventUserDeleted(username string) *EventUserDeleted {
	return &EventUserDeleted{username: username}
}

func (e *EventUserDeleted) Name() string {
	return "user_deleted"
}

func (e *EventUserDeleted) Plain() map[string]string {
	return map[string]string{
		"event":         e.Name(),
		"user_username": e.username,
	}
}
