package pcluster

import (
	"pcluster/pcui/wizard"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

type ClusterStatus string

const (
	ClusterStatusCreateInProgress ClusterStatus = "CREATE_IN_PROGRESS"
	ClusterStatusCreateFailed     ClusterStatus = "CREATE_FAILED"
	ClusterStatusCreateComplete   ClusterStatus = "CREATE_COMPLETE"
	ClusterStatusDeleteInProgress ClusterStatus = "DELETE_IN_PROGRESS"
	ClusterStatusDeleteFailed     ClusterStatus = "DELETE_FAILED"
	ClusterStatusDeleteComplete   ClusterStatus = "DELETE_COMPLETE"
	ClusterStatusUpdateInProgress ClusterStatus = "UPDATE_IN_PROGRESS"
	ClusterStatusUpdateComplete   ClusterStatus = "UPDATE_COMPLETE"
	ClusterStatusUpdateFailed     ClusterStatus = "UPDATE_FAILED"
)

type ComputeFleetStatus string

const (
	FleetStartRequested ComputeFleetStatus = "START_REQUESTED"
	FleetStarting       ComputeFleetStatus = "STARTING"
	FleetRunning        ComputeFleetStatus = "RUNNING"
	FleetProtected      ComputeFleetStatus = "PROTECTED"
	FleetStopRequested  ComputeFleetStatus = "STOP_REQUESTED"
	FleetStopping       ComputeFleetStatus = "STOPPING"
	FleetStopped        ComputeFleetStatus = "STOPPED"
	FleetUnknown        ComputeFleetStatus = "UNKNOWN"
	FleetEnabled        ComputeFleetStatus = "ENABLED"
	FleetDisabled       ComputeFleetStatus = "DISABLED"
)

// RequestableFleetStatuses are the statuses a user may ask for: the first
// pair for slurm, the second for awsbatch.
var RequestableFleetStatuses = []ComputeFleetStatus{
	FleetStartRequested, FleetStopRequested, FleetEnabled, FleetDisabled,
}

type Scheduler struct {
	Type string `json:"type"`
}

type ClusterInfoSummary struct {
	ClusterName               string        `json:"clusterName"`
	Region                    string        `json:"region"`
	Version                   string        `json:"version"`
	CloudformationStackArn    string        `json:"cloudformationStackArn"`
	CloudformationStackStatus string        `json:"cloudformationStackStatus"`
	ClusterStatus             ClusterStatus `json:"clusterStatus"`
	Scheduler                 *Scheduler    `json:"scheduler,omitempty"`
}

type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Failure struct {
	FailureCode   string `json:"failureCode"`
	FailureReason string `json:"failureReason"`
}

type ClusterConfigurationRef struct {
	URL string `json:"url"`
}

type ClusterDescription struct {
	ClusterInfoSummary
	CreationTime         time.Time               `json:"creationTime"`
	LastUpdatedTime      time.Time               `json:"lastUpdatedTime"`
	ComputeFleetStatus   ComputeFleetStatus      `json:"computeFleetStatus"`
	ClusterConfiguration ClusterConfigurationRef `json:"clusterConfiguration"`
	Tags                 []Tag                   `json:"tags,omitempty"`
	HeadNode             *Instance               `json:"headNode,omitempty"`
	Failures             []Failure               `json:"failures,omitempty"`
}

type NodeType string

const (
	NodeTypeHeadNode    NodeType = "HeadNode"
	NodeTypeComputeNode NodeType = "ComputeNode"
	NodeTypeLoginNode   NodeType = "LoginNode"
)

type Instance struct {
	InstanceId       string    `json:"instanceId"`
	InstanceType     string    `json:"instanceType"`
	LaunchTime       time.Time `json:"launchTime"`
	PrivateIpAddress string    `json:"privateIpAddress"`
	PublicIpAddress  string    `json:"publicIpAddress,omitempty"`
	State            string    `json:"state"`
	NodeType         NodeType  `json:"nodeType,omitempty"`
	QueueName        string    `json:"queueName,omitempty"`
	PoolName         string    `json:"poolName,omitempty"`
}

type ClusterCreateParams struct {
	Name                   string
	Configuration          string
	Region                 string
	DryRun                 bool
	DisableRollback        bool
	ValidationFailureLevel string
	SuppressValidators     []string
}

type ClusterUpdateParams struct {
	Name          string
	Configuration string
	Region        string
	DryRun        bool
	ForceUpdate   bool
}

type ChangeSetEntry struct {
	Parameter      string      `json:"parameter"`
	CurrentValue   interface{} `json:"currentValue"`
	RequestedValue interface{} `json:"requestedValue"`
}

// ClusterOperationResult is returned by create, update and delete.
type ClusterOperationResult struct {
	Cluster            *ClusterInfoSummary  `json:"cluster,omitempty"`
	ValidationMessages []wizard.ConfigError `json:"validationMessages,omitempty"`
	ChangeSet          []ChangeSetEntry     `json:"changeSet,omitempty"`
}

// MatchUpToMinor compares the major and minor parts of two versions.
// Versions that are not semantic are compared on their dotted parts.
func MatchUpToMinor(version1, version2 string) bool {
	v1, err1 := semver.NewVersion(version1)
	v2, err2 := semver.NewVersion(version2)
	if err1 == nil && err2 == nil {
		return v1.Major() == v2.Major() && v1.Minor() == v2.Minor()
	}
	parts1 := strings.SplitN(version1, ".", 3)
	parts2 := strings.SplitN(version2, ".", 3)
	for i := 0; i < 2; i++ {
		var a, b string
		if i < len(parts1) {
			a = parts1[i]
		}
		if i < len(parts2) {
			b = parts2[i]
		}
		if a != b {
			return false
		}
	}
	return true
}

// CanCopyFrom reports whether the configuration of a cluster may seed a new
// cluster of the given version.
func CanCopyFrom(cluster *ClusterInfoSummary, version string) bool {
	if cluster.ClusterStatus == ClusterStatusDeleteInProgress {
		return false
	}
	return MatchUpToMinor(cluster.Version, version)
}
