package pcluster

type ImageBuildStatus string

const (
	ImageBuildInProgress  ImageBuildStatus = "BUILD_IN_PROGRESS"
	ImageBuildFailed      ImageBuildStatus = "BUILD_FAILED"
	ImageBuildComplete    ImageBuildStatus = "BUILD_COMPLETE"
	ImageDeleteInProgress ImageBuildStatus = "DELETE_IN_PROGRESS"
	ImageDeleteFailed     ImageBuildStatus = "DELETE_FAILED"
	ImageDeleteComplete   ImageBuildStatus = "DELETE_COMPLETE"
)

// ImageStatusFilter selects custom images by state when listing.
type ImageStatusFilter string

const (
	ImageStatusAvailable ImageStatusFilter = "AVAILABLE"
	ImageStatusPending   ImageStatusFilter = "PENDING"
	ImageStatusFailed    ImageStatusFilter = "FAILED"
)

var ImageStatusFilters = []ImageStatusFilter{ImageStatusAvailable, ImageStatusPending, ImageStatusFailed}

type OfficialImage struct {
	AmiId        string `json:"amiId"`
	Os           string `json:"os"`
	Name         string `json:"name"`
	Architecture string `json:"architecture"`
	Version      string `json:"version"`
}

type Ec2AmiInfo struct {
	AmiId        string `json:"amiId"`
	AmiName      string `json:"amiName,omitempty"`
	Architecture string `json:"architecture,omitempty"`
	State        string `json:"state,omitempty"`
	Description  string `json:"description,omitempty"`
	Tags         []Tag  `json:"tags,omitempty"`
}

type ImageInfoSummary struct {
	ImageId                   string           `json:"imageId"`
	Ec2AmiInfo                *Ec2AmiInfo      `json:"ec2AmiInfo,omitempty"`
	Region                    string           `json:"region"`
	Version                   string           `json:"version"`
	CloudformationStackArn    string           `json:"cloudformationStackArn,omitempty"`
	ImageBuildStatus          ImageBuildStatus `json:"imageBuildStatus"`
	CloudformationStackStatus string           `json:"cloudformationStackStatus,omitempty"`
}

type ImageDescription struct {
	ImageInfoSummary
	ImageConfiguration              ClusterConfigurationRef `json:"imageConfiguration"`
	CreationTime                    string                  `json:"creationTime,omitempty"`
	ImageBuildLogsArn               string                  `json:"imageBuildLogsArn,omitempty"`
	CloudformationStackStatusReason string                  `json:"cloudformationStackStatusReason,omitempty"`
	ImagebuilderImageStatus         string                  `json:"imagebuilderImageStatus,omitempty"`
	ImagebuilderImageStatusReason   string                  `json:"imagebuilderImageStatusReason,omitempty"`
}

type ImageBuildParams struct {
	ImageId       string
	Configuration string
	Region        string
	Version       string
}
