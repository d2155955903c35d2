package wizard

type StorageType string

const (
	StorageTypeEbs        StorageType = "Ebs"
	StorageTypeEfs        StorageType = "Efs"
	StorageTypeFsxLustre  StorageType = "FsxLustre"
	StorageTypeFsxOntap   StorageType = "FsxOntap"
	StorageTypeFsxOpenZfs StorageType = "FsxOpenZfs"
	StorageTypeFileCache  StorageType = "FileCache"
)

type EbsRaid struct {
	Type            string `json:"Type" yaml:"Type"`
	NumberOfVolumes *int   `json:"NumberOfVolumes,omitempty" yaml:"NumberOfVolumes,omitempty"`
}

type EbsSettings struct {
	VolumeType     string   `json:"VolumeType,omitempty" yaml:"VolumeType,omitempty"`
	Iops           *int     `json:"Iops,omitempty" yaml:"Iops,omitempty"`
	Size           *int     `json:"Size,omitempty" yaml:"Size,omitempty"`
	Encrypted      *bool    `json:"Encrypted,omitempty" yaml:"Encrypted,omitempty"`
	KmsKeyId       string   `json:"KmsKeyId,omitempty" yaml:"KmsKeyId,omitempty"`
	SnapshotId     string   `json:"SnapshotId,omitempty" yaml:"SnapshotId,omitempty"`
	Throughput     *int     `json:"Throughput,omitempty" yaml:"Throughput,omitempty"`
	VolumeId       string   `json:"VolumeId,omitempty" yaml:"VolumeId,omitempty"`
	DeletionPolicy string   `json:"DeletionPolicy,omitempty" yaml:"DeletionPolicy,omitempty"`
	Raid           *EbsRaid `json:"Raid,omitempty" yaml:"Raid,omitempty"`
}

type EfsSettings struct {
	Encrypted             *bool  `json:"Encrypted,omitempty" yaml:"Encrypted,omitempty"`
	KmsKeyId              string `json:"KmsKeyId,omitempty" yaml:"KmsKeyId,omitempty"`
	EncryptionInTransit   *bool  `json:"EncryptionInTransit,omitempty" yaml:"EncryptionInTransit,omitempty"`
	IamAuthorization      *bool  `json:"IamAuthorization,omitempty" yaml:"IamAuthorization,omitempty"`
	PerformanceMode       string `json:"PerformanceMode,omitempty" yaml:"PerformanceMode,omitempty"`
	ThroughputMode        string `json:"ThroughputMode,omitempty" yaml:"ThroughputMode,omitempty"`
	ProvisionedThroughput *int   `json:"ProvisionedThroughput,omitempty" yaml:"ProvisionedThroughput,omitempty"`
	FileSystemId          string `json:"FileSystemId,omitempty" yaml:"FileSystemId,omitempty"`
	DeletionPolicy        string `json:"DeletionPolicy,omitempty" yaml:"DeletionPolicy,omitempty"`
}

// FsxLustreSettings: some of the properties cannot coexist, the API
// rejects invalid combinations on dry run.
type FsxLustreSettings struct {
	StorageCapacity               *int   `json:"StorageCapacity,omitempty" yaml:"StorageCapacity,omitempty"`
	DeploymentType                string `json:"DeploymentType,omitempty" yaml:"DeploymentType,omitempty"`
	ImportedFileChunkSize         *int   `json:"ImportedFileChunkSize,omitempty" yaml:"ImportedFileChunkSize,omitempty"`
	DataCompressionType           string `json:"DataCompressionType,omitempty" yaml:"DataCompressionType,omitempty"`
	ExportPath                    string `json:"ExportPath,omitempty" yaml:"ExportPath,omitempty"`
	ImportPath                    string `json:"ImportPath,omitempty" yaml:"ImportPath,omitempty"`
	WeeklyMaintenanceStartTime    string `json:"WeeklyMaintenanceStartTime,omitempty" yaml:"WeeklyMaintenanceStartTime,omitempty"`
	AutomaticBackupRetentionDays  *int   `json:"AutomaticBackupRetentionDays,omitempty" yaml:"AutomaticBackupRetentionDays,omitempty"`
	CopyTagsToBackups             *bool  `json:"CopyTagsToBackups,omitempty" yaml:"CopyTagsToBackups,omitempty"`
	DailyAutomaticBackupStartTime string `json:"DailyAutomaticBackupStartTime,omitempty" yaml:"DailyAutomaticBackupStartTime,omitempty"`
	PerUnitStorageThroughput      *int   `json:"PerUnitStorageThroughput,omitempty" yaml:"PerUnitStorageThroughput,omitempty"`
	BackupId                      string `json:"BackupId,omitempty" yaml:"BackupId,omitempty"`
	KmsKeyId                      string `json:"KmsKeyId,omitempty" yaml:"KmsKeyId,omitempty"`
	FileSystemId                  string `json:"FileSystemId,omitempty" yaml:"FileSystemId,omitempty"`
	AutoImportPolicy              string `json:"AutoImportPolicy,omitempty" yaml:"AutoImportPolicy,omitempty"`
	DriveCacheType                string `json:"DriveCacheType,omitempty" yaml:"DriveCacheType,omitempty"`
	StorageType                   string `json:"StorageType,omitempty" yaml:"StorageType,omitempty"`
	DeletionPolicy                string `json:"DeletionPolicy,omitempty" yaml:"DeletionPolicy,omitempty"`
}

type FsxOntapSettings struct {
	VolumeId string `json:"VolumeId,omitempty" yaml:"VolumeId,omitempty"`
}

type FsxOpenZfsSettings struct {
	VolumeId string `json:"VolumeId,omitempty" yaml:"VolumeId,omitempty"`
}

type FileCacheSettings struct {
	FileCacheId string `json:"FileCacheId,omitempty" yaml:"FileCacheId,omitempty"`
}

type Storage struct {
	Name               string              `json:"Name" yaml:"Name"`
	StorageType        StorageType         `json:"StorageType" yaml:"StorageType"`
	MountDir           string              `json:"MountDir" yaml:"MountDir"`
	EbsSettings        *EbsSettings        `json:"EbsSettings,omitempty" yaml:"EbsSettings,omitempty"`
	EfsSettings        *EfsSettings        `json:"EfsSettings,omitempty" yaml:"EfsSettings,omitempty"`
	FsxLustreSettings  *FsxLustreSettings  `json:"FsxLustreSettings,omitempty" yaml:"FsxLustreSettings,omitempty"`
	FsxOntapSettings   *FsxOntapSettings   `json:"FsxOntapSettings,omitempty" yaml:"FsxOntapSettings,omitempty"`
	FsxOpenZfsSettings *FsxOpenZfsSettings `json:"FsxOpenZfsSettings,omitempty" yaml:"FsxOpenZfsSettings,omitempty"`
	FileCacheSettings  *FileCacheSettings  `json:"FileCacheSettings,omitempty" yaml:"FileCacheSettings,omitempty"`
}

// UIStorageSetting is kept next to each storage entry, it does not go into
// the cluster configuration.
type UIStorageSetting struct {
	UseExisting bool `json:"useExisting"`
}

type InstanceRef struct {
	InstanceType string `json:"InstanceType" yaml:"InstanceType"`
}

type Efa struct {
	Enabled    *bool `json:"Enabled,omitempty" yaml:"Enabled,omitempty"`
	GdrSupport *bool `json:"GdrSupport,omitempty" yaml:"GdrSupport,omitempty"`
}

// ComputeResource covers both shapes: a single InstanceType (before 3.3.0)
// or a list of Instances.
type ComputeResource struct {
	Name                              string        `json:"Name" yaml:"Name"`
	InstanceType                      string        `json:"InstanceType,omitempty" yaml:"InstanceType,omitempty"`
	Instances                         []InstanceRef `json:"Instances,omitempty" yaml:"Instances,omitempty"`
	MinCount                          *int          `json:"MinCount,omitempty" yaml:"MinCount,omitempty"`
	MaxCount                          *int          `json:"MaxCount,omitempty" yaml:"MaxCount,omitempty"`
	DisableSimultaneousMultithreading *bool         `json:"DisableSimultaneousMultithreading,omitempty" yaml:"DisableSimultaneousMultithreading,omitempty"`
	Efa                               *Efa          `json:"Efa,omitempty" yaml:"Efa,omitempty"`
}

type QueueNetworking struct {
	SubnetIds []string `json:"SubnetIds,omitempty" yaml:"SubnetIds,omitempty"`
}

type CustomAction struct {
	Script string   `json:"Script,omitempty" yaml:"Script,omitempty"`
	Args   []string `json:"Args,omitempty" yaml:"Args,omitempty"`
}

type Queue struct {
	Name             string            `json:"Name" yaml:"Name"`
	CapacityType     string            `json:"CapacityType,omitempty" yaml:"CapacityType,omitempty"`
	Networking       *QueueNetworking  `json:"Networking,omitempty" yaml:"Networking,omitempty"`
	ComputeResources []ComputeResource `json:"ComputeResources" yaml:"ComputeResources"`
}
