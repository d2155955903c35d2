package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name                  string
		value, min, max, step int
		want                  int
	}{
		{"below min", 1, 20, 200, 1, 20},
		{"equal min", 20, 20, 200, 1, 20},
		{"above max", 201, 20, 200, 1, 200},
		{"equal max", 200, 20, 200, 1, 200},
		{"snaps to step", 21, 20, 200, 20, 20},
		{"snaps inside range", 59, 20, 200, 20, 40},
		{"zero step", 150, 20, 200, 0, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.value, tt.min, tt.max, tt.step))
		})
	}
}

func TestClusterDefaultUser(t *testing.T) {
	tests := map[string]string{
		"alinux2":    "ec2-user",
		"rhel8":      "ec2-user",
		"rhel9":      "ec2-user",
		"ubuntu1804": "ubuntu",
		"ubuntu2004": "ubuntu",
		"ubuntu2204": "ubuntu",
		"centos7":    "centos",
		"unknown":    "ec2-user",
	}
	for os, want := range tests {
		assert.Equal(t, want, ClusterDefaultUser(os), os)
	}
}

func TestCanCreateAndAttachStorage(t *testing.T) {
	storages := []Storage{{Name: "Efs0", StorageType: StorageTypeEfs}}
	ui := []UIStorageSetting{{UseExisting: false}}
	assert.False(t, CanCreateStorage(StorageTypeEfs, storages, ui))
	assert.True(t, CanAttachExistingStorage(StorageTypeEfs, storages, ui))
	assert.True(t, CanCreateStorage(StorageTypeFsxLustre, storages, ui))
	assert.False(t, CanCreateStorage(StorageTypeFsxOntap, nil, nil))
	assert.True(t, CanAttachExistingStorage(StorageTypeFsxOntap, nil, nil))

	ebs := []Storage{}
	ebsUI := []UIStorageSetting{}
	for i := 0; i < 5; i++ {
		ebs = append(ebs, Storage{StorageType: StorageTypeEbs})
		ebsUI = append(ebsUI, UIStorageSetting{UseExisting: true})
	}
	assert.True(t, CanCreateStorage(StorageTypeEbs, ebs, ebsUI))
	assert.False(t, CanAttachExistingStorage(StorageTypeEbs, ebs, ebsUI))
}

func TestBuildStorageEntries(t *testing.T) {
	storages := []Storage{{Name: "Efs0", StorageType: StorageTypeEfs, MountDir: "/shared"}}
	ui := []UIStorageSetting{{UseExisting: false}}

	entries, settings := BuildStorageEntries(storages, ui, []StorageType{StorageTypeEfs, StorageTypeFsxLustre, StorageTypeFsxOntap})

	assert.Equal(t, []Storage{
		{Name: "Efs1", StorageType: StorageTypeEfs, MountDir: "/shared"},
		{Name: "FsxLustre2", StorageType: StorageTypeFsxLustre, MountDir: "/shared"},
		{Name: "FsxOntap3", StorageType: StorageTypeFsxOntap, MountDir: "/shared"},
	}, entries)
	assert.Equal(t, []UIStorageSetting{{UseExisting: true}, {UseExisting: false}, {UseExisting: true}}, settings)
}

func TestMapStorageToUISettings(t *testing.T) {
	storages := []Storage{
		{Name: "Efs0", StorageType: StorageTypeEfs, EfsSettings: &EfsSettings{FileSystemId: "fs-123"}},
		{Name: "Ebs1", StorageType: StorageTypeEbs, EbsSettings: &EbsSettings{Size: intPtr(40)}},
	}
	assert.Equal(t, []UIStorageSetting{{UseExisting: true}, {UseExisting: false}}, MapStorageToUISettings(storages))
}

func TestExternalFileSystemIDKey(t *testing.T) {
	assert.Equal(t, "FileSystemId", ExternalFileSystemIDKey(StorageTypeEfs))
	assert.Equal(t, "FileSystemId", ExternalFileSystemIDKey(StorageTypeFsxLustre))
	assert.Equal(t, "FileCacheId", ExternalFileSystemIDKey(StorageTypeFileCache))
	assert.Equal(t, "VolumeId", ExternalFileSystemIDKey(StorageTypeEbs))
	assert.Equal(t, "VolumeId", ExternalFileSystemIDKey(StorageTypeFsxOntap))
}

func TestLustreDefaults(t *testing.T) {
	assert.Equal(t, 200, LustreDefaultThroughput("PERSISTENT_1"))
	assert.Equal(t, 125, LustreDefaultThroughput("PERSISTENT_2"))
	assert.Equal(t, 0, LustreDefaultThroughput("SCRATCH_2"))
	assert.Equal(t, 1200, ClampLustreCapacity(500))
	assert.Equal(t, 2400, ClampLustreCapacity(3000))
	assert.Equal(t, 100800, ClampLustreCapacity(200000))
}

func TestMapComputeResources(t *testing.T) {
	resources := []ComputeResource{
		{Name: "single", InstanceType: "c5.large"},
		{Name: "multi", Instances: []InstanceRef{{InstanceType: "t2.micro"}, {InstanceType: "t3.micro"}}},
		{Name: "none", Instances: []InstanceRef{}},
	}

	assert.Equal(t, resources, MapComputeResources(false, resources))

	mapped := MapComputeResources(true, resources)
	assert.Equal(t, []ComputeResource{
		{Name: "single", Instances: []InstanceRef{{InstanceType: "c5.large"}}},
		{Name: "multi", Instances: []InstanceRef{{InstanceType: "t2.micro"}, {InstanceType: "t3.micro"}}},
		{Name: "none"},
	}, mapped)
	assert.Equal(t, "c5.large", resources[0].InstanceType)
}

func TestMemoryBasedScheduling(t *testing.T) {
	single := []Queue{{Name: "q", ComputeResources: []ComputeResource{{Instances: []InstanceRef{{InstanceType: "c5.large"}}}}}}
	multi := []Queue{{Name: "q", ComputeResources: []ComputeResource{{Instances: []InstanceRef{{InstanceType: "c5.large"}, {InstanceType: "c5.xlarge"}}}}}}

	assert.False(t, HasMultipleInstanceTypes(single))
	assert.True(t, HasMultipleInstanceTypes(multi))

	assert.True(t, CanEnableMemoryBasedScheduling(false, true, single))
	assert.False(t, CanEnableMemoryBasedScheduling(false, true, multi))
	assert.True(t, CanEnableMemoryBasedScheduling(true, true, multi))
	assert.True(t, CanEnableMemoryBasedScheduling(false, false, multi))
}

func TestAreMultiAZSelected(t *testing.T) {
	assert.Equal(t, MultiAZSelection{CanUseEFA: true, CanUsePlacementGroup: true}, AreMultiAZSelected([]string{"subnet-1"}))
	assert.Equal(t, MultiAZSelection{MultiAZ: true}, AreMultiAZSelected([]string{"subnet-1", "subnet-2"}))
}
