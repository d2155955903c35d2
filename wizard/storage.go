package wizard

import "fmt"

type StorageTypeProps struct {
	MaxToCreate         int
	MaxExistingToAttach int
	MountFilesystem     bool
}

var StorageTypes = map[StorageType]StorageTypeProps{
	StorageTypeFsxLustre:  {MaxToCreate: 1, MaxExistingToAttach: 20, MountFilesystem: true},
	StorageTypeFsxOntap:   {MaxToCreate: 0, MaxExistingToAttach: 20},
	StorageTypeFsxOpenZfs: {MaxToCreate: 0, MaxExistingToAttach: 20},
	StorageTypeEfs:        {MaxToCreate: 1, MaxExistingToAttach: 20, MountFilesystem: true},
	StorageTypeEbs:        {MaxToCreate: 5, MaxExistingToAttach: 5},
	StorageTypeFileCache:  {MaxToCreate: 0, MaxExistingToAttach: 20},
}

const DefaultMountDir = "/shared"

const (
	LustrePersistent1DefaultThroughput = 200
	LustrePersistent2DefaultThroughput = 125
	LustreMinCapacity                  = 1200
	LustreMaxCapacity                  = 100800
	LustreCapacityStep                 = 1200
)

func countStorages(storages []Storage, ui []UIStorageSetting, storageType StorageType, useExisting bool) int {
	count := 0
	for i, s := range storages {
		if s.StorageType != storageType {
			continue
		}
		existing := false
		if i < len(ui) {
			existing = ui[i].UseExisting
		}
		if existing == useExisting {
			count++
		}
	}
	return count
}

func CanCreateStorage(storageType StorageType, storages []Storage, ui []UIStorageSetting) bool {
	return countStorages(storages, ui, storageType, false) < StorageTypes[storageType].MaxToCreate
}

func CanAttachExistingStorage(storageType StorageType, storages []Storage, ui []UIStorageSetting) bool {
	return countStorages(storages, ui, storageType, true) < StorageTypes[storageType].MaxExistingToAttach
}

// BuildStorageEntries creates new entries for the selected types, named
// after their type and position. Types that cannot be created any more
// are added as existing file systems to attach.
func BuildStorageEntries(storages []Storage, ui []UIStorageSetting, selected []StorageType) ([]Storage, []UIStorageSetting) {
	newStorages := []Storage{}
	newUI := []UIStorageSetting{}
	for i, storageType := range selected {
		newStorages = append(newStorages, Storage{
			Name:        fmt.Sprintf("%s%d", storageType, len(storages)+i),
			StorageType: storageType,
			MountDir:    DefaultMountDir,
		})
		newUI = append(newUI, UIStorageSetting{
			UseExisting: !CanCreateStorage(storageType, storages, ui),
		})
	}
	return newStorages, newUI
}

// MapStorageToUISettings derives the UI settings of a loaded configuration:
// storages pointing at an external id are existing ones.
func MapStorageToUISettings(storages []Storage) []UIStorageSetting {
	ui := make([]UIStorageSetting, 0, len(storages))
	for _, s := range storages {
		ui = append(ui, UIStorageSetting{UseExisting: ExternalFileSystemID(s) != ""})
	}
	return ui
}

// ExternalFileSystemIDKey is the settings key holding the id of an existing
// file system of the given type.
func ExternalFileSystemIDKey(storageType StorageType) string {
	switch {
	case StorageTypes[storageType].MountFilesystem:
		return "FileSystemId"
	case storageType == StorageTypeFileCache:
		return "FileCacheId"
	default:
		return "VolumeId"
	}
}

func ExternalFileSystemID(storage Storage) string {
	switch storage.StorageType {
	case StorageTypeEbs:
		if storage.EbsSettings != nil {
			return storage.EbsSettings.VolumeId
		}
	case StorageTypeEfs:
		if storage.EfsSettings != nil {
			return storage.EfsSettings.FileSystemId
		}
	case StorageTypeFsxLustre:
		if storage.FsxLustreSettings != nil {
			return storage.FsxLustreSettings.FileSystemId
		}
	case StorageTypeFsxOntap:
		if storage.FsxOntapSettings != nil {
			return storage.FsxOntapSettings.VolumeId
		}
	case StorageTypeFsxOpenZfs:
		if storage.FsxOpenZfsSettings != nil {
			return storage.FsxOpenZfsSettings.VolumeId
		}
	case StorageTypeFileCache:
		if storage.FileCacheSettings != nil {
			return storage.FileCacheSettings.FileCacheId
		}
	}
	return ""
}

// LustreDefaultThroughput returns the per unit storage throughput used for
// a deployment type, zero when the type has none.
func LustreDefaultThroughput(deploymentType string) int {
	switch deploymentType {
	case "PERSISTENT_1":
		return LustrePersistent1DefaultThroughput
	case "PERSISTENT_2":
		return LustrePersistent2DefaultThroughput
	}
	return 0
}

func ClampLustreCapacity(capacity int) int {
	return Clamp(capacity, LustreMinCapacity, LustreMaxCapacity, LustreCapacityStep)
}
