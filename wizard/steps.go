package wizard

import (
	"encoding/json"
	"fmt"
	"pcluster/pcui/features"
	"pcluster/pcui/store"
	"strconv"
)

var (
	WizardPath    = store.Path{"app", "wizard"}
	ConfigPath    = WizardPath.Append("config")
	ErrorsPath    = WizardPath.Append("errors")
	VersionPath   = WizardPath.Append("version")
	NamePath      = WizardPath.Append("clusterName")
	EditingPath   = WizardPath.Append("editing")
	StorageUIPath = WizardPath.Append("storage", "ui")

	headNodePath      = ConfigPath.Append("HeadNode")
	directoryPath     = ConfigPath.Append("DirectoryService")
	slurmSettingsPath = ConfigPath.Append("Scheduling", "SlurmSettings")
	queuesPath        = ConfigPath.Append("Scheduling", "SlurmQueues")
	storagesPath      = ConfigPath.Append("SharedStorage")
)

const (
	StepVersion  = "version"
	StepCluster  = "cluster"
	StepHeadNode = "headNode"
	StepStorage  = "storage"
	StepQueues   = "queues"
)

var Steps = []string{StepVersion, StepCluster, StepHeadNode, StepStorage, StepQueues}

// Validator checks wizard steps against the state of one session and
// records error kinds under the errors path of the step.
type Validator struct {
	Features *features.Provider
	Region   string
}

func (v *Validator) enabled(s *store.Store, feature features.Feature) bool {
	return v.Features.Enabled(s.GetString(VersionPath), v.Region, feature)
}

// Validate runs a single step. existing holds the names of clusters that
// already exist in the region.
func (v *Validator) Validate(s *store.Store, step string, existing map[string]bool) (bool, error) {
	switch step {
	case StepVersion:
		return v.ValidateVersion(s), nil
	case StepCluster:
		valid := v.ValidateCluster(s, existing)
		if s.Get(directoryPath) != nil {
			valid = v.ValidateMultiUser(s) && valid
		}
		return valid, nil
	case StepHeadNode:
		valid := v.ValidateHeadNode(s)
		if v.enabled(s, features.SlurmAccounting) {
			valid = v.ValidateSlurmAccounting(s) && valid
		}
		return valid, nil
	case StepStorage:
		return v.ValidateStorage(s)
	case StepQueues:
		return v.ValidateQueues(s)
	}
	return false, fmt.Errorf("unknown wizard step %q", step)
}

// ValidateAll runs every step, all of them even when an early one fails,
// so that the errors of each step are recorded.
func (v *Validator) ValidateAll(s *store.Store, existing map[string]bool) (bool, error) {
	valid := true
	for _, step := range Steps {
		ok, err := v.Validate(s, step, existing)
		if err != nil {
			return false, err
		}
		valid = valid && ok
	}
	return valid, nil
}

// record sets or clears an error kind. Error trees use string keys for list
// positions since they share a map with the "validated" marker.
func record(s *store.Store, path store.Path, ok bool, kind ErrorKind) bool {
	if ok {
		s.Clear(path)
		return true
	}
	s.Set(path, string(kind))
	return false
}

func (v *Validator) ValidateVersion(s *store.Store) bool {
	errorsPath := ErrorsPath.Append(StepVersion)
	s.Set(errorsPath.Append("validated"), true)
	if s.GetString(VersionPath) == "" {
		return record(s, errorsPath.Append("version"), false, ErrVersionSelect)
	}
	return record(s, errorsPath.Append("version"), true, "")
}

func (v *Validator) ValidateCluster(s *store.Store, existing map[string]bool) bool {
	errorsPath := ErrorsPath.Append(StepCluster)
	s.Set(errorsPath.Append("validated"), true)
	ok, kind := ValidateClusterName(existing, s.GetString(NamePath))
	return record(s, errorsPath.Append("clusterName"), ok, kind)
}

func (v *Validator) ValidateMultiUser(s *store.Store) bool {
	errorsPath := ErrorsPath.Append("multiUser")
	valid := true
	for _, key := range []string{"DomainName", "DomainAddr", "PasswordSecretArn", "DomainReadOnlyUser"} {
		ok := s.GetString(directoryPath.Append(key)) != ""
		valid = record(s, errorsPath.Append(key), ok, ErrRequired) && valid
	}
	return valid
}

func validateCustomActions(s *store.Store, actionsPath, errorsPath store.Path, keys map[string]string) bool {
	valid := true
	for action, errorKey := range keys {
		var custom *CustomAction
		if raw := s.Get(actionsPath.Append(action)); raw != nil {
			custom = &CustomAction{}
			if err := decode(raw, custom); err != nil {
				custom = nil
			}
		}
		ok, kind := ValidateCustomAction(custom)
		valid = record(s, errorsPath.Append(errorKey), ok, kind) && valid
	}
	return valid
}

func (v *Validator) ValidateHeadNode(s *store.Store) bool {
	errorsPath := ErrorsPath.Append(StepHeadNode)
	valid := true

	subnet := s.GetString(headNodePath.Append("Networking", "SubnetId"))
	valid = record(s, errorsPath.Append("subnet"), subnet != "", ErrSubnetSelect) && valid

	instanceType := s.GetString(headNodePath.Append("InstanceType"))
	valid = record(s, errorsPath.Append("instanceType"), instanceType != "", ErrInstanceTypeSelect) && valid

	ok, kind := ValidateRootVolume(s.Get(headNodePath.Append("LocalStorage", "RootVolume", "Size")))
	valid = record(s, errorsPath.Append("rootVolume"), ok, kind) && valid

	valid = validateCustomActions(s, headNodePath.Append("CustomActions"), errorsPath, map[string]string{
		"OnNodeStart":      "onStart",
		"OnNodeConfigured": "onConfigured",
		"OnNodeUpdated":    "onUpdated",
	}) && valid

	s.Set(errorsPath.Append("validated"), true)
	return valid
}

// ValidateSlurmAccounting: the database settings are either all set or all
// empty, in which case the Database section is dropped.
func (v *Validator) ValidateSlurmAccounting(s *store.Store) bool {
	databasePath := slurmSettingsPath.Append("Database")
	errorsPath := ErrorsPath.Append(StepHeadNode, "slurmSettings", "database")
	fields := []struct{ key, errorKey string }{
		{"Uri", "uri"},
		{"UserName", "username"},
		{"PasswordSecretArn", "password"},
	}
	set := 0
	for _, f := range fields {
		if s.GetString(databasePath.Append(f.key)) != "" {
			set++
		}
	}
	switch set {
	case len(fields):
		return true
	case 0:
		s.Clear(databasePath)
		return true
	}
	for _, f := range fields {
		record(s, errorsPath.Append(f.errorKey), s.GetString(databasePath.Append(f.key)) != "", ErrRequired)
	}
	return false
}

func (v *Validator) ValidateStorage(s *store.Store) (bool, error) {
	errorsPath := ErrorsPath.Append(StepStorage)
	var storages []Storage
	if err := decode(s.Get(storagesPath), &storages); err != nil {
		return false, err
	}
	var ui []UIStorageSetting
	if err := decode(s.Get(StorageUIPath), &ui); err != nil {
		return false, err
	}

	valid := true
	for i, storage := range storages {
		key := strconv.Itoa(i)
		settings := fmt.Sprintf("%sSettings", storage.StorageType)
		useExisting := StorageTypes[storage.StorageType].MaxToCreate == 0
		if i < len(ui) && ui[i].UseExisting {
			useExisting = true
		}

		if useExisting {
			ok, kind := ValidateExternalFileSystem(storage)
			path := errorsPath.Append(key, settings, ExternalFileSystemIDKey(storage.StorageType))
			valid = record(s, path, ok, kind) && valid
		} else {
			switch storage.StorageType {
			case StorageTypeEbs:
				ok, kind := ValidateEbs(storage)
				valid = record(s, errorsPath.Append(key, "EbsSettings", "Size"), ok, kind) && valid
			case StorageTypeEfs:
				ok, kind := ValidateEfs(storage)
				valid = record(s, errorsPath.Append(key, "EfsSettings", "ProvisionedThroughput"), ok, kind) && valid
			}
		}

		ok, kind := ValidateStorageName(storage.Name)
		valid = record(s, errorsPath.Append(key, "Name"), ok, kind) && valid
	}

	s.Set(errorsPath.Append("validated"), true)
	return valid, nil
}

func (v *Validator) ValidateQueues(s *store.Store) (bool, error) {
	s.Set(ErrorsPath.Append(StepQueues, "validated"), true)
	var queues []interface{}
	if raw, ok := s.Get(queuesPath).([]interface{}); ok {
		queues = raw
	}
	valid := true
	for i := range queues {
		ok, err := v.ValidateQueue(s, i)
		if err != nil {
			return false, err
		}
		valid = valid && ok
	}
	return valid, nil
}

func (v *Validator) ValidateQueue(s *store.Store, index int) (bool, error) {
	queuePath := queuesPath.Append(index)
	errorsPath := ErrorsPath.Append(StepQueues, strconv.Itoa(index))
	valid := true

	var queue Queue
	if err := decode(s.Get(queuePath), &queue); err != nil {
		return false, err
	}

	ok, kind := ValidateQueueName(queue.Name)
	valid = record(s, errorsPath.Append("name"), ok, kind) && valid

	ok, kind = ValidateRootVolume(s.Get(queuePath.Append("ComputeSettings", "LocalStorage", "RootVolume", "Size")))
	valid = record(s, errorsPath.Append("rootVolume"), ok, kind) && valid

	valid = validateCustomActions(s, queuePath.Append("CustomActions"), errorsPath, map[string]string{
		"OnNodeStart":      "onStart",
		"OnNodeConfigured": "onConfigured",
	}) && valid

	customAmiEnabled := s.GetBool(WizardPath.Append("queues", index, "customAMI", "enabled"))
	customAmi := s.GetString(queuePath.Append("Image", "CustomAmi"))
	valid = record(s, errorsPath.Append("customAmi"), !customAmiEnabled || customAmi != "", ErrCustomAmiSelect) && valid

	subnetKind := ErrSubnetSelect
	if v.enabled(s, features.MultiAZ) {
		subnetKind = ErrSubnetsSelect
	}
	hasSubnet := queue.Networking != nil && len(queue.Networking.SubnetIds) > 0 && queue.Networking.SubnetIds[0] != ""
	valid = record(s, errorsPath.Append("subnet"), hasSubnet, subnetKind) && valid

	multiple := v.enabled(s, features.QueuesMultipleInstanceTypes)
	crValid, crErrors := ValidateComputeResources(multiple, queue.ComputeResources)
	for i := range queue.ComputeResources {
		kind, failed := crErrors[i]
		record(s, errorsPath.Append("computeResource", strconv.Itoa(i), "type"), !failed, kind)
	}
	valid = crValid && valid

	if v.enabled(s, features.MemoryBasedScheduling) {
		ok, kind := ValidateScaledownIdleTime(s.Get(slurmSettingsPath.Append("ScaledownIdletime")))
		valid = record(s, ErrorsPath.Append(StepQueues, "scaledownIdleTime"), ok, kind) && valid
	}
	return valid, nil
}

// decode converts a generic store value into a typed one. A nil value
// leaves out untouched.
func decode(value interface{}, out interface{}) error {
	if value == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
