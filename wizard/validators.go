package wizard

import (
	"regexp"
)

// ErrorKind identifies a validation failure. Kinds are stable identifiers,
// rendering them as text is up to the frontend.
type ErrorKind string

const (
	ErrEmpty                          ErrorKind = "empty"
	ErrExistingName                   ErrorKind = "existing_name"
	ErrForbiddenChars                 ErrorKind = "forbidden_chars"
	ErrForbiddenKeyword               ErrorKind = "forbidden_keyword"
	ErrMaxLength                      ErrorKind = "max_length"
	ErrInvalidEbsSize                 ErrorKind = "invalid_ebs_size"
	ErrProvisionedThroughputUndefined ErrorKind = "provisioned_throughput_undefined"
	ErrExternalFsUndefined            ErrorKind = "external_fs_undefined"
	ErrInstanceTypesEmpty             ErrorKind = "instance_types_empty"
	ErrInstanceTypeMissing            ErrorKind = "instance_type_missing"
	ErrInstanceTypeUnique             ErrorKind = "instance_type_unique"
	ErrInvalidEmail                   ErrorKind = "invalid_email"
	ErrRootVolumeEmpty                ErrorKind = "root_volume_empty"
	ErrRootVolumeMinimum              ErrorKind = "root_volume_minimum"
	ErrScriptWithArgs                 ErrorKind = "script_with_args"
	ErrSubnetSelect                   ErrorKind = "subnet_select"
	ErrSubnetsSelect                  ErrorKind = "subnets_select"
	ErrInstanceTypeSelect             ErrorKind = "instance_type_select"
	ErrCustomAmiSelect                ErrorKind = "custom_ami_select"
	ErrRequired                       ErrorKind = "required"
	ErrVersionSelect                  ErrorKind = "version_select"
	ErrImageIdRequired                ErrorKind = "image_id_required"
	ErrScaledownIdleTime              ErrorKind = "scaledown_idle_time"
	ErrInvalidConfiguration           ErrorKind = "invalid_configuration"
)

const (
	QueueNameMaxLength   = 25
	StorageNameMaxLength = 30
	EbsMinSize           = 35
	EbsMaxSize           = 2048
	RootVolumeMinSize    = 35
)

var (
	clusterNameRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]+$`)
	queueNameRe   = regexp.MustCompile(`^[a-z][a-z0-9-]+$`)
	storageNameRe = regexp.MustCompile(`^[\w+\-=._:@/]{0,256}$`)
	userEmailRe   = regexp.MustCompile(`^[a-zA-Z0-9_.-]+@[a-zA-Z0-9_.-]+\.([a-zA-Z0-9]{2,4})$`)
)

func ValidateClusterName(existing map[string]bool, name string) (bool, ErrorKind) {
	if name == "" {
		return false, ErrEmpty
	}
	if existing[name] {
		return false, ErrExistingName
	}
	if !clusterNameRe.MatchString(name) {
		return false, ErrForbiddenChars
	}
	return true, ""
}

func ValidateQueueName(name string) (bool, ErrorKind) {
	if name == "" {
		return false, ErrEmpty
	}
	if len(name) > QueueNameMaxLength {
		return false, ErrMaxLength
	}
	if !queueNameRe.MatchString(name) {
		return false, ErrForbiddenChars
	}
	return true, ""
}

func ValidateStorageName(name string) (bool, ErrorKind) {
	if name == "" {
		return false, ErrEmpty
	}
	if len(name) > StorageNameMaxLength {
		return false, ErrMaxLength
	}
	if name == "default" {
		return false, ErrForbiddenKeyword
	}
	if !storageNameRe.MatchString(name) {
		return false, ErrForbiddenChars
	}
	return true, ""
}

func ValidateEbs(storage Storage) (bool, ErrorKind) {
	if storage.EbsSettings == nil || storage.EbsSettings.Size == nil {
		return false, ErrInvalidEbsSize
	}
	size := *storage.EbsSettings.Size
	if size < EbsMinSize || size > EbsMaxSize {
		return false, ErrInvalidEbsSize
	}
	return true, ""
}

func ValidateEfs(storage Storage) (bool, ErrorKind) {
	settings := storage.EfsSettings
	if settings == nil {
		return true, ""
	}
	if settings.ThroughputMode == "provisioned" && settings.ProvisionedThroughput == nil {
		return false, ErrProvisionedThroughputUndefined
	}
	return true, ""
}

func ValidateExternalFileSystem(storage Storage) (bool, ErrorKind) {
	if ExternalFileSystemID(storage) == "" {
		return false, ErrExternalFsUndefined
	}
	return true, ""
}

func ValidateUserEmail(email string) (bool, ErrorKind) {
	if !userEmailRe.MatchString(email) {
		return false, ErrInvalidEmail
	}
	return true, ""
}

// ValidateComputeResources returns the error kind per resource index.
// With multipleInstanceTypes every resource needs at least one entry in
// Instances, otherwise each needs a distinct InstanceType.
func ValidateComputeResources(multipleInstanceTypes bool, resources []ComputeResource) (bool, map[int]ErrorKind) {
	errs := map[int]ErrorKind{}
	if multipleInstanceTypes {
		for i, cr := range resources {
			if len(cr.Instances) == 0 {
				errs[i] = ErrInstanceTypesEmpty
			}
		}
		return len(errs) == 0, errs
	}
	seen := map[string]bool{}
	for i, cr := range resources {
		switch {
		case cr.InstanceType == "":
			errs[i] = ErrInstanceTypeMissing
		case seen[cr.InstanceType]:
			errs[i] = ErrInstanceTypeUnique
		}
		seen[cr.InstanceType] = true
	}
	return len(errs) == 0, errs
}

// ValidateRootVolume checks a root volume size as it arrives from a form:
// nil means unset, an empty string means cleared by the user.
func ValidateRootVolume(value interface{}) (bool, ErrorKind) {
	switch v := value.(type) {
	case nil:
		return true, ""
	case string:
		if v == "" {
			return false, ErrRootVolumeEmpty
		}
		return false, ErrRootVolumeMinimum
	}
	size, ok := asInt(value)
	if !ok || size < RootVolumeMinSize {
		return false, ErrRootVolumeMinimum
	}
	return true, ""
}

func ValidateCustomAction(action *CustomAction) (bool, ErrorKind) {
	if action == nil {
		return true, ""
	}
	if len(action.Args) > 0 && action.Script == "" {
		return false, ErrScriptWithArgs
	}
	return true, ""
}

func ValidateScaledownIdleTime(value interface{}) (bool, ErrorKind) {
	if value == nil {
		return true, ""
	}
	n, ok := asInt(value)
	if !ok || n < 1 {
		return false, ErrScaledownIdleTime
	}
	return true, ""
}

// asInt accepts the numeric shapes a decoded JSON or YAML document can hold.
// Fractional floats are not integers.
func asInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}
