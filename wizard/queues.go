package wizard

// MapComputeResources converts single instance type resources to the
// Instances form when multiple instance types per resource are supported.
func MapComputeResources(multipleInstanceTypes bool, resources []ComputeResource) []ComputeResource {
	if !multipleInstanceTypes {
		return resources
	}
	mapped := make([]ComputeResource, 0, len(resources))
	for _, cr := range resources {
		switch {
		case len(cr.Instances) > 0:
		case cr.InstanceType != "":
			cr.Instances = []InstanceRef{{InstanceType: cr.InstanceType}}
			cr.InstanceType = ""
		default:
			cr.Instances = nil
		}
		mapped = append(mapped, cr)
	}
	return mapped
}

func HasMultipleInstanceTypes(queues []Queue) bool {
	for _, q := range queues {
		for _, cr := range q.ComputeResources {
			if len(cr.Instances) > 1 {
				return true
			}
		}
	}
	return false
}

// CanEnableMemoryBasedScheduling reports whether memory based scheduling may
// be switched on for the queues, given which features the version supports.
func CanEnableMemoryBasedScheduling(withMultipleInstanceTypes, multipleInstanceTypes bool, queues []Queue) bool {
	if withMultipleInstanceTypes {
		return true
	}
	if !multipleInstanceTypes {
		return true
	}
	return !HasMultipleInstanceTypes(queues)
}

type MultiAZSelection struct {
	MultiAZ              bool `json:"multiAZ"`
	CanUseEFA            bool `json:"canUseEFA"`
	CanUsePlacementGroup bool `json:"canUsePlacementGroup"`
}

// AreMultiAZSelected: EFA and placement groups only work within one subnet.
func AreMultiAZSelected(subnets []string) MultiAZSelection {
	if len(subnets) <= 1 {
		return MultiAZSelection{CanUseEFA: true, CanUsePlacementGroup: true}
	}
	return MultiAZSelection{MultiAZ: true}
}
