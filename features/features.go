package features

import (
	"github.com/Masterminds/semver/v3"
)

type Feature string

const (
	Ubuntu1804                                     Feature = "ubuntu1804"
	MultiuserCluster                               Feature = "multiuser_cluster"
	FsxOntap                                       Feature = "fsx_ontap"
	FsxOpenZfs                                     Feature = "fsx_openzsf"
	LustrePersistent2                              Feature = "lustre_persistent2"
	MemoryBasedScheduling                          Feature = "memory_based_scheduling"
	SlurmQueueUpdateStrategy                       Feature = "slurm_queue_update_strategy"
	EbsDeletionPolicy                              Feature = "ebs_deletion_policy"
	CostMonitoring                                 Feature = "cost_monitoring"
	SlurmAccounting                                Feature = "slurm_accounting"
	QueuesMultipleInstanceTypes                    Feature = "queues_multiple_instance_types"
	DynamicFsMount                                 Feature = "dynamic_fs_mount"
	EfsDeletionPolicy                              Feature = "efs_deletion_policy"
	LustreDeletionPolicy                           Feature = "lustre_deletion_policy"
	ImdsSupport                                    Feature = "imds_support"
	MultiAZ                                        Feature = "multi_az"
	OnNodeUpdated                                  Feature = "on_node_updated"
	Rhel8                                          Feature = "rhel8"
	NewResourcesLimits                             Feature = "new_resources_limits"
	Ubuntu2204                                     Feature = "ubuntu2204"
	LoginNodes                                     Feature = "login_nodes"
	AmazonFileCache                                Feature = "amazon_file_cache"
	JobExclusiveAllocation                         Feature = "job_exclusive_allocation"
	MemoryBasedSchedulingWithMultipleInstanceTypes Feature = "memory_based_scheduling_with_multiple_instance_types"
)

// Release lists the features that became available with a version.
type Release struct {
	Version  string
	Features []Feature
}

// DefaultReleases is ordered by version, the order is kept in results.
var DefaultReleases = []Release{
	// ubuntu1804 is listed so it can be deprecated like any other flag.
	{"3.0.0", []Feature{Ubuntu1804}},
	{"3.1.0", []Feature{MultiuserCluster}},
	{"3.2.0", []Feature{
		FsxOntap,
		FsxOpenZfs,
		LustrePersistent2,
		MemoryBasedScheduling,
		MultiuserCluster,
		SlurmQueueUpdateStrategy,
		EbsDeletionPolicy,
		CostMonitoring,
	}},
	{"3.3.0", []Feature{
		SlurmAccounting,
		QueuesMultipleInstanceTypes,
		DynamicFsMount,
		EfsDeletionPolicy,
		LustreDeletionPolicy,
		ImdsSupport,
	}},
	{"3.4.0", []Feature{MultiAZ, OnNodeUpdated}},
	{"3.6.0", []Feature{Rhel8, NewResourcesLimits}},
	{"3.7.0", []Feature{
		Ubuntu2204,
		LoginNodes,
		AmazonFileCache,
		JobExclusiveAllocation,
		MemoryBasedSchedulingWithMultipleInstanceTypes,
	}},
}

var DefaultDeprecations = map[Feature]string{
	Ubuntu1804: "3.7.0",
}

var DefaultUnsupportedRegions = map[Feature][]string{
	CostMonitoring: {"us-gov-west-1"},
}

type release struct {
	version  *semver.Version
	features []Feature
}

type Provider struct {
	releases     []release
	deprecations map[Feature]*semver.Version
	unsupported  map[Feature][]string
}

func New(releases []Release, deprecations map[Feature]string, unsupported map[Feature][]string) (*Provider, error) {
	p := &Provider{
		deprecations: map[Feature]*semver.Version{},
		unsupported:  unsupported,
	}
	for _, r := range releases {
		v, err := semver.NewVersion(r.Version)
		if err != nil {
			return nil, err
		}
		p.releases = append(p.releases, release{version: v, features: r.Features})
	}
	for feature, version := range deprecations {
		v, err := semver.NewVersion(version)
		if err != nil {
			return nil, err
		}
		p.deprecations[feature] = v
	}
	return p, nil
}

func NewDefault() *Provider {
	p, err := New(DefaultReleases, DefaultDeprecations, DefaultUnsupportedRegions)
	if err != nil {
		panic(err)
	}
	return p
}

// Extend adds features to an existing or new release row.
func (p *Provider) Extend(version string, features ...Feature) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return err
	}
	for idx := range p.releases {
		if p.releases[idx].version.Equal(v) {
			p.releases[idx].features = append(p.releases[idx].features, features...)
			return nil
		}
	}
	p.releases = append(p.releases, release{version: v, features: features})
	return nil
}

func (p *Provider) byVersion(current *semver.Version) []Feature {
	seen := map[Feature]struct{}{}
	result := []Feature{}
	for _, r := range p.releases {
		if current.LessThan(r.version) {
			continue
		}
		for _, f := range r.features {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			result = append(result, f)
		}
	}
	return result
}

func (p *Provider) supportedInRegion(feature Feature, region string) bool {
	regions, restricted := p.unsupported[feature]
	if !restricted {
		return true
	}
	if region == "" {
		return false
	}
	for _, r := range regions {
		if r == region {
			return false
		}
	}
	return true
}

func (p *Provider) notDeprecated(feature Feature, current *semver.Version) bool {
	deprecatedAt, ok := p.deprecations[feature]
	if !ok || current == nil {
		return true
	}
	return current.LessThan(deprecatedAt)
}

// Features returns the features available for an API version in a region.
// Additional features are appended after the versioned ones and go through
// the same region and deprecation filters.
func (p *Provider) Features(version, region string, additional ...Feature) []Feature {
	current, err := semver.NewVersion(version)
	candidates := []Feature{}
	if err == nil {
		candidates = append(candidates, p.byVersion(current)...)
	} else {
		current = nil
	}
	candidates = append(candidates, additional...)

	result := []Feature{}
	for _, f := range candidates {
		if !p.supportedInRegion(f, region) {
			continue
		}
		if !p.notDeprecated(f, current) {
			continue
		}
		result = append(result, f)
	}
	return result
}

func (p *Provider) Enabled(version, region string, feature Feature, additional ...Feature) bool {
	for _, f := range p.Features(version, region, additional...) {
		if f == feature {
			return true
		}
	}
	return false
}

func ParseList(names []string) []Feature {
	result := make([]Feature, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		result = append(result, Feature(name))
	}
	return result
}
