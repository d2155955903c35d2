package pcapi

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CreateURLMap parses a "version=url,version=url" mapping. Empty entries
// are skipped so a trailing comma is accepted.
func CreateURLMap(setting string) (map[string]string, error) {
	urls := map[string]string{}
	for _, entry := range strings.Split(setting, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid base url mapping entry %q", entry)
		}
		if _, err := semver.NewVersion(parts[0]); err != nil {
			return nil, fmt.Errorf("invalid version %q in base url mapping", parts[0])
		}
		if err := checkURL(parts[1]); err != nil {
			return nil, err
		}
		urls[parts[0]] = strings.TrimRight(parts[1], "/")
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("empty base url mapping")
	}
	return urls, nil
}

func checkURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %s", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return fmt.Errorf("invalid base url %q", raw)
	}
	return nil
}

// BaseURLs resolves the API endpoint for a version. A single URL serves
// every version.
type BaseURLs struct {
	single   string
	mapping  map[string]string
	versions []string
}

// ParseBaseURLs accepts a plain URL or a version mapping. With a plain URL
// the supported versions come from versions, which must not be empty.
func ParseBaseURLs(setting string, versions []string) (*BaseURLs, error) {
	setting = strings.TrimSpace(setting)
	if !strings.Contains(setting, "=") {
		if err := checkURL(setting); err != nil {
			return nil, err
		}
		if len(versions) == 0 {
			return nil, fmt.Errorf("no api versions configured")
		}
		sorted, err := sortVersions(versions)
		if err != nil {
			return nil, err
		}
		return &BaseURLs{single: strings.TrimRight(setting, "/"), versions: sorted}, nil
	}
	mapping, err := CreateURLMap(setting)
	if err != nil {
		return nil, err
	}
	keys := []string{}
	for version := range mapping {
		keys = append(keys, version)
	}
	sorted, err := sortVersions(keys)
	if err != nil {
		return nil, err
	}
	return &BaseURLs{mapping: mapping, versions: sorted}, nil
}

func sortVersions(versions []string) ([]string, error) {
	parsed := make([]*semver.Version, 0, len(versions))
	for _, v := range versions {
		version, err := semver.NewVersion(v)
		if err != nil {
			return nil, fmt.Errorf("invalid api version %q", v)
		}
		parsed = append(parsed, version)
	}
	sort.Sort(semver.Collection(parsed))
	out := make([]string, 0, len(parsed))
	for _, v := range parsed {
		out = append(out, v.Original())
	}
	return out, nil
}

// Versions returns the supported versions, oldest first.
func (b *BaseURLs) Versions() []string {
	return append([]string{}, b.versions...)
}

func (b *BaseURLs) Latest() string {
	return b.versions[len(b.versions)-1]
}

// BaseURL returns the endpoint for version, the latest one when version
// is empty.
func (b *BaseURLs) BaseURL(version string) (string, error) {
	if version == "" {
		version = b.Latest()
	}
	if b.single != "" {
		for _, v := range b.versions {
			if v == version {
				return b.single, nil
			}
		}
		return "", fmt.Errorf("unsupported api version %q", version)
	}
	base, ok := b.mapping[version]
	if !ok {
		return "", fmt.Errorf("unsupported api version %q", version)
	}
	return base, nil
}
