package wizard

import (
	"fmt"
	"math"
	"pcluster/pcui/util"
	"sort"

	yaml "gopkg.in/yaml.v2"
)

const (
	PCUITagKey   = "parallelcluster-ui"
	PCUITagValue = "true"
)

// Document is a cluster configuration kept as an ordered YAML mapping so
// that a round trip does not reorder the user's keys.
type Document struct {
	root yaml.MapSlice
}

func LoadDocument(data []byte) (*Document, error) {
	doc := &Document{}
	if err := yaml.Unmarshal(data, &doc.root); err != nil {
		return nil, util.NewError(err, "failed to parse cluster configuration")
	}
	return doc, nil
}

func (doc *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(doc.root)
}

func (doc *Document) Get(key string) (interface{}, bool) {
	for _, item := range doc.root {
		if item.Key == key {
			return item.Value, true
		}
	}
	return nil, false
}

func (doc *Document) Set(key string, value interface{}) {
	for i, item := range doc.root {
		if item.Key == key {
			doc.root[i].Value = value
			return
		}
	}
	doc.root = append(doc.root, yaml.MapItem{Key: key, Value: value})
}

// HasTag reports whether the top level Tags list holds the given key.
func (doc *Document) HasTag(key string) bool {
	value, ok := doc.Get("Tags")
	if !ok {
		return false
	}
	tags, ok := value.([]interface{})
	if !ok {
		return false
	}
	for _, tag := range tags {
		if fmt.Sprint(tagField(tag, "Key")) == key {
			return true
		}
	}
	return false
}

// AddTag appends a tag to the top level Tags list unless one with the same
// key exists.
func (doc *Document) AddTag(key, value string) error {
	if doc.HasTag(key) {
		return nil
	}
	var tags []interface{}
	if existing, ok := doc.Get("Tags"); ok && existing != nil {
		list, ok := existing.([]interface{})
		if !ok {
			return fmt.Errorf("Tags must be a list, got %T", existing)
		}
		tags = list
	}
	tags = append(tags, yaml.MapSlice{
		{Key: "Key", Value: key},
		{Key: "Value", Value: value},
	})
	doc.Set("Tags", tags)
	return nil
}

// AppendPCUITag marks a configuration as created from the console.
func AppendPCUITag(config string) (string, error) {
	doc, err := LoadDocument([]byte(config))
	if err != nil {
		return "", err
	}
	if err := doc.AddTag(PCUITagKey, PCUITagValue); err != nil {
		return "", util.NewError(err, "cannot tag cluster configuration")
	}
	out, err := doc.Marshal()
	if err != nil {
		return "", util.NewError(err, "failed to render cluster configuration")
	}
	return string(out), nil
}

func tagField(tag interface{}, field string) interface{} {
	switch t := tag.(type) {
	case yaml.MapSlice:
		for _, item := range t {
			if item.Key == field {
				return item.Value
			}
		}
	case map[interface{}]interface{}:
		return t[field]
	case map[string]interface{}:
		return t[field]
	}
	return nil
}

// Top level sections of a cluster configuration in the order they are
// written out. Other keys follow sorted by name.
var configKeyOrder = []string{
	"Region", "Imds", "Image", "HeadNode", "LoginNodes", "Scheduling",
	"SharedStorage", "Monitoring", "AdditionalPackages", "Tags",
	"Iam", "DirectoryService", "DeploymentSettings", "CustomS3Bucket",
	"AdditionalResources", "DevSettings",
}

// EncodeConfig renders a configuration held as decoded JSON into YAML.
// Top level sections keep the usual cluster configuration order and
// integral numbers are written as integers.
func EncodeConfig(config map[string]interface{}) (string, error) {
	out, err := yaml.Marshal(ordered(config, configKeyOrder))
	if err != nil {
		return "", util.NewError(err, "failed to render cluster configuration")
	}
	return string(out), nil
}

// DecodeConfig parses YAML into the shape encoding/json produces, so the
// result can be put into a state store and served as JSON.
func DecodeConfig(config string) (map[string]interface{}, error) {
	var raw interface{}
	if err := yaml.Unmarshal([]byte(config), &raw); err != nil {
		return nil, util.NewError(err, "failed to parse cluster configuration")
	}
	if raw == nil {
		return map[string]interface{}{}, nil
	}
	converted, ok := normalize(raw).(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("cluster configuration must be a mapping, got %T", raw)
	}
	return converted, nil
}

func normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalize(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = normalize(item)
		}
		return out
	case int:
		return float64(v)
	}
	return value
}

func ordered(value interface{}, first []string) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		rank := func(key string) int {
			for i, k := range first {
				if k == key {
					return i
				}
			}
			return len(first)
		}
		sort.Slice(keys, func(i, j int) bool {
			ri, rj := rank(keys[i]), rank(keys[j])
			if ri != rj {
				return ri < rj
			}
			return keys[i] < keys[j]
		})
		out := make(yaml.MapSlice, 0, len(keys))
		for _, key := range keys {
			out = append(out, yaml.MapItem{Key: key, Value: ordered(v[key], nil)})
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = ordered(item, nil)
		}
		return out
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int64(v)
		}
	}
	return value
}
