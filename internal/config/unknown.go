package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadWithWarnings parses config data and returns any unknown field warnings.
func LoadWithWarnings(path string, data []byte) (*Config, []string, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, detectUnknownFields(data), nil
}

// detectUnknownFields compares the raw YAML mapping with known struct
// fields, one level deep.
func detectUnknownFields(data []byte) []string {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// The data parsed as a Config already, so a top level that is not a
		// mapping can only be empty.
		return nil
	}

	var warnings []string
	sections := map[string]reflect.Type{
		"tolerance": reflect.TypeOf(ToleranceConfig{}),
		"output":    reflect.TypeOf(OutputConfig{}),
		"cases":     reflect.TypeOf(CasesConfig{}),
	}

	known := getYAMLFields(reflect.TypeOf(Config{}))
	for _, key := range sortedKeys(raw) {
		if key == "$schema" {
			continue
		}
		if !known[key] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
			continue
		}
		node := raw[key]
		if node.Kind != yaml.MappingNode {
			continue
		}
		fields := getYAMLFields(sections[key])
		for i := 0; i+1 < len(node.Content); i += 2 {
			name := node.Content[i].Value
			if !fields[name] {
				warnings = append(warnings, fmt.Sprintf("unknown field %q in %s (ignored)", name, key))
			}
		}
	}

	return warnings
}

func sortedKeys(m map[string]yaml.Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// getYAMLFields returns the known YAML field names of a struct type.
func getYAMLFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			fields[name] = true
		}
	}
	return fields
}
