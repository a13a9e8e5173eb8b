package config

import (
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

// FuzzUnmarshalConfig tests YAML unmarshaling of Config with arbitrary input.
// Run: go test -fuzz=FuzzUnmarshalConfig -fuzztime=30s ./internal/config
func FuzzUnmarshalConfig(f *testing.F) {
	seeds := []string{
		"tolerance:\n  amount: 1e-9\n",
		"tolerance:\n  mode: ulps\n  amount: 4\noutput:\n  maxLineLength: 100\n",
		"{}",
		"",
		"null",
		"[]",
		"string",
		"123",
		"tolerance: {amount: .inf}",
		"tolerance: {amount: .nan}",
		"output: {color: \"\\u0000\"}",
		"cases: {directory: 项目, pattern: \"*.yaml\"}",
		"tolerance: [unclosed",
		"a: &x 1\nb: *x\n",
		"tolerance:\n\t- tab",
	}

	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		var cfg Config
		err1 := yaml.Unmarshal(data, &cfg)

		var cfg2 Config
		err2 := yaml.Unmarshal(data, &cfg2)

		if (err1 == nil) != (err2 == nil) {
			t.Errorf("non-deterministic error: first=%v, second=%v", err1, err2)
		}
		if err1 == nil && err2 == nil && !reflect.DeepEqual(cfg, cfg2) {
			t.Errorf("non-deterministic result: first=%+v, second=%+v", cfg, cfg2)
		}
		if err1 == nil {
			if _, err := yaml.Marshal(cfg); err != nil {
				t.Errorf("failed to re-marshal config: %v", err)
			}
		}
	})
}

// FuzzLoadWithWarnings tests LoadWithWarnings with arbitrary YAML input.
// Run: go test -fuzz=FuzzLoadWithWarnings -fuzztime=30s ./internal/config
func FuzzLoadWithWarnings(f *testing.F) {
	seeds := []string{
		"tolerance:\n  amount: 0.1\n",
		"unknown_field: value\n",
		"$schema: config.schema.json\n",
		"output:\n  width: 3\n",
		"foo: 1\nbar: 2\nbaz: 3\n",
		"cases: null\n",
	}

	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		cfg, warnings, err1 := LoadWithWarnings("fuzz.yaml", data)
		cfg2, warnings2, err2 := LoadWithWarnings("fuzz.yaml", data)

		if (err1 == nil) != (err2 == nil) {
			t.Fatalf("non-deterministic error: first=%v, second=%v", err1, err2)
		}
		if err1 != nil {
			return
		}
		if !reflect.DeepEqual(cfg, cfg2) {
			t.Errorf("non-deterministic config: first=%+v, second=%+v", cfg, cfg2)
		}
		if !reflect.DeepEqual(warnings, warnings2) {
			t.Errorf("non-deterministic warnings: first=%v, second=%v", warnings, warnings2)
		}
	})
}
