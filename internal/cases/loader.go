package cases

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AndreyAkinshin/assay/internal/schema"
	"github.com/AndreyAkinshin/assay/pkg/tolerance"
)

// LoadSuite loads all cases from a suite directory.
func LoadSuite(casesDir, suite, pattern string) ([]Case, error) {
	suiteDir := filepath.Join(casesDir, suite)

	if _, err := os.Stat(suiteDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("case suite directory not found: %s", suiteDir)
	}

	matches, err := findMatches(suiteDir, pattern)
	if err != nil {
		return nil, err
	}

	var cases []Case
	for _, path := range matches {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("case suite %q: %w", suite, err)
		}
		for i := range loaded {
			loaded[i].Suite = suite
		}
		cases = append(cases, loaded...)
	}

	return cases, nil
}

// LoadAll loads cases from every suite directory under casesDir. Files
// directly inside casesDir form the suite named ".".
func LoadAll(casesDir, pattern string) (map[string][]Case, error) {
	entries, err := os.ReadDir(casesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cases directory: %w", err)
	}

	suites := make(map[string][]Case)
	var rootFiles []string
	for _, entry := range entries {
		if !entry.IsDir() {
			if ok, _ := filepath.Match(trimGlobstar(pattern), entry.Name()); ok {
				rootFiles = append(rootFiles, filepath.Join(casesDir, entry.Name()))
			}
			continue
		}

		suite := entry.Name()
		cases, err := LoadSuite(casesDir, suite, pattern)
		if err != nil {
			return nil, err
		}
		if len(cases) > 0 {
			suites[suite] = cases
		}
	}

	for _, path := range rootFiles {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		for i := range loaded {
			loaded[i].Suite = "."
		}
		suites["."] = append(suites["."], loaded...)
	}

	return suites, nil
}

// LoadPath loads a single case file, or every file under a directory that
// matches pattern. The suite of each case is the name of its directory.
func LoadPath(path, pattern string) ([]Case, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	files := []string{path}
	if info.IsDir() {
		if files, err = findMatches(path, pattern); err != nil {
			return nil, err
		}
	}

	var cases []Case
	for _, file := range files {
		loaded, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		cases = append(cases, loaded...)
	}
	return cases, nil
}

// LoadFile loads the cases of one YAML or JSON file.
func LoadFile(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid case file: %w", path, err)
	}
	if err := schema.ValidateCases(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	root := doc.(map[string]any)
	baseDir := filepath.Dir(path)
	file := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	suite := filepath.Base(baseDir)

	var fileTol tolerance.Tolerance
	if v, ok := root["tolerance"]; ok {
		if fileTol, err = tolerance.NewLinear(v); err != nil {
			return nil, fmt.Errorf("%s: tolerance: %w", path, err)
		}
	}

	items := root["cases"].([]any)
	cases := make([]Case, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		raw := item.(map[string]any)
		c := Case{
			File:      file,
			Suite:     suite,
			Path:      path,
			Tolerance: fileTol,
		}
		c.Name, _ = raw["name"].(string)
		c.Description, _ = raw["description"].(string)
		c.Fail, _ = raw["fail"].(bool)
		c.Message, _ = raw["message"].(string)
		c.Skip, _ = raw["skip"].(bool)

		if seen[c.Name] {
			return nil, fmt.Errorf("%s: duplicate case name %q", path, c.Name)
		}
		seen[c.Name] = true

		if c.Actual, err = resolveFileRefs(raw["actual"], baseDir); err != nil {
			return nil, fmt.Errorf("%s: case %q: actual: %w", path, c.Name, err)
		}
		expect, err := resolveFileRefs(raw["expect"], baseDir)
		if err != nil {
			return nil, fmt.Errorf("%s: case %q: expect: %w", path, c.Name, err)
		}
		c.Expect = expect.(map[string]any)

		cases = append(cases, c)
	}

	return cases, nil
}

// findMatches finds case files under dir whose names match pattern. The
// walk is always recursive, so a leading "**/" is accepted and ignored.
func findMatches(dir, pattern string) ([]string, error) {
	pattern = trimGlobstar(pattern)
	var matches []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		matched, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return err
		}
		if matched {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)
	return matches, nil
}

func trimGlobstar(pattern string) string {
	for strings.HasPrefix(pattern, "**/") {
		pattern = strings.TrimPrefix(pattern, "**/")
	}
	return pattern
}

// resolveFileRefs recursively resolves $file references in case data.
func resolveFileRefs(value any, baseDir string) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		if fileRef, ok := v["$file"].(string); ok && len(v) == 1 {
			return loadFileRef(fileRef, baseDir)
		}

		result := make(map[string]any, len(v))
		for key, val := range v {
			resolved, err := resolveFileRefs(val, baseDir)
			if err != nil {
				return nil, err
			}
			result[key] = resolved
		}
		return result, nil

	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			resolved, err := resolveFileRefs(val, baseDir)
			if err != nil {
				return nil, err
			}
			result[i] = resolved
		}
		return result, nil

	default:
		return value, nil
	}
}

// loadFileRef loads a file referenced by $file. YAML and JSON files are
// decoded; anything else is returned as a string.
func loadFileRef(ref, baseDir string) (any, error) {
	// Security: prevent path traversal
	if strings.Contains(ref, "..") {
		return nil, fmt.Errorf("$file path contains \"..\": %s", ref)
	}

	path := filepath.Join(baseDir, ref)

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return nil, fmt.Errorf("$file path escapes case directory: %s", ref)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("$file %q: %w", ref, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		v, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("$file %q: %w", ref, err)
		}
		return v, nil
	}
	return string(data), nil
}
