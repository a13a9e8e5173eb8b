// Package project locates and loads an assay project.
package project

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigDirName is the name of the assay configuration directory.
const ConfigDirName = ".assay"

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "config.yaml"

// ErrNoProjectRoot is returned when .assay/config.yaml is not found.
var ErrNoProjectRoot = errors.New(".assay/config.yaml not found: not an assay project (or any parent up to the root)")

// FindRoot walks up from the current working directory until it finds .assay/config.yaml.
func FindRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindRootFrom(cwd)
}

// FindRootFrom walks up from the given directory until it finds .assay/config.yaml.
func FindRootFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		configPath := filepath.Join(dir, ConfigDirName, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProjectRoot
		}
		dir = parent
	}
}
