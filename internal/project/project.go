package project

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/AndreyAkinshin/assay/internal/config"
	"github.com/AndreyAkinshin/assay/pkg/tolerance"
)

// Project represents a loaded assay project.
type Project struct {
	Root     string
	Config   *config.Config
	Warnings []string
	// Implicit is set when no configuration file was found and defaults
	// are in effect.
	Implicit bool
}

// LoadProject finds and loads a project from the current directory.
func LoadProject() (*Project, error) {
	root, err := FindRoot()
	if err != nil {
		return nil, err
	}
	return LoadProjectFrom(root)
}

// LoadProjectFrom loads a project from a specified root directory.
func LoadProjectFrom(root string) (*Project, error) {
	cfg, warnings, err := config.LoadAndValidate(filepath.Join(root, ConfigDirName, ConfigFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return &Project{
		Root:     root,
		Config:   cfg,
		Warnings: warnings,
	}, nil
}

// Open loads the project enclosing dir. Outside a project it returns an
// implicit project rooted at dir with the default configuration.
func Open(dir string) (*Project, error) {
	root, err := FindRootFrom(dir)
	if errors.Is(err, ErrNoProjectRoot) {
		abs, absErr := filepath.Abs(dir)
		if absErr != nil {
			return nil, absErr
		}
		return &Project{Root: abs, Config: config.Default(), Implicit: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return LoadProjectFrom(root)
}

// ConfigPath returns the full path to the project configuration file.
func (p *Project) ConfigPath() string {
	return filepath.Join(p.Root, ConfigDirName, ConfigFileName)
}

// CasesDirectory returns the absolute path of the case file directory.
func (p *Project) CasesDirectory() string {
	dir := p.Config.Cases.Directory
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(p.Root, dir)
}

// DefaultTolerance returns the tolerance configured for floating point
// equality.
func (p *Project) DefaultTolerance() (tolerance.Tolerance, error) {
	return p.Config.Tolerance.DefaultTolerance()
}
