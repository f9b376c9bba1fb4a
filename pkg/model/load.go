package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/darkenness/airnet/pkg/topology"
)

// ProjectFileName is the expected model file inside a project directory.
const ProjectFileName = "building.yaml"

// ParseError reports a malformed project or topology document on load.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads a building project from a YAML file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	if p.ScaleFactor <= 0 {
		p.ScaleFactor = 1.0
	}
	fillIDs(&p)

	if p.LegacyTopology != "" {
		doc, err := topology.Parse([]byte(p.LegacyTopology))
		if err != nil {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("legacy topology: %w", err)}
		}
		p.Legacy = doc
	}

	return &p, nil
}

// LoadProject loads the building model from a project directory.
func LoadProject(projectDir string) (*Project, error) {
	return Load(filepath.Join(projectDir, ProjectFileName))
}

// fillIDs assigns ids to stories and placements that were authored
// without one, so editor records stay addressable.
func fillIDs(p *Project) {
	for i := range p.Stories {
		if p.Stories[i].ID == "" {
			p.Stories[i].ID = uuid.NewString()
		}
		for j := range p.Stories[i].Placements {
			if p.Stories[i].Placements[j].ID == "" {
				p.Stories[i].Placements[j].ID = uuid.NewString()
			}
		}
	}
}

// IsParseError reports whether err is a load-time parse failure as
// opposed to an I/O failure.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
