// Package plan reads and writes whole project plans: a project, its tasks and
// the dependency edges between them, keyed by short task names instead of
// database ids. Plans can be written in YAML, JSON, TOML or HCL.
package plan

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for an unknown format name or extension
	ErrUnsupportedFormat = errors.New("unsupported plan format")

	// ErrMalformedPlan wraps every error from decoding a plan file
	ErrMalformedPlan = errors.New("malformed plan")
)

// Format is a plan file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

// Formats lists the supported encodings
var Formats = []Format{FormatYAML, FormatJSON, FormatTOML, FormatHCL}

// ParseFormat accepts a format name or a file extension without the dot
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("%w '%s' (must be: yaml, json, toml, hcl)", ErrUnsupportedFormat, s)
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Plan is a project with its tasks
type Plan struct {
	Project     string     `yaml:"project" json:"project" toml:"project"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
	Tasks       []TaskSpec `yaml:"tasks" json:"tasks" toml:"tasks"`
}

// TaskSpec describes one task. Start and End are calendar dates
// (2006-01-02). When End is empty, Duration gives the length in working days.
type TaskSpec struct {
	Key       string     `yaml:"key" json:"key" toml:"key"`
	Title     string     `yaml:"title" json:"title" toml:"title"`
	Start     string     `yaml:"start" json:"start" toml:"start"`
	End       string     `yaml:"end,omitempty" json:"end,omitempty" toml:"end,omitempty"`
	Duration  int        `yaml:"duration,omitempty" json:"duration,omitempty" toml:"duration,omitempty"`
	Locked    bool       `yaml:"locked,omitempty" json:"locked,omitempty" toml:"locked,omitempty"`
	DependsOn []EdgeSpec `yaml:"depends_on,omitempty" json:"depends_on,omitempty" toml:"depends_on,omitempty"`
}

// EdgeSpec is one predecessor of a task, referenced by its key
type EdgeSpec struct {
	Task string `yaml:"task" json:"task" toml:"task"`
	Type string `yaml:"type,omitempty" json:"type,omitempty" toml:"type,omitempty"`
	Lag  int    `yaml:"lag,omitempty" json:"lag,omitempty" toml:"lag,omitempty"`
}

// EdgeCount returns the number of dependency edges in the plan
func (p *Plan) EdgeCount() int {
	n := 0
	for _, t := range p.Tasks {
		n += len(t.DependsOn)
	}
	return n
}
