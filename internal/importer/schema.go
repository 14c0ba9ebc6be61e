package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a program plan file.
type ImportSchema struct {
	Program     ProgramImport      `yaml:"program" json:"program"`
	Defaults    *DefaultsImport    `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	Workstreams []WorkstreamImport `yaml:"workstreams" json:"workstreams"`
}

// ProgramImport defines the program-level fields in the plan file.
type ProgramImport struct {
	ShortID    string  `yaml:"short_id" json:"short_id"`
	Name       string  `yaml:"name" json:"name"`
	FYStart    int     `yaml:"fy_start" json:"fy_start"`
	FYEnd      int     `yaml:"fy_end" json:"fy_end"`
	StartDate  *string `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	TargetDate *string `yaml:"target_date,omitempty" json:"target_date,omitempty"`
}

// DefaultsImport holds estimation levels that cascade to every estimate
// leaving them unset.
type DefaultsImport struct {
	Unknowns    string `yaml:"unknowns,omitempty" json:"unknowns,omitempty"`
	Integration string `yaml:"integration,omitempty" json:"integration,omitempty"`
}

type WorkstreamImport struct {
	Name             string               `yaml:"name" json:"name"`
	TargetCompletion string               `yaml:"target_completion,omitempty" json:"target_completion,omitempty"`
	Subcomponents    []SubcomponentImport `yaml:"subcomponents" json:"subcomponents"`
}

type SubcomponentImport struct {
	Name          string          `yaml:"name" json:"name"`
	Owner         string          `yaml:"owner,omitempty" json:"owner,omitempty"`
	OwnerInitials string          `yaml:"owner_initials,omitempty" json:"owner_initials,omitempty"`
	Status        string          `yaml:"status,omitempty" json:"status,omitempty"`
	TotalPoints   *int            `yaml:"total_points,omitempty" json:"total_points,omitempty"`
	PlannedStart  string          `yaml:"planned_start,omitempty" json:"planned_start,omitempty"`
	PlannedEnd    string          `yaml:"planned_end,omitempty" json:"planned_end,omitempty"`
	Subtasks      []SubtaskImport `yaml:"subtasks" json:"subtasks"`
}

// SubtaskImport carries either manual points or an estimate, never both.
type SubtaskImport struct {
	Title        string          `yaml:"title" json:"title"`
	Points       *int            `yaml:"points,omitempty" json:"points,omitempty"`
	Completion   *int            `yaml:"completion,omitempty" json:"completion,omitempty"`
	AddedScope   *bool           `yaml:"added_scope,omitempty" json:"added_scope,omitempty"`
	Organization string          `yaml:"organization,omitempty" json:"organization,omitempty"`
	Estimate     *EstimateImport `yaml:"estimate,omitempty" json:"estimate,omitempty"`
}

type EstimateImport struct {
	Days        float64 `yaml:"days" json:"days"`
	Unknowns    string  `yaml:"unknowns,omitempty" json:"unknowns,omitempty"`
	Integration string  `yaml:"integration,omitempty" json:"integration,omitempty"`
}

// LoadImportSchema reads a plan file. Files ending in .yaml or .yml are
// decoded as YAML; anything else as JSON.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseYAML decodes a YAML plan document.
func ParseYAML(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing plan YAML: %w", err)
	}
	return &schema, nil
}

// ParseJSON decodes a JSON plan document.
func ParseJSON(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing plan JSON: %w", err)
	}
	return &schema, nil
}
