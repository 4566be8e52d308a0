package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DepartmentAliases maps raw department spellings seen in source files to
// fixed departments, so rows with known values skip the model entirely.
type DepartmentAliases struct {
	Aliases []DepartmentAlias `yaml:"aliases"`
}

type DepartmentAlias struct {
	Value      string `yaml:"value"`
	Department string `yaml:"department"`
}

func LoadDepartmentAliases(path string) (*DepartmentAliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aliases: %w", err)
	}
	var a DepartmentAliases
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse aliases yaml: %w", err)
	}
	for _, alias := range a.Aliases {
		if !Department(strings.TrimSpace(alias.Department)).Valid() {
			return nil, fmt.Errorf("alias %q targets unknown department %q", alias.Value, alias.Department)
		}
	}
	return &a, nil
}

func normalizeTextToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Lookup resolves a raw department value case-insensitively. Safe on a nil
// receiver; a miss means the caller falls through to the model.
func (a *DepartmentAliases) Lookup(value string) (Department, bool) {
	if a == nil {
		return "", false
	}
	token := normalizeTextToken(value)
	if token == "" {
		return "", false
	}
	for _, alias := range a.Aliases {
		if normalizeTextToken(alias.Value) == token {
			return Department(strings.TrimSpace(alias.Department)), true
		}
	}
	return "", false
}
