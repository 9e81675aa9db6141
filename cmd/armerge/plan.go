package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Plan describes an archive build. It mirrors the build command's flags
// so a build can be checked in as a YAML file.
type Plan struct {
	Output string  `yaml:"output"`
	Kind   string  `yaml:"kind"`
	Triple string  `yaml:"triple"`
	Arch   string  `yaml:"arch"`
	Inputs []Input `yaml:"inputs"`
}

// Input is one build input: a standalone object file, or an archive
// whose members are appended minus those matching the skip globs.
type Input struct {
	File    string   `yaml:"file,omitempty"`
	Archive string   `yaml:"archive,omitempty"`
	Skip    []string `yaml:"skip,omitempty"`
}

func loadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}
	if plan.Output == "" {
		return nil, fmt.Errorf("plan %s: output is required", path)
	}
	if plan.Kind == "" {
		plan.Kind = "gnu"
	}
	return &plan, nil
}

func planFromFlags(output, kind, triple, arch string, skip, args []string) (*Plan, error) {
	if output == "" {
		return nil, errors.New("--output is required")
	}
	plan := &Plan{Output: output, Kind: kind, Triple: triple, Arch: arch}
	for _, arg := range args {
		if isArchivePath(arg) {
			plan.Inputs = append(plan.Inputs, Input{Archive: arg, Skip: skip})
		} else {
			plan.Inputs = append(plan.Inputs, Input{File: arg})
		}
	}
	return plan, nil
}

func isArchivePath(path string) bool {
	switch filepath.Ext(path) {
	case ".a", ".lib", ".rlib":
		return true
	}
	return false
}
