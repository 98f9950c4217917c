package pipeline

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the on-disk definition holding named pipelines.
type File struct {
	Pipelines map[string]Pipeline `yaml:"pipelines"`
}

// LoadFile reads a pipeline definition file, expands environment
// references in commands and env overrides, and applies defaults.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline file %q: %w", path, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse pipeline file %q: %w", path, err)
	}
	if len(file.Pipelines) == 0 {
		return nil, fmt.Errorf("pipeline file %q defines no pipelines", path)
	}

	for name, p := range file.Pipelines {
		p.Name = name
		normalize(&p)
		expand(&p)
		file.Pipelines[name] = p
	}

	return &file, nil
}

// Pipeline returns the named pipeline or an error listing what exists.
func (f *File) Pipeline(name string) (*Pipeline, error) {
	p, ok := f.Pipelines[name]
	if !ok {
		return nil, fmt.Errorf("pipeline %q not defined (have: %s)", name, strings.Join(f.Names(), ", "))
	}
	return &p, nil
}

// Names returns the defined pipeline names, sorted.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Pipelines))
	for name := range f.Pipelines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(p *Pipeline) {
	for i := range p.Stages {
		stage := &p.Stages[i]
		stage.Criticality = strings.ToLower(strings.TrimSpace(stage.Criticality))
		if stage.Criticality == "" {
			stage.Criticality = Blocking
		}
	}
}

// expand resolves $VAR references in stage commands and env overrides at
// load time. Pipeline env wins over the process environment so a
// definition can pin values while still reading the rest from outside.
func expand(p *Pipeline) {
	for k, v := range p.Env {
		p.Env[k] = os.Expand(v, os.Getenv)
	}

	lookup := func(key string) string {
		if v, ok := p.Env[key]; ok {
			return v
		}
		return os.Getenv(key)
	}

	for i := range p.Stages {
		stage := &p.Stages[i]
		stage.Run = strings.TrimSpace(os.Expand(stage.Run, lookup))
		for k, v := range stage.Env {
			stage.Env[k] = os.Expand(v, lookup)
		}
	}
}
