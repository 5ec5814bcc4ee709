/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/suparena/jsonrepeater/errors"
	"gopkg.in/yaml.v3"
)

// Definition describes how a repeater renders in the form layer.
type Definition struct {
	Name            string `yaml:"name" json:"name"`
	Component       string `yaml:"component" json:"component"`
	Title           string `yaml:"title" json:"title"`
	TitleField      string `yaml:"titleField" json:"titleField"`
	HideTitlePrefix bool   `yaml:"hideTitlePrefix" json:"hideTitlePrefix"`
}

// TypeRegistry is the read side of a definition registry.
type TypeRegistry interface {
	Lookup(name string) (Definition, bool)
}

// Registry is a thread-safe TypeRegistry.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]Definition
	generation  uint64
}

// New creates a registry holding defs. It panics on duplicate names.
func New(defs ...Definition) *Registry {
	r := &Registry{
		definitions: make(map[string]Definition, len(defs)),
	}
	for _, def := range defs {
		r.MustRegister(def)
	}
	return r
}

// Register adds a definition. Names are unique.
func (r *Registry) Register(def Definition) error {
	if strings.TrimSpace(def.Name) == "" {
		return errors.NewValidationError("name", "repeater definition name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[def.Name]; exists {
		return errors.NewAlreadyExistsError("repeater definition", def.Name)
	}
	r.definitions[def.Name] = def
	r.generation++
	return nil
}

// MustRegister is like Register but panics to prevent accidental overrides.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(fmt.Sprintf("type registry: %v", err))
	}
}

// Lookup returns the definition registered under the exact name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[name]
	return def, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.definitions)
}

// Generation changes every time a definition is registered.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// LoadDefinitions decodes a YAML list of definitions.
func LoadDefinitions(rd io.Reader) ([]Definition, error) {
	var defs []Definition
	if err := yaml.NewDecoder(rd).Decode(&defs); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode repeater definitions: %w", err)
	}
	return defs, nil
}
