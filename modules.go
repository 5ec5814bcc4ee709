/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package jsonrepeater

import (
	"fmt"
	"sort"
	"sync"

	"github.com/suparena/jsonrepeater/config"
	"github.com/suparena/jsonrepeater/errors"
	"github.com/suparena/jsonrepeater/registry"
)

// Modules is a thread-safe set of handlers keyed by content module name
// (for example "articles" or "pages").
type Modules struct {
	mu       sync.RWMutex
	handlers map[string]SupportsJsonRepeaters
}

// NewModules creates an empty set.
func NewModules() *Modules {
	return &Modules{
		handlers: make(map[string]SupportsJsonRepeaters),
	}
}

// Register stores h under module.
func (m *Modules) Register(module string, h SupportsJsonRepeaters) error {
	if module == "" {
		return errors.NewValidationError("module", "module name must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.handlers[module]; exists {
		return errors.NewAlreadyExistsError("module", module)
	}
	m.handlers[module] = h
	return nil
}

// Get retrieves the handler registered for module.
func (m *Modules) Get(module string) (SupportsJsonRepeaters, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, exists := m.handlers[module]
	if !exists {
		return nil, errors.NewNotFoundError("module", module)
	}
	return h, nil
}

// Remove deletes the handler registered for module.
func (m *Modules) Remove(module string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.handlers[module]; !exists {
		return errors.NewNotFoundError("module", module)
	}
	delete(m.handlers, module)
	return nil
}

// List returns the registered module names, sorted.
func (m *Modules) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.handlers))
	for name := range m.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromConfig builds the definition registry and one Handler per configured
// module.
func FromConfig(cfg *config.Config, opts ...HandlerOption) (*Modules, *registry.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, nil, err
	}
	if cfg.CacheSize > 0 {
		opts = append([]HandlerOption{WithResolverCache(cfg.CacheSize)}, opts...)
	}

	modules := NewModules()
	for _, name := range cfg.ModuleNames() {
		h, err := NewHandler(cfg.Modules[name].JSONRepeaters, reg, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("module %q: %w", name, err)
		}
		if err := modules.Register(name, h); err != nil {
			return nil, nil, err
		}
	}
	return modules, reg, nil
}
