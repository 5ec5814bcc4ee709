/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

// DynamicPrefix namespaces self-contained repeater types.
const DynamicPrefix = "dynamic-repeater-"

// Resolver finds the definition for a repeater name.
type Resolver struct {
	Registry TypeRegistry
}

// NewResolver creates a Resolver over reg.
func NewResolver(reg TypeRegistry) *Resolver {
	return &Resolver{Registry: reg}
}

// Resolve tries name, then DynamicPrefix+name, then aliasTarget when it is
// not empty. ok is false when nothing matches.
func (r *Resolver) Resolve(name, aliasTarget string) (Definition, bool) {
	if r == nil || r.Registry == nil {
		return Definition{}, false
	}
	if def, ok := r.Registry.Lookup(name); ok {
		return def, true
	}
	if def, ok := r.Registry.Lookup(DynamicPrefix + name); ok {
		return def, true
	}
	if aliasTarget != "" {
		if def, ok := r.Registry.Lookup(aliasTarget); ok {
			return def, true
		}
	}
	return Definition{}, false
}
