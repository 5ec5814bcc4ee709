/*
Package registry owns repeater type definitions and resolves a repeater name to
its definition.

Registry:
A thread-safe collection of definitions keyed by name:

	reg := registry.New()
	reg.MustRegister(registry.Definition{
	    Name:       "gallery",
	    Component:  "a17-block-gallery",
	    Title:      "Gallery",
	    TitleField: "caption",
	})

Resolution:
Resolver looks a repeater up in three steps, first match wins:

 1. the name itself
 2. "dynamic-repeater-" + name, for self-contained repeater types
 3. the alias target, when the module declares one

A miss is not an error. It means the stored data outlived its type.

CachedResolver memoizes resolutions in an LRU cache and drops it whenever the
underlying registry reports a new generation.

The registry should be populated during initialization, typically from a
configuration file through LoadDefinitions.
*/
package registry
