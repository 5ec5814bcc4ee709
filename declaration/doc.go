/*
Package declaration interprets which top-level fields of a module are JSON-backed
repeaters.

A declaration has exactly one active variant, decided once when it is built or
loaded:

  - PlainList: an ordered list of repeater names.
  - AliasMap: an ordered mapping from a public field key to the name of an
    underlying repeater definition. The alias target is only consulted by the
    type resolver, as its last fallback.

YAML form:

	jsonRepeaters: [gallery, faq]            # PlainList

	jsonRepeaters:                           # AliasMap
	  hero_slides: slide
	  footer_slides: slide

A mapping that mixes numeric and string keys is rejected at load time. An empty
declaration is a PlainList with no names.
*/
package declaration
