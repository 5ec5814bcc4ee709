/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package declaration

import (
	"strconv"
	"strings"

	"github.com/suparena/jsonrepeater/errors"
	"gopkg.in/yaml.v3"
)

// Kind identifies the active variant of a Declaration.
type Kind int

const (
	// PlainList declares repeaters by name only.
	PlainList Kind = iota
	// AliasMap declares repeaters as public key to definition name pairs.
	AliasMap
)

func (k Kind) String() string {
	switch k {
	case PlainList:
		return "list"
	case AliasMap:
		return "alias-map"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Entry is one declared repeater. Alias is empty for PlainList entries.
type Entry struct {
	Name  string
	Alias string
}

// Declaration is the normalized repeater-name declaration of one module.
// The zero value is an empty PlainList.
type Declaration struct {
	kind    Kind
	entries []Entry
}

// FromList builds a PlainList declaration.
func FromList(names ...string) (Declaration, error) {
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{Name: name})
	}
	return build(PlainList, entries, nil)
}

// FromAliases builds an AliasMap declaration. Every entry needs an alias.
func FromAliases(entries ...Entry) (Declaration, error) {
	return build(AliasMap, append([]Entry(nil), entries...), nil)
}

// MustList is like FromList but panics on an invalid declaration.
func MustList(names ...string) Declaration {
	d, err := FromList(names...)
	if err != nil {
		panic(err)
	}
	return d
}

// MustAliases is like FromAliases but panics on an invalid declaration.
func MustAliases(entries ...Entry) Declaration {
	d, err := FromAliases(entries...)
	if err != nil {
		panic(err)
	}
	return d
}

func build(kind Kind, entries []Entry, lines []int) (Declaration, error) {
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		line := 0
		if i < len(lines) {
			line = lines[i]
		}
		if strings.TrimSpace(e.Name) == "" {
			return Declaration{}, errors.NewDeclarationError(line, "empty repeater name at position %d", i)
		}
		if _, dup := seen[e.Name]; dup {
			return Declaration{}, errors.NewDeclarationError(line, "repeater %q declared twice", e.Name)
		}
		seen[e.Name] = struct{}{}

		switch kind {
		case PlainList:
			if e.Alias != "" {
				return Declaration{}, errors.NewDeclarationError(line, "list entry %q cannot carry an alias", e.Name)
			}
		case AliasMap:
			if strings.TrimSpace(e.Alias) == "" {
				return Declaration{}, errors.NewDeclarationError(line, "alias for %q is empty", e.Name)
			}
		}
	}
	return Declaration{kind: kind, entries: entries}, nil
}

// Kind reports the active variant.
func (d Declaration) Kind() Kind {
	return d.kind
}

// Names returns the repeater names to process, in declaration order. For an
// AliasMap these are the public keys.
func (d Declaration) Names() []string {
	names := make([]string, 0, len(d.entries))
	for _, e := range d.entries {
		names = append(names, e.Name)
	}
	return names
}

// Entries returns a copy of the declared entries.
func (d Declaration) Entries() []Entry {
	return append([]Entry(nil), d.entries...)
}

// AliasTarget returns the definition name a public key points at. It only
// reports true for AliasMap declarations.
func (d Declaration) AliasTarget(name string) (string, bool) {
	if d.kind != AliasMap {
		return "", false
	}
	for _, e := range d.entries {
		if e.Name == name {
			return e.Alias, true
		}
	}
	return "", false
}

// Has reports whether name is a declared repeater.
func (d Declaration) Has(name string) bool {
	for _, e := range d.entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

// Len returns the number of declared repeaters.
func (d Declaration) Len() int {
	return len(d.entries)
}

// IsEmpty reports whether no repeaters are declared.
func (d Declaration) IsEmpty() bool {
	return len(d.entries) == 0
}

// UnmarshalYAML decides the variant from the node's structure.
func (d *Declaration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*d = Declaration{}
			return nil
		}
		return errors.NewDeclarationError(node.Line, "expected a list or a mapping, got scalar %q", node.Value)

	case yaml.SequenceNode:
		entries := make([]Entry, 0, len(node.Content))
		lines := make([]int, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return errors.NewDeclarationError(item.Line, "list entries must be names")
			}
			entries = append(entries, Entry{Name: item.Value})
			lines = append(lines, item.Line)
		}
		decl, err := build(PlainList, entries, lines)
		if err != nil {
			return err
		}
		*d = decl
		return nil

	case yaml.MappingNode:
		decl, err := fromMapping(node)
		if err != nil {
			return err
		}
		*d = decl
		return nil

	default:
		return errors.NewDeclarationError(node.Line, "unsupported yaml node")
	}
}

// fromMapping classifies a mapping by its keys: all numeric keys form a
// PlainList of the values, all string keys form an AliasMap.
func fromMapping(node *yaml.Node) (Declaration, error) {
	var (
		numeric, named int
		entries        = make([]Entry, 0, len(node.Content)/2)
		lines          = make([]int, 0, len(node.Content)/2)
	)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return Declaration{}, errors.NewDeclarationError(key.Line, "mapping entries must be scalar pairs")
		}
		if isNumericKey(key) {
			numeric++
			entries = append(entries, Entry{Name: value.Value})
		} else {
			named++
			entries = append(entries, Entry{Name: key.Value, Alias: value.Value})
		}
		lines = append(lines, key.Line)
		if numeric > 0 && named > 0 {
			return Declaration{}, errors.NewDeclarationError(key.Line, "mapping mixes numeric and named keys")
		}
	}
	if named > 0 {
		return build(AliasMap, entries, lines)
	}
	return build(PlainList, entries, lines)
}

func isNumericKey(key *yaml.Node) bool {
	if key.Tag == "!!int" {
		return true
	}
	_, err := strconv.Atoi(key.Value)
	return err == nil
}

// MarshalYAML writes the active variant back out.
func (d Declaration) MarshalYAML() (any, error) {
	if d.kind == PlainList {
		return d.Names(), nil
	}
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range d.entries {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Alias},
		)
	}
	return node, nil
}
